package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/instalacoes-api/config"
	"github.com/kendall-kelly/instalacoes-api/models"
	"github.com/kendall-kelly/instalacoes-api/services"
	"gorm.io/gorm"
)

// MinSearchTermLength is the shortest term accepted by the client search
const MinSearchTermLength = 3

// CreateClientRequest represents the request body for creating a client
type CreateClientRequest struct {
	NomeCompleto    string                  `json:"nome_completo" binding:"required,max=100"`
	CPF             *string                 `json:"cpf" binding:"omitempty,max=14"`
	Endereco        string                  `json:"endereco" binding:"required,max=200"`
	Bairro          string                  `json:"bairro" binding:"required,max=100"`
	CidadeID        uint                    `json:"cidade_id" binding:"required"`
	UF              string                  `json:"uf" binding:"required,uf"`
	CEP             *string                 `json:"cep" binding:"omitempty,max=10"`
	PontoReferencia *string                 `json:"ponto_referencia"`
	Contatos        []services.ContactInput `json:"contatos" binding:"omitempty,dive"`
}

// UpdateClientRequest represents the request body for updating a client.
// A present contatos array replaces every contact of the client.
type UpdateClientRequest struct {
	NomeCompleto    *string                 `json:"nome_completo" binding:"omitempty,max=100"`
	CPF             *string                 `json:"cpf" binding:"omitempty,max=14"`
	Endereco        *string                 `json:"endereco" binding:"omitempty,max=200"`
	Bairro          *string                 `json:"bairro" binding:"omitempty,max=100"`
	CidadeID        *uint                   `json:"cidade_id"`
	UF              *string                 `json:"uf" binding:"omitempty,uf"`
	CEP             *string                 `json:"cep" binding:"omitempty,max=10"`
	PontoReferencia *string                 `json:"ponto_referencia"`
	Contatos        []services.ContactInput `json:"contatos" binding:"omitempty,dive"`
}

// ClientResponse is a client with its contacts
type ClientResponse struct {
	models.Client
	Contatos []models.Contact `json:"contatos"`
}

// ListClients handles GET /api/clientes with optional nome and cidade_id filters
func ListClients(c *gin.Context) {
	cityID, ok := parseOptionalUintQuery(c, "cidade_id")
	if !ok {
		return
	}

	query := config.GetDB().Preload("Cidade")
	if nome := c.Query("nome"); nome != "" {
		query = query.Where("LOWER(nome_completo) LIKE ?", likePattern(nome))
	}
	if cityID != nil {
		query = query.Where("cidade_id = ?", *cityID)
	}

	clients := []models.Client{}
	if err := query.Order("nome_completo ASC").Find(&clients).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to list clients")
		return
	}
	respondData(c, http.StatusOK, clients)
}

// GetClient handles GET /api/clientes/:id, including the client's contacts
func GetClient(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	db := config.GetDB()
	var client models.Client
	if err := db.Preload("Cidade").First(&client, id).Error; err != nil {
		respondLookupError(c, err, "client", id)
		return
	}

	contacts, err := services.NewContactService(db).List(client.Owner())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load contacts")
		return
	}
	respondData(c, http.StatusOK, ClientResponse{Client: client, Contatos: contacts})
}

// CreateClient handles POST /api/clientes. The client and its contacts are
// stored in one transaction.
func CreateClient(c *gin.Context) {
	var req CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	client := models.Client{
		NomeCompleto:    strings.TrimSpace(req.NomeCompleto),
		CPF:             emptyToNil(req.CPF),
		Endereco:        req.Endereco,
		Bairro:          req.Bairro,
		CidadeID:        req.CidadeID,
		UF:              strings.ToUpper(req.UF),
		CEP:             emptyToNil(req.CEP),
		PontoReferencia: emptyToNil(req.PontoReferencia),
	}
	if client.NomeCompleto == "" {
		respondValidationError(c, errors.New("nome_completo must not be empty"))
		return
	}

	var contacts []models.Contact
	err := config.GetDB().Transaction(func(tx *gorm.DB) error {
		if err := services.EnsureExists(tx, &models.City{}, "city", client.CidadeID); err != nil {
			return err
		}
		if err := ensureCPFUnique(tx, client.CPF, 0); err != nil {
			return err
		}
		if err := tx.Create(&client).Error; err != nil {
			return err
		}

		contactSvc := services.NewContactService(tx)
		if err := contactSvc.Add(client.Owner(), req.Contatos); err != nil {
			return err
		}
		var err error
		contacts, err = contactSvc.List(client.Owner())
		return err
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondData(c, http.StatusCreated, ClientResponse{Client: client, Contatos: contacts})
}

// UpdateClient handles PUT /api/clientes/:id
func UpdateClient(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	db := config.GetDB()
	var client models.Client
	if err := db.First(&client, id).Error; err != nil {
		respondLookupError(c, err, "client", id)
		return
	}

	updates := make(map[string]interface{})
	if req.NomeCompleto != nil {
		nome := strings.TrimSpace(*req.NomeCompleto)
		if nome == "" {
			respondValidationError(c, errors.New("nome_completo must not be empty"))
			return
		}
		updates["nome_completo"] = nome
	}
	if req.CPF != nil {
		updates["cpf"] = emptyToNil(req.CPF)
	}
	if req.Endereco != nil {
		updates["endereco"] = *req.Endereco
	}
	if req.Bairro != nil {
		updates["bairro"] = *req.Bairro
	}
	if req.CidadeID != nil {
		updates["cidade_id"] = *req.CidadeID
	}
	if req.UF != nil {
		updates["uf"] = strings.ToUpper(*req.UF)
	}
	if req.CEP != nil {
		updates["cep"] = emptyToNil(req.CEP)
	}
	if req.PontoReferencia != nil {
		updates["ponto_referencia"] = emptyToNil(req.PontoReferencia)
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if req.CidadeID != nil {
			if err := services.EnsureExists(tx, &models.City{}, "city", *req.CidadeID); err != nil {
				return err
			}
		}
		if req.CPF != nil {
			if err := ensureCPFUnique(tx, emptyToNil(req.CPF), client.ID); err != nil {
				return err
			}
		}
		if len(updates) > 0 {
			if err := tx.Model(&client).Updates(updates).Error; err != nil {
				return err
			}
		}
		if req.Contatos != nil {
			return services.NewContactService(tx).Replace(client.Owner(), req.Contatos)
		}
		return nil
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	GetClient(c)
}

// DeleteClient handles DELETE /api/clientes/:id, removing its contacts too
func DeleteClient(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := services.DeleteClient(config.GetDB(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{"message": "Cliente excluído com sucesso"})
}

// SearchClients handles GET /api/clientes/busca?termo= - matches name, CPF
// or any contact value of the client
func SearchClients(c *gin.Context) {
	term := strings.TrimSpace(c.Query("termo"))
	if len([]rune(term)) < MinSearchTermLength {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Termo de busca deve ter pelo menos 3 caracteres")
		return
	}

	db := config.GetDB()
	ownerIDs, err := services.NewContactService(db).OwnersMatching(models.OwnerClient, term)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to search clients")
		return
	}

	pattern := likePattern(term)
	query := db.Preload("Cidade").Where("LOWER(nome_completo) LIKE ? OR LOWER(cpf) LIKE ?", pattern, pattern)
	if len(ownerIDs) > 0 {
		query = query.Or("id IN ?", ownerIDs)
	}

	clients := []models.Client{}
	if err := query.Order("nome_completo ASC").Find(&clients).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to search clients")
		return
	}
	respondData(c, http.StatusOK, clients)
}

func ensureCPFUnique(tx *gorm.DB, cpf *string, exceptID uint) error {
	if cpf == nil {
		return nil
	}
	var n int64
	if err := tx.Model(&models.Client{}).Where("cpf = ? AND id <> ?", *cpf, exceptID).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return &services.DuplicateError{Message: "Já existe um cliente com o CPF " + *cpf}
	}
	return nil
}
