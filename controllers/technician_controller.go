package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/instalacoes-api/config"
	"github.com/kendall-kelly/instalacoes-api/models"
	"github.com/kendall-kelly/instalacoes-api/services"
	"gorm.io/gorm"
)

// CreateTechnicianRequest represents the request body for creating a technician
type CreateTechnicianRequest struct {
	Nome               string                  `json:"nome" binding:"required,max=100"`
	IdentificacaoCampo *string                 `json:"identificacao_campo" binding:"omitempty,max=50"`
	IdentificacaoApp   *string                 `json:"identificacao_app" binding:"omitempty,max=50"`
	Ativo              *bool                   `json:"ativo"`
	Contatos           []services.ContactInput `json:"contatos" binding:"omitempty,dive"`
}

// UpdateTechnicianRequest represents the request body for updating a technician
type UpdateTechnicianRequest struct {
	Nome               *string                 `json:"nome" binding:"omitempty,max=100"`
	IdentificacaoCampo *string                 `json:"identificacao_campo" binding:"omitempty,max=50"`
	IdentificacaoApp   *string                 `json:"identificacao_app" binding:"omitempty,max=50"`
	Ativo              *bool                   `json:"ativo"`
	Contatos           []services.ContactInput `json:"contatos" binding:"omitempty,dive"`
}

// TechnicianResponse is a technician with its contacts
type TechnicianResponse struct {
	models.Technician
	Contatos []models.Contact `json:"contatos"`
}

// ListTechnicians handles GET /api/tecnicos with an optional ativo filter
func ListTechnicians(c *gin.Context) {
	query := config.GetDB().Model(&models.Technician{})
	if raw := c.Query("ativo"); raw != "" {
		ativo, err := strconv.ParseBool(raw)
		if err != nil {
			respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "ativo must be true or false")
			return
		}
		query = query.Where("ativo = ?", ativo)
	}

	techs := []models.Technician{}
	if err := query.Order("nome ASC").Find(&techs).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to list technicians")
		return
	}
	respondData(c, http.StatusOK, techs)
}

// GetTechnician handles GET /api/tecnicos/:id, including contacts
func GetTechnician(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	db := config.GetDB()
	var tech models.Technician
	if err := db.First(&tech, id).Error; err != nil {
		respondLookupError(c, err, "technician", id)
		return
	}

	contacts, err := services.NewContactService(db).List(tech.Owner())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load contacts")
		return
	}
	respondData(c, http.StatusOK, TechnicianResponse{Technician: tech, Contatos: contacts})
}

// CreateTechnician handles POST /api/tecnicos
func CreateTechnician(c *gin.Context) {
	var req CreateTechnicianRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	tech := models.Technician{
		Nome:               strings.TrimSpace(req.Nome),
		IdentificacaoCampo: emptyToNil(req.IdentificacaoCampo),
		IdentificacaoApp:   emptyToNil(req.IdentificacaoApp),
		Ativo:              true,
	}
	if req.Ativo != nil {
		tech.Ativo = *req.Ativo
	}
	if tech.Nome == "" {
		respondValidationError(c, errors.New("nome must not be empty"))
		return
	}

	var contacts []models.Contact
	err := config.GetDB().Transaction(func(tx *gorm.DB) error {
		ativo := tech.Ativo
		if err := tx.Create(&tech).Error; err != nil {
			return err
		}
		// a false zero value is skipped on insert in favour of the column default
		if !ativo {
			if err := tx.Model(&tech).Update("ativo", false).Error; err != nil {
				return err
			}
		}
		contactSvc := services.NewContactService(tx)
		if err := contactSvc.Add(tech.Owner(), req.Contatos); err != nil {
			return err
		}
		var err error
		contacts, err = contactSvc.List(tech.Owner())
		return err
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondData(c, http.StatusCreated, TechnicianResponse{Technician: tech, Contatos: contacts})
}

// UpdateTechnician handles PUT /api/tecnicos/:id
func UpdateTechnician(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateTechnicianRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	db := config.GetDB()
	var tech models.Technician
	if err := db.First(&tech, id).Error; err != nil {
		respondLookupError(c, err, "technician", id)
		return
	}

	updates := make(map[string]interface{})
	if req.Nome != nil {
		nome := strings.TrimSpace(*req.Nome)
		if nome == "" {
			respondValidationError(c, errors.New("nome must not be empty"))
			return
		}
		updates["nome"] = nome
	}
	if req.IdentificacaoCampo != nil {
		updates["identificacao_campo"] = emptyToNil(req.IdentificacaoCampo)
	}
	if req.IdentificacaoApp != nil {
		updates["identificacao_app"] = emptyToNil(req.IdentificacaoApp)
	}
	if req.Ativo != nil {
		updates["ativo"] = *req.Ativo
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(&tech).Updates(updates).Error; err != nil {
				return err
			}
		}
		if req.Contatos != nil {
			return services.NewContactService(tx).Replace(tech.Owner(), req.Contatos)
		}
		return nil
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	GetTechnician(c)
}

// DeleteTechnician handles DELETE /api/tecnicos/:id. Blocked while any
// service order names the technician as field or app technician.
func DeleteTechnician(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := services.DeleteTechnician(config.GetDB(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{"message": "Técnico excluído com sucesso"})
}

// GetTechnicianPerformance handles GET /api/tecnicos/:id/desempenho - status
// breakdown of the orders where the technician acted in the field or in the app
func GetTechnicianPerformance(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	created, ok := parseDateRangeQuery(c)
	if !ok {
		return
	}

	db := config.GetDB()
	var tech models.Technician
	if err := db.First(&tech, id).Error; err != nil {
		respondLookupError(c, err, "technician", id)
		return
	}

	breakdown, err := services.NewMetricsService(db).StatusBreakdown(services.OrderFilter{
		TechnicianID: &tech.ID,
		AnyRole:      true,
		Created:      created,
	})
	if err != nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to compute technician metrics")
		return
	}

	respondData(c, http.StatusOK, gin.H{
		"tecnico_id":       tech.ID,
		"nome_tecnico":     tech.Nome,
		"total_ordens":     breakdown.Total,
		"total_instaladas": breakdown.Installed,
		"taxa_conclusao":   breakdown.CompletionRate,
		"por_status":       breakdown.ByStatus,
	})
}
