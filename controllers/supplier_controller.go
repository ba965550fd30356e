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

// CreateSupplierRequest represents the request body for creating a supplier
type CreateSupplierRequest struct {
	Nome     string                  `json:"nome" binding:"required,max=100"`
	Tipo     string                  `json:"tipo" binding:"required,max=50"`
	Contatos []services.ContactInput `json:"contatos" binding:"omitempty,dive"`
}

// UpdateSupplierRequest represents the request body for updating a supplier
type UpdateSupplierRequest struct {
	Nome     *string                 `json:"nome" binding:"omitempty,max=100"`
	Tipo     *string                 `json:"tipo" binding:"omitempty,max=50"`
	Contatos []services.ContactInput `json:"contatos" binding:"omitempty,dive"`
}

// SupplierResponse is a supplier with its contacts
type SupplierResponse struct {
	models.Supplier
	Contatos []models.Contact `json:"contatos"`
}

// ListSuppliers handles GET /api/fornecedores with an optional tipo filter
func ListSuppliers(c *gin.Context) {
	query := config.GetDB().Model(&models.Supplier{})
	if tipo := c.Query("tipo"); tipo != "" {
		query = query.Where("LOWER(tipo) = ?", strings.ToLower(tipo))
	}

	suppliers := []models.Supplier{}
	if err := query.Order("nome ASC").Find(&suppliers).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to list suppliers")
		return
	}
	respondData(c, http.StatusOK, suppliers)
}

// GetSupplier handles GET /api/fornecedores/:id, including contacts
func GetSupplier(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	db := config.GetDB()
	var supplier models.Supplier
	if err := db.First(&supplier, id).Error; err != nil {
		respondLookupError(c, err, "supplier", id)
		return
	}

	contacts, err := services.NewContactService(db).List(supplier.Owner())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to load contacts")
		return
	}
	respondData(c, http.StatusOK, SupplierResponse{Supplier: supplier, Contatos: contacts})
}

// CreateSupplier handles POST /api/fornecedores
func CreateSupplier(c *gin.Context) {
	var req CreateSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	supplier := models.Supplier{Nome: strings.TrimSpace(req.Nome), Tipo: strings.TrimSpace(req.Tipo)}
	if supplier.Nome == "" || supplier.Tipo == "" {
		respondValidationError(c, errors.New("nome and tipo must not be empty"))
		return
	}

	var contacts []models.Contact
	err := config.GetDB().Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&supplier).Error; err != nil {
			return err
		}
		contactSvc := services.NewContactService(tx)
		if err := contactSvc.Add(supplier.Owner(), req.Contatos); err != nil {
			return err
		}
		var err error
		contacts, err = contactSvc.List(supplier.Owner())
		return err
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondData(c, http.StatusCreated, SupplierResponse{Supplier: supplier, Contatos: contacts})
}

// UpdateSupplier handles PUT /api/fornecedores/:id
func UpdateSupplier(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateSupplierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	db := config.GetDB()
	var supplier models.Supplier
	if err := db.First(&supplier, id).Error; err != nil {
		respondLookupError(c, err, "supplier", id)
		return
	}

	updates := make(map[string]interface{})
	if req.Nome != nil {
		updates["nome"] = strings.TrimSpace(*req.Nome)
	}
	if req.Tipo != nil {
		updates["tipo"] = strings.TrimSpace(*req.Tipo)
	}
	for field, v := range updates {
		if v == "" {
			respondValidationError(c, errors.New(field+" must not be empty"))
			return
		}
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(&supplier).Updates(updates).Error; err != nil {
				return err
			}
		}
		if req.Contatos != nil {
			return services.NewContactService(tx).Replace(supplier.Owner(), req.Contatos)
		}
		return nil
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	GetSupplier(c)
}

// DeleteSupplier handles DELETE /api/fornecedores/:id. Blocked while kits reference it.
func DeleteSupplier(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := services.DeleteSupplier(config.GetDB(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{"message": "Fornecedor excluído com sucesso"})
}
