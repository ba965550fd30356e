package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/instalacoes-api/config"
	"github.com/kendall-kelly/instalacoes-api/models"
	"github.com/kendall-kelly/instalacoes-api/services"
	"gorm.io/gorm"
)

// ComponentInput is one component in a kit payload. Quantidade defaults to 1.
type ComponentInput struct {
	Tipo       string `json:"tipo" binding:"required,oneof=antena parábola lnb conector parafuso haste cabo"`
	Quantidade *int   `json:"quantidade"`
}

func (in ComponentInput) quantity() (int, error) {
	if in.Quantidade == nil {
		return 1, nil
	}
	if *in.Quantidade < 1 {
		return 0, fmt.Errorf("quantidade must be at least 1, got %d", *in.Quantidade)
	}
	return *in.Quantidade, nil
}

// CreateKitRequest represents the request body for creating a kit
type CreateKitRequest struct {
	FornecedorID   uint             `json:"fornecedor_id" binding:"required"`
	Serial         string           `json:"serial" binding:"required,max=100"`
	Status         string           `json:"status" binding:"required,oneof=disponível alocado instalado"`
	TecnicoID      *uint            `json:"tecnico_id"`
	OrdemServicoID *uint            `json:"ordem_servico_id"`
	DataAlocacao   *string          `json:"data_alocacao"`
	DataInstalacao *string          `json:"data_instalacao"`
	Componentes    []ComponentInput `json:"componentes" binding:"omitempty,dive"`
}

// UpdateKitRequest represents the request body for updating a kit.
// A zero tecnico_id or ordem_servico_id detaches the kit; a blank date clears it.
type UpdateKitRequest struct {
	FornecedorID   *uint   `json:"fornecedor_id"`
	Serial         *string `json:"serial" binding:"omitempty,max=100"`
	Status         *string `json:"status" binding:"omitempty,oneof=disponível alocado instalado"`
	TecnicoID      *uint   `json:"tecnico_id"`
	OrdemServicoID *uint   `json:"ordem_servico_id"`
	DataAlocacao   *string `json:"data_alocacao"`
	DataInstalacao *string `json:"data_instalacao"`
}

// ListKits handles GET /api/kits with optional status, fornecedor_id,
// tecnico_id and ordem_servico_id filters
func ListKits(c *gin.Context) {
	query := config.GetDB().Preload("Componentes")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	for _, column := range []string{"fornecedor_id", "tecnico_id", "ordem_servico_id"} {
		id, ok := parseOptionalUintQuery(c, column)
		if !ok {
			return
		}
		if id != nil {
			query = query.Where(column+" = ?", *id)
		}
	}

	kits := []models.Kit{}
	if err := query.Order("serial ASC").Find(&kits).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to list kits")
		return
	}
	respondData(c, http.StatusOK, kits)
}

// GetKit handles GET /api/kits/:id with supplier, technician and components
func GetKit(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var kit models.Kit
	err := config.GetDB().Preload("Fornecedor").Preload("Tecnico").Preload("Componentes").First(&kit, id).Error
	if err != nil {
		respondLookupError(c, err, "kit", id)
		return
	}
	respondData(c, http.StatusOK, kit)
}

// CreateKit handles POST /api/kits. Serials are globally unique.
func CreateKit(c *gin.Context) {
	var req CreateKitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	kit := models.Kit{
		FornecedorID:   req.FornecedorID,
		Serial:         strings.TrimSpace(req.Serial),
		Status:         req.Status,
		TecnicoID:      zeroToNil(req.TecnicoID),
		OrdemServicoID: zeroToNil(req.OrdemServicoID),
	}
	if kit.Serial == "" {
		respondValidationError(c, errors.New("serial must not be empty"))
		return
	}

	var err error
	if kit.DataAlocacao, err = parseOptionalDate("data_alocacao", req.DataAlocacao); err != nil {
		respondServiceError(c, err)
		return
	}
	if kit.DataInstalacao, err = parseOptionalDate("data_instalacao", req.DataInstalacao); err != nil {
		respondServiceError(c, err)
		return
	}

	components := make([]models.Component, 0, len(req.Componentes))
	for _, in := range req.Componentes {
		qty, err := in.quantity()
		if err != nil {
			respondValidationError(c, err)
			return
		}
		components = append(components, models.Component{Tipo: in.Tipo, Quantidade: qty})
	}

	err = config.GetDB().Transaction(func(tx *gorm.DB) error {
		if err := checkKitReferences(tx, &kit.FornecedorID, kit.TecnicoID, kit.OrdemServicoID); err != nil {
			return err
		}
		if err := ensureSerialUnique(tx, kit.Serial, 0); err != nil {
			return err
		}
		if err := tx.Create(&kit).Error; err != nil {
			return err
		}
		for i := range components {
			components[i].KitID = kit.ID
			if err := tx.Create(&components[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	kit.Componentes = components
	respondData(c, http.StatusCreated, kit)
}

// UpdateKit handles PUT /api/kits/:id
func UpdateKit(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateKitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	db := config.GetDB()
	var kit models.Kit
	if err := db.First(&kit, id).Error; err != nil {
		respondLookupError(c, err, "kit", id)
		return
	}

	updates := make(map[string]interface{})
	if req.FornecedorID != nil {
		updates["fornecedor_id"] = *req.FornecedorID
	}
	if req.Serial != nil {
		serial := strings.TrimSpace(*req.Serial)
		if serial == "" {
			respondValidationError(c, errors.New("serial must not be empty"))
			return
		}
		updates["serial"] = serial
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	techID := zeroToNil(req.TecnicoID)
	if req.TecnicoID != nil {
		updates["tecnico_id"] = techID
	}
	orderID := zeroToNil(req.OrdemServicoID)
	if req.OrdemServicoID != nil {
		updates["ordem_servico_id"] = orderID
	}
	if req.DataAlocacao != nil {
		t, err := parseOptionalDate("data_alocacao", req.DataAlocacao)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		updates["data_alocacao"] = t
	}
	if req.DataInstalacao != nil {
		t, err := parseOptionalDate("data_instalacao", req.DataInstalacao)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		updates["data_instalacao"] = t
	}

	if len(updates) > 0 {
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := checkKitReferences(tx, req.FornecedorID, techID, orderID); err != nil {
				return err
			}
			if serial, ok := updates["serial"].(string); ok {
				if err := ensureSerialUnique(tx, serial, kit.ID); err != nil {
					return err
				}
			}
			return tx.Model(&kit).Updates(updates).Error
		})
		if err != nil {
			respondServiceError(c, err)
			return
		}
	}

	GetKit(c)
}

// DeleteKit handles DELETE /api/kits/:id, removing its components too
func DeleteKit(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := services.DeleteKit(config.GetDB(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{"message": "Kit excluído com sucesso"})
}

// AddKitComponent handles POST /api/kits/:id/componentes
func AddKitComponent(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req ComponentInput
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}
	qty, err := req.quantity()
	if err != nil {
		respondValidationError(c, err)
		return
	}

	component := models.Component{KitID: id, Tipo: req.Tipo, Quantidade: qty}
	err = config.GetDB().Transaction(func(tx *gorm.DB) error {
		if err := services.EnsureExists(tx, &models.Kit{}, "kit", id); err != nil {
			return err
		}
		return tx.Create(&component).Error
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondData(c, http.StatusCreated, component)
}

// DeleteKitComponent handles DELETE /api/kits/:id/componentes/:componente_id
func DeleteKitComponent(c *gin.Context) {
	kitID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}
	componentID, ok := parseIDParam(c, "componente_id")
	if !ok {
		return
	}

	result := config.GetDB().Where("id = ? AND kit_id = ?", componentID, kitID).Delete(&models.Component{})
	if result.Error != nil {
		respondServiceError(c, result.Error)
		return
	}
	if result.RowsAffected == 0 {
		respondError(c, http.StatusNotFound, "COMPONENT_NOT_FOUND",
			fmt.Sprintf("component %d not found in kit %d", componentID, kitID))
		return
	}
	respondData(c, http.StatusOK, gin.H{"message": "Componente removido com sucesso"})
}

func checkKitReferences(tx *gorm.DB, supplierID, techID, orderID *uint) error {
	if supplierID != nil {
		if err := services.EnsureExists(tx, &models.Supplier{}, "supplier", *supplierID); err != nil {
			return err
		}
	}
	if techID != nil {
		if err := services.EnsureExists(tx, &models.Technician{}, "technician", *techID); err != nil {
			return err
		}
	}
	if orderID != nil {
		if err := services.EnsureExists(tx, &models.ServiceOrder{}, "order", *orderID); err != nil {
			return err
		}
	}
	return nil
}

func ensureSerialUnique(tx *gorm.DB, serial string, exceptID uint) error {
	var n int64
	if err := tx.Model(&models.Kit{}).Where("serial = ? AND id <> ?", serial, exceptID).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return &services.DuplicateError{Message: "Já existe um kit com o serial " + serial}
	}
	return nil
}

// zeroToNil treats an explicit 0 id as "unset"
func zeroToNil(id *uint) *uint {
	if id == nil || *id == 0 {
		return nil
	}
	return id
}
