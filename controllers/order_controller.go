package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/instalacoes-api/config"
	"github.com/kendall-kelly/instalacoes-api/middleware"
	"github.com/kendall-kelly/instalacoes-api/models"
	"github.com/kendall-kelly/instalacoes-api/services"
	"gorm.io/gorm"
)

// CreateOrderRequest represents the request body for creating a service order
type CreateOrderRequest struct {
	NumeroOS       string  `json:"numero_os" binding:"required,max=20"`
	Status         string  `json:"status" binding:"required,oneof=PENDENTE INSTALADA CANCELADA"`
	DataCriacao    string  `json:"data_criacao" binding:"required"`
	DataVencimento string  `json:"data_vencimento" binding:"required"`
	DataInstalacao *string `json:"data_instalacao"`
	ClienteID      uint    `json:"cliente_id" binding:"required"`
	TecnicoCampoID uint    `json:"tecnico_campo_id" binding:"required"`
	TecnicoAppID   *uint   `json:"tecnico_app_id"`
	CidadeID       uint    `json:"cidade_id" binding:"required"`
	FezNaRua       bool    `json:"fez_na_rua"`
	BaixouNoApp    bool    `json:"baixou_no_app"`
	Observacoes    *string `json:"observacoes"`
}

// UpdateOrderRequest represents the request body for updating a service order.
// A blank data_instalacao clears it; tecnico_app_id 0 removes the app technician.
type UpdateOrderRequest struct {
	NumeroOS       *string `json:"numero_os" binding:"omitempty,max=20"`
	Status         *string `json:"status" binding:"omitempty,oneof=PENDENTE INSTALADA CANCELADA"`
	DataCriacao    *string `json:"data_criacao"`
	DataVencimento *string `json:"data_vencimento"`
	DataInstalacao *string `json:"data_instalacao"`
	ClienteID      *uint   `json:"cliente_id"`
	TecnicoCampoID *uint   `json:"tecnico_campo_id"`
	TecnicoAppID   *uint   `json:"tecnico_app_id"`
	CidadeID       *uint   `json:"cidade_id"`
	FezNaRua       *bool   `json:"fez_na_rua"`
	BaixouNoApp    *bool   `json:"baixou_no_app"`
	Observacoes    *string `json:"observacoes"`
}

// ListOrders handles GET /api/ordens with optional status, tecnico_id,
// cidade_id, data_inicio and data_fim filters
func ListOrders(c *gin.Context) {
	filter, ok := parseOrderFilter(c)
	if !ok {
		return
	}

	orders := []models.ServiceOrder{}
	err := config.GetDB().
		Preload("Cliente").Preload("TecnicoCampo").Preload("TecnicoApp").Preload("Cidade").
		Scopes(filter.Scope).
		Order("data_criacao DESC, id DESC").
		Find(&orders).Error
	if err != nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to list orders")
		return
	}
	respondData(c, http.StatusOK, orders)
}

// GetOrder handles GET /api/ordens/:id
func GetOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var order models.ServiceOrder
	err := config.GetDB().
		Preload("Cliente").Preload("TecnicoCampo").Preload("TecnicoApp").Preload("Cidade").
		First(&order, id).Error
	if err != nil {
		respondLookupError(c, err, "order", id)
		return
	}
	respondData(c, http.StatusOK, order)
}

// CreateOrder handles POST /api/ordens
func CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	order := models.ServiceOrder{
		NumeroOS:       strings.TrimSpace(req.NumeroOS),
		Status:         req.Status,
		ClienteID:      req.ClienteID,
		TecnicoCampoID: req.TecnicoCampoID,
		TecnicoAppID:   zeroToNil(req.TecnicoAppID),
		CidadeID:       req.CidadeID,
		FezNaRua:       req.FezNaRua,
		BaixouNoApp:    req.BaixouNoApp,
		Observacoes:    emptyToNil(req.Observacoes),
	}
	if order.NumeroOS == "" {
		respondValidationError(c, errors.New("numero_os must not be empty"))
		return
	}

	var err error
	if order.DataCriacao, err = parseRequiredDate("data_criacao", req.DataCriacao); err != nil {
		respondServiceError(c, err)
		return
	}
	if order.DataVencimento, err = parseRequiredDate("data_vencimento", req.DataVencimento); err != nil {
		respondServiceError(c, err)
		return
	}
	if order.DataInstalacao, err = parseOptionalDate("data_instalacao", req.DataInstalacao); err != nil {
		respondServiceError(c, err)
		return
	}

	err = config.GetDB().Transaction(func(tx *gorm.DB) error {
		if err := checkOrderReferences(tx, &order.ClienteID, &order.TecnicoCampoID, order.TecnicoAppID, &order.CidadeID); err != nil {
			return err
		}
		if err := ensureOrderNumberUnique(tx, order.NumeroOS, 0); err != nil {
			return err
		}
		return tx.Create(&order).Error
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	warnMissingInstallationDate(c, &order)
	respondData(c, http.StatusCreated, order)
}

// UpdateOrder handles PUT /api/ordens/:id. Only fields present in the body change.
func UpdateOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	db := config.GetDB()
	var order models.ServiceOrder
	if err := db.First(&order, id).Error; err != nil {
		respondLookupError(c, err, "order", id)
		return
	}

	updates := make(map[string]interface{})
	if req.NumeroOS != nil {
		numero := strings.TrimSpace(*req.NumeroOS)
		if numero == "" {
			respondValidationError(c, errors.New("numero_os must not be empty"))
			return
		}
		updates["numero_os"] = numero
	}
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	for field, value := range map[string]*string{"data_criacao": req.DataCriacao, "data_vencimento": req.DataVencimento} {
		if value == nil {
			continue
		}
		t, err := parseRequiredDate(field, *value)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		updates[field] = t
	}
	if req.DataInstalacao != nil {
		t, err := parseOptionalDate("data_instalacao", req.DataInstalacao)
		if err != nil {
			respondServiceError(c, err)
			return
		}
		updates["data_instalacao"] = t
	}
	if req.ClienteID != nil {
		updates["cliente_id"] = *req.ClienteID
	}
	if req.TecnicoCampoID != nil {
		updates["tecnico_campo_id"] = *req.TecnicoCampoID
	}
	appID := zeroToNil(req.TecnicoAppID)
	if req.TecnicoAppID != nil {
		updates["tecnico_app_id"] = appID
	}
	if req.CidadeID != nil {
		updates["cidade_id"] = *req.CidadeID
	}
	if req.FezNaRua != nil {
		updates["fez_na_rua"] = *req.FezNaRua
	}
	if req.BaixouNoApp != nil {
		updates["baixou_no_app"] = *req.BaixouNoApp
	}
	if req.Observacoes != nil {
		updates["observacoes"] = emptyToNil(req.Observacoes)
	}

	if len(updates) > 0 {
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := checkOrderReferences(tx, req.ClienteID, req.TecnicoCampoID, appID, req.CidadeID); err != nil {
				return err
			}
			if numero, ok := updates["numero_os"].(string); ok {
				if err := ensureOrderNumberUnique(tx, numero, order.ID); err != nil {
					return err
				}
			}
			return tx.Model(&order).Updates(updates).Error
		})
		if err != nil {
			respondServiceError(c, err)
			return
		}
	}

	if err := db.First(&order, id).Error; err != nil {
		respondLookupError(c, err, "order", id)
		return
	}
	warnMissingInstallationDate(c, &order)
	GetOrder(c)
}

// DeleteOrder handles DELETE /api/ordens/:id
func DeleteOrder(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := services.DeleteOrder(config.GetDB(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{"message": "Ordem de serviço excluída com sucesso"})
}

// ListUpcomingOrders handles GET /api/ordens/proximas-vencimento?dias=N -
// orders not yet installed due within N days (default 7), overdue included
func ListUpcomingOrders(c *gin.Context) {
	days := services.DefaultUpcomingDays
	if raw := c.Query("dias"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 0 {
			respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "dias must be a non-negative integer")
			return
		}
		days = v
	}

	orders, err := services.NewMetricsService(config.GetDB()).UpcomingDue(days, time.Now())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to list upcoming orders")
		return
	}
	respondData(c, http.StatusOK, orders)
}

// GetOrderMetrics handles GET /api/ordens/metricas - totals by status and
// completion rate, optionally scoped like ListOrders
func GetOrderMetrics(c *gin.Context) {
	filter, ok := parseOrderFilter(c)
	if !ok {
		return
	}

	breakdown, err := services.NewMetricsService(config.GetDB()).StatusBreakdown(filter)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to compute order metrics")
		return
	}
	respondData(c, http.StatusOK, breakdown)
}

func parseOrderFilter(c *gin.Context) (services.OrderFilter, bool) {
	var f services.OrderFilter
	var ok bool

	f.Status = c.Query("status")
	if f.Status != "" && !isOrderStatus(f.Status) {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid status: "+f.Status)
		return f, false
	}
	if f.TechnicianID, ok = parseOptionalUintQuery(c, "tecnico_id"); !ok {
		return f, false
	}
	if f.CityID, ok = parseOptionalUintQuery(c, "cidade_id"); !ok {
		return f, false
	}
	if f.Created, ok = parseDateRangeQuery(c); !ok {
		return f, false
	}
	return f, true
}

func isOrderStatus(s string) bool {
	for _, status := range models.OrderStatuses {
		if s == status {
			return true
		}
	}
	return false
}

func checkOrderReferences(tx *gorm.DB, clientID, fieldTechID, appTechID, cityID *uint) error {
	if clientID != nil {
		if err := services.EnsureExists(tx, &models.Client{}, "client", *clientID); err != nil {
			return err
		}
	}
	if fieldTechID != nil {
		if err := services.EnsureExists(tx, &models.Technician{}, "technician", *fieldTechID); err != nil {
			return err
		}
	}
	if appTechID != nil {
		if err := services.EnsureExists(tx, &models.Technician{}, "technician", *appTechID); err != nil {
			return err
		}
	}
	if cityID != nil {
		if err := services.EnsureExists(tx, &models.City{}, "city", *cityID); err != nil {
			return err
		}
	}
	return nil
}

func ensureOrderNumberUnique(tx *gorm.DB, numero string, exceptID uint) error {
	var n int64
	if err := tx.Model(&models.ServiceOrder{}).Where("numero_os = ? AND id <> ?", numero, exceptID).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return &services.DuplicateError{Message: "Já existe uma ordem de serviço com o número " + numero}
	}
	return nil
}

// warnMissingInstallationDate logs INSTALADA orders stored without data_instalacao.
// The state is accepted; it only shows up in the logs.
func warnMissingInstallationDate(c *gin.Context, order *models.ServiceOrder) {
	if order.MissingInstallationDate() {
		middleware.RequestLogger(c).WithField("numero_os", order.NumeroOS).
			Warn("Order marked INSTALADA without data_instalacao")
	}
}
