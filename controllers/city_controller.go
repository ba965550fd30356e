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

// CreateCityRequest represents the request body for creating a city
type CreateCityRequest struct {
	Nome   string  `json:"nome" binding:"required,max=100"`
	UF     string  `json:"uf" binding:"required,uf"`
	Regiao *string `json:"regiao" binding:"omitempty,max=50"`
}

// UpdateCityRequest represents the request body for updating a city.
// Absent fields are left unchanged.
type UpdateCityRequest struct {
	Nome   *string `json:"nome" binding:"omitempty,max=100"`
	UF     *string `json:"uf" binding:"omitempty,uf"`
	Regiao *string `json:"regiao" binding:"omitempty,max=50"`
}

// ListCities handles GET /api/cidades with optional uf, regiao and nome filters
func ListCities(c *gin.Context) {
	query := config.GetDB().Model(&models.City{})
	if uf := c.Query("uf"); uf != "" {
		query = query.Where("uf = ?", strings.ToUpper(uf))
	}
	if regiao := c.Query("regiao"); regiao != "" {
		query = query.Where("LOWER(regiao) LIKE ?", likePattern(regiao))
	}
	if nome := c.Query("nome"); nome != "" {
		query = query.Where("LOWER(nome) LIKE ?", likePattern(nome))
	}

	cities := []models.City{}
	if err := query.Order("nome ASC, uf ASC").Find(&cities).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to list cities")
		return
	}
	respondData(c, http.StatusOK, cities)
}

// GetCity handles GET /api/cidades/:id
func GetCity(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var city models.City
	if err := config.GetDB().First(&city, id).Error; err != nil {
		respondLookupError(c, err, "city", id)
		return
	}
	respondData(c, http.StatusOK, city)
}

// CreateCity handles POST /api/cidades. The UF is stored upper-case and
// (nome, uf) must be unique.
func CreateCity(c *gin.Context) {
	var req CreateCityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	city := models.City{
		Nome:   strings.TrimSpace(req.Nome),
		UF:     strings.ToUpper(req.UF),
		Regiao: emptyToNil(req.Regiao),
	}
	if city.Nome == "" {
		respondValidationError(c, errors.New("nome must not be empty"))
		return
	}

	err := config.GetDB().Transaction(func(tx *gorm.DB) error {
		if err := ensureCityUnique(tx, city.Nome, city.UF, 0); err != nil {
			return err
		}
		return tx.Create(&city).Error
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	respondData(c, http.StatusCreated, city)
}

// UpdateCity handles PUT /api/cidades/:id
func UpdateCity(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateCityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	db := config.GetDB()
	var city models.City
	if err := db.First(&city, id).Error; err != nil {
		respondLookupError(c, err, "city", id)
		return
	}

	updates := make(map[string]interface{})
	nome, uf := city.Nome, city.UF
	if req.Nome != nil {
		nome = strings.TrimSpace(*req.Nome)
		if nome == "" {
			respondValidationError(c, errors.New("nome must not be empty"))
			return
		}
		updates["nome"] = nome
	}
	if req.UF != nil {
		uf = strings.ToUpper(*req.UF)
		updates["uf"] = uf
	}
	if req.Regiao != nil {
		updates["regiao"] = emptyToNil(req.Regiao)
	}

	if len(updates) == 0 {
		respondData(c, http.StatusOK, city)
		return
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if req.Nome != nil || req.UF != nil {
			if err := ensureCityUnique(tx, nome, uf, city.ID); err != nil {
				return err
			}
		}
		return tx.Model(&city).Updates(updates).Error
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}

	if err := db.First(&city, id).Error; err != nil {
		respondLookupError(c, err, "city", id)
		return
	}
	respondData(c, http.StatusOK, city)
}

// DeleteCity handles DELETE /api/cidades/:id. Blocked while clients or
// service orders reference the city.
func DeleteCity(c *gin.Context) {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := services.DeleteCity(config.GetDB(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	respondData(c, http.StatusOK, gin.H{"message": "Cidade excluída com sucesso"})
}

// ListUFs handles GET /api/cidades/ufs - the distinct states in use
func ListUFs(c *gin.Context) {
	ufs := []string{}
	if err := config.GetDB().Model(&models.City{}).Distinct().Order("uf ASC").Pluck("uf", &ufs).Error; err != nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to list UFs")
		return
	}
	respondData(c, http.StatusOK, ufs)
}

// ListRegions handles GET /api/cidades/regioes - the distinct non-empty regions
func ListRegions(c *gin.Context) {
	regions := []string{}
	err := config.GetDB().Model(&models.City{}).
		Where("regiao IS NOT NULL AND regiao <> ''").
		Distinct().Order("regiao ASC").
		Pluck("regiao", &regions).Error
	if err != nil {
		respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", "Failed to list regions")
		return
	}
	respondData(c, http.StatusOK, regions)
}

func ensureCityUnique(tx *gorm.DB, nome, uf string, exceptID uint) error {
	var n int64
	err := tx.Model(&models.City{}).Where("nome = ? AND uf = ? AND id <> ?", nome, uf, exceptID).Count(&n).Error
	if err != nil {
		return err
	}
	if n > 0 {
		return &services.DuplicateError{Message: fmt.Sprintf("Cidade %s-%s já existe", nome, uf)}
	}
	return nil
}

// emptyToNil turns a blank optional string into NULL
func emptyToNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
