package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/kendall-kelly/instalacoes-api/middleware"
	"github.com/kendall-kelly/instalacoes-api/services"
	"github.com/kendall-kelly/instalacoes-api/utils"
	"gorm.io/gorm"
)

func respondData(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{
		"success": true,
		"data":    data,
	})
}

func respondError(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		"success": false,
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	})
}

func respondValidationError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"success": false,
		"error": gin.H{
			"code":    "VALIDATION_ERROR",
			"message": "Invalid request data",
			"details": err.Error(),
		},
	})
}

// respondServiceError maps domain and persistence errors to API errors.
// Anything unrecognised during a write is reported as DATABASE_ERROR with
// the raw error text.
func respondServiceError(c *gin.Context, err error) {
	var notFound *services.NotFoundError
	var dependency *services.DependencyError
	var duplicate *services.DuplicateError
	var badDate *utils.DateParseError

	switch {
	case errors.As(err, &notFound):
		respondError(c, http.StatusNotFound, notFound.Code(), notFound.Error())
	case errors.As(err, &dependency):
		c.JSON(http.StatusBadRequest, gin.H{
			"success": false,
			"error": gin.H{
				"code":    "HAS_DEPENDENTS",
				"message": dependency.Message,
				"details": dependency.Dependents,
			},
		})
	case errors.As(err, &duplicate):
		respondError(c, http.StatusConflict, "DUPLICATE", duplicate.Message)
	case errors.As(err, &badDate):
		respondError(c, http.StatusBadRequest, "INVALID_DATE", badDate.Error())
	case errors.Is(err, services.ErrInvalidReportType):
		respondError(c, http.StatusBadRequest, "INVALID_REPORT_TYPE", err.Error())
	case services.IsUniqueViolation(err):
		respondError(c, http.StatusConflict, "DUPLICATE", err.Error())
	default:
		middleware.RequestLogger(c).WithError(err).Error("Database operation failed")
		respondError(c, http.StatusBadRequest, "DATABASE_ERROR", err.Error())
	}
}

// respondLookupError answers a failed First() on a path id
func respondLookupError(c *gin.Context, err error, entity string, id uint) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		nf := &services.NotFoundError{Entity: entity, ID: id}
		respondError(c, http.StatusNotFound, nf.Code(), nf.Error())
		return
	}
	middleware.RequestLogger(c).WithError(err).Error("Database lookup failed")
	respondError(c, http.StatusInternalServerError, "DATABASE_ERROR", err.Error())
}

// parseIDParam reads a positive integer path parameter, answering 400 when malformed
func parseIDParam(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		respondError(c, http.StatusBadRequest, "INVALID_ID", "Invalid "+name+": "+c.Param(name))
		return 0, false
	}
	return uint(id), true
}

// parseOptionalUintQuery reads an optional positive integer query parameter
func parseOptionalUintQuery(c *gin.Context, name string) (*uint, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || v == 0 {
		respondError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid "+name+": "+raw)
		return nil, false
	}
	id := uint(v)
	return &id, true
}

// parseDateRangeQuery reads data_inicio / data_fim
func parseDateRangeQuery(c *gin.Context) (utils.DateRange, bool) {
	r, err := utils.ParseDateRange(c.Query("data_inicio"), c.Query("data_fim"))
	if err != nil {
		respondServiceError(c, err)
		return r, false
	}
	return r, true
}

// likePattern wraps term for a case-insensitive substring match on a LOWER() column
func likePattern(term string) string {
	return "%" + strings.ToLower(term) + "%"
}
