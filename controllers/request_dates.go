package controllers

import (
	"strings"
	"time"

	"github.com/kendall-kelly/instalacoes-api/utils"
)

// parseRequiredDate parses an ISO-8601 body field
func parseRequiredDate(field, value string) (time.Time, error) {
	return utils.ParseISODate(field, value)
}

// parseOptionalDate parses an optional ISO-8601 body field; nil or blank gives nil
func parseOptionalDate(field string, value *string) (*time.Time, error) {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil, nil
	}
	t, err := utils.ParseISODate(field, *value)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
