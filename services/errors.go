package services

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidReportType is returned for an unknown report "tipo"
var ErrInvalidReportType = errors.New("invalid report type")

// NotFoundError reports a missing entity referenced by id
type NotFoundError struct {
	Entity string // e.g. "city", "technician"
	ID     uint
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

// Code returns the API error code for the missing entity, e.g. CITY_NOT_FOUND
func (e *NotFoundError) Code() string {
	return strings.ToUpper(e.Entity) + "_NOT_FOUND"
}

// DependencyError reports that a delete is blocked by dependent rows
type DependencyError struct {
	Entity     string
	ID         uint
	Dependents map[string]int64
	Message    string
}

func (e *DependencyError) Error() string {
	return e.Message
}

// DuplicateError reports a unique-key clash detected before writing
type DuplicateError struct {
	Message string
}

func (e *DuplicateError) Error() string {
	return e.Message
}

// IsUniqueViolation reports whether a driver error is a unique-constraint
// failure (works with both PostgreSQL and SQLite)
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate") ||
		strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "unique")
}
