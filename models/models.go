// Package models holds the GORM entities of the installation orders domain.
package models

import "time"

// All returns every model, in dependency order, for auto-migration
func All() []interface{} {
	return []interface{}{
		&City{},
		&Client{},
		&Technician{},
		&Supplier{},
		&ServiceOrder{},
		&Kit{},
		&Component{},
		&Contact{},
	}
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
