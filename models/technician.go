package models

import "time"

// Technician represents a field technician. The same person may also close
// orders through the mobile app (identificacao_app).
type Technician struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	Nome               string    `gorm:"size:100;not null" json:"nome"`
	IdentificacaoCampo *string   `gorm:"size:50" json:"identificacao_campo"`
	IdentificacaoApp   *string   `gorm:"size:50" json:"identificacao_app"`
	Ativo              bool      `gorm:"not null;default:true" json:"ativo"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Technician model
func (Technician) TableName() string {
	return "tecnicos"
}

// Owner returns the contact owner reference for this technician
func (t Technician) Owner() ContactOwner {
	return TechnicianOwner(t.ID)
}
