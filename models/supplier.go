package models

import "time"

// Supplier represents a kit manufacturer or distributor
type Supplier struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Nome      string    `gorm:"size:100;not null" json:"nome"`
	Tipo      string    `gorm:"size:50;not null" json:"tipo"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Supplier model
func (Supplier) TableName() string {
	return "fornecedores"
}

// Owner returns the contact owner reference for this supplier
func (s Supplier) Owner() ContactOwner {
	return SupplierOwner(s.ID)
}
