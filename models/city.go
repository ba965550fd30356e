package models

import "time"

// City represents a municipality where installations take place
type City struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Nome      string    `gorm:"size:100;not null;uniqueIndex:idx_cidades_nome_uf" json:"nome"`
	UF        string    `gorm:"size:2;not null;uniqueIndex:idx_cidades_nome_uf" json:"uf"` // always upper-case
	Regiao    *string   `gorm:"size:50" json:"regiao"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName specifies the table name for the City model
func (City) TableName() string {
	return "cidades"
}

// Label renders the city as "Name-UF"
func (c City) Label() string {
	return c.Nome + "-" + c.UF
}
