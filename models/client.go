package models

import "time"

// Client represents the customer at whose address an installation happens
type Client struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	NomeCompleto    string    `gorm:"size:100;not null;index" json:"nome_completo"`
	CPF             *string   `gorm:"size:14;uniqueIndex" json:"cpf"` // nullable, unique when present
	Endereco        string    `gorm:"size:200;not null" json:"endereco"`
	Bairro          string    `gorm:"size:100;not null" json:"bairro"`
	CidadeID        uint      `gorm:"not null;index" json:"cidade_id"`
	Cidade          *City     `gorm:"foreignKey:CidadeID" json:"cidade,omitempty"`
	UF              string    `gorm:"size:2;not null" json:"uf"`
	CEP             *string   `gorm:"size:10" json:"cep"`
	PontoReferencia *string   `gorm:"type:text" json:"ponto_referencia"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Client model
func (Client) TableName() string {
	return "clientes"
}

// Owner returns the contact owner reference for this client
func (c Client) Owner() ContactOwner {
	return ClientOwner(c.ID)
}
