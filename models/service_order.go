package models

import (
	"time"

	"gorm.io/gorm"
)

// Service order statuses
const (
	StatusPending   = "PENDENTE"
	StatusInstalled = "INSTALADA"
	StatusCanceled  = "CANCELADA"
)

// OrderStatuses lists every accepted service order status
var OrderStatuses = []string{StatusPending, StatusInstalled, StatusCanceled}

// ServiceOrder is a unit of field installation work
type ServiceOrder struct {
	ID             uint        `gorm:"primaryKey" json:"id"`
	NumeroOS       string      `gorm:"size:20;not null;uniqueIndex" json:"numero_os"`
	Status         string      `gorm:"size:20;not null;index" json:"status"`
	DataCriacao    time.Time   `gorm:"not null;index" json:"data_criacao"`
	DataVencimento time.Time   `gorm:"not null;index" json:"data_vencimento"`
	DataInstalacao *time.Time  `json:"data_instalacao"` // expected when status is INSTALADA, not enforced
	ClienteID      uint        `gorm:"not null;index" json:"cliente_id"`
	Cliente        *Client     `gorm:"foreignKey:ClienteID" json:"cliente,omitempty"`
	TecnicoCampoID uint        `gorm:"not null;index" json:"tecnico_campo_id"`
	TecnicoCampo   *Technician `gorm:"foreignKey:TecnicoCampoID" json:"tecnico_campo,omitempty"`
	TecnicoAppID   *uint       `gorm:"index" json:"tecnico_app_id"`
	TecnicoApp     *Technician `gorm:"foreignKey:TecnicoAppID" json:"tecnico_app,omitempty"`
	CidadeID       uint        `gorm:"not null;index" json:"cidade_id"`
	Cidade         *City       `gorm:"foreignKey:CidadeID" json:"cidade,omitempty"`
	FezNaRua       bool        `gorm:"not null;default:false" json:"fez_na_rua"`
	BaixouNoApp    bool        `gorm:"not null;default:false" json:"baixou_no_app"`
	Observacoes    *string     `gorm:"type:text" json:"observacoes"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// TableName specifies the table name for the ServiceOrder model
func (ServiceOrder) TableName() string {
	return "ordens_servico"
}

// IsInstalled reports whether the order reached the terminal INSTALADA status
func (o ServiceOrder) IsInstalled() bool {
	return o.Status == StatusInstalled
}

// MissingInstallationDate flags the inconsistent INSTALADA-without-date state
func (o ServiceOrder) MissingInstallationDate() bool {
	return o.IsInstalled() && o.DataInstalacao == nil
}

// BeforeSave stores every date in UTC
func (o *ServiceOrder) BeforeSave(*gorm.DB) error {
	o.DataCriacao = o.DataCriacao.UTC()
	o.DataVencimento = o.DataVencimento.UTC()
	o.DataInstalacao = utcPtr(o.DataInstalacao)
	return nil
}
