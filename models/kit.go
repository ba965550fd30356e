package models

import (
	"time"

	"gorm.io/gorm"
)

// Kit statuses
const (
	KitAvailable = "disponível"
	KitAllocated = "alocado"
	KitInstalled = "instalado"
)

// KitStatuses lists every accepted kit status
var KitStatuses = []string{KitAvailable, KitAllocated, KitInstalled}

// Kit is a hardware bundle tracked by serial number
type Kit struct {
	ID             uint        `gorm:"primaryKey" json:"id"`
	FornecedorID   uint        `gorm:"not null;index" json:"fornecedor_id"`
	Fornecedor     *Supplier   `gorm:"foreignKey:FornecedorID" json:"fornecedor,omitempty"`
	Serial         string      `gorm:"size:100;not null;uniqueIndex" json:"serial"`
	Status         string      `gorm:"size:20;not null" json:"status"`
	TecnicoID      *uint       `gorm:"index" json:"tecnico_id"`
	Tecnico        *Technician `gorm:"foreignKey:TecnicoID" json:"tecnico,omitempty"`
	OrdemServicoID *uint       `gorm:"index" json:"ordem_servico_id"`
	DataAlocacao   *time.Time  `json:"data_alocacao"`
	DataInstalacao *time.Time  `json:"data_instalacao"`
	Componentes    []Component `gorm:"foreignKey:KitID" json:"componentes,omitempty"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}

// TableName specifies the table name for the Kit model
func (Kit) TableName() string {
	return "kits"
}

// BeforeSave stores allocation and installation dates in UTC
func (k *Kit) BeforeSave(*gorm.DB) error {
	k.DataAlocacao = utcPtr(k.DataAlocacao)
	k.DataInstalacao = utcPtr(k.DataInstalacao)
	return nil
}
