package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

// OwnerKind tags which entity a contact belongs to
type OwnerKind string

const (
	OwnerClient     OwnerKind = "cliente"
	OwnerTechnician OwnerKind = "tecnico"
	OwnerSupplier   OwnerKind = "fornecedor"
)

// Valid reports whether k is one of the known owner kinds
func (k OwnerKind) Valid() bool {
	switch k {
	case OwnerClient, OwnerTechnician, OwnerSupplier:
		return true
	}
	return false
}

// ContactOwner is a typed reference to the entity that owns a contact.
// Build it with ClientOwner, TechnicianOwner or SupplierOwner.
type ContactOwner struct {
	Kind OwnerKind
	ID   uint
}

// ClientOwner references a Client as contact owner
func ClientOwner(id uint) ContactOwner { return ContactOwner{Kind: OwnerClient, ID: id} }

// TechnicianOwner references a Technician as contact owner
func TechnicianOwner(id uint) ContactOwner { return ContactOwner{Kind: OwnerTechnician, ID: id} }

// SupplierOwner references a Supplier as contact owner
func SupplierOwner(id uint) ContactOwner { return ContactOwner{Kind: OwnerSupplier, ID: id} }

func (o ContactOwner) String() string {
	return fmt.Sprintf("%s:%d", o.Kind, o.ID)
}

// Scope restricts a contacts query to this owner
func (o ContactOwner) Scope(db *gorm.DB) *gorm.DB {
	return db.Where("entidade_tipo = ? AND entidade_id = ?", string(o.Kind), o.ID)
}

// Contact types
const (
	ContactPhone     = "telefone"
	ContactMobile    = "celular"
	ContactWhatsApp  = "whatsapp"
	ContactEmail     = "email"
	ContactInstagram = "instagram"
)

// ContactTypes lists every accepted contact type
var ContactTypes = []string{ContactPhone, ContactMobile, ContactWhatsApp, ContactEmail, ContactInstagram}

// NoContactPlaceholder is shown in reports when an owner has no contact at all
const NoContactPlaceholder = "Sem contato"

// Contact is a communication channel of a client, technician or supplier.
// There is no foreign key: the owner is resolved by (entidade_tipo, entidade_id).
type Contact struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	EntidadeTipo OwnerKind `gorm:"size:20;not null;index:idx_contatos_entidade" json:"entidade_tipo"`
	EntidadeID   uint      `gorm:"not null;index:idx_contatos_entidade" json:"entidade_id"`
	Tipo         string    `gorm:"size:20;not null" json:"tipo"`
	Valor        string    `gorm:"size:100;not null" json:"valor"`
	Principal    bool      `gorm:"not null;default:false" json:"principal"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Contact model
func (Contact) TableName() string {
	return "contatos"
}

// Owner returns the typed owner reference of the contact
func (c Contact) Owner() ContactOwner {
	return ContactOwner{Kind: c.EntidadeTipo, ID: c.EntidadeID}
}

// SetOwner points the contact at owner
func (c *Contact) SetOwner(owner ContactOwner) {
	c.EntidadeTipo = owner.Kind
	c.EntidadeID = owner.ID
}
