package models

import "time"

// Component types
const (
	ComponentAntenna   = "antena"
	ComponentDish      = "parábola"
	ComponentLNB       = "lnb"
	ComponentConnector = "conector"
	ComponentScrew     = "parafuso"
	ComponentPole      = "haste"
	ComponentCable     = "cabo"
)

// ComponentTypes lists every accepted component type
var ComponentTypes = []string{
	ComponentAntenna, ComponentDish, ComponentLNB, ComponentConnector,
	ComponentScrew, ComponentPole, ComponentCable,
}

// Component is one part of a Kit
type Component struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	KitID      uint      `gorm:"not null;index" json:"kit_id"`
	Tipo       string    `gorm:"size:50;not null" json:"tipo"`
	Quantidade int       `gorm:"not null;default:1;check:quantidade >= 1" json:"quantidade"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName specifies the table name for the Component model
func (Component) TableName() string {
	return "componentes"
}
