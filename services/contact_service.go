package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kendall-kelly/instalacoes-api/models"
	"gorm.io/gorm"
)

// ContactInput is the request shape of one contact inside an owner payload
type ContactInput struct {
	Tipo      string `json:"tipo" binding:"required,oneof=telefone celular whatsapp email instagram"`
	Valor     string `json:"valor" binding:"required,max=100"`
	Principal bool   `json:"principal"`
}

// ContactService manages the contacts of clients, technicians and suppliers
type ContactService struct {
	db *gorm.DB
}

// NewContactService creates a contact service bound to db (which may be a transaction)
func NewContactService(db *gorm.DB) *ContactService {
	return &ContactService{db: db}
}

// List returns the owner's contacts in insertion order
func (s *ContactService) List(owner models.ContactOwner) ([]models.Contact, error) {
	contacts := []models.Contact{}
	if err := s.db.Scopes(owner.Scope).Order("id ASC").Find(&contacts).Error; err != nil {
		return nil, fmt.Errorf("failed to list contacts of %s: %w", owner, err)
	}
	return contacts, nil
}

// Add stores new contacts for owner
func (s *ContactService) Add(owner models.ContactOwner, inputs []ContactInput) error {
	if !owner.Kind.Valid() {
		return fmt.Errorf("invalid contact owner kind %q", owner.Kind)
	}
	for _, in := range inputs {
		contact := models.Contact{
			Tipo:      in.Tipo,
			Valor:     in.Valor,
			Principal: in.Principal,
		}
		contact.SetOwner(owner)
		if err := s.db.Create(&contact).Error; err != nil {
			return fmt.Errorf("failed to create contact for %s: %w", owner, err)
		}
	}
	return nil
}

// Replace drops all contacts of owner and stores inputs in their place
func (s *ContactService) Replace(owner models.ContactOwner, inputs []ContactInput) error {
	if _, err := s.DeleteAll(owner); err != nil {
		return err
	}
	return s.Add(owner, inputs)
}

// DeleteAll removes every contact of owner. Contacts carry no foreign key,
// so callers deleting an owner must call this explicitly.
func (s *ContactService) DeleteAll(owner models.ContactOwner) (int64, error) {
	result := s.db.Scopes(owner.Scope).Delete(&models.Contact{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete contacts of %s: %w", owner, result.Error)
	}
	return result.RowsAffected, nil
}

// Primary resolves the contact to show for owner: the one flagged principal,
// else the first one stored, else nil.
func (s *ContactService) Primary(owner models.ContactOwner) (*models.Contact, error) {
	var contact models.Contact
	err := s.db.Scopes(owner.Scope).Where("principal = ?", true).Order("id ASC").First(&contact).Error
	if err == nil {
		return &contact, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to find primary contact of %s: %w", owner, err)
	}

	err = s.db.Scopes(owner.Scope).Order("id ASC").First(&contact).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find contact of %s: %w", owner, err)
	}
	return &contact, nil
}

// PrimaryValue is Primary reduced to the displayed value, with the
// "no contact" placeholder when the owner has none
func (s *ContactService) PrimaryValue(owner models.ContactOwner) (string, error) {
	contact, err := s.Primary(owner)
	if err != nil {
		return "", err
	}
	if contact == nil {
		return models.NoContactPlaceholder, nil
	}
	return contact.Valor, nil
}

// OwnersMatching returns ids of owners of the given kind having a contact
// whose value contains term (case-insensitive)
func (s *ContactService) OwnersMatching(kind models.OwnerKind, term string) ([]uint, error) {
	var ids []uint
	err := s.db.Model(&models.Contact{}).
		Where("entidade_tipo = ? AND LOWER(valor) LIKE ?", string(kind), "%"+strings.ToLower(term)+"%").
		Distinct().
		Pluck("entidade_id", &ids).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search contacts: %w", err)
	}
	return ids, nil
}
