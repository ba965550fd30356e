package services

import (
	"fmt"

	"github.com/kendall-kelly/instalacoes-api/models"
	"gorm.io/gorm"
)

// DeleteCity removes a city unless clients or service orders reference it
func DeleteCity(db *gorm.DB, id uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var city models.City
		if err := tx.First(&city, id).Error; err != nil {
			return lookupError(err, "city", id)
		}

		clients, err := count(tx, &models.Client{}, "cidade_id = ?", id)
		if err != nil {
			return err
		}
		orders, err := count(tx, &models.ServiceOrder{}, "cidade_id = ?", id)
		if err != nil {
			return err
		}
		if clients > 0 || orders > 0 {
			return &DependencyError{
				Entity:     "city",
				ID:         id,
				Dependents: map[string]int64{"clientes": clients, "ordens_servico": orders},
				Message: fmt.Sprintf("Não é possível excluir a cidade pois existem %d clientes e %d ordens de serviço associadas",
					clients, orders),
			}
		}

		if err := tx.Delete(&city).Error; err != nil {
			return fmt.Errorf("failed to delete city %d: %w", id, err)
		}
		return nil
	})
}

// DeleteClient removes a client and its contacts unless service orders reference it
func DeleteClient(db *gorm.DB, id uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var client models.Client
		if err := tx.First(&client, id).Error; err != nil {
			return lookupError(err, "client", id)
		}

		orders, err := count(tx, &models.ServiceOrder{}, "cliente_id = ?", id)
		if err != nil {
			return err
		}
		if orders > 0 {
			return &DependencyError{
				Entity:     "client",
				ID:         id,
				Dependents: map[string]int64{"ordens_servico": orders},
				Message:    fmt.Sprintf("Não é possível excluir o cliente pois existem %d ordens de serviço associadas", orders),
			}
		}

		if _, err := NewContactService(tx).DeleteAll(client.Owner()); err != nil {
			return err
		}
		if err := tx.Delete(&client).Error; err != nil {
			return fmt.Errorf("failed to delete client %d: %w", id, err)
		}
		return nil
	})
}

// DeleteTechnician removes a technician and its contacts unless service
// orders reference it as field or app technician. Kits assigned to the
// technician are detached.
func DeleteTechnician(db *gorm.DB, id uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var tech models.Technician
		if err := tx.First(&tech, id).Error; err != nil {
			return lookupError(err, "technician", id)
		}

		orders, err := count(tx, &models.ServiceOrder{}, "tecnico_campo_id = ? OR tecnico_app_id = ?", id, id)
		if err != nil {
			return err
		}
		if orders > 0 {
			return &DependencyError{
				Entity:     "technician",
				ID:         id,
				Dependents: map[string]int64{"ordens_servico": orders},
				Message:    fmt.Sprintf("Não é possível excluir o técnico pois existem %d ordens de serviço associadas", orders),
			}
		}

		if err := tx.Model(&models.Kit{}).Where("tecnico_id = ?", id).Update("tecnico_id", nil).Error; err != nil {
			return fmt.Errorf("failed to detach kits from technician %d: %w", id, err)
		}
		if _, err := NewContactService(tx).DeleteAll(tech.Owner()); err != nil {
			return err
		}
		if err := tx.Delete(&tech).Error; err != nil {
			return fmt.Errorf("failed to delete technician %d: %w", id, err)
		}
		return nil
	})
}

// DeleteSupplier removes a supplier and its contacts unless kits reference it
func DeleteSupplier(db *gorm.DB, id uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var supplier models.Supplier
		if err := tx.First(&supplier, id).Error; err != nil {
			return lookupError(err, "supplier", id)
		}

		kits, err := count(tx, &models.Kit{}, "fornecedor_id = ?", id)
		if err != nil {
			return err
		}
		if kits > 0 {
			return &DependencyError{
				Entity:     "supplier",
				ID:         id,
				Dependents: map[string]int64{"kits": kits},
				Message:    fmt.Sprintf("Não é possível excluir o fornecedor pois existem %d kits associados", kits),
			}
		}

		if _, err := NewContactService(tx).DeleteAll(supplier.Owner()); err != nil {
			return err
		}
		if err := tx.Delete(&supplier).Error; err != nil {
			return fmt.Errorf("failed to delete supplier %d: %w", id, err)
		}
		return nil
	})
}

// DeleteKit removes a kit together with its components
func DeleteKit(db *gorm.DB, id uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var kit models.Kit
		if err := tx.First(&kit, id).Error; err != nil {
			return lookupError(err, "kit", id)
		}
		if err := tx.Where("kit_id = ?", id).Delete(&models.Component{}).Error; err != nil {
			return fmt.Errorf("failed to delete components of kit %d: %w", id, err)
		}
		if err := tx.Delete(&kit).Error; err != nil {
			return fmt.Errorf("failed to delete kit %d: %w", id, err)
		}
		return nil
	})
}

// DeleteOrder removes a service order, detaching the kits bound to it
func DeleteOrder(db *gorm.DB, id uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var order models.ServiceOrder
		if err := tx.First(&order, id).Error; err != nil {
			return lookupError(err, "order", id)
		}
		if err := tx.Model(&models.Kit{}).Where("ordem_servico_id = ?", id).Update("ordem_servico_id", nil).Error; err != nil {
			return fmt.Errorf("failed to detach kits from order %d: %w", id, err)
		}
		if err := tx.Delete(&order).Error; err != nil {
			return fmt.Errorf("failed to delete order %d: %w", id, err)
		}
		return nil
	})
}

// EnsureExists returns a NotFoundError when no row of model has the given id
func EnsureExists(db *gorm.DB, model interface{}, entity string, id uint) error {
	n, err := count(db, model, "id = ?", id)
	if err != nil {
		return err
	}
	if n == 0 {
		return &NotFoundError{Entity: entity, ID: id}
	}
	return nil
}

func count(db *gorm.DB, model interface{}, query string, args ...interface{}) (int64, error) {
	var n int64
	if err := db.Model(model).Where(query, args...).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count dependents: %w", err)
	}
	return n, nil
}
