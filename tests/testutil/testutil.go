// Package testutil holds shared helpers for package tests: environment
// guards, an in-memory database and entity fixtures.
package testutil

import (
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/kendall-kelly/instalacoes-api/config"
	"github.com/kendall-kelly/instalacoes-api/models"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// GuardTestEnvironment sets GO_ENV=test when unset and refuses to run
// under any other environment. Call it first in TestMain.
func GuardTestEnvironment() {
	env := os.Getenv("GO_ENV")
	if env == "" {
		_ = os.Setenv("GO_ENV", "test")
		return
	}
	if env != "test" {
		fmt.Fprintf(os.Stderr, "SAFETY CHECK FAILED: tests must run with GO_ENV=test (current GO_ENV=%q)\n", env)
		os.Exit(1)
	}
}

// RequireTestEnvironment fails the test unless GO_ENV is "test"
func RequireTestEnvironment(t *testing.T) {
	t.Helper()

	env := os.Getenv("GO_ENV")
	if env != "test" {
		t.Fatalf("SAFETY CHECK FAILED: Tests must run with GO_ENV=test to prevent data loss. Current GO_ENV=%q.", env)
	}
}

// QuietLogger installs a logger that discards output below error level
func QuietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.ErrorLevel)
	config.SetLogger(l)
	return l
}

// NewTestDB opens a fresh in-memory SQLite database with every table
// migrated and installs it as the application database
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Silent),
		NowFunc: config.NowUTC,
	})
	if err != nil {
		t.Fatalf("Failed to connect to test database: %v", err)
	}

	// every :memory: connection is a separate database
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("Failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := config.Migrate(db); err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	config.SetDB(db)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

// CreateCity inserts a city
func CreateCity(t *testing.T, db *gorm.DB, nome, uf string) models.City {
	t.Helper()
	city := models.City{Nome: nome, UF: uf}
	mustCreate(t, db, &city)
	return city
}

// CreateClient inserts a client living in city
func CreateClient(t *testing.T, db *gorm.DB, nome string, city models.City) models.Client {
	t.Helper()
	client := models.Client{
		NomeCompleto: nome,
		Endereco:     "Rua das Flores, 100",
		Bairro:       "Centro",
		CidadeID:     city.ID,
		UF:           city.UF,
	}
	mustCreate(t, db, &client)
	return client
}

// CreateTechnician inserts an active technician
func CreateTechnician(t *testing.T, db *gorm.DB, nome string) models.Technician {
	t.Helper()
	tech := models.Technician{Nome: nome, Ativo: true}
	mustCreate(t, db, &tech)
	return tech
}

// CreateSupplier inserts a supplier
func CreateSupplier(t *testing.T, db *gorm.DB, nome string) models.Supplier {
	t.Helper()
	supplier := models.Supplier{Nome: nome, Tipo: "distribuidor"}
	mustCreate(t, db, &supplier)
	return supplier
}

// OrderOption customises an order built by CreateOrder
type OrderOption func(*models.ServiceOrder)

// WithStatus sets the order status
func WithStatus(status string) OrderOption {
	return func(o *models.ServiceOrder) { o.Status = status }
}

// DueIn sets the due date relative to now
func DueIn(d time.Duration) OrderOption {
	return func(o *models.ServiceOrder) { o.DataVencimento = time.Now().UTC().Add(d) }
}

// CreatedAt sets the order creation date
func CreatedAt(t time.Time) OrderOption {
	return func(o *models.ServiceOrder) { o.DataCriacao = t }
}

// WithAppTechnician sets the app technician
func WithAppTechnician(tech models.Technician) OrderOption {
	return func(o *models.ServiceOrder) { o.TecnicoAppID = &tech.ID }
}

// CreateOrder inserts a PENDENTE order due in a week unless options say otherwise
func CreateOrder(t *testing.T, db *gorm.DB, numero string, client models.Client, tech models.Technician, opts ...OrderOption) models.ServiceOrder {
	t.Helper()
	now := time.Now().UTC()
	order := models.ServiceOrder{
		NumeroOS:       numero,
		Status:         models.StatusPending,
		DataCriacao:    now,
		DataVencimento: now.Add(7 * 24 * time.Hour),
		ClienteID:      client.ID,
		TecnicoCampoID: tech.ID,
		CidadeID:       client.CidadeID,
	}
	for _, opt := range opts {
		opt(&order)
	}
	mustCreate(t, db, &order)
	return order
}

// AddContact stores a contact for owner
func AddContact(t *testing.T, db *gorm.DB, owner models.ContactOwner, tipo, valor string, principal bool) models.Contact {
	t.Helper()
	contact := models.Contact{Tipo: tipo, Valor: valor, Principal: principal}
	contact.SetOwner(owner)
	mustCreate(t, db, &contact)
	return contact
}

func mustCreate(t *testing.T, db *gorm.DB, value interface{}) {
	t.Helper()
	if err := db.Create(value).Error; err != nil {
		t.Fatalf("Failed to create fixture %T: %v", value, err)
	}
}
