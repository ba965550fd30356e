package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/kendall-kelly/instalacoes-api/models"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// DefaultDatabaseURL is used when DATABASE_URL is not set outside production
const DefaultDatabaseURL = "sqlite://database/dev.db"

// ConnectDatabase opens the database named by databaseURL.
// postgres:// and postgresql:// URLs use the PostgreSQL driver, everything
// else is treated as a SQLite file path (an optional sqlite:// prefix is stripped).
func ConnectDatabase(databaseURL string) error {
	if databaseURL == "" {
		databaseURL = DefaultDatabaseURL
		GetLogger().WithField("url", databaseURL).Warn("DATABASE_URL not set, using default")
	}

	dialector := Dialector(databaseURL)
	if dialector.Name() == "sqlite" {
		if err := ensureSQLiteDir(databaseURL); err != nil {
			return err
		}
	}

	var err error
	DB, err = gorm.Open(dialector, &gorm.Config{
		Logger:  logger.Default.LogMode(gormLogLevel()),
		NowFunc: NowUTC,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	GetLogger().WithField("driver", dialector.Name()).Info("Database connection established successfully")
	return nil
}

// Dialector picks the GORM driver for a connection URL
func Dialector(databaseURL string) gorm.Dialector {
	if strings.HasPrefix(databaseURL, "postgres://") || strings.HasPrefix(databaseURL, "postgresql://") {
		return postgres.Open(databaseURL)
	}
	return sqlite.Open(strings.TrimPrefix(databaseURL, "sqlite://"))
}

// Migrate creates or updates the tables for every model
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(models.All()...); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// NowUTC is the clock used for created/updated timestamps
func NowUTC() time.Time {
	return time.Now().UTC()
}

// GetDB returns the database instance
func GetDB() *gorm.DB {
	return DB
}

// SetDB replaces the database instance (primarily for testing)
func SetDB(db *gorm.DB) {
	DB = db
}

func ensureSQLiteDir(databaseURL string) error {
	path := strings.TrimPrefix(databaseURL, "sqlite://")
	if strings.HasPrefix(path, ":memory:") || strings.HasPrefix(path, "file:") {
		return nil
	}
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create database directory %s: %w", dir, err)
	}
	return nil
}

func gormLogLevel() logger.LogLevel {
	if GetLogger().IsLevelEnabled(logrus.DebugLevel) {
		return logger.Info
	}
	return logger.Warn
}
