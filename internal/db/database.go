package db

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/nouakchotech/agrimarket/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

type Config struct {
	Driver      string
	SQLitePath  string
	PostgresDSN string
}

// Open connects to the configured database and brings the schema up to
// date. SQLite is the default; postgres is selected for shared deployments.
func Open(config Config) (*gorm.DB, error) {
	gormConfig := &gorm.Config{
		TranslateError: true,
		Logger: gormlogger.New(
			log.New(os.Stdout, "\r\n", log.LstdFlags),
			gormlogger.Config{
				SlowThreshold:             time.Second,
				LogLevel:                  gormlogger.Warn,
				IgnoreRecordNotFoundError: true,
				Colorful:                  true,
			},
		),
	}

	var database *gorm.DB
	var err error

	switch config.Driver {
	case DriverPostgres:
		database, err = gorm.Open(postgres.Open(config.PostgresDSN), gormConfig)
		if err != nil {
			return nil, fmt.Errorf("open postgres: %w", err)
		}
	case DriverSQLite, "":
		if dir := filepath.Dir(config.SQLitePath); dir != "." && dir != "" {
			if mkdirErr := os.MkdirAll(dir, 0o755); mkdirErr != nil {
				return nil, fmt.Errorf("create db directory: %w", mkdirErr)
			}
		}
		dsn := fmt.Sprintf("%s?_foreign_keys=on&_busy_timeout=5000", config.SQLitePath)
		database, err = gorm.Open(sqlite.Open(dsn), gormConfig)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported db driver %q", config.Driver)
	}

	if err := Migrate(database); err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}

	return database, nil
}

// Migrate creates or updates the schema for every persisted model.
func Migrate(database *gorm.DB) error {
	return database.AutoMigrate(
		&models.User{},
		&models.Parcel{},
		&models.MarketOffer{},
	)
}
