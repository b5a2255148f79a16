package database

import (
	"fmt"
	"log/slog"

	"seo-dashboard/internal/domain/integrations"
	"seo-dashboard/internal/domain/users"
	"seo-dashboard/internal/store"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// InitDB connects to the hosted Postgres database and, when migrate is set,
// creates the tables this service owns.
func InitDB(dsn string, migrate bool, log *slog.Logger) (*gorm.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("DB_URL not set")
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	if !migrate {
		log.Info("connected to database", "migrated", false)
		return db, nil
	}

	// REQUIRED for gen_random_uuid() defaults
	if err := db.Exec(`CREATE EXTENSION IF NOT EXISTS pgcrypto;`).Error; err != nil {
		return nil, fmt.Errorf("enable pgcrypto extension: %w", err)
	}

	if err := db.AutoMigrate(
		&users.User{},
		&integrations.Token{},
		&store.WebhookEvent{},
	); err != nil {
		return nil, fmt.Errorf("auto-migrate: %w", err)
	}

	for _, kind := range integrations.Kinds() {
		if err := db.Table(kind.Table()).AutoMigrate(&integrations.Row{}); err != nil {
			return nil, fmt.Errorf("auto-migrate %s: %w", kind.Table(), err)
		}
	}

	log.Info("connected to database", "migrated", true)
	return db, nil
}
