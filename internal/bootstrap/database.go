package bootstrap

import (
	"context"
	"fmt"

	"github.com/jonesrussell/north-cloud/odoo-mirror/internal/config"
	"github.com/jonesrussell/north-cloud/odoo-mirror/internal/database"
	"github.com/jonesrussell/north-cloud/odoo-mirror/internal/logger"
)

// SetupDatabase connects to PostgreSQL and applies migrations.
func SetupDatabase(cfg *config.Config, log logger.Logger) (*database.DB, error) {
	db, err := database.New(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("database connection: %w", err)
	}

	if migrateErr := db.Migrate(context.Background()); migrateErr != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", migrateErr)
	}

	return db, nil
}
