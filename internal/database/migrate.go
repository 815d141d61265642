package database

import (
	"context"
	"fmt"

	"github.com/jonesrussell/north-cloud/odoo-mirror/internal/logger"
)

// Mirror tables are created on startup if missing. Rows are keyed by the
// stable remote_id; the unique constraint backs the reconciliation contract
// of exactly one local row per distinct remote id.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS contacts (
		id BIGSERIAL PRIMARY KEY,
		remote_id BIGINT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		email TEXT,
		phone TEXT,
		write_date TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS invoices (
		id BIGSERIAL PRIMARY KEY,
		remote_id BIGINT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		move_type TEXT NOT NULL,
		invoice_date TIMESTAMPTZ,
		partner_id BIGINT,
		partner_name TEXT,
		amount_total DOUBLE PRECISION,
		amount_residual DOUBLE PRECISION,
		state TEXT,
		currency_id BIGINT,
		currency_name TEXT,
		write_date TIMESTAMPTZ,
		create_date TIMESTAMPTZ,
		created_at TIMESTAMPTZ NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL
	)`,
}

// Migrate creates the mirror tables if they do not exist.
func (d *DB) Migrate(ctx context.Context) error {
	for _, stmt := range migrations {
		if _, err := d.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("run migration: %w", err)
		}
	}

	d.logger.Info("Database migrations applied",
		logger.Int("statements", len(migrations)),
	)
	return nil
}
