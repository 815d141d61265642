// Package repository implements the PostgreSQL persistence layer for
// mirrored records.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"github.com/jonesrussell/north-cloud/odoo-mirror/internal/logger"
	"github.com/jonesrussell/north-cloud/odoo-mirror/internal/models"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("record not found")

// MaxPageLimit caps API page sizes.
const MaxPageLimit = 1000

type ContactRepository struct {
	db     *sql.DB
	logger logger.Logger
}

func NewContactRepository(db *sql.DB, log logger.Logger) *ContactRepository {
	return &ContactRepository{
		db:     db,
		logger: log,
	}
}

const contactColumns = `id, remote_id, name, email, phone, write_date, created_at, updated_at`

// List returns every contact row. Used as the local side of a
// reconciliation run and by the API read path.
func (r *ContactRepository) List(ctx context.Context) ([]models.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts ORDER BY remote_id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query contacts: %w", err)
	}
	defer rows.Close()

	return scanContactRows(rows)
}

// ListPaginated returns contacts with offset pagination. The limit is
// clamped to MaxPageLimit.
func (r *ContactRepository) ListPaginated(ctx context.Context, limit, offset int) ([]models.Contact, error) {
	if limit <= 0 || limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	if offset < 0 {
		offset = 0
	}

	query := `SELECT ` + contactColumns + ` FROM contacts ORDER BY remote_id LIMIT $1 OFFSET $2`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("query contacts: %w", err)
	}
	defer rows.Close()

	return scanContactRows(rows)
}

func (r *ContactRepository) GetByID(ctx context.Context, id int64) (*models.Contact, error) {
	query := `SELECT ` + contactColumns + ` FROM contacts WHERE id = $1`

	var c models.Contact
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&c.ID,
		&c.RemoteID,
		&c.Name,
		&c.Email,
		&c.Phone,
		&c.WriteDate,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query contact: %w", err)
	}

	return &c, nil
}

// BeginTx starts the transaction a reconciliation run writes through.
func (r *ContactRepository) BeginTx(ctx context.Context) (*sql.Tx, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	return tx, nil
}

func (r *ContactRepository) InsertTx(ctx context.Context, tx *sql.Tx, c *models.Contact) error {
	query := `
		INSERT INTO contacts (remote_id, name, email, phone, write_date, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := tx.ExecContext(ctx, query,
		c.RemoteID,
		c.Name,
		c.Email,
		c.Phone,
		c.WriteDate,
		c.CreatedAt,
		c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert contact %d: %w", c.RemoteID, err)
	}
	return nil
}

// UpdateTx overwrites every mapped field of the row keyed by remote_id.
// Full replace, not merge.
func (r *ContactRepository) UpdateTx(ctx context.Context, tx *sql.Tx, c *models.Contact) error {
	query := `
		UPDATE contacts
		SET name = $2, email = $3, phone = $4, write_date = $5, updated_at = $6
		WHERE remote_id = $1
	`

	_, err := tx.ExecContext(ctx, query,
		c.RemoteID,
		c.Name,
		c.Email,
		c.Phone,
		c.WriteDate,
		c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update contact %d: %w", c.RemoteID, err)
	}
	return nil
}

// DeleteTx removes all rows whose remote_id is in remoteIDs in one bulk
// statement.
func (r *ContactRepository) DeleteTx(ctx context.Context, tx *sql.Tx, remoteIDs []int64) (int64, error) {
	if len(remoteIDs) == 0 {
		return 0, nil
	}

	query := `DELETE FROM contacts WHERE remote_id = ANY($1)`

	result, err := tx.ExecContext(ctx, query, pq.Array(remoteIDs))
	if err != nil {
		return 0, fmt.Errorf("delete contacts: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("get rows affected: %w", err)
	}
	return deleted, nil
}

func scanContactRows(rows *sql.Rows) ([]models.Contact, error) {
	contacts := make([]models.Contact, 0)
	for rows.Next() {
		var c models.Contact
		if err := rows.Scan(
			&c.ID,
			&c.RemoteID,
			&c.Name,
			&c.Email,
			&c.Phone,
			&c.WriteDate,
			&c.CreatedAt,
			&c.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan contact: %w", err)
		}
		contacts = append(contacts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate contacts: %w", err)
	}
	return contacts, nil
}
