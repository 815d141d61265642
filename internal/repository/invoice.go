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

type InvoiceRepository struct {
	db     *sql.DB
	logger logger.Logger
}

func NewInvoiceRepository(db *sql.DB, log logger.Logger) *InvoiceRepository {
	return &InvoiceRepository{
		db:     db,
		logger: log,
	}
}

const invoiceColumns = `id, remote_id, name, move_type, invoice_date, partner_id, partner_name,
	amount_total, amount_residual, state, currency_id, currency_name,
	write_date, create_date, created_at, updated_at`

func (r *InvoiceRepository) List(ctx context.Context) ([]models.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices ORDER BY remote_id`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query invoices: %w", err)
	}
	defer rows.Close()

	return scanInvoiceRows(rows)
}

func (r *InvoiceRepository) ListPaginated(ctx context.Context, limit, offset int) ([]models.Invoice, error) {
	if limit <= 0 || limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	if offset < 0 {
		offset = 0
	}

	query := `SELECT ` + invoiceColumns + ` FROM invoices ORDER BY remote_id LIMIT $1 OFFSET $2`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("query invoices: %w", err)
	}
	defer rows.Close()

	return scanInvoiceRows(rows)
}

func (r *InvoiceRepository) GetByID(ctx context.Context, id int64) (*models.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE id = $1`

	var inv models.Invoice
	err := r.db.QueryRowContext(ctx, query, id).Scan(invoiceScanDest(&inv)...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query invoice: %w", err)
	}

	return &inv, nil
}

func (r *InvoiceRepository) BeginTx(ctx context.Context) (*sql.Tx, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	return tx, nil
}

func (r *InvoiceRepository) InsertTx(ctx context.Context, tx *sql.Tx, inv *models.Invoice) error {
	query := `
		INSERT INTO invoices (
			remote_id, name, move_type, invoice_date, partner_id, partner_name,
			amount_total, amount_residual, state, currency_id, currency_name,
			write_date, create_date, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	_, err := tx.ExecContext(ctx, query,
		inv.RemoteID,
		inv.Name,
		inv.MoveType,
		inv.InvoiceDate,
		inv.PartnerID,
		inv.PartnerName,
		inv.AmountTotal,
		inv.AmountResidual,
		inv.State,
		inv.CurrencyID,
		inv.CurrencyName,
		inv.WriteDate,
		inv.CreateDate,
		inv.CreatedAt,
		inv.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert invoice %d: %w", inv.RemoteID, err)
	}
	return nil
}

// UpdateTx overwrites every mapped field of the row keyed by remote_id.
func (r *InvoiceRepository) UpdateTx(ctx context.Context, tx *sql.Tx, inv *models.Invoice) error {
	query := `
		UPDATE invoices
		SET name = $2, move_type = $3, invoice_date = $4, partner_id = $5, partner_name = $6,
		    amount_total = $7, amount_residual = $8, state = $9, currency_id = $10,
		    currency_name = $11, write_date = $12, create_date = $13, updated_at = $14
		WHERE remote_id = $1
	`

	_, err := tx.ExecContext(ctx, query,
		inv.RemoteID,
		inv.Name,
		inv.MoveType,
		inv.InvoiceDate,
		inv.PartnerID,
		inv.PartnerName,
		inv.AmountTotal,
		inv.AmountResidual,
		inv.State,
		inv.CurrencyID,
		inv.CurrencyName,
		inv.WriteDate,
		inv.CreateDate,
		inv.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update invoice %d: %w", inv.RemoteID, err)
	}
	return nil
}

func (r *InvoiceRepository) DeleteTx(ctx context.Context, tx *sql.Tx, remoteIDs []int64) (int64, error) {
	if len(remoteIDs) == 0 {
		return 0, nil
	}

	query := `DELETE FROM invoices WHERE remote_id = ANY($1)`

	result, err := tx.ExecContext(ctx, query, pq.Array(remoteIDs))
	if err != nil {
		return 0, fmt.Errorf("delete invoices: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("get rows affected: %w", err)
	}
	return deleted, nil
}

func invoiceScanDest(inv *models.Invoice) []any {
	return []any{
		&inv.ID,
		&inv.RemoteID,
		&inv.Name,
		&inv.MoveType,
		&inv.InvoiceDate,
		&inv.PartnerID,
		&inv.PartnerName,
		&inv.AmountTotal,
		&inv.AmountResidual,
		&inv.State,
		&inv.CurrencyID,
		&inv.CurrencyName,
		&inv.WriteDate,
		&inv.CreateDate,
		&inv.CreatedAt,
		&inv.UpdatedAt,
	}
}

func scanInvoiceRows(rows *sql.Rows) ([]models.Invoice, error) {
	invoices := make([]models.Invoice, 0)
	for rows.Next() {
		var inv models.Invoice
		if err := rows.Scan(invoiceScanDest(&inv)...); err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		invoices = append(invoices, inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate invoices: %w", err)
	}
	return invoices, nil
}
