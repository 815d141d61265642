package mirror

import (
	"context"
	"fmt"
	"time"

	"github.com/jonesrussell/north-cloud/odoo-mirror/internal/logger"
	"github.com/jonesrussell/north-cloud/odoo-mirror/internal/models"
	"github.com/jonesrussell/north-cloud/odoo-mirror/internal/odoo"
	"github.com/jonesrussell/north-cloud/odoo-mirror/internal/repository"
)

// InvoiceSource fetches the full remote customer invoice snapshot.
type InvoiceSource interface {
	FetchAllInvoices(ctx context.Context) ([]odoo.Record, error)
}

// InvoiceSyncer reconciles remote customer invoices into the local invoices
// table. Same single-transaction contract as ContactSyncer.
type InvoiceSyncer struct {
	source InvoiceSource
	repo   *repository.InvoiceRepository
	logger logger.Logger
	now    func() time.Time
}

func NewInvoiceSyncer(source InvoiceSource, repo *repository.InvoiceRepository, log logger.Logger) *InvoiceSyncer {
	return &InvoiceSyncer{
		source: source,
		repo:   repo,
		logger: log,
		now:    time.Now,
	}
}

func (s *InvoiceSyncer) Sync(ctx context.Context) (result models.SyncResult, err error) {
	records, err := s.source.FetchAllInvoices(ctx)
	if err != nil {
		return models.SyncResult{}, fmt.Errorf("fetch invoices: %w", err)
	}

	if len(records) == 0 {
		return models.SuccessResult("no invoices found upstream", 0, 0, 0, 0), nil
	}

	locals, err := s.repo.List(ctx)
	if err != nil {
		return models.SyncResult{}, fmt.Errorf("read local invoices: %w", err)
	}

	remoteByID := make(map[int64]odoo.Record, len(records))
	remoteIDs := make([]int64, 0, len(records))
	for _, r := range records {
		id := odoo.RecordID(r)
		if id == 0 {
			s.logger.Warn("Skipping invoice record without id")
			continue
		}
		remoteByID[id] = r
		remoteIDs = append(remoteIDs, id)
	}

	localIDs := make([]int64, 0, len(locals))
	for _, inv := range locals {
		localIDs = append(localIDs, inv.RemoteID)
	}

	changes := Diff(remoteIDs, localIDs)
	now := s.now().UTC()

	tx, err := s.repo.BeginTx(ctx)
	if err != nil {
		return models.SyncResult{}, err
	}
	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				s.logger.Error("Failed to rollback invoice sync",
					logger.Error(rbErr),
				)
			}
		}
	}()

	for _, id := range changes.Inserts {
		invoice := mapInvoice(remoteByID[id], now)
		if err = s.repo.InsertTx(ctx, tx, invoice); err != nil {
			return models.SyncResult{}, err
		}
	}

	for _, id := range changes.Updates {
		invoice := mapInvoice(remoteByID[id], now)
		if err = s.repo.UpdateTx(ctx, tx, invoice); err != nil {
			return models.SyncResult{}, err
		}
	}

	if _, err = s.repo.DeleteTx(ctx, tx, changes.Deletes); err != nil {
		return models.SyncResult{}, err
	}

	if err = tx.Commit(); err != nil {
		err = fmt.Errorf("commit invoice sync: %w", err)
		return models.SyncResult{}, err
	}

	return models.SuccessResult(
		fmt.Sprintf("synced %d invoices from Odoo", len(remoteIDs)),
		len(changes.Inserts),
		len(changes.Updates),
		len(changes.Deletes),
		len(remoteIDs),
	), nil
}

func mapInvoice(r odoo.Record, now time.Time) *models.Invoice {
	partnerID, partnerName := odoo.Reference(r, "partner_id")
	currencyID, currencyName := odoo.Reference(r, "currency_id")

	moveType := odoo.String(r, "move_type")
	if moveType == "" {
		moveType = "out_invoice"
	}

	return &models.Invoice{
		RemoteID:       odoo.RecordID(r),
		Name:           odoo.String(r, "name"),
		MoveType:       moveType,
		InvoiceDate:    odoo.OptionalTime(r, "invoice_date"),
		PartnerID:      partnerID,
		PartnerName:    partnerName,
		AmountTotal:    odoo.OptionalFloat(r, "amount_total"),
		AmountResidual: odoo.OptionalFloat(r, "amount_residual"),
		State:          odoo.OptionalString(r, "state"),
		CurrencyID:     currencyID,
		CurrencyName:   currencyName,
		WriteDate:      odoo.OptionalTime(r, "write_date"),
		CreateDate:     odoo.OptionalTime(r, "create_date"),
		CreatedAt:      now,
		UpdatedAt:      now,
	}
}
