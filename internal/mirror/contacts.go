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

// ContactSource fetches the full remote contact snapshot.
type ContactSource interface {
	FetchAllContacts(ctx context.Context) ([]odoo.Record, error)
}

// ContactSyncer reconciles remote contacts into the local contacts table.
// All writes for one run happen in a single transaction; any error rolls the
// whole run back.
type ContactSyncer struct {
	source ContactSource
	repo   *repository.ContactRepository
	logger logger.Logger
	now    func() time.Time
}

func NewContactSyncer(source ContactSource, repo *repository.ContactRepository, log logger.Logger) *ContactSyncer {
	return &ContactSyncer{
		source: source,
		repo:   repo,
		logger: log,
		now:    time.Now,
	}
}

func (s *ContactSyncer) Sync(ctx context.Context) (result models.SyncResult, err error) {
	records, err := s.source.FetchAllContacts(ctx)
	if err != nil {
		return models.SyncResult{}, fmt.Errorf("fetch contacts: %w", err)
	}

	if len(records) == 0 {
		return models.SuccessResult("no contacts found upstream", 0, 0, 0, 0), nil
	}

	locals, err := s.repo.List(ctx)
	if err != nil {
		return models.SyncResult{}, fmt.Errorf("read local contacts: %w", err)
	}

	remoteByID := make(map[int64]odoo.Record, len(records))
	remoteIDs := make([]int64, 0, len(records))
	for _, r := range records {
		id := odoo.RecordID(r)
		if id == 0 {
			s.logger.Warn("Skipping contact record without id")
			continue
		}
		remoteByID[id] = r
		remoteIDs = append(remoteIDs, id)
	}

	localIDs := make([]int64, 0, len(locals))
	for _, c := range locals {
		localIDs = append(localIDs, c.RemoteID)
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
				s.logger.Error("Failed to rollback contact sync",
					logger.Error(rbErr),
				)
			}
		}
	}()

	for _, id := range changes.Inserts {
		contact := mapContact(remoteByID[id], now)
		if err = s.repo.InsertTx(ctx, tx, contact); err != nil {
			return models.SyncResult{}, err
		}
	}

	for _, id := range changes.Updates {
		contact := mapContact(remoteByID[id], now)
		if err = s.repo.UpdateTx(ctx, tx, contact); err != nil {
			return models.SyncResult{}, err
		}
	}

	if _, err = s.repo.DeleteTx(ctx, tx, changes.Deletes); err != nil {
		return models.SyncResult{}, err
	}

	if err = tx.Commit(); err != nil {
		err = fmt.Errorf("commit contact sync: %w", err)
		return models.SyncResult{}, err
	}

	return models.SuccessResult(
		fmt.Sprintf("synced %d contacts from Odoo", len(remoteIDs)),
		len(changes.Inserts),
		len(changes.Updates),
		len(changes.Deletes),
		len(remoteIDs),
	), nil
}

// mapContact maps one raw remote record onto the local row shape. Missing
// optional values become NULLs, never sentinel empty strings.
func mapContact(r odoo.Record, now time.Time) *models.Contact {
	return &models.Contact{
		RemoteID:  odoo.RecordID(r),
		Name:      odoo.String(r, "name"),
		Email:     odoo.OptionalString(r, "email"),
		Phone:     odoo.OptionalString(r, "phone"),
		WriteDate: odoo.OptionalTime(r, "write_date"),
		CreatedAt: now,
		UpdatedAt: now,
	}
}
