package bootstrap

import (
	"context"

	"github.com/redis/go-redis/v9"

	"github.com/jonesrussell/north-cloud/odoo-mirror/internal/config"
	"github.com/jonesrussell/north-cloud/odoo-mirror/internal/database"
	"github.com/jonesrussell/north-cloud/odoo-mirror/internal/events"
	"github.com/jonesrussell/north-cloud/odoo-mirror/internal/httpx"
	"github.com/jonesrussell/north-cloud/odoo-mirror/internal/logger"
	"github.com/jonesrussell/north-cloud/odoo-mirror/internal/mirror"
	"github.com/jonesrussell/north-cloud/odoo-mirror/internal/models"
	"github.com/jonesrussell/north-cloud/odoo-mirror/internal/odoo"
	"github.com/jonesrussell/north-cloud/odoo-mirror/internal/repository"
	"github.com/jonesrussell/north-cloud/odoo-mirror/internal/schedule"
	"github.com/jonesrussell/north-cloud/odoo-mirror/internal/scheduler"
)

// Task action names jobs can reference from their specs.
const (
	ActionSyncContacts = "sync_contacts"
	ActionSyncInvoices = "sync_invoices"
	ActionPing         = "ping"
)

// Scheduler bundles the schedule store and the running pieces the app
// lifecycle manages.
type Scheduler struct {
	Store      *schedule.Store
	Dispatcher *scheduler.Dispatcher
	Loop       *scheduler.Loop
}

// SetupScheduler builds the schedule store, the Odoo sync pipeline, the
// worker pool with its task handlers, and the tick loop.
func SetupScheduler(cfg *config.Config, db *database.DB, redisClient *redis.Client, log logger.Logger) *Scheduler {
	store := schedule.NewStore(redisClient, log)
	plan := schedule.NewPlan()
	synchronizer := schedule.NewSynchronizer(store, plan, cfg.Scheduler.SyncInterval, log)

	odooClient := odoo.NewClient(odoo.Config{
		URL:      cfg.Odoo.URL,
		Database: cfg.Odoo.Database,
		Username: cfg.Odoo.Username,
		Password: cfg.Odoo.Password,
		PageSize: cfg.Odoo.PageSize,
	}, httpx.NewDefaultClient(), log)

	contactRepo := repository.NewContactRepository(db.DB(), log)
	invoiceRepo := repository.NewInvoiceRepository(db.DB(), log)

	contactSyncer := mirror.NewContactSyncer(odooClient, contactRepo, log)
	invoiceSyncer := mirror.NewInvoiceSyncer(odooClient, invoiceRepo, log)

	publisher := events.NewPublisher(redisClient, log)

	dispatcher := scheduler.NewDispatcher(cfg.Scheduler.Workers, cfg.Scheduler.QueueSize, log)
	dispatcher.Register(ActionSyncContacts, syncHandler("contacts", contactSyncer.Sync, publisher))
	dispatcher.Register(ActionSyncInvoices, syncHandler("invoices", invoiceSyncer.Sync, publisher))
	dispatcher.Register(ActionPing, func(ctx context.Context, task scheduler.Task) (models.SyncResult, error) {
		return models.SuccessResult("pong", 0, 0, 0, 0), nil
	})

	loop := scheduler.NewLoop(synchronizer, plan, dispatcher, cfg.Scheduler.TickInterval, log)

	return &Scheduler{
		Store:      store,
		Dispatcher: dispatcher,
		Loop:       loop,
	}
}

// syncHandler adapts a syncer to the dispatcher and publishes the outcome
// of every run, success or failure, to the event stream.
func syncHandler(
	entity string,
	run func(ctx context.Context) (models.SyncResult, error),
	publisher *events.Publisher,
) scheduler.HandlerFunc {
	return func(ctx context.Context, task scheduler.Task) (models.SyncResult, error) {
		result, err := run(ctx)
		if err != nil {
			publisher.PublishAsync(entity, models.ErrorResult(err.Error()))
			return models.SyncResult{}, err
		}
		publisher.PublishAsync(entity, result)
		return result, nil
	}
}
