package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/north-cloud/odoo-mirror/internal/logger"
	"github.com/jonesrussell/north-cloud/odoo-mirror/internal/models"
	"github.com/jonesrussell/north-cloud/odoo-mirror/internal/schedule"
)

type staticStore struct {
	specs map[string]string
}

func (s *staticStore) ListRaw(ctx context.Context) (map[string]string, error) {
	return s.specs, nil
}

func newTestLoop(specs map[string]string, disp *Dispatcher) (*Loop, *schedule.Plan) {
	plan := schedule.NewPlan()
	sync := schedule.NewSynchronizer(&staticStore{specs: specs}, plan, 10*time.Second, logger.NewNopLogger())
	loop := NewLoop(sync, plan, disp, time.Second, logger.NewNopLogger())
	return loop, plan
}

func TestLoopTickDispatchesDueJobs(t *testing.T) {
	disp := NewDispatcher(1, 4, logger.NewNopLogger())

	done := make(chan Task, 1)
	disp.Register("sync_contacts", func(ctx context.Context, task Task) (models.SyncResult, error) {
		done <- task
		return models.SuccessResult("ok", 0, 0, 0, 0), nil
	})

	loop, plan := newTestLoop(map[string]string{
		"contacts": `{"task": "sync_contacts", "interval_seconds": 60}`,
	}, disp)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go disp.Run(ctx)

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	loop.Tick(ctx, now)

	select {
	case task := <-done:
		assert.Equal(t, "contacts", task.Name)
	case <-time.After(2 * time.Second):
		t.Fatal("due job was not dispatched")
	}

	entry, ok := plan.Get("contacts")
	require.True(t, ok)
	assert.Equal(t, now, entry.LastRunAt)
}

func TestLoopTickSkipsJobsNotDue(t *testing.T) {
	disp := NewDispatcher(1, 4, logger.NewNopLogger())
	disp.Register("sync_contacts", func(ctx context.Context, task Task) (models.SyncResult, error) {
		return models.SyncResult{}, nil
	})

	loop, plan := newTestLoop(map[string]string{
		"contacts": `{"task": "sync_contacts", "interval_seconds": 300}`,
	}, disp)

	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	loop.Tick(ctx, now)
	entry, _ := plan.Get("contacts")
	require.Equal(t, now, entry.LastRunAt)

	// One second later the interval has not elapsed; last-run is untouched.
	loop.Tick(ctx, now.Add(time.Second))
	entry, _ = plan.Get("contacts")
	assert.Equal(t, now, entry.LastRunAt)
}

func TestLoopTickFullQueueLeavesLastRunForRetry(t *testing.T) {
	// Queue of one with no running workers: the second due job is dropped.
	disp := NewDispatcher(1, 1, logger.NewNopLogger())
	disp.Register("sync_contacts", func(ctx context.Context, task Task) (models.SyncResult, error) {
		return models.SyncResult{}, nil
	})
	disp.Register("sync_invoices", func(ctx context.Context, task Task) (models.SyncResult, error) {
		return models.SyncResult{}, nil
	})

	loop, plan := newTestLoop(map[string]string{
		"contacts": `{"task": "sync_contacts", "interval_seconds": 60}`,
		"invoices": `{"task": "sync_invoices", "interval_seconds": 60}`,
	}, disp)

	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	loop.Tick(context.Background(), now)

	first, _ := plan.Get("contacts")
	second, _ := plan.Get("invoices")
	assert.Equal(t, now, first.LastRunAt)
	assert.True(t, second.LastRunAt.IsZero(), "dropped dispatch must stay due")
}
