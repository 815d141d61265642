package scheduler

import (
	"context"
	"time"

	"github.com/jonesrussell/north-cloud/odoo-mirror/internal/logger"
	"github.com/jonesrussell/north-cloud/odoo-mirror/internal/schedule"
)

// Loop drives the schedule: every tick it lets the synchronizer refresh the
// plan, then dispatches every due entry to the worker pool.
type Loop struct {
	synchronizer *schedule.Synchronizer
	plan         *schedule.Plan
	dispatcher   *Dispatcher
	tick         time.Duration
	logger       logger.Logger
}

func NewLoop(
	synchronizer *schedule.Synchronizer,
	plan *schedule.Plan,
	dispatcher *Dispatcher,
	tick time.Duration,
	log logger.Logger,
) *Loop {
	if tick <= 0 {
		tick = time.Second
	}
	return &Loop{
		synchronizer: synchronizer,
		plan:         plan,
		dispatcher:   dispatcher,
		tick:         tick,
		logger:       log,
	}
}

// Run ticks until ctx is cancelled.
func (l *Loop) Run(ctx context.Context) {
	l.logger.Info("Scheduler loop started",
		logger.Duration("tick", l.tick),
	)

	ticker := time.NewTicker(l.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			l.logger.Info("Scheduler loop stopped")
			return
		case now := <-ticker.C:
			l.Tick(ctx, now)
		}
	}
}

// Tick performs one scheduling pass at the given instant. Plan entries are
// evaluated in insertion order; an entry's last-run advances only when its
// task was actually enqueued, so a full queue means a retry on a later
// tick instead of a silently skipped run.
func (l *Loop) Tick(ctx context.Context, now time.Time) {
	if err := l.synchronizer.Sync(ctx); err != nil {
		l.logger.Error("Schedule sync failed, keeping current plan",
			logger.Error(err),
		)
	}

	for _, entry := range l.plan.Entries() {
		if !entry.Timing.IsDue(now, entry.LastRunAt) {
			continue
		}

		task := Task{
			Name:    entry.Name,
			Action:  entry.Task,
			Args:    entry.Args,
			Kwargs:  entry.Kwargs,
			Options: entry.Options,
		}
		if l.dispatcher.Dispatch(task) {
			entry.LastRunAt = now
			l.logger.Debug("Dispatched job",
				logger.String("job", entry.Name),
				logger.String("action", entry.Task),
			)
		}
	}
}
