package schedule

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jonesrussell/north-cloud/odoo-mirror/internal/logger"
)

// RawLister is the slice of the store the synchronizer needs.
type RawLister interface {
	ListRaw(ctx context.Context) (map[string]string, error)
}

// Synchronizer keeps the plan converged with the store. At most one store
// read per sync window; between windows the plan serves ticks as-is.
type Synchronizer struct {
	store      RawLister
	plan       *Plan
	interval   time.Duration
	logger     logger.Logger
	lastSyncAt time.Time
	now        func() time.Time
}

func NewSynchronizer(store RawLister, plan *Plan, interval time.Duration, log logger.Logger) *Synchronizer {
	return &Synchronizer{
		store:    store,
		plan:     plan,
		interval: interval,
		logger:   log,
		now:      time.Now,
	}
}

// Sync refreshes the plan from the store when the sync window has elapsed.
// If the store read fails the current plan is kept untouched and the next
// tick retries; the window does not advance on failure. Malformed specs are
// skipped individually so the remaining jobs still converge; an entry whose
// stored document stops parsing keeps its last parsed definition until the
// name itself is removed from the store.
func (s *Synchronizer) Sync(ctx context.Context) error {
	now := s.now()
	if !s.lastSyncAt.IsZero() && now.Sub(s.lastSyncAt) < s.interval {
		return nil
	}

	raw, err := s.store.ListRaw(ctx)
	if err != nil {
		return fmt.Errorf("sync schedule: %w", err)
	}
	s.lastSyncAt = now

	names := make([]string, 0, len(raw))
	for name := range raw {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		spec, parseErr := ParseSpec([]byte(raw[name]))
		if parseErr != nil {
			s.logger.Warn("Skipping malformed job spec",
				logger.String("job", name),
				logger.Error(parseErr),
			)
			continue
		}

		timing, timingErr := spec.Timing()
		if timingErr != nil {
			s.logger.Warn("Skipping job with invalid schedule",
				logger.String("job", name),
				logger.Error(timingErr),
			)
			continue
		}

		entry := &Entry{
			Name:    name,
			Task:    spec.Task,
			Timing:  timing,
			Args:    spec.Args,
			Kwargs:  spec.Kwargs,
			Options: spec.Options,
		}
		if prev, ok := s.plan.Get(name); ok {
			entry.LastRunAt = prev.LastRunAt
		}
		s.plan.Set(entry)
	}

	// Only names gone from the store leave the plan.
	for _, name := range s.plan.Names() {
		if _, exists := raw[name]; !exists {
			s.plan.Remove(name)
			s.logger.Info("Dropped job from plan", logger.String("job", name))
		}
	}

	return nil
}
