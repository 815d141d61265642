package schedule

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/jonesrussell/north-cloud/odoo-mirror/internal/logger"
)

// scheduleKey is the Redis hash holding one spec document per job name.
const scheduleKey = "scheduler:jobs"

// ErrJobNotFound is returned when removing a job name with no stored spec.
var ErrJobNotFound = errors.New("scheduled job not found")

// Store is the durable schedule: a Redis hash mapping job name to its
// JSON spec. It can be mutated while the scheduler runs; the synchronizer
// folds changes into the plan within the sync window.
type Store struct {
	client *redis.Client
	logger logger.Logger
}

func NewStore(client *redis.Client, log logger.Logger) *Store {
	return &Store{
		client: client,
		logger: log,
	}
}

// AddOrReplace writes the spec document under name, overwriting any
// existing spec for that name.
func (s *Store) AddOrReplace(ctx context.Context, name string, spec *JobSpec) error {
	payload, err := json.Marshal(spec)
	if err != nil {
		return fmt.Errorf("encode job spec: %w", err)
	}

	if err := s.client.HSet(ctx, scheduleKey, name, payload).Err(); err != nil {
		return fmt.Errorf("store job %q: %w", name, err)
	}

	s.logger.Info("Stored scheduled job",
		logger.String("job", name),
		logger.String("task", spec.Task),
	)
	return nil
}

// Remove deletes the spec for name. Returns ErrJobNotFound if no spec
// was stored.
func (s *Store) Remove(ctx context.Context, name string) error {
	removed, err := s.client.HDel(ctx, scheduleKey, name).Result()
	if err != nil {
		return fmt.Errorf("remove job %q: %w", name, err)
	}
	if removed == 0 {
		return ErrJobNotFound
	}

	s.logger.Info("Removed scheduled job", logger.String("job", name))
	return nil
}

// ListRaw returns the raw spec documents keyed by job name.
func (s *Store) ListRaw(ctx context.Context) (map[string]string, error) {
	raw, err := s.client.HGetAll(ctx, scheduleKey).Result()
	if err != nil {
		return nil, fmt.Errorf("list jobs: %w", err)
	}
	return raw, nil
}

// ListAll returns the parsed specs keyed by job name. Malformed documents
// are skipped with a warning so one bad spec cannot hide the rest.
func (s *Store) ListAll(ctx context.Context) (map[string]*JobSpec, error) {
	raw, err := s.ListRaw(ctx)
	if err != nil {
		return nil, err
	}

	specs := make(map[string]*JobSpec, len(raw))
	for name, doc := range raw {
		spec, parseErr := ParseSpec([]byte(doc))
		if parseErr != nil {
			s.logger.Warn("Skipping malformed job spec",
				logger.String("job", name),
				logger.Error(parseErr),
			)
			continue
		}
		specs[name] = spec
	}
	return specs, nil
}
