// Package events publishes sync outcome events to a Redis stream for
// downstream consumers.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/jonesrussell/north-cloud/odoo-mirror/internal/logger"
	"github.com/jonesrussell/north-cloud/odoo-mirror/internal/models"
)

const (
	streamKey      = "odoo-mirror:sync:events"
	maxStreamLen   = 1000
	publishTimeout = 5 * time.Second
)

// SyncEvent is one sync run outcome.
type SyncEvent struct {
	EventID   string    `json:"event_id"`
	Entity    string    `json:"entity"`
	Status    string    `json:"status"`
	Message   string    `json:"message"`
	Inserted  int       `json:"inserted"`
	Updated   int       `json:"updated"`
	Deleted   int       `json:"deleted"`
	Total     int       `json:"total"`
	Timestamp time.Time `json:"timestamp"`
}

// Publisher appends sync events to the stream. A nil Publisher is safe to
// call and publishes nothing, so event wiring stays optional.
type Publisher struct {
	client *redis.Client
	logger logger.Logger
}

func NewPublisher(client *redis.Client, log logger.Logger) *Publisher {
	return &Publisher{
		client: client,
		logger: log,
	}
}

// Publish appends one event for the entity's sync result.
func (p *Publisher) Publish(ctx context.Context, entity string, result models.SyncResult) error {
	if p == nil || p.client == nil {
		return nil
	}

	event := SyncEvent{
		EventID:   uuid.New().String(),
		Entity:    entity,
		Status:    result.Status,
		Message:   result.Message,
		Inserted:  result.Inserted,
		Updated:   result.Updated,
		Deleted:   result.Deleted,
		Total:     result.Total,
		Timestamp: time.Now().UTC(),
	}

	err := p.client.XAdd(ctx, &redis.XAddArgs{
		Stream: streamKey,
		MaxLen: maxStreamLen,
		Approx: true,
		Values: map[string]any{
			"event_id":  event.EventID,
			"entity":    event.Entity,
			"status":    event.Status,
			"message":   event.Message,
			"inserted":  event.Inserted,
			"updated":   event.Updated,
			"deleted":   event.Deleted,
			"total":     event.Total,
			"timestamp": event.Timestamp.Format(time.RFC3339),
		},
	}).Err()
	if err != nil {
		p.logger.Error("Failed to publish sync event",
			logger.String("entity", entity),
			logger.Error(err),
		)
		return err
	}

	return nil
}

// PublishAsync publishes without blocking the caller. Failures are logged
// by Publish; sync outcomes never depend on event delivery.
func (p *Publisher) PublishAsync(entity string, result models.SyncResult) {
	if p == nil || p.client == nil {
		return
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
		defer cancel()
		_ = p.Publish(ctx, entity, result)
	}()
}
