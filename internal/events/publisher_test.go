package events

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jonesrussell/north-cloud/odoo-mirror/internal/logger"
	"github.com/jonesrussell/north-cloud/odoo-mirror/internal/models"
)

func TestNilPublisherIsSafe(t *testing.T) {
	var p *Publisher

	err := p.Publish(context.Background(), "contacts", models.SuccessResult("ok", 1, 2, 3, 6))
	assert.NoError(t, err)

	assert.NotPanics(t, func() {
		p.PublishAsync("contacts", models.SuccessResult("ok", 0, 0, 0, 0))
	})
}

func TestPublisherWithoutClientIsSafe(t *testing.T) {
	p := NewPublisher(nil, logger.NewNopLogger())

	err := p.Publish(context.Background(), "invoices", models.ErrorResult("fetch failed"))
	assert.NoError(t, err)

	assert.NotPanics(t, func() {
		p.PublishAsync("invoices", models.ErrorResult("fetch failed"))
	})
}
