// Package testhelpers provides shared test utilities.
package testhelpers

import "github.com/jonesrussell/north-cloud/odoo-mirror/internal/logger"

// NewTestLogger returns a silent logger for tests.
func NewTestLogger() logger.Logger {
	return logger.NewNopLogger()
}
