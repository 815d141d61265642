package database

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/north-cloud/odoo-mirror/internal/logger"
)

func TestMigrateCreatesMirrorTables(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS contacts").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS invoices").
		WillReturnResult(sqlmock.NewResult(0, 0))

	db := &DB{db: mockDB, logger: logger.NewNopLogger()}
	require.NoError(t, db.Migrate(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMigrateStopsOnError(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS contacts").
		WillReturnError(errors.New("permission denied"))

	db := &DB{db: mockDB, logger: logger.NewNopLogger()}
	require.Error(t, db.Migrate(context.Background()))
}
