package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/north-cloud/odoo-mirror/internal/logger"
	"github.com/jonesrussell/north-cloud/odoo-mirror/internal/models"
)

func newContactRepo(t *testing.T) (*ContactRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewContactRepository(db, logger.NewNopLogger()), mock
}

func contactRows() *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"id", "remote_id", "name", "email", "phone", "write_date", "created_at", "updated_at",
	}).AddRow(1, 100, "Acme", "acme@example.com", nil, now, now, now)
}

func TestContactListPaginatedClampsLimit(t *testing.T) {
	repo, mock := newContactRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM contacts ORDER BY remote_id LIMIT (.+) OFFSET").
		WithArgs(MaxPageLimit, 0).
		WillReturnRows(contactRows())

	contacts, err := repo.ListPaginated(context.Background(), 9999, -5)
	require.NoError(t, err)
	assert.Len(t, contacts, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContactGetByIDNotFound(t *testing.T) {
	repo, mock := newContactRepo(t)

	mock.ExpectQuery("SELECT (.+) FROM contacts WHERE id").
		WithArgs(int64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := repo.GetByID(context.Background(), 7)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestContactDeleteTxEmptySliceIsNoOp(t *testing.T) {
	repo, mock := newContactRepo(t)

	mock.ExpectBegin()
	tx, err := repo.BeginTx(context.Background())
	require.NoError(t, err)

	deleted, err := repo.DeleteTx(context.Background(), tx, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(0), deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContactInsertAndDeleteTx(t *testing.T) {
	repo, mock := newContactRepo(t)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO contacts").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("DELETE FROM contacts").WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	tx, err := repo.BeginTx(context.Background())
	require.NoError(t, err)

	now := time.Now()
	require.NoError(t, repo.InsertTx(context.Background(), tx, &models.Contact{
		RemoteID:  100,
		Name:      "Acme",
		CreatedAt: now,
		UpdatedAt: now,
	}))

	deleted, err := repo.DeleteTx(context.Background(), tx, []int64{200, 300})
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	require.NoError(t, tx.Commit())
	assert.NoError(t, mock.ExpectationsWereMet())
}
