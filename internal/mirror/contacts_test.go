package mirror

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/north-cloud/odoo-mirror/internal/odoo"
	"github.com/jonesrussell/north-cloud/odoo-mirror/internal/repository"
	"github.com/jonesrussell/north-cloud/odoo-mirror/internal/testhelpers"
)

type fakeContactSource struct {
	records []odoo.Record
	err     error
}

func (f *fakeContactSource) FetchAllContacts(ctx context.Context) ([]odoo.Record, error) {
	return f.records, f.err
}

var contactRowColumns = []string{
	"id", "remote_id", "name", "email", "phone", "write_date", "created_at", "updated_at",
}

func contactRow(rows *sqlmock.Rows, id, remoteID int64, name string) *sqlmock.Rows {
	now := time.Now()
	return rows.AddRow(id, remoteID, name, nil, nil, nil, now, now)
}

func newContactSyncer(t *testing.T, source *fakeContactSource) (*ContactSyncer, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	repo := repository.NewContactRepository(db, testhelpers.NewTestLogger())
	return NewContactSyncer(source, repo, testhelpers.NewTestLogger()), mock
}

func TestContactSyncerInsertUpdateDelete(t *testing.T) {
	source := &fakeContactSource{records: []odoo.Record{
		{"id": float64(1), "name": "New Corp", "email": "new@example.com"},
		{"id": float64(2), "name": "Kept Corp"},
	}}
	syncer, mock := newContactSyncer(t, source)

	rows := sqlmock.NewRows(contactRowColumns)
	contactRow(rows, 10, 2, "Kept Corp")
	contactRow(rows, 11, 3, "Gone Corp")
	mock.ExpectQuery("SELECT (.+) FROM contacts ORDER BY remote_id").WillReturnRows(rows)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO contacts").WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("UPDATE contacts").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM contacts").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	result, err := syncer.Sync(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "success", result.Status)
	assert.Equal(t, 1, result.Inserted)
	assert.Equal(t, 1, result.Updated)
	assert.Equal(t, 1, result.Deleted)
	assert.Equal(t, 2, result.Total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContactSyncerSecondRunOnlyUpdates(t *testing.T) {
	source := &fakeContactSource{records: []odoo.Record{
		{"id": float64(1), "name": "Acme"},
		{"id": float64(2), "name": "Globex"},
	}}
	syncer, mock := newContactSyncer(t, source)

	rows := sqlmock.NewRows(contactRowColumns)
	contactRow(rows, 10, 1, "Acme")
	contactRow(rows, 11, 2, "Globex")
	mock.ExpectQuery("SELECT (.+) FROM contacts ORDER BY remote_id").WillReturnRows(rows)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE contacts").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE contacts").WillReturnResult(sqlmock.NewResult(0, 1))
	// No deletes queued, so no DELETE statement runs.
	mock.ExpectCommit()

	result, err := syncer.Sync(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, result.Inserted)
	assert.Equal(t, 2, result.Updated)
	assert.Equal(t, 0, result.Deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContactSyncerEmptyRemoteIsNoOp(t *testing.T) {
	syncer, mock := newContactSyncer(t, &fakeContactSource{})

	result, err := syncer.Sync(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "success", result.Status)
	assert.Equal(t, 0, result.Total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContactSyncerRollsBackOnWriteError(t *testing.T) {
	source := &fakeContactSource{records: []odoo.Record{
		{"id": float64(1), "name": "Acme"},
	}}
	syncer, mock := newContactSyncer(t, source)

	mock.ExpectQuery("SELECT (.+) FROM contacts ORDER BY remote_id").
		WillReturnRows(sqlmock.NewRows(contactRowColumns))
	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO contacts").WillReturnError(errors.New("constraint violation"))
	mock.ExpectRollback()

	_, err := syncer.Sync(context.Background())
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContactSyncerFetchErrorStopsBeforeDatabase(t *testing.T) {
	syncer, mock := newContactSyncer(t, &fakeContactSource{err: errors.New("timeout")})

	_, err := syncer.Sync(context.Background())
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMapContactCoercesOptionalFields(t *testing.T) {
	now := time.Now()
	contact := mapContact(odoo.Record{
		"id":         float64(7),
		"name":       "Acme",
		"email":      false,
		"phone":      "555-0100",
		"write_date": "2026-02-01 09:30:00",
	}, now)

	assert.Equal(t, int64(7), contact.RemoteID)
	assert.Equal(t, "Acme", contact.Name)
	assert.Nil(t, contact.Email)
	require.NotNil(t, contact.Phone)
	assert.Equal(t, "555-0100", *contact.Phone)
	require.NotNil(t, contact.WriteDate)
	assert.Equal(t, 2026, contact.WriteDate.Year())
}
