package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonesrussell/north-cloud/odoo-mirror/internal/logger"
	"github.com/jonesrussell/north-cloud/odoo-mirror/internal/schedule"
)

type fakeScheduleStore struct {
	stored  map[string]*schedule.JobSpec
	addErr  error
	listErr error
	remErr  error
}

func newFakeScheduleStore() *fakeScheduleStore {
	return &fakeScheduleStore{stored: make(map[string]*schedule.JobSpec)}
}

func (f *fakeScheduleStore) AddOrReplace(ctx context.Context, name string, spec *schedule.JobSpec) error {
	if f.addErr != nil {
		return f.addErr
	}
	f.stored[name] = spec
	return nil
}

func (f *fakeScheduleStore) Remove(ctx context.Context, name string) error {
	if f.remErr != nil {
		return f.remErr
	}
	if _, ok := f.stored[name]; !ok {
		return schedule.ErrJobNotFound
	}
	delete(f.stored, name)
	return nil
}

func (f *fakeScheduleStore) ListAll(ctx context.Context) (map[string]*schedule.JobSpec, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.stored, nil
}

func newScheduleRouter(store ScheduleStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewScheduleHandler(store, logger.NewNopLogger())
	r := gin.New()
	r.POST("/schedule-task", h.Create)
	r.GET("/scheduled-tasks", h.List)
	r.DELETE("/scheduled-tasks/:name", h.Delete)
	return r
}

func TestScheduleCreateStoresSpecWithDefaults(t *testing.T) {
	store := newFakeScheduleStore()
	router := newScheduleRouter(store)

	body := `{"name": "contacts-sync", "task": "sync_contacts", "schedule_type": "interval"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/schedule-task", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	spec, ok := store.stored["contacts-sync"]
	require.True(t, ok)
	assert.Equal(t, "sync_contacts", spec.Task)
	assert.Equal(t, schedule.DefaultIntervalSeconds, spec.IntervalSeconds)
	assert.Equal(t, "*", spec.Minute)
}

func TestScheduleCreateCronShorthand(t *testing.T) {
	store := newFakeScheduleStore()
	router := newScheduleRouter(store)

	body := `{"name": "nightly", "task": "sync_invoices", "cron": "0 2 * * *"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/schedule-task", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	spec, ok := store.stored["nightly"]
	require.True(t, ok)
	assert.Equal(t, schedule.ScheduleTypeCrontab, spec.ScheduleType)
	assert.Equal(t, "0", spec.Minute)
	assert.Equal(t, "2", spec.Hour)
	assert.Equal(t, "*", spec.DayOfMonth)
}

func TestScheduleCreateCronWrongFieldCount(t *testing.T) {
	store := newFakeScheduleStore()
	router := newScheduleRouter(store)

	body := `{"name": "bad", "task": "ping", "cron": "0 2 *"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/schedule-task", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, store.stored)
}

func TestScheduleCreateMissingTask(t *testing.T) {
	router := newScheduleRouter(newFakeScheduleStore())

	body := `{"name": "broken"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/schedule-task", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestScheduleCreateInvalidCrontab(t *testing.T) {
	store := newFakeScheduleStore()
	router := newScheduleRouter(store)

	body := `{"name": "bad-cron", "task": "ping", "schedule_type": "crontab", "minute": "61"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/schedule-task", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, store.stored)
}

func TestScheduleListReturnsStoredJobs(t *testing.T) {
	store := newFakeScheduleStore()
	store.stored["contacts"] = &schedule.JobSpec{Task: "sync_contacts"}
	router := newScheduleRouter(store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/scheduled-tasks", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "sync_contacts")
	assert.Contains(t, w.Body.String(), `"count":1`)
}

func TestScheduleDeleteRemovesJob(t *testing.T) {
	store := newFakeScheduleStore()
	store.stored["contacts"] = &schedule.JobSpec{Task: "sync_contacts"}
	router := newScheduleRouter(store)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/scheduled-tasks/contacts", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, store.stored)
}

func TestScheduleDeleteUnknownJob(t *testing.T) {
	router := newScheduleRouter(newFakeScheduleStore())

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/scheduled-tasks/nope", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
