package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSpecAppliesDefaults(t *testing.T) {
	spec, err := ParseSpec([]byte(`{"task": "sync_contacts"}`))
	require.NoError(t, err)

	assert.Equal(t, "sync_contacts", spec.Task)
	assert.Equal(t, "*", spec.Minute)
	assert.Equal(t, "*", spec.Hour)
	assert.Equal(t, "*", spec.DayOfWeek)
	assert.Equal(t, "*", spec.DayOfMonth)
	assert.Equal(t, "*", spec.MonthOfYear)
	assert.Equal(t, DefaultIntervalSeconds, spec.IntervalSeconds)
}

func TestParseSpecMissingTask(t *testing.T) {
	_, err := ParseSpec([]byte(`{"schedule_type": "interval"}`))
	require.ErrorIs(t, err, ErrMissingTask)
}

func TestParseSpecInvalidJSON(t *testing.T) {
	_, err := ParseSpec([]byte(`{not json`))
	require.Error(t, err)
}

func TestParseSpecKeepsExplicitFields(t *testing.T) {
	raw := `{
		"task": "sync_invoices",
		"schedule_type": "crontab",
		"minute": "30",
		"hour": "2",
		"args": [1, 2],
		"kwargs": {"full": true}
	}`
	spec, err := ParseSpec([]byte(raw))
	require.NoError(t, err)

	assert.Equal(t, "30", spec.Minute)
	assert.Equal(t, "2", spec.Hour)
	assert.Equal(t, "*", spec.DayOfWeek)
	assert.Len(t, spec.Args, 2)
	assert.Equal(t, true, spec.Kwargs["full"])
}

func TestTimingUnknownScheduleTypeFallsBackToInterval(t *testing.T) {
	spec, err := ParseSpec([]byte(`{"task": "ping", "schedule_type": "solar", "interval_seconds": 60}`))
	require.NoError(t, err)

	timing, err := spec.Timing()
	require.NoError(t, err)

	interval, ok := timing.(IntervalTiming)
	require.True(t, ok)
	assert.Equal(t, 60*time.Second, interval.Every)
}

func TestTimingCrontab(t *testing.T) {
	spec, err := ParseSpec([]byte(`{"task": "ping", "schedule_type": "crontab", "minute": "0", "hour": "0"}`))
	require.NoError(t, err)

	timing, err := spec.Timing()
	require.NoError(t, err)
	assert.IsType(t, &CrontabTiming{}, timing)
}

func TestTimingCrontabInvalidField(t *testing.T) {
	spec, err := ParseSpec([]byte(`{"task": "ping", "schedule_type": "crontab", "minute": "61"}`))
	require.NoError(t, err)

	_, err = spec.Timing()
	require.Error(t, err)
}
