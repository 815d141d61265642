package schedule

import (
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// Timing decides whether a job is due at now given its last run time.
// lastRun is the zero time when the job has never run.
type Timing interface {
	IsDue(now, lastRun time.Time) bool
}

// IntervalTiming fires when at least Every has elapsed since the last run.
// A job that has never run is due immediately.
type IntervalTiming struct {
	Every time.Duration
}

func (t IntervalTiming) IsDue(now, lastRun time.Time) bool {
	if lastRun.IsZero() {
		return true
	}
	return now.Sub(lastRun) >= t.Every
}

var crontabParser = cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)

// CrontabTiming fires during minutes that match its five cron fields, at
// most once per matching minute regardless of how often the loop ticks.
type CrontabTiming struct {
	sched cron.Schedule
}

func NewCrontabTiming(minute, hour, dayOfMonth, monthOfYear, dayOfWeek string) (*CrontabTiming, error) {
	expr := strings.Join([]string{minute, hour, dayOfMonth, monthOfYear, dayOfWeek}, " ")
	sched, err := crontabParser.Parse(expr)
	if err != nil {
		return nil, fmt.Errorf("parse crontab %q: %w", expr, err)
	}
	return &CrontabTiming{sched: sched}, nil
}

func (t *CrontabTiming) IsDue(now, lastRun time.Time) bool {
	minute := now.Truncate(time.Minute)
	if !t.sched.Next(minute.Add(-time.Second)).Equal(minute) {
		return false
	}
	return lastRun.IsZero() || lastRun.Before(minute)
}
