// Package schedule models the Redis-backed job schedule: the per-job spec
// document, the in-memory execution plan, and the synchronizer that keeps
// the plan converged with the store while the service runs.
package schedule

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

const (
	ScheduleTypeCrontab  = "crontab"
	ScheduleTypeInterval = "interval"

	// DefaultIntervalSeconds applies when an interval spec omits the
	// interval_seconds field.
	DefaultIntervalSeconds = 300
)

// ErrMissingTask is returned for specs with no task name.
var ErrMissingTask = errors.New("job spec missing task")

// JobSpec is the JSON document stored per job in the schedule hash.
// Crontab fields default to "*" and interval_seconds defaults to
// DefaultIntervalSeconds, so a minimal spec is just {"task": "..."}.
type JobSpec struct {
	Task            string         `json:"task"`
	ScheduleType    string         `json:"schedule_type,omitempty"`
	Minute          string         `json:"minute,omitempty"`
	Hour            string         `json:"hour,omitempty"`
	DayOfWeek       string         `json:"day_of_week,omitempty"`
	DayOfMonth      string         `json:"day_of_month,omitempty"`
	MonthOfYear     string         `json:"month_of_year,omitempty"`
	IntervalSeconds int            `json:"interval_seconds,omitempty"`
	Args            []any          `json:"args,omitempty"`
	Kwargs          map[string]any `json:"kwargs,omitempty"`
	Options         map[string]any `json:"options,omitempty"`
}

// ParseSpec decodes a stored spec document and fills in defaults.
func ParseSpec(raw []byte) (*JobSpec, error) {
	var spec JobSpec
	if err := json.Unmarshal(raw, &spec); err != nil {
		return nil, fmt.Errorf("decode job spec: %w", err)
	}
	if spec.Task == "" {
		return nil, ErrMissingTask
	}
	spec.ApplyDefaults()
	return &spec, nil
}

// ApplyDefaults fills unset schedule fields with their defaults.
func (s *JobSpec) ApplyDefaults() {
	if s.Minute == "" {
		s.Minute = "*"
	}
	if s.Hour == "" {
		s.Hour = "*"
	}
	if s.DayOfWeek == "" {
		s.DayOfWeek = "*"
	}
	if s.DayOfMonth == "" {
		s.DayOfMonth = "*"
	}
	if s.MonthOfYear == "" {
		s.MonthOfYear = "*"
	}
	if s.IntervalSeconds <= 0 {
		s.IntervalSeconds = DefaultIntervalSeconds
	}
}

// Timing builds the due-time predicate for this spec. Any schedule_type
// other than "crontab" is treated as an interval schedule.
func (s *JobSpec) Timing() (Timing, error) {
	if s.ScheduleType == ScheduleTypeCrontab {
		return NewCrontabTiming(s.Minute, s.Hour, s.DayOfMonth, s.MonthOfYear, s.DayOfWeek)
	}
	return IntervalTiming{Every: time.Duration(s.IntervalSeconds) * time.Second}, nil
}
