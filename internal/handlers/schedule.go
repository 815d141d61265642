package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/jonesrussell/north-cloud/odoo-mirror/internal/logger"
	"github.com/jonesrussell/north-cloud/odoo-mirror/internal/schedule"
)

const cronFieldCount = 5

// ScheduleStore is the slice of the schedule store the handlers need.
type ScheduleStore interface {
	AddOrReplace(ctx context.Context, name string, spec *schedule.JobSpec) error
	Remove(ctx context.Context, name string) error
	ListAll(ctx context.Context) (map[string]*schedule.JobSpec, error)
}

// ScheduleHandler manages scheduled jobs over HTTP. Writes land in the
// store and reach the running scheduler within its sync window.
type ScheduleHandler struct {
	store  ScheduleStore
	logger logger.Logger
}

func NewScheduleHandler(store ScheduleStore, log logger.Logger) *ScheduleHandler {
	return &ScheduleHandler{
		store:  store,
		logger: log,
	}
}

type scheduleTaskRequest struct {
	Name            string         `json:"name" binding:"required"`
	Task            string         `json:"task" binding:"required"`
	ScheduleType    string         `json:"schedule_type"`
	Cron            string         `json:"cron"`
	Minute          string         `json:"minute"`
	Hour            string         `json:"hour"`
	DayOfWeek       string         `json:"day_of_week"`
	DayOfMonth      string         `json:"day_of_month"`
	MonthOfYear     string         `json:"month_of_year"`
	IntervalSeconds int            `json:"interval_seconds"`
	Args            []any          `json:"args"`
	Kwargs          map[string]any `json:"kwargs"`
	Options         map[string]any `json:"options"`
}

// Create registers or replaces a scheduled job.
// POST /api/v1/schedule-task
func (h *ScheduleHandler) Create(c *gin.Context) {
	var req scheduleTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	spec := &schedule.JobSpec{
		Task:            req.Task,
		ScheduleType:    req.ScheduleType,
		Minute:          req.Minute,
		Hour:            req.Hour,
		DayOfWeek:       req.DayOfWeek,
		DayOfMonth:      req.DayOfMonth,
		MonthOfYear:     req.MonthOfYear,
		IntervalSeconds: req.IntervalSeconds,
		Args:            req.Args,
		Kwargs:          req.Kwargs,
		Options:         req.Options,
	}

	// A five-field cron expression is shorthand for the individual
	// crontab fields.
	if req.Cron != "" {
		fields := strings.Fields(req.Cron)
		if len(fields) != cronFieldCount {
			c.JSON(http.StatusBadRequest, gin.H{"error": "cron must have exactly 5 fields"})
			return
		}
		spec.ScheduleType = schedule.ScheduleTypeCrontab
		spec.Minute = fields[0]
		spec.Hour = fields[1]
		spec.DayOfMonth = fields[2]
		spec.MonthOfYear = fields[3]
		spec.DayOfWeek = fields[4]
	}

	spec.ApplyDefaults()

	// Reject unparsable crontab fields before they reach the store.
	if _, err := spec.Timing(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.store.AddOrReplace(c.Request.Context(), req.Name, spec); err != nil {
		h.logger.Error("Failed to store scheduled job",
			logger.String("job", req.Name),
			logger.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store scheduled job"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "task scheduled",
		"name":    req.Name,
	})
}

// List returns every stored job spec.
// GET /api/v1/scheduled-tasks
func (h *ScheduleHandler) List(c *gin.Context) {
	specs, err := h.store.ListAll(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to list scheduled jobs", logger.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list scheduled jobs"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"tasks": specs,
		"count": len(specs),
	})
}

// Delete removes a stored job by name.
// DELETE /api/v1/scheduled-tasks/:name
func (h *ScheduleHandler) Delete(c *gin.Context) {
	name := c.Param("name")

	err := h.store.Remove(c.Request.Context(), name)
	if errors.Is(err, schedule.ErrJobNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "scheduled task not found"})
		return
	}
	if err != nil {
		h.logger.Error("Failed to remove scheduled job",
			logger.String("job", name),
			logger.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to remove scheduled job"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "task removed",
		"name":    name,
	})
}
