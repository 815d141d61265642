// Package scheduler runs the tick loop and the worker pool that executes
// due jobs.
package scheduler

import (
	"context"
	"sync"

	"github.com/jonesrussell/north-cloud/odoo-mirror/internal/logger"
	"github.com/jonesrussell/north-cloud/odoo-mirror/internal/models"
)

// Task is one unit of work handed to the pool.
type Task struct {
	Name    string
	Action  string
	Args    []any
	Kwargs  map[string]any
	Options map[string]any
}

// HandlerFunc executes one task action.
type HandlerFunc func(ctx context.Context, task Task) (models.SyncResult, error)

// Dispatcher owns the task queue and the worker pool. Register all handlers
// before calling Run.
type Dispatcher struct {
	handlers map[string]HandlerFunc
	queue    chan Task
	workers  int
	logger   logger.Logger
}

func NewDispatcher(workers, queueSize int, log logger.Logger) *Dispatcher {
	if workers <= 0 {
		workers = 1
	}
	if queueSize <= 0 {
		queueSize = 1
	}
	return &Dispatcher{
		handlers: make(map[string]HandlerFunc),
		queue:    make(chan Task, queueSize),
		workers:  workers,
		logger:   log,
	}
}

// Register binds an action name to its handler.
func (d *Dispatcher) Register(action string, handler HandlerFunc) {
	d.handlers[action] = handler
}

// Dispatch enqueues the task without blocking. Returns false when the queue
// is full; the caller leaves the job's last-run untouched so it retries on
// a later tick.
func (d *Dispatcher) Dispatch(task Task) bool {
	select {
	case d.queue <- task:
		return true
	default:
		d.logger.Warn("Task queue full, dropping dispatch",
			logger.String("job", task.Name),
			logger.String("action", task.Action),
		)
		return false
	}
}

// Run blocks serving the queue until ctx is cancelled, then waits for
// in-flight tasks to finish.
func (d *Dispatcher) Run(ctx context.Context) {
	var wg sync.WaitGroup
	for i := 0; i < d.workers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			d.work(ctx, id)
		}(i)
	}
	wg.Wait()
}

func (d *Dispatcher) work(ctx context.Context, id int) {
	for {
		select {
		case <-ctx.Done():
			return
		case task := <-d.queue:
			d.execute(ctx, id, task)
		}
	}
}

// execute runs one task, recovering panics so a bad handler cannot take a
// worker down.
func (d *Dispatcher) execute(ctx context.Context, workerID int, task Task) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("Task handler panicked",
				logger.String("job", task.Name),
				logger.String("action", task.Action),
				logger.Any("panic", r),
			)
		}
	}()

	handler, ok := d.handlers[task.Action]
	if !ok {
		d.logger.Error("No handler registered for action",
			logger.String("job", task.Name),
			logger.String("action", task.Action),
		)
		return
	}

	result, err := handler(ctx, task)
	if err != nil {
		d.logger.Error("Task failed",
			logger.String("job", task.Name),
			logger.String("action", task.Action),
			logger.Int("worker", workerID),
			logger.Error(err),
		)
		return
	}

	d.logger.Info("Task completed",
		logger.String("job", task.Name),
		logger.String("action", task.Action),
		logger.Int("worker", workerID),
		logger.String("message", result.Message),
		logger.Int("inserted", result.Inserted),
		logger.Int("updated", result.Updated),
		logger.Int("deleted", result.Deleted),
	)
}
