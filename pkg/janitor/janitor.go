package janitor

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Task is a named cleanup job. It reports how many rows it removed.
type Task struct {
	Name string
	Run  func(ctx context.Context) (int64, error)
}

// Janitor runs registered cleanup tasks on cron schedules. A typical
// deployment sweeps expired sessions and stale remember-me tokens.
type Janitor struct {
	cron    *cron.Cron
	log     *slog.Logger
	timeout time.Duration
}

// Option configures the Janitor.
type Option func(*Janitor)

// WithTimeout bounds each task run. Defaults to one minute.
func WithTimeout(d time.Duration) Option {
	return func(jan *Janitor) {
		if d > 0 {
			jan.timeout = d
		}
	}
}

// New creates a Janitor that logs task outcomes to log.
func New(log *slog.Logger, opts ...Option) *Janitor {
	jan := &Janitor{
		cron:    cron.New(),
		log:     log,
		timeout: time.Minute,
	}
	for _, opt := range opts {
		opt(jan)
	}
	return jan
}

// Schedule registers a task on a cron spec (standard 5-field format).
func (jan *Janitor) Schedule(spec string, task Task) error {
	_, err := jan.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), jan.timeout)
		defer cancel()

		removed, err := task.Run(ctx)
		if err != nil {
			jan.log.Error("janitor task failed",
				slog.String("task", task.Name),
				slog.String("error", err.Error()))
			return
		}
		if removed > 0 {
			jan.log.Info("janitor task completed",
				slog.String("task", task.Name),
				slog.Int64("removed", removed))
		}
	})
	return err
}

// Start launches the scheduler in its own goroutine.
func (jan *Janitor) Start() {
	jan.cron.Start()
}

// Stop halts scheduling and waits for running tasks to finish.
func (jan *Janitor) Stop(ctx context.Context) error {
	done := jan.cron.Stop().Done()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
