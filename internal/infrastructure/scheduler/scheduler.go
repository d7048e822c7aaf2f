// Package scheduler runs periodic background jobs outside the request path.
package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Job is one pass of periodic work. It returns how many items it handled.
type Job interface {
	Run(ctx context.Context, now time.Time) (int, error)
}

// JobFunc adapts a function to Job.
type JobFunc func(ctx context.Context, now time.Time) (int, error)

func (f JobFunc) Run(ctx context.Context, now time.Time) (int, error) {
	return f(ctx, now)
}

// Worker runs a Job on a fixed interval.
type Worker struct {
	name     string
	job      Job
	logger   zerolog.Logger
	interval time.Duration
	now      func() time.Time
}

// Config for Worker.
type Config struct {
	Name     string
	Job      Job
	Logger   zerolog.Logger
	Interval time.Duration // Polling interval
}

// NewWorker creates a new Worker.
func NewWorker(cfg Config) *Worker {
	if cfg.Interval == 0 {
		cfg.Interval = time.Hour
	}
	if cfg.Name == "" {
		cfg.Name = "worker"
	}

	return &Worker{
		name:     cfg.Name,
		job:      cfg.Job,
		logger:   cfg.Logger.With().Str("worker", cfg.Name).Logger(),
		interval: cfg.Interval,
		now:      time.Now,
	}
}

// Name returns the worker name.
func (w *Worker) Name() string {
	return w.name
}

// Start runs the job immediately and then on every tick until ctx is cancelled.
func (w *Worker) Start(ctx context.Context) error {
	w.logger.Info().Dur("interval", w.interval).Msg("worker started")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.tick(ctx)

	for {
		select {
		case <-ctx.Done():
			w.logger.Info().Msg("worker shutting down")
			return ctx.Err()
		case <-ticker.C:
			w.tick(ctx)
		}
	}
}

func (w *Worker) tick(ctx context.Context) {
	start := w.now()

	handled, err := w.job.Run(ctx, start)
	if err != nil {
		w.logger.Error().Err(err).Msg("job run failed")
		return
	}

	if handled > 0 {
		w.logger.Info().
			Int("handled", handled).
			Dur("duration", w.now().Sub(start)).
			Msg("job run completed")
	}
}
