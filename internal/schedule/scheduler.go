// Package schedule regenerates documentation periodically.
package schedule

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"

	"git.home.luguber.info/inful/apidocgen/internal/logfields"
)

// RunFunc performs one documentation run.
type RunFunc func(ctx context.Context) error

// Scheduler wraps a gocron scheduler running one regeneration job.
type Scheduler struct {
	scheduler gocron.Scheduler
}

// NewScheduler creates a new scheduler instance.
func NewScheduler() (*Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}
	return &Scheduler{scheduler: s}, nil
}

// Every schedules run at the given interval, starting immediately. Runs are
// in singleton mode: a tick that fires while a run is in progress is skipped.
// Returns the job ID.
func (s *Scheduler) Every(ctx context.Context, interval time.Duration, run RunFunc) (string, error) {
	if interval <= 0 {
		return "", errors.New("schedule interval must be positive")
	}
	job, err := s.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() { execute(ctx, run) }),
		gocron.WithName("apidocgen-generate"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create periodic generate job: %w", err)
	}
	slog.Info("Scheduled documentation regeneration", slog.Duration("interval", interval), slog.String("job_id", job.ID().String()))
	return job.ID().String(), nil
}

// Start begins the scheduler.
func (s *Scheduler) Start() {
	slog.Info("Starting scheduler")
	s.scheduler.Start()
}

// Stop shuts down the scheduler, waiting for a running job to finish.
func (s *Scheduler) Stop() error {
	slog.Info("Stopping scheduler")
	return s.scheduler.Shutdown()
}

// Run schedules run every interval and blocks until ctx is done.
func Run(ctx context.Context, interval time.Duration, run RunFunc) error {
	s, err := NewScheduler()
	if err != nil {
		return err
	}
	if _, err := s.Every(ctx, interval, run); err != nil {
		_ = s.Stop()
		return err
	}
	s.Start()
	<-ctx.Done()
	return s.Stop()
}

func execute(ctx context.Context, run RunFunc) {
	if ctx.Err() != nil {
		return
	}
	start := time.Now()
	if err := run(ctx); err != nil {
		slog.Error("Scheduled regeneration failed", logfields.Duration(time.Since(start)), logfields.Error(err))
		return
	}
	slog.Debug("Scheduled regeneration finished", logfields.Duration(time.Since(start)))
}
