package usecase

import (
	"context"
	"io"
	"log/slog"
	"time"

	"newslens/internal/ports"
)

// Scheduler wires the interval driver with the refresh pipeline.
type Scheduler struct {
	driver   ports.Scheduler
	pipeline *Pipeline
	logger   *slog.Logger
}

// NewScheduler returns a helper to start/stop the recurring refresh.
func NewScheduler(driver ports.Scheduler, pipeline *Pipeline, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Scheduler{driver: driver, pipeline: pipeline, logger: logger}
}

// Start registers the refresh job with the provided scheduler.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.driver == nil || s.pipeline == nil {
		return nil
	}

	job := func(trigger time.Time) {
		results, err := s.pipeline.RefreshAll(ctx)
		if err != nil {
			s.logger.Error("refresh pass failed", "error", err)
			return
		}

		var succeeded, failed, articles int
		for _, r := range results {
			if r.Success {
				succeeded++
				articles += r.NewArticles
			} else {
				failed++
			}
		}
		s.logger.Info("refresh pass done",
			"trigger", trigger.Format(time.RFC3339),
			"feeds_ok", succeeded,
			"feeds_failed", failed,
			"new_articles", articles)
	}

	return s.driver.Start(ctx, job)
}

// Stop gracefully tears down the underlying scheduler.
func (s *Scheduler) Stop(ctx context.Context) error {
	if s.driver == nil {
		return nil
	}
	return s.driver.Stop(ctx)
}
