// Package janitor periodically deletes OAuth states that can no longer be
// redeemed.
package janitor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ErlanBelekov/calendar-api/internal/metrics"
	"github.com/ErlanBelekov/calendar-api/internal/repository"
	"github.com/robfig/cron/v3"
)

type Janitor struct {
	states   repository.OAuthStateRepository
	schedule cron.Schedule
	logger   *slog.Logger
	now      func() time.Time
}

// New parses spec as a standard cron expression or descriptor ("@every 5m").
func New(states repository.OAuthStateRepository, spec string, logger *slog.Logger) (*Janitor, error) {
	sched, err := cron.ParseStandard(spec)
	if err != nil {
		return nil, fmt.Errorf("parse janitor schedule %q: %w", spec, err)
	}
	return &Janitor{
		states:   states,
		schedule: sched,
		logger:   logger.With("component", "janitor"),
		now:      time.Now,
	}, nil
}

// Start runs until ctx is cancelled, purging on every tick of the schedule.
func (j *Janitor) Start(ctx context.Context) {
	j.logger.Info("janitor started")

	for {
		wait := time.Until(j.schedule.Next(j.now()))
		timer := time.NewTimer(wait)

		select {
		case <-ctx.Done():
			timer.Stop()
			j.logger.Info("janitor shut down")
			return
		case <-timer.C:
			_, _ = j.RunOnce(ctx)
		}
	}
}

// RunOnce deletes every state already past its expiry.
func (j *Janitor) RunOnce(ctx context.Context) (int, error) {
	start := time.Now()
	defer func() { metrics.JanitorRunDuration.Observe(time.Since(start).Seconds()) }()

	purged, err := j.states.DeleteExpired(ctx, j.now())
	if err != nil {
		metrics.JanitorRunsTotal.WithLabelValues("error").Inc()
		j.logger.ErrorContext(ctx, "purge expired oauth states", "error", err)
		return 0, err
	}

	metrics.JanitorRunsTotal.WithLabelValues("ok").Inc()
	metrics.JanitorPurgedTotal.Add(float64(purged))
	if purged > 0 {
		j.logger.InfoContext(ctx, "purged expired oauth states", "count", purged)
	}
	return purged, nil
}
