// Package daemon holds the long-running pieces of serve mode: the scheduled
// cache refresh, the config file watcher, and the invalidation bus.
package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"

	"git.home.luguber.info/inful/megamenu/internal/menu"
)

// Refresher is the slice of the provider the scheduler needs.
type Refresher interface {
	Refresh(ctx context.Context) (menu.MenuData, error)
}

// Scheduler wraps gocron scheduler for the periodic menu refresh.
type Scheduler struct {
	scheduler gocron.Scheduler
	refresher Refresher
}

// NewScheduler creates a new scheduler instance.
func NewScheduler(r Refresher) (*Scheduler, error) {
	s, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("failed to create gocron scheduler: %w", err)
	}
	return &Scheduler{scheduler: s, refresher: r}, nil
}

// ScheduleRefresh registers the periodic refresh job. Returns the job ID for
// later management.
func (s *Scheduler) ScheduleRefresh(interval time.Duration) (string, error) {
	if interval <= 0 {
		return "", fmt.Errorf("refresh interval must be positive, got %v", interval)
	}
	job, err := s.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(s.refresh),
		gocron.WithName("menu-refresh"),
	)
	if err != nil {
		return "", fmt.Errorf("failed to create refresh job: %w", err)
	}
	return job.ID().String(), nil
}

// refresh is called by gocron; refresh failures leave the last cached entry
// in place, so they are logged and dropped.
func (s *Scheduler) refresh() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	start := time.Now()
	if _, err := s.refresher.Refresh(ctx); err != nil {
		slog.Warn("Scheduled menu refresh failed", "error", err)
		return
	}
	slog.Info("Menu cache refreshed", slog.Duration("duration", time.Since(start)))
}

// Start begins the scheduler.
func (s *Scheduler) Start() {
	slog.Info("Starting menu refresh scheduler")
	s.scheduler.Start()
}

// Stop gracefully shuts down the scheduler.
func (s *Scheduler) Stop() error {
	slog.Info("Stopping menu refresh scheduler")
	return s.scheduler.Shutdown()
}
