package service

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/robfig/cron/v3"
)

const resetJob = "reset-statuses"

// Scheduler runs the host-station housekeeping jobs on a cron schedule.
type Scheduler struct {
	tables *TableService
	logger *log.Logger
	guard  jobGuard
	cron   *cron.Cron
}

// NewScheduler creates a Scheduler. Call Start to begin running jobs.
func NewScheduler(tables *TableService, logger *log.Logger) *Scheduler {
	if logger == nil {
		logger = log.Default()
	}
	return &Scheduler{tables: tables, logger: logger}
}

// Start schedules the status reset with a standard five-field cron expression.
func (s *Scheduler) Start(ctx context.Context, resetSpec string) error {
	c := cron.New()
	if _, err := c.AddFunc(resetSpec, func() {
		if _, err := s.RunReset(ctx); err != nil {
			s.logger.Error("status reset failed", "err", err)
		}
	}); err != nil {
		return fmt.Errorf("invalid reset schedule %q: %w", resetSpec, err)
	}
	c.Start()
	s.cron = c
	s.logger.Info("scheduled status reset", "schedule", resetSpec)
	return nil
}

// RunReset clears every table status now. A run that overlaps a previous
// one is skipped and reports 0 tables.
func (s *Scheduler) RunReset(ctx context.Context) (int64, error) {
	if ok, since := s.guard.TryStart(resetJob); !ok {
		s.logger.Warn("status reset already running, skipping", "running_for", time.Since(since).Round(time.Second))
		return 0, nil
	}
	defer s.guard.Finish(resetJob)

	n, err := s.tables.ResetStatuses(ctx)
	if err != nil {
		return 0, err
	}
	s.logger.Info("reset table statuses", "tables", n)
	return n, nil
}

// Stop halts the schedule and waits for a running job, or ctx, to finish.
func (s *Scheduler) Stop(ctx context.Context) {
	if s.cron != nil {
		stopped := s.cron.Stop()
		select {
		case <-stopped.Done():
		case <-ctx.Done():
		}
		s.cron = nil
	}
	if err := s.guard.Wait(ctx); err != nil {
		s.logger.Warn("stopped with jobs still running", "jobs", s.guard.Running())
	}
}
