package scheduler

import (
	"context"
	"time"

	"github.com/gusti-hub/mlb-borneo-be/internal/service"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// runTimeout bounds one recompute run.
const runTimeout = 10 * time.Minute

// Scheduler drives the daily dashboard recompute. Runs are sequential:
// cron skips a tick while the previous run still holds the slot.
type Scheduler struct {
	cron      *cron.Cron
	dashboard *service.DashboardService
	logger    *zap.Logger
	running   chan struct{}
}

// New creates a scheduler with the given cron spec (standard 5-field).
func New(spec string, dashboard *service.DashboardService, logger *zap.Logger) (*Scheduler, error) {
	s := &Scheduler{
		cron:      cron.New(),
		dashboard: dashboard,
		logger:    logger,
		running:   make(chan struct{}, 1),
	}
	if _, err := s.cron.AddFunc(spec, s.run); err != nil {
		return nil, err
	}
	return s, nil
}

// Start begins firing on schedule.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("dashboard scheduler started")
}

// Stop halts the schedule and waits for an in-flight run to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.running <- struct{}{}
	<-s.running
	s.logger.Info("dashboard scheduler stopped")
}

func (s *Scheduler) run() {
	select {
	case s.running <- struct{}{}:
	default:
		s.logger.Warn("dashboard recompute still running, skipping tick")
		return
	}
	defer func() { <-s.running }()

	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	if err := s.dashboard.RunAllCalculations(ctx); err != nil {
		s.logger.Error("scheduled dashboard recompute failed", zap.Error(err))
	}
}
