package app

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/Rashidov21/queue-management-bot/internal/service"
)

// Scheduler drives the periodic background work: the notification dispatch
// sweep and the reminder planning sweep. It is constructed and owned by the
// process entry point; nothing here is a process-wide singleton.
type Scheduler struct {
	dispatcher *service.Dispatcher
	planner    *service.NotificationService
	logger     *zap.Logger

	dispatchEvery time.Duration
	planEvery     time.Duration
	horizonDays   int

	stopChan chan struct{}
}

type SchedulerConfig struct {
	DispatchInterval time.Duration
	PlanningInterval time.Duration
	HorizonDays      int
}

func NewScheduler(dispatcher *service.Dispatcher, planner *service.NotificationService, logger *zap.Logger, cfg SchedulerConfig) *Scheduler {
	if cfg.DispatchInterval <= 0 {
		cfg.DispatchInterval = time.Minute
	}
	if cfg.PlanningInterval <= 0 {
		cfg.PlanningInterval = time.Hour
	}
	if cfg.HorizonDays <= 0 {
		cfg.HorizonDays = 7
	}
	return &Scheduler{
		dispatcher:    dispatcher,
		planner:       planner,
		logger:        logger,
		dispatchEvery: cfg.DispatchInterval,
		planEvery:     cfg.PlanningInterval,
		horizonDays:   cfg.HorizonDays,
		stopChan:      make(chan struct{}),
	}
}

// Start launches the background loops.
func (s *Scheduler) Start(ctx context.Context) {
	s.logger.Info("Starting background scheduler",
		zap.Duration("dispatch_interval", s.dispatchEvery),
		zap.Duration("planning_interval", s.planEvery),
	)

	go s.runDispatchLoop(ctx)
	go s.runPlanningLoop(ctx)
}

// Stop terminates the background loops.
func (s *Scheduler) Stop() {
	s.logger.Info("Stopping background scheduler")
	close(s.stopChan)
}

func (s *Scheduler) runDispatchLoop(ctx context.Context) {
	// First sweep right away, then on the ticker.
	s.dispatch(ctx)

	ticker := time.NewTicker(s.dispatchEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.dispatch(ctx)
		case <-s.stopChan:
			s.logger.Info("Dispatch loop stopped")
			return
		case <-ctx.Done():
			s.logger.Info("Dispatch loop cancelled")
			return
		}
	}
}

func (s *Scheduler) runPlanningLoop(ctx context.Context) {
	s.plan(ctx)

	ticker := time.NewTicker(s.planEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.plan(ctx)
		case <-s.stopChan:
			s.logger.Info("Planning loop stopped")
			return
		case <-ctx.Done():
			s.logger.Info("Planning loop cancelled")
			return
		}
	}
}

func (s *Scheduler) dispatch(ctx context.Context) {
	if _, err := s.dispatcher.Sweep(ctx, time.Now()); err != nil {
		s.logger.Error("Dispatch sweep failed", zap.Error(err))
	}
}

func (s *Scheduler) plan(ctx context.Context) {
	scheduled, err := s.planner.PlanningSweep(ctx, time.Now(), s.horizonDays)
	if err != nil {
		s.logger.Error("Planning sweep failed", zap.Error(err))
		return
	}
	if scheduled > 0 {
		s.logger.Info("Planning sweep finished", zap.Int("scheduled", scheduled))
	}
}
