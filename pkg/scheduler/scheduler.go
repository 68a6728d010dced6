// Package scheduler runs cron-scheduled workflows. A single centralized
// poller wakes every minute and processes every schedule whose persisted
// next_due_at has passed, so per-workflow timers are never needed.
package scheduler

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/superdash/flowengine/pkg/engine"
	"github.com/superdash/flowengine/pkg/models"
	"github.com/superdash/flowengine/pkg/persistence"
)

const defaultPollInterval = 1 * time.Minute

// Scheduler polls for due schedules and hands the owning workflows to the
// executor.
type Scheduler struct {
	logger       *slog.Logger
	persistence  persistence.Persistence
	executor     *engine.Executor
	pollInterval time.Duration
	ticker       *time.Ticker
	done         chan bool
	started      bool
	mu           sync.RWMutex
}

func NewScheduler(logger *slog.Logger, store persistence.Persistence, executor *engine.Executor) *Scheduler {
	return &Scheduler{
		logger:       logger.With("module", "scheduler"),
		persistence:  store,
		executor:     executor,
		pollInterval: defaultPollInterval,
	}
}

// Start begins the centralized schedule poller.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	s.logger.Info("Starting centralized schedule poller", "poll_interval", s.pollInterval)

	s.ticker = time.NewTicker(s.pollInterval)
	s.done = make(chan bool)
	s.started = true

	go s.pollSchedules(ctx)

	return nil
}

// Stop gracefully shuts down the poller.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return nil
	}

	s.logger.Info("Stopping schedule poller")

	if s.ticker != nil {
		s.ticker.Stop()
	}

	select {
	case s.done <- true:
	default:
	}

	s.started = false

	return nil
}

func (s *Scheduler) pollSchedules(ctx context.Context) {
	for {
		select {
		case <-s.done:
			return
		case <-ctx.Done():
			return
		case <-s.ticker.C:
			s.processDueSchedules(ctx)
		}
	}
}

// processDueSchedules queries for every schedule that is due, runs the owning
// workflow and advances next_due_at from the schedule's own cron expression.
func (s *Scheduler) processDueSchedules(ctx context.Context) {
	now := time.Now().UTC()

	dueSchedules, err := s.persistence.ScheduleRepository().Due(ctx, now)
	if err != nil {
		s.logger.Error("Failed to get due schedules", "error", err)

		return
	}

	if len(dueSchedules) > 0 {
		s.logger.Info("Processing due schedules", "count", len(dueSchedules))
	}

	for _, schedule := range dueSchedules {
		s.processSchedule(ctx, schedule)
	}
}

func (s *Scheduler) processSchedule(ctx context.Context, schedule *models.Schedule) {
	logger := s.logger.With(
		"workflow_id", schedule.WorkflowID,
		"cron_expression", schedule.CronExpression,
		"due_at", schedule.NextDueAt,
	)

	workflow, err := s.persistence.WorkflowRepository().GetByID(ctx, schedule.WorkflowID)
	if err != nil {
		if persistence.IsWorkflowNotFound(err) {
			logger.Warn("Workflow gone, removing orphaned schedule")

			if err := s.persistence.ScheduleRepository().DeleteByWorkflow(ctx, schedule.WorkflowID); err != nil {
				logger.Error("Failed to remove orphaned schedule", "error", err)
			}

			return
		}

		logger.Error("Failed to fetch workflow for schedule", "error", err)

		return
	}

	if !workflow.Enabled || !workflow.HasSchedule() {
		logger.Info("Workflow no longer schedulable, deactivating schedule")

		schedule.Active = false
		if err := s.persistence.ScheduleRepository().Save(ctx, schedule); err != nil {
			logger.Error("Failed to deactivate schedule", "error", err)
		}

		return
	}

	logger.Info("Processing due schedule")

	// Run in the background so one slow workflow does not hold up the rest
	// of this polling cycle.
	go func() {
		if _, err := s.executor.Execute(ctx, workflow, models.TriggerTypeSchedule, nil); err != nil {
			logger.Error("Scheduled execution failed", "error", err)
		}
	}()

	if err := schedule.UpdateNextDueAt(); err != nil {
		logger.Error("Failed to update next due at", "error", err)

		return
	}

	if err := s.persistence.ScheduleRepository().Save(ctx, schedule); err != nil {
		logger.Error("Failed to update schedule", "error", err)

		return
	}

	logger.Info("Schedule updated", "next_due_at", schedule.NextDueAt)
}
