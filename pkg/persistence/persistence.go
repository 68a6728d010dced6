// Package persistence provides the data storage abstraction layer for
// workflows, executions and schedules.
package persistence

import (
	"context"
	"time"

	"github.com/superdash/flowengine/pkg/models"
)

// Persistence is the storage entry point. Implementations: file (JSON files
// under a root directory) and postgresql.
type Persistence interface {
	WorkflowRepository() WorkflowRepository
	ExecutionRepository() ExecutionRepository
	ScheduleRepository() ScheduleRepository

	HealthCheck(ctx context.Context) error
	Close(ctx context.Context) error
}

// WorkflowRepository stores workflow graphs.
type WorkflowRepository interface {
	// GetAll returns all workflows, newest first.
	GetAll(ctx context.Context) ([]*models.Workflow, error)

	// GetByID returns a workflow, or ErrWorkflowNotFound.
	GetByID(ctx context.Context, id string) (*models.Workflow, error)

	// Save inserts or replaces a workflow.
	Save(ctx context.Context, workflow *models.Workflow) error

	// Delete removes a workflow, or returns ErrWorkflowNotFound.
	Delete(ctx context.Context, id string) error
}

// ExecutionRepository stores append-only execution records.
type ExecutionRepository interface {
	// Save inserts or updates an execution record.
	Save(ctx context.Context, execution *models.Execution) error

	// GetByID returns an execution, or ErrExecutionNotFound.
	GetByID(ctx context.Context, id string) (*models.Execution, error)

	// List returns executions newest first, optionally filtered by workflow.
	List(ctx context.Context, workflowID string, limit int) ([]*models.Execution, error)

	// DeleteByWorkflow removes all executions of a workflow.
	DeleteByWorkflow(ctx context.Context, workflowID string) error
}

// ScheduleRepository stores cron schedule entries for the centralized poller.
type ScheduleRepository interface {
	// GetAll returns every schedule entry.
	GetAll(ctx context.Context) ([]*models.Schedule, error)

	// GetByWorkflowID returns the schedule of a workflow, or nil when none exists.
	GetByWorkflowID(ctx context.Context, workflowID string) (*models.Schedule, error)

	// Due returns active schedules whose next due time is at or before now.
	Due(ctx context.Context, now time.Time) ([]*models.Schedule, error)

	// Save inserts or replaces a schedule entry.
	Save(ctx context.Context, schedule *models.Schedule) error

	// DeleteByWorkflow removes the schedule of a workflow, if any.
	DeleteByWorkflow(ctx context.Context, workflowID string) error
}
