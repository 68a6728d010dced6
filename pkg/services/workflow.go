package services

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/superdash/flowengine/pkg/models"
	"github.com/superdash/flowengine/pkg/persistence"
	"github.com/superdash/flowengine/pkg/registry"
)

// ErrWorkflowNotFound is returned when a workflow is not found.
var ErrWorkflowNotFound = persistence.ErrWorkflowNotFound

// Workflow handles workflow CRUD, graph validation and schedule
// synchronization.
type Workflow struct {
	persistence persistence.Persistence
	registry    *registry.Registry
	validator   *validator.Validate
}

// NewWorkflow creates a new workflow service.
func NewWorkflow(store persistence.Persistence, reg *registry.Registry) *Workflow {
	return &Workflow{
		persistence: store,
		registry:    reg,
		validator:   validator.New(),
	}
}

// HealthCheck checks the health of the persistence layer.
func (w *Workflow) HealthCheck(ctx context.Context) (string, bool) {
	if w.persistence == nil {
		return "Persistence layer not initialized", false
	}

	if err := w.persistence.HealthCheck(ctx); err != nil {
		return "Persistence layer is unhealthy: " + err.Error(), false
	}

	return "Persistence layer is healthy", true
}

// ListWorkflows returns all workflows, newest first.
func (w *Workflow) ListWorkflows(ctx context.Context) ([]*models.Workflow, error) {
	workflows, err := w.persistence.WorkflowRepository().GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list workflows: %w", err)
	}

	return workflows, nil
}

// GetWorkflow returns one workflow by ID.
func (w *Workflow) GetWorkflow(ctx context.Context, id string) (*models.Workflow, error) {
	return w.persistence.WorkflowRepository().GetByID(ctx, id)
}

// CreateWorkflow validates and persists a new workflow, registering its
// schedule when one is configured.
func (w *Workflow) CreateWorkflow(ctx context.Context, workflow *models.Workflow) (*models.Workflow, error) {
	if workflow == nil {
		return nil, ErrWorkflowNil
	}

	if workflow.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return nil, fmt.Errorf("failed to generate workflow ID: %w", err)
		}

		workflow.ID = id.String()
	}

	if err := w.validateWorkflow(workflow); err != nil {
		return nil, err
	}

	if err := w.persistence.WorkflowRepository().Save(ctx, workflow); err != nil {
		return nil, fmt.Errorf("failed to save workflow: %w", err)
	}

	if err := w.syncSchedule(ctx, workflow); err != nil {
		return nil, err
	}

	return workflow, nil
}

// UpdateWorkflow replaces an existing workflow and re-syncs its schedule.
func (w *Workflow) UpdateWorkflow(ctx context.Context, id string, workflow *models.Workflow) (*models.Workflow, error) {
	if workflow == nil {
		return nil, ErrWorkflowNil
	}

	existing, err := w.persistence.WorkflowRepository().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	workflow.ID = existing.ID
	workflow.CreatedAt = existing.CreatedAt
	workflow.UpdatedAt = time.Now().UTC()

	if err := w.validateWorkflow(workflow); err != nil {
		return nil, err
	}

	if err := w.persistence.WorkflowRepository().Save(ctx, workflow); err != nil {
		return nil, fmt.Errorf("failed to save workflow: %w", err)
	}

	if err := w.syncSchedule(ctx, workflow); err != nil {
		return nil, err
	}

	return workflow, nil
}

// DeleteWorkflow removes a workflow together with its schedule entries and
// execution history.
func (w *Workflow) DeleteWorkflow(ctx context.Context, id string) error {
	if _, err := w.persistence.WorkflowRepository().GetByID(ctx, id); err != nil {
		return err
	}

	if err := w.persistence.ScheduleRepository().DeleteByWorkflow(ctx, id); err != nil {
		return fmt.Errorf("failed to delete schedules for workflow %s: %w", id, err)
	}

	if err := w.persistence.ExecutionRepository().DeleteByWorkflow(ctx, id); err != nil {
		return fmt.Errorf("failed to delete executions for workflow %s: %w", id, err)
	}

	if err := w.persistence.WorkflowRepository().Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete workflow %s: %w", id, err)
	}

	return nil
}

// ToggleWorkflow flips the enabled flag and re-syncs the schedule.
func (w *Workflow) ToggleWorkflow(ctx context.Context, id string, enabled bool) (*models.Workflow, error) {
	workflow, err := w.persistence.WorkflowRepository().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	workflow.Enabled = enabled
	workflow.UpdatedAt = time.Now().UTC()

	if err := w.persistence.WorkflowRepository().Save(ctx, workflow); err != nil {
		return nil, fmt.Errorf("failed to save workflow: %w", err)
	}

	if err := w.syncSchedule(ctx, workflow); err != nil {
		return nil, err
	}

	return workflow, nil
}

// ScheduledWorkflow describes one active schedule entry.
type ScheduledWorkflow struct {
	NextRunTime time.Time `json:"next_run_time"`
	Trigger     string    `json:"trigger"`
}

// ScheduledWorkflows returns the active schedule entries keyed by workflow ID.
func (w *Workflow) ScheduledWorkflows(ctx context.Context) (map[string]ScheduledWorkflow, error) {
	schedules, err := w.persistence.ScheduleRepository().GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list schedules: %w", err)
	}

	scheduled := make(map[string]ScheduledWorkflow)

	for _, schedule := range schedules {
		if !schedule.Active {
			continue
		}

		scheduled[schedule.WorkflowID] = ScheduledWorkflow{
			NextRunTime: schedule.NextDueAt,
			Trigger:     schedule.CronExpression,
		}
	}

	return scheduled, nil
}

// validateWorkflow checks struct constraints, graph integrity and the cron
// expression. Bad graphs are rejected here so executions never see them.
func (w *Workflow) validateWorkflow(workflow *models.Workflow) error {
	if err := w.validator.Struct(workflow); err != nil {
		return NewValidationError("validateWorkflow", "INVALID_WORKFLOW", err.Error(), ErrWorkflowNameRequired)
	}

	nodeIDs := make(map[string]bool, len(workflow.Nodes))

	for _, node := range workflow.Nodes {
		nodeIDs[node.ID] = true

		if err := w.registry.ValidateNode(node); err != nil {
			if !w.registry.IsNodeRegistered(node.Type) {
				return NewValidationError(
					"validateWorkflow",
					"UNKNOWN_NODE_TYPE",
					fmt.Sprintf("node %s has unknown type '%s'", node.ID, node.Type),
					ErrUnknownNodeType,
				)
			}

			return NewValidationError("validateWorkflow", "INVALID_NODE_CONFIG", err.Error(), ErrInvalidNodeConfig)
		}
	}

	for _, edge := range workflow.Edges {
		if !nodeIDs[edge.Source] || !nodeIDs[edge.Target] {
			return NewValidationError(
				"validateWorkflow",
				"DANGLING_EDGE",
				fmt.Sprintf("edge %s references a missing node (%s -> %s)", edge.ID, edge.Source, edge.Target),
				ErrDanglingEdge,
			)
		}
	}

	if workflow.HasSchedule() {
		if _, err := models.ParseCron(*workflow.Schedule); err != nil {
			return NewValidationError(
				"validateWorkflow",
				"INVALID_CRON",
				fmt.Sprintf("invalid cron expression '%s': %v", *workflow.Schedule, err),
				ErrInvalidCronExpression,
			)
		}
	}

	return nil
}

// syncSchedule keeps the schedule store in line with the workflow's schedule
// field and enabled flag.
func (w *Workflow) syncSchedule(ctx context.Context, workflow *models.Workflow) error {
	schedules := w.persistence.ScheduleRepository()

	existing, err := schedules.GetByWorkflowID(ctx, workflow.ID)
	if err != nil {
		return fmt.Errorf("failed to load schedule for workflow %s: %w", workflow.ID, err)
	}

	if !workflow.Enabled || !workflow.HasSchedule() {
		if existing != nil && existing.Active {
			existing.Active = false
			existing.UpdatedAt = time.Now().UTC()

			if err := schedules.Save(ctx, existing); err != nil {
				return fmt.Errorf("failed to deactivate schedule for workflow %s: %w", workflow.ID, err)
			}
		}

		return nil
	}

	if existing == nil {
		schedule, err := models.NewSchedule(uuid.New().String(), workflow.ID, *workflow.Schedule)
		if err != nil {
			return fmt.Errorf("failed to create schedule for workflow %s: %w", workflow.ID, err)
		}

		return schedules.Save(ctx, schedule)
	}

	existing.CronExpression = *workflow.Schedule
	existing.Active = true

	if err := existing.UpdateNextDueAt(); err != nil {
		return fmt.Errorf("failed to compute next due time for workflow %s: %w", workflow.ID, err)
	}

	return schedules.Save(ctx, existing)
}
