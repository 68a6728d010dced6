package services

import (
	"context"
	"fmt"

	"github.com/superdash/flowengine/pkg/engine"
	"github.com/superdash/flowengine/pkg/models"
	"github.com/superdash/flowengine/pkg/persistence"
)

// TriggeredWorkflow identifies one workflow fired by a webhook call.
type TriggeredWorkflow struct {
	WorkflowID   string `json:"workflow_id"`
	WorkflowName string `json:"workflow_name"`
	ExecutionID  string `json:"execution_id"`
}

// Execution handles workflow runs and execution history queries.
type Execution struct {
	persistence persistence.Persistence
	executor    *engine.Executor
}

// NewExecution creates a new execution service.
func NewExecution(store persistence.Persistence, executor *engine.Executor) *Execution {
	return &Execution{
		persistence: store,
		executor:    executor,
	}
}

// ExecuteWorkflow runs a workflow synchronously and returns the finished
// execution record. Disabled workflows may still be run manually.
func (e *Execution) ExecuteWorkflow(ctx context.Context, workflowID, triggerType string, triggerData map[string]any) (*models.Execution, error) {
	workflow, err := e.persistence.WorkflowRepository().GetByID(ctx, workflowID)
	if err != nil {
		return nil, err
	}

	return e.executor.Execute(ctx, workflow, triggerType, triggerData)
}

// ListExecutions returns execution history, optionally filtered by workflow,
// newest first.
func (e *Execution) ListExecutions(ctx context.Context, workflowID string, limit int) ([]*models.Execution, error) {
	executions, err := e.persistence.ExecutionRepository().List(ctx, workflowID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list executions: %w", err)
	}

	return executions, nil
}

// GetExecution returns one execution by ID.
func (e *Execution) GetExecution(ctx context.Context, id string) (*models.Execution, error) {
	return e.persistence.ExecutionRepository().GetByID(ctx, id)
}

// TriggerWebhook fires every enabled workflow containing a webhook trigger
// node with the given ID. The request payload becomes the trigger data each
// run sees through its trigger node.
func (e *Execution) TriggerWebhook(ctx context.Context, nodeID string, payload map[string]any) ([]TriggeredWorkflow, error) {
	workflows, err := e.persistence.WorkflowRepository().GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list workflows: %w", err)
	}

	var triggered []TriggeredWorkflow

	for _, workflow := range workflows {
		if !workflow.Enabled {
			continue
		}

		if workflow.WebhookTriggerNode(nodeID) == nil {
			continue
		}

		execution, err := e.executor.Execute(ctx, workflow, models.TriggerTypeWebhook, payload)
		if err != nil {
			return triggered, fmt.Errorf("failed to execute workflow %s: %w", workflow.ID, err)
		}

		triggered = append(triggered, TriggeredWorkflow{
			WorkflowID:   workflow.ID,
			WorkflowName: workflow.Name,
			ExecutionID:  execution.ID,
		})
	}

	return triggered, nil
}
