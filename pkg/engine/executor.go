// Package engine executes workflow graphs. Traversal starts at the trigger
// nodes and follows outgoing edges depth-first; each node result is stored in
// the execution context under the node's ID so later nodes can reference it
// through placeholders.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/superdash/flowengine/pkg/eventbus"
	"github.com/superdash/flowengine/pkg/events"
	"github.com/superdash/flowengine/pkg/models"
	"github.com/superdash/flowengine/pkg/otelhelper"
	"github.com/superdash/flowengine/pkg/persistence"
	"github.com/superdash/flowengine/pkg/protocol"
	"github.com/superdash/flowengine/pkg/registry"
)

// traversalBudget bounds the number of node visits per execution. Graphs are
// not required to be acyclic, so a cycle would otherwise loop forever.
const traversalBudget = 1000

var ErrNoTriggerNode = errors.New("workflow has no nodes to execute")

// Executor runs workflow graphs and records each run as an Execution.
type Executor struct {
	logger      *slog.Logger
	registry    *registry.Registry
	executions  persistence.ExecutionRepository
	eventBus    eventbus.EventBus
	tracer      trace.Tracer
	deps        protocol.Dependencies
}

func NewExecutor(
	logger *slog.Logger,
	reg *registry.Registry,
	executions persistence.ExecutionRepository,
	eventBus eventbus.EventBus,
	tracer trace.Tracer,
	deps protocol.Dependencies,
) *Executor {
	return &Executor{
		logger:     logger.With("module", "engine"),
		registry:   reg,
		executions: executions,
		eventBus:   eventBus,
		tracer:     tracer,
		deps:       deps,
	}
}

// Execute runs the workflow graph and returns the finished execution record.
// The record is persisted in its terminal state; a failed run returns the
// record together with a nil error, callers inspect Status.
func (e *Executor) Execute(
	ctx context.Context,
	workflow *models.Workflow,
	triggerType string,
	triggerData map[string]any,
) (*models.Execution, error) {
	execution := &models.Execution{
		ID:          uuid.New().String(),
		WorkflowID:  workflow.ID,
		Status:      models.ExecutionStatusRunning,
		TriggerType: triggerType,
		StartTime:   time.Now().UTC(),
	}

	logger := e.logger.With(
		"workflow_id", workflow.ID,
		"execution_id", execution.ID,
		"trigger_type", triggerType,
	)
	logger.Info("Starting workflow execution")

	if err := e.executions.Save(ctx, execution); err != nil {
		return nil, fmt.Errorf("failed to persist execution %s: %w", execution.ID, err)
	}

	e.publish(ctx, workflow.ID, events.ExecutionStarted{
		BaseEvent:   events.NewBaseEvent(events.ExecutionStartedEvent, workflow.ID),
		ExecutionID: execution.ID,
		TriggerType: triggerType,
	})

	ctx, span := otelhelper.StartSpan(ctx, e.tracer, "workflow.execute",
		attribute.String(otelhelper.WorkflowIDKey, workflow.ID),
		attribute.String(otelhelper.ExecutionIDKey, execution.ID),
		attribute.String(otelhelper.TriggerTypeKey, triggerType),
	)
	defer span.End()

	executionCtx := models.NewExecutionContext(execution.ID, workflow.ID, triggerType, triggerData)

	result, runErr := e.run(ctx, workflow, executionCtx)

	execution.Logs = executionCtx.LogEntries()

	if runErr != nil {
		executionCtx.Log(models.LogLevelError, "Workflow execution failed: %s", runErr)
		execution.Logs = executionCtx.LogEntries()
		execution.Error = runErr.Error()
		execution.Finish(models.ExecutionStatusFailed)

		otelhelper.SetError(span, runErr)
		logger.Error("Workflow execution failed", "error", runErr)

		e.publish(ctx, workflow.ID, events.ExecutionFailed{
			BaseEvent:   events.NewBaseEvent(events.ExecutionFailedEvent, workflow.ID),
			ExecutionID: execution.ID,
			Error:       runErr.Error(),
			Duration:    time.Since(execution.StartTime),
		})
	} else {
		execution.Result = result
		execution.Finish(models.ExecutionStatusCompleted)

		logger.Info("Workflow execution completed", "duration", time.Since(execution.StartTime))

		e.publish(ctx, workflow.ID, events.ExecutionCompleted{
			BaseEvent:   events.NewBaseEvent(events.ExecutionCompletedEvent, workflow.ID),
			ExecutionID: execution.ID,
			Result:      result,
			Duration:    time.Since(execution.StartTime),
		})
	}

	if err := e.executions.Save(ctx, execution); err != nil {
		return nil, fmt.Errorf("failed to persist execution %s: %w", execution.ID, err)
	}

	return execution, nil
}

// run traverses the graph from its trigger nodes. With several trigger nodes
// the chains run sequentially and the last chain's result wins.
func (e *Executor) run(
	ctx context.Context,
	workflow *models.Workflow,
	executionCtx *models.ExecutionContext,
) (any, error) {
	startNodes := workflow.TriggerNodes()
	if len(startNodes) == 0 && len(workflow.Nodes) > 0 {
		startNodes = workflow.Nodes[:1]
	}

	if len(startNodes) == 0 {
		return nil, ErrNoTriggerNode
	}

	budget := traversalBudget

	var result any

	for _, startNode := range startNodes {
		executionCtx.Log(models.LogLevelInfo, "Starting workflow execution from node: %s", startNode.ID)

		chainResult, err := e.executeChain(ctx, workflow, startNode, executionCtx, &budget)
		if err != nil {
			return nil, err
		}

		result = chainResult
	}

	return result, nil
}

// executeChain executes one node and recurses into the targets of its
// outgoing edges. Conditioned edges only pass when the node result is the
// boolean true; a non-boolean result always passes. The last branch result
// wins.
func (e *Executor) executeChain(
	ctx context.Context,
	workflow *models.Workflow,
	node *models.Node,
	executionCtx *models.ExecutionContext,
	budget *int,
) (any, error) {
	if *budget <= 0 {
		return nil, fmt.Errorf("traversal budget exhausted after %d node visits, graph may contain a cycle", traversalBudget)
	}

	*budget--

	nodeResult, err := e.executeNode(ctx, node, executionCtx)
	if err != nil {
		return nil, err
	}

	executionCtx.SetValue(node.ID, nodeResult)

	result := nodeResult
	followed := false

	for _, edge := range workflow.Edges {
		if edge.Source != node.ID {
			continue
		}

		target := workflow.NodeByID(edge.Target)
		if target == nil {
			continue
		}

		if !evaluateEdgeCondition(edge, nodeResult) {
			executionCtx.Log(models.LogLevelInfo, "Skipping edge %s -> %s, condition not met", edge.Source, edge.Target)

			continue
		}

		branchResult, err := e.executeChain(ctx, workflow, target, executionCtx, budget)
		if err != nil {
			return nil, err
		}

		result = branchResult
		followed = true
	}

	if !followed {
		return nodeResult, nil
	}

	return result, nil
}

func (e *Executor) executeNode(
	ctx context.Context,
	node *models.Node,
	executionCtx *models.ExecutionContext,
) (any, error) {
	executionCtx.Log(models.LogLevelInfo, "Executing node: %s (type: %s)", node.ID, node.Type)

	// Unknown types produce a warning and a nil result; traversal continues.
	if !e.registry.IsNodeRegistered(node.Type) {
		executionCtx.Log(models.LogLevelWarning, "Unknown node type: %s", node.Type)
		e.logger.Warn("Skipping node with unknown type", "node_id", node.ID, "node_type", node.Type)

		return nil, nil
	}

	ctx, span := otelhelper.StartSpan(ctx, e.tracer, "node.execute",
		attribute.String(otelhelper.NodeIDKey, node.ID),
		attribute.String(otelhelper.NodeTypeKey, node.Type),
		attribute.String(otelhelper.ExecutionIDKey, executionCtx.ID),
	)
	defer span.End()

	started := time.Now()

	instance, err := e.registry.CreateNode(node, e.deps)
	if err != nil {
		executionCtx.Log(models.LogLevelError, "Error executing node %s: %s", node.ID, err)
		otelhelper.SetError(span, err)

		return nil, err
	}

	result, err := instance.Execute(ctx, executionCtx)
	if err != nil {
		executionCtx.Log(models.LogLevelError, "Error executing node %s: %s", node.ID, err)
		otelhelper.SetError(span, err)

		e.publish(ctx, executionCtx.WorkflowID, events.NodeExecutionFailed{
			BaseEvent:   events.NewBaseEvent(events.NodeExecutionFailedEvent, executionCtx.WorkflowID),
			ExecutionID: executionCtx.ID,
			NodeID:      node.ID,
			NodeType:    node.Type,
			Error:       err.Error(),
			Duration:    time.Since(started),
		})

		return nil, fmt.Errorf("node %s failed: %w", node.ID, err)
	}

	e.publish(ctx, executionCtx.WorkflowID, events.NodeExecutionFinished{
		BaseEvent:   events.NewBaseEvent(events.NodeExecutionFinishedEvent, executionCtx.WorkflowID),
		ExecutionID: executionCtx.ID,
		NodeID:      node.ID,
		NodeType:    node.Type,
		Duration:    time.Since(started),
	})

	return result, nil
}

// publish sends a lifecycle event. Delivery is best effort, a bus failure
// never fails the execution.
func (e *Executor) publish(ctx context.Context, key string, event eventbus.Event) {
	if e.eventBus == nil {
		return
	}

	if err := e.eventBus.Publish(ctx, key, event); err != nil {
		e.logger.Warn("Failed to publish event", "event_type", event.GetType(), "error", err)
	}
}

// evaluateEdgeCondition gates an edge on the source node's result. An edge
// without a condition always passes. A conditioned edge passes when the
// result is the boolean true, or when the result is not boolean at all.
func evaluateEdgeCondition(edge *models.Edge, nodeResult any) bool {
	if len(edge.Condition) == 0 {
		return true
	}

	if b, ok := nodeResult.(bool); ok {
		return b
	}

	return true
}
