// Package trigger provides the trigger node implementation. Trigger nodes
// mark graph entry points; at execution time they pass through, exposing the
// trigger payload to downstream nodes.
package trigger

import (
	"context"
	"time"

	"github.com/superdash/flowengine/pkg/models"
)

// TriggerNode implements the passthrough entry-point node.
type TriggerNode struct {
	id          string
	triggerType string
}

// NewTriggerNode creates a new trigger node.
func NewTriggerNode(id string, config map[string]any) (*TriggerNode, error) {
	triggerType, _ := config["triggerType"].(string)
	if triggerType == "" {
		triggerType = models.TriggerTypeManual
	}

	return &TriggerNode{id: id, triggerType: triggerType}, nil
}

// ID returns the node ID.
func (n *TriggerNode) ID() string {
	return n.id
}

// Type returns the node type.
func (n *TriggerNode) Type() string {
	return models.NodeTypeTrigger
}

// Execute passes through, surfacing the trigger payload when present.
func (n *TriggerNode) Execute(_ context.Context, executionCtx *models.ExecutionContext) (any, error) {
	result := map[string]any{
		"triggered": true,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	}

	if len(executionCtx.TriggerData) > 0 {
		result["payload"] = executionCtx.TriggerData
	}

	return result, nil
}
