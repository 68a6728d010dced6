// Package delay provides the delay node implementation.
package delay

import (
	"context"
	"time"

	"github.com/superdash/flowengine/pkg/models"
)

// DelayNode pauses traversal for a configured number of seconds. The sleep
// honors context cancellation so a cancelled run does not linger.
type DelayNode struct {
	id      string
	seconds float64
}

// NewDelayNode creates a new delay node. Missing or invalid delay defaults
// to one second.
func NewDelayNode(id string, config map[string]any) (*DelayNode, error) {
	seconds := 1.0

	switch v := config["delay"].(type) {
	case float64:
		seconds = v
	case int:
		seconds = float64(v)
	}

	if seconds < 0 {
		seconds = 0
	}

	return &DelayNode{id: id, seconds: seconds}, nil
}

// ID returns the node ID.
func (n *DelayNode) ID() string {
	return n.id
}

// Type returns the node type.
func (n *DelayNode) Type() string {
	return models.NodeTypeDelay
}

// Execute sleeps for the configured duration.
func (n *DelayNode) Execute(ctx context.Context, executionCtx *models.ExecutionContext) (any, error) {
	executionCtx.Log(models.LogLevelInfo, "Delaying execution for %g seconds", n.seconds)

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(time.Duration(n.seconds * float64(time.Second))):
	}

	return map[string]any{"delayed": n.seconds}, nil
}
