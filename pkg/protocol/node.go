// Package protocol defines the interfaces and contracts for executable nodes.
package protocol

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/superdash/flowengine/pkg/models"
)

// Node is one executable vertex of a workflow graph. Execute receives the
// mutable execution context, performs the node's behavior and returns its
// result, which the engine stores under the node's ID.
type Node interface {
	// ID returns the node instance identifier within its workflow.
	ID() string

	// Type returns the node type identifier.
	Type() string

	// Execute performs the node behavior.
	Execute(ctx context.Context, executionCtx *models.ExecutionContext) (any, error)
}

// Dependencies carries the shared collaborators node factories may need.
type Dependencies struct {
	// Logger for node-level diagnostics.
	Logger *slog.Logger

	// BaseURL of the dashboard gateway that plugin-action nodes call.
	BaseURL string

	// HTTPClient used by plugin-action nodes. Nil means a default client.
	HTTPClient *http.Client
}

// NodeFactory creates node instances and provides metadata about a node type.
type NodeFactory interface {
	// Create builds a node instance from its stored graph representation.
	Create(node *models.Node, deps Dependencies) (Node, error)

	// ID returns the unique identifier for this node type
	ID() string

	// Name returns the human-readable name for this node type
	Name() string

	// Description returns a description of what this node does
	Description() string

	// Schema returns the JSON schema for configuring this node type's data
	Schema() map[string]any
}
