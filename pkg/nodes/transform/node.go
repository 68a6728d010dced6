// Package transform provides the transform node implementation.
package transform

import (
	"context"
	"fmt"

	"github.com/superdash/flowengine/pkg/models"
	"github.com/superdash/flowengine/pkg/template"
)

// Transform types.
const (
	TransformTypeSet   = "set"
	TransformTypeMerge = "merge"
)

// TransformNode reshapes data inside the execution context. The set variant
// stores a named value that later nodes can reference through placeholders,
// merge combines several map-valued sources into a single map.
type TransformNode struct {
	id     string
	config map[string]any
}

// NewTransformNode creates a new transform node.
func NewTransformNode(id string, config map[string]any) (*TransformNode, error) {
	transformType, _ := config["transformType"].(string)
	if transformType == "" {
		transformType = TransformTypeSet
	}

	if transformType != TransformTypeSet && transformType != TransformTypeMerge {
		return nil, fmt.Errorf("unsupported transform type: %s", transformType)
	}

	return &TransformNode{id: id, config: config}, nil
}

// ID returns the node ID.
func (n *TransformNode) ID() string {
	return n.id
}

// Type returns the node type.
func (n *TransformNode) Type() string {
	return models.NodeTypeTransform
}

// Execute applies the configured transformation.
func (n *TransformNode) Execute(_ context.Context, executionCtx *models.ExecutionContext) (any, error) {
	transformType, _ := n.config["transformType"].(string)
	if transformType == "" {
		transformType = TransformTypeSet
	}

	switch transformType {
	case TransformTypeSet:
		return n.executeSet(executionCtx)
	case TransformTypeMerge:
		return n.executeMerge(executionCtx)
	}

	return nil, nil
}

func (n *TransformNode) executeSet(executionCtx *models.ExecutionContext) (any, error) {
	variable, _ := n.config["variable"].(string)
	if variable == "" {
		return nil, fmt.Errorf("transform node %s: set requires a variable name", n.id)
	}

	value := template.Resolve(n.config["value"], executionCtx)
	executionCtx.SetValue(variable, value)
	executionCtx.Log(models.LogLevelInfo, "Set variable %s", variable)

	return map[string]any{variable: value}, nil
}

func (n *TransformNode) executeMerge(executionCtx *models.ExecutionContext) (any, error) {
	sources, _ := n.config["sources"].([]any)
	merged := map[string]any{}

	for _, source := range sources {
		resolved := template.Resolve(source, executionCtx)
		if m, ok := resolved.(map[string]any); ok {
			for key, value := range m {
				merged[key] = value
			}
		}
	}

	return merged, nil
}
