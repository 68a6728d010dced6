package transform

import (
	"github.com/superdash/flowengine/pkg/models"
	"github.com/superdash/flowengine/pkg/protocol"
)

// TransformNodeFactory creates TransformNode instances.
type TransformNodeFactory struct{}

// NewTransformNodeFactory creates a new transform node factory.
func NewTransformNodeFactory() protocol.NodeFactory {
	return &TransformNodeFactory{}
}

// Create creates a new TransformNode instance.
func (f *TransformNodeFactory) Create(node *models.Node, _ protocol.Dependencies) (protocol.Node, error) {
	return NewTransformNode(node.ID, node.Data)
}

// ID returns the factory ID.
func (f *TransformNodeFactory) ID() string {
	return models.NodeTypeTransform
}

// Name returns the factory name.
func (f *TransformNodeFactory) Name() string {
	return "Transform"
}

// Description returns the factory description.
func (f *TransformNodeFactory) Description() string {
	return "Stores named variables or merges map sources inside the execution context"
}

// Schema returns the JSON schema for transform node configuration.
func (f *TransformNodeFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"transformType": map[string]any{
				"type":    "string",
				"default": TransformTypeSet,
				"enum":    []string{TransformTypeSet, TransformTypeMerge},
			},
			"variable": map[string]any{
				"type":        "string",
				"description": "Variable name to store, required for set",
			},
			"value": map[string]any{
				"description": "Value to store, supports {{node_id.field}} placeholders",
			},
			"sources": map[string]any{
				"type":        "array",
				"description": "Map-valued sources merged left to right",
			},
		},
	}
}
