package delay

import (
	"github.com/superdash/flowengine/pkg/models"
	"github.com/superdash/flowengine/pkg/protocol"
)

// DelayNodeFactory creates DelayNode instances.
type DelayNodeFactory struct{}

// NewDelayNodeFactory creates a new delay node factory.
func NewDelayNodeFactory() protocol.NodeFactory {
	return &DelayNodeFactory{}
}

// Create creates a new DelayNode instance.
func (f *DelayNodeFactory) Create(node *models.Node, _ protocol.Dependencies) (protocol.Node, error) {
	return NewDelayNode(node.ID, node.Data)
}

// ID returns the factory ID.
func (f *DelayNodeFactory) ID() string {
	return models.NodeTypeDelay
}

// Name returns the factory name.
func (f *DelayNodeFactory) Name() string {
	return "Delay"
}

// Description returns the factory description.
func (f *DelayNodeFactory) Description() string {
	return "Pauses traversal for a configurable number of seconds"
}

// Schema returns the JSON schema for delay node configuration.
func (f *DelayNodeFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"delay": map[string]any{
				"type":        "number",
				"description": "Seconds to wait before continuing",
				"default":     1,
				"minimum":     0,
			},
		},
	}
}
