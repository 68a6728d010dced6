package trigger

import (
	"github.com/superdash/flowengine/pkg/models"
	"github.com/superdash/flowengine/pkg/protocol"
)

// TriggerNodeFactory creates TriggerNode instances.
type TriggerNodeFactory struct{}

// NewTriggerNodeFactory creates a new trigger node factory.
func NewTriggerNodeFactory() protocol.NodeFactory {
	return &TriggerNodeFactory{}
}

// Create creates a new TriggerNode instance.
func (f *TriggerNodeFactory) Create(node *models.Node, _ protocol.Dependencies) (protocol.Node, error) {
	return NewTriggerNode(node.ID, node.Data)
}

// ID returns the factory ID.
func (f *TriggerNodeFactory) ID() string {
	return models.NodeTypeTrigger
}

// Name returns the factory name.
func (f *TriggerNodeFactory) Name() string {
	return "Trigger"
}

// Description returns the factory description.
func (f *TriggerNodeFactory) Description() string {
	return "Marks a workflow entry point fired manually, on a cron schedule, by webhook or from a queue"
}

// Schema returns the JSON schema for trigger node configuration.
func (f *TriggerNodeFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"triggerType": map[string]any{
				"type":        "string",
				"description": "How this workflow entry point is fired",
				"default":     models.TriggerTypeManual,
				"enum": []string{
					models.TriggerTypeSchedule,
					models.TriggerTypeWebhook,
					models.TriggerTypeManual,
					models.TriggerTypeQueue,
				},
			},
			"queue": map[string]any{
				"type":        "string",
				"description": "Redis stream name, required when triggerType is queue",
			},
		},
	}
}
