package condition

import (
	"github.com/superdash/flowengine/pkg/models"
	"github.com/superdash/flowengine/pkg/protocol"
)

// ConditionNodeFactory creates ConditionNode instances.
type ConditionNodeFactory struct{}

// NewConditionNodeFactory creates a new condition node factory.
func NewConditionNodeFactory() protocol.NodeFactory {
	return &ConditionNodeFactory{}
}

// Create creates a new ConditionNode instance.
func (f *ConditionNodeFactory) Create(node *models.Node, _ protocol.Dependencies) (protocol.Node, error) {
	return NewConditionNode(node.ID, node.Data)
}

// ID returns the factory ID.
func (f *ConditionNodeFactory) ID() string {
	return models.NodeTypeCondition
}

// Name returns the factory name.
func (f *ConditionNodeFactory) Name() string {
	return "Condition"
}

// Description returns the factory description.
func (f *ConditionNodeFactory) Description() string {
	return "Evaluates a comparison; conditioned outgoing edges only pass when the result is true"
}

// Schema returns the JSON schema for condition node configuration.
func (f *ConditionNodeFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"conditionType": map[string]any{
				"type":    "string",
				"default": "always",
				"enum":    []string{"always", "compare"},
			},
			"leftValue": map[string]any{
				"description": "Left operand, supports {{node_id.field}} placeholders",
			},
			"rightValue": map[string]any{
				"description": "Right operand, supports {{node_id.field}} placeholders",
			},
			"operator": map[string]any{
				"type":    "string",
				"default": OperatorEquals,
				"enum": []string{
					OperatorEquals,
					OperatorNotEquals,
					OperatorContains,
					OperatorGreaterThan,
					OperatorLessThan,
				},
			},
		},
	}
}
