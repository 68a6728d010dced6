// Package condition provides the condition node implementation. A condition
// node evaluates to a boolean, which conditioned outgoing edges use to gate
// traversal.
package condition

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/superdash/flowengine/pkg/models"
	"github.com/superdash/flowengine/pkg/template"
)

// Supported comparison operators.
const (
	OperatorEquals      = "equals"
	OperatorNotEquals   = "not_equals"
	OperatorContains    = "contains"
	OperatorGreaterThan = "greater_than"
	OperatorLessThan    = "less_than"
)

// ConditionNode implements boolean evaluation over execution-context values.
type ConditionNode struct {
	id            string
	conditionType string
	leftValue     any
	rightValue    any
	operator      string
}

// NewConditionNode creates a new condition node.
func NewConditionNode(id string, config map[string]any) (*ConditionNode, error) {
	conditionType, _ := config["conditionType"].(string)
	if conditionType == "" {
		conditionType = "always"
	}

	operator, _ := config["operator"].(string)
	if operator == "" {
		operator = OperatorEquals
	}

	return &ConditionNode{
		id:            id,
		conditionType: conditionType,
		leftValue:     config["leftValue"],
		rightValue:    config["rightValue"],
		operator:      operator,
	}, nil
}

// ID returns the node ID.
func (n *ConditionNode) ID() string {
	return n.id
}

// Type returns the node type.
func (n *ConditionNode) Type() string {
	return models.NodeTypeCondition
}

// Execute evaluates the condition and returns a bool result.
func (n *ConditionNode) Execute(_ context.Context, executionCtx *models.ExecutionContext) (any, error) {
	if n.conditionType == "always" {
		return true, nil
	}

	left := template.Resolve(n.leftValue, executionCtx)
	right := template.Resolve(n.rightValue, executionCtx)

	result, err := n.compare(left, right)
	if err != nil {
		return nil, err
	}

	executionCtx.Log(models.LogLevelInfo, "Condition %s evaluated to %t", n.id, result)

	return result, nil
}

func (n *ConditionNode) compare(left, right any) (bool, error) {
	switch n.operator {
	case OperatorEquals:
		return fmt.Sprintf("%v", left) == fmt.Sprintf("%v", right), nil
	case OperatorNotEquals:
		return fmt.Sprintf("%v", left) != fmt.Sprintf("%v", right), nil
	case OperatorContains:
		return strings.Contains(fmt.Sprintf("%v", left), fmt.Sprintf("%v", right)), nil
	case OperatorGreaterThan, OperatorLessThan:
		leftNum, err := toFloat(left)
		if err != nil {
			return false, fmt.Errorf("left value is not numeric: %w", err)
		}

		rightNum, err := toFloat(right)
		if err != nil {
			return false, fmt.Errorf("right value is not numeric: %w", err)
		}

		if n.operator == OperatorGreaterThan {
			return leftNum > rightNum, nil
		}

		return leftNum < rightNum, nil
	default:
		return false, fmt.Errorf("unsupported operator: %s", n.operator)
	}
}

func toFloat(value any) (float64, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case string:
		return strconv.ParseFloat(v, 64)
	default:
		return 0, fmt.Errorf("cannot convert %T to number", value)
	}
}
