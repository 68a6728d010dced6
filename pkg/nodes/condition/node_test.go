package condition_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/superdash/flowengine/pkg/models"
	"github.com/superdash/flowengine/pkg/nodes/condition"
)

func TestConditionNode_Always(t *testing.T) {
	t.Parallel()

	node, err := condition.NewConditionNode("cond", map[string]any{})
	require.NoError(t, err)

	executionCtx := models.NewExecutionContext("exec-1", "workflow-1", models.TriggerTypeManual, nil)

	result, err := node.Execute(context.Background(), executionCtx)
	require.NoError(t, err)
	assert.Equal(t, true, result)
}

func TestConditionNode_Compare(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		left     any
		right    any
		operator string
		want     bool
	}{
		{name: "equals match", left: "ok", right: "ok", operator: condition.OperatorEquals, want: true},
		{name: "equals mismatch", left: "ok", right: "fail", operator: condition.OperatorEquals, want: false},
		{name: "equals across types", left: 3, right: "3", operator: condition.OperatorEquals, want: true},
		{name: "not equals", left: "a", right: "b", operator: condition.OperatorNotEquals, want: true},
		{name: "contains", left: "workflow engine", right: "engine", operator: condition.OperatorContains, want: true},
		{name: "contains miss", left: "workflow", right: "engine", operator: condition.OperatorContains, want: false},
		{name: "greater than", left: 5, right: 3, operator: condition.OperatorGreaterThan, want: true},
		{name: "greater than string operand", left: "2.5", right: 2, operator: condition.OperatorGreaterThan, want: true},
		{name: "less than", left: 1, right: 2.5, operator: condition.OperatorLessThan, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			node, err := condition.NewConditionNode("cond", map[string]any{
				"conditionType": "compare",
				"leftValue":     tt.left,
				"rightValue":    tt.right,
				"operator":      tt.operator,
			})
			require.NoError(t, err)

			executionCtx := models.NewExecutionContext("exec-1", "workflow-1", models.TriggerTypeManual, nil)

			result, err := node.Execute(context.Background(), executionCtx)
			require.NoError(t, err)
			assert.Equal(t, tt.want, result)
		})
	}
}

func TestConditionNode_ComparePlaceholders(t *testing.T) {
	t.Parallel()

	node, err := condition.NewConditionNode("cond", map[string]any{
		"conditionType": "compare",
		"leftValue":     "{{fetch.status}}",
		"rightValue":    "ok",
		"operator":      condition.OperatorEquals,
	})
	require.NoError(t, err)

	executionCtx := models.NewExecutionContext("exec-1", "workflow-1", models.TriggerTypeManual, nil)
	executionCtx.SetValue("fetch", map[string]any{"status": "ok"})

	result, err := node.Execute(context.Background(), executionCtx)
	require.NoError(t, err)
	assert.Equal(t, true, result)
}

func TestConditionNode_NumericOperatorRejectsNonNumbers(t *testing.T) {
	t.Parallel()

	node, err := condition.NewConditionNode("cond", map[string]any{
		"conditionType": "compare",
		"leftValue":     "abc",
		"rightValue":    1,
		"operator":      condition.OperatorGreaterThan,
	})
	require.NoError(t, err)

	executionCtx := models.NewExecutionContext("exec-1", "workflow-1", models.TriggerTypeManual, nil)

	_, err = node.Execute(context.Background(), executionCtx)
	require.Error(t, err)
}
