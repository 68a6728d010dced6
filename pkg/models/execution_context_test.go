package models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/superdash/flowengine/pkg/models"
)

func TestExecutionContext_Lookup(t *testing.T) {
	t.Parallel()

	ctx := models.NewExecutionContext("exec-1", "workflow-1", models.TriggerTypeManual, nil)
	ctx.SetValue("fetch", map[string]any{
		"status": "ok",
		"body": map[string]any{
			"count": 3,
		},
	})
	ctx.SetValue("greeting", "hello")

	tests := []struct {
		name  string
		path  string
		want  any
		found bool
	}{
		{name: "top-level value", path: "greeting", want: "hello", found: true},
		{name: "nested field", path: "fetch.status", want: "ok", found: true},
		{name: "deeply nested field", path: "fetch.body.count", want: 3, found: true},
		{name: "missing node", path: "nothing", want: nil, found: false},
		{name: "missing field", path: "fetch.missing", want: nil, found: false},
		{name: "descend into scalar", path: "greeting.x", want: nil, found: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, found := ctx.Lookup(tt.path)
			assert.Equal(t, tt.found, found)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExecutionContext_Log(t *testing.T) {
	t.Parallel()

	ctx := models.NewExecutionContext("exec-1", "workflow-1", models.TriggerTypeManual, nil)

	ctx.Log(models.LogLevelInfo, "Executing node: %s", "node-1")
	ctx.Log(models.LogLevelError, "boom")

	entries := ctx.LogEntries()
	require.Len(t, entries, 2)
	assert.Equal(t, models.LogLevelInfo, entries[0].Level)
	assert.Equal(t, "Executing node: node-1", entries[0].Message)
	assert.Equal(t, models.LogLevelError, entries[1].Level)
	assert.False(t, entries[0].Timestamp.IsZero())
}
