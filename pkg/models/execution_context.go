package models

import (
	"fmt"
	"strings"
	"time"
)

// ExecutionContext carries the mutable state of one graph run. Node results
// and transform variables share a single value namespace keyed by node ID or
// variable name, so `{{node_id.field}}` and `{{variable}}` placeholders
// resolve through the same lookup.
type ExecutionContext struct {
	ID          string         `json:"id"`
	WorkflowID  string         `json:"workflow_id"`
	TriggerType string         `json:"trigger_type"`
	TriggerData map[string]any `json:"trigger_data,omitempty"`
	Values      map[string]any `json:"values,omitempty"`

	logs []ExecutionLogEntry
}

// NewExecutionContext creates an execution context for the given run.
func NewExecutionContext(executionID, workflowID, triggerType string, triggerData map[string]any) *ExecutionContext {
	return &ExecutionContext{
		ID:          executionID,
		WorkflowID:  workflowID,
		TriggerType: triggerType,
		TriggerData: triggerData,
		Values:      make(map[string]any),
	}
}

// SetValue stores a node result or transform variable.
func (c *ExecutionContext) SetValue(key string, value any) {
	if c.Values == nil {
		c.Values = make(map[string]any)
	}

	c.Values[key] = value
}

// Lookup resolves a dot-separated path against the value namespace. Each
// segment descends into a map; a miss at any segment returns (nil, false).
func (c *ExecutionContext) Lookup(path string) (any, bool) {
	var current any = c.Values

	for segment := range strings.SplitSeq(path, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}

		current, ok = m[segment]
		if !ok {
			return nil, false
		}
	}

	return current, true
}

// Log appends an entry to the execution log.
func (c *ExecutionContext) Log(level, format string, args ...any) {
	c.logs = append(c.logs, ExecutionLogEntry{
		Timestamp: time.Now().UTC(),
		Level:     level,
		Message:   fmt.Sprintf(format, args...),
	})
}

// LogEntries returns the accumulated execution log.
func (c *ExecutionContext) LogEntries() []ExecutionLogEntry {
	return c.logs
}
