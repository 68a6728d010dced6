package models

import "time"

// ExecutionStatus is the lifecycle state of one workflow run. Transitions are
// monotonic: pending -> running -> completed|failed.
type ExecutionStatus string

const (
	ExecutionStatusPending   ExecutionStatus = "pending"
	ExecutionStatusRunning   ExecutionStatus = "running"
	ExecutionStatusCompleted ExecutionStatus = "completed"
	ExecutionStatusFailed    ExecutionStatus = "failed"
)

// Log levels for execution log entries.
const (
	LogLevelInfo    = "info"
	LogLevelWarning = "warning"
	LogLevelError   = "error"
)

// ExecutionLogEntry is one line of the append-only execution log.
type ExecutionLogEntry struct {
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"`
	Message   string    `json:"message"`
}

// Execution is the historical record of one graph run.
type Execution struct {
	ID          string              `json:"id"`
	WorkflowID  string              `json:"workflow_id"`
	Status      ExecutionStatus     `json:"status"`
	TriggerType string              `json:"trigger_type"`
	StartTime   time.Time           `json:"start_time"`
	EndTime     *time.Time          `json:"end_time,omitempty"`
	Logs        []ExecutionLogEntry `json:"logs"`
	Result      any                 `json:"result,omitempty"`
	Error       string              `json:"error,omitempty"`
}

// Finish closes the execution with the given terminal status.
func (e *Execution) Finish(status ExecutionStatus) {
	now := time.Now().UTC()
	e.Status = status
	e.EndTime = &now
}
