package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/superdash/flowengine/pkg/models"
	"github.com/superdash/flowengine/pkg/persistence"
)

const defaultExecutionLimit = 50

// ExecutionRepository handles execution-record database operations.
type ExecutionRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewExecutionRepository creates a new execution repository.
func NewExecutionRepository(db *sql.DB, logger *slog.Logger) *ExecutionRepository {
	return &ExecutionRepository{db: db, logger: logger}
}

// Save inserts or updates an execution record.
func (r *ExecutionRepository) Save(ctx context.Context, execution *models.Execution) error {
	logsJSON, err := json.Marshal(execution.Logs)
	if err != nil {
		return fmt.Errorf("failed to marshal execution logs: %w", err)
	}

	var resultJSON []byte

	if execution.Result != nil {
		resultJSON, err = json.Marshal(execution.Result)
		if err != nil {
			return fmt.Errorf("failed to marshal execution result: %w", err)
		}
	}

	query := `
		INSERT INTO executions (id, workflow_id, status, trigger_type, start_time, end_time, logs, result, error)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status,
			end_time = EXCLUDED.end_time,
			logs = EXCLUDED.logs,
			result = EXCLUDED.result,
			error = EXCLUDED.error
	`

	_, err = r.db.ExecContext(ctx, query,
		execution.ID,
		execution.WorkflowID,
		execution.Status,
		execution.TriggerType,
		execution.StartTime,
		execution.EndTime,
		logsJSON,
		resultJSON,
		nullableString(execution.Error),
	)
	if err != nil {
		return &persistence.ExecutionError{Op: "Save", ExecutionID: execution.ID, Err: err}
	}

	return nil
}

// GetByID returns an execution record by its ID.
func (r *ExecutionRepository) GetByID(ctx context.Context, id string) (*models.Execution, error) {
	query := `
		SELECT id, workflow_id, status, trigger_type, start_time, end_time, logs, result, error
		FROM executions
		WHERE id = $1
	`

	execution, err := scanExecution(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, persistence.ErrExecutionNotFound
		}

		return nil, fmt.Errorf("failed to scan execution: %w", err)
	}

	return execution, nil
}

// List returns executions newest first, optionally filtered by workflow.
func (r *ExecutionRepository) List(ctx context.Context, workflowID string, limit int) ([]*models.Execution, error) {
	if limit <= 0 {
		limit = defaultExecutionLimit
	}

	query := `
		SELECT id, workflow_id, status, trigger_type, start_time, end_time, logs, result, error
		FROM executions
		WHERE ($1 = '' OR workflow_id::text = $1)
		ORDER BY start_time DESC
		LIMIT $2
	`

	rows, err := r.db.QueryContext(ctx, query, workflowID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query executions: %w", err)
	}

	defer func() {
		if err := rows.Close(); err != nil {
			r.logger.ErrorContext(ctx, "failed to close rows", "error", err)
		}
	}()

	executions := make([]*models.Execution, 0)

	for rows.Next() {
		execution, err := scanExecution(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan execution: %w", err)
		}

		executions = append(executions, execution)
	}

	err = rows.Err()
	if err != nil {
		return nil, fmt.Errorf("error iterating executions: %w", err)
	}

	return executions, nil
}

// DeleteByWorkflow removes all executions of a workflow.
func (r *ExecutionRepository) DeleteByWorkflow(ctx context.Context, workflowID string) error {
	_, err := r.db.ExecContext(ctx, "DELETE FROM executions WHERE workflow_id = $1", workflowID)
	if err != nil {
		return fmt.Errorf("failed to delete executions for workflow %s: %w", workflowID, err)
	}

	return nil
}

func scanExecution(row rowScanner) (*models.Execution, error) {
	var (
		execution   models.Execution
		triggerType sql.NullString
		endTime     sql.NullTime
		logsJSON    []byte
		resultJSON  []byte
		errMessage  sql.NullString
	)

	err := row.Scan(
		&execution.ID,
		&execution.WorkflowID,
		&execution.Status,
		&triggerType,
		&execution.StartTime,
		&endTime,
		&logsJSON,
		&resultJSON,
		&errMessage,
	)
	if err != nil {
		return nil, err
	}

	execution.TriggerType = triggerType.String

	if endTime.Valid {
		execution.EndTime = &endTime.Time
	}

	if errMessage.Valid {
		execution.Error = errMessage.String
	}

	err = json.Unmarshal(logsJSON, &execution.Logs)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal execution logs: %w", err)
	}

	if len(resultJSON) > 0 {
		err = json.Unmarshal(resultJSON, &execution.Result)
		if err != nil {
			return nil, fmt.Errorf("failed to unmarshal execution result: %w", err)
		}
	}

	return &execution, nil
}

func nullableString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
