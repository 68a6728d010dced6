package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/superdash/flowengine/pkg/models"
	"github.com/superdash/flowengine/pkg/persistence"
)

// ExecutionRepository handles execution-record file operations.
type ExecutionRepository struct {
	root string
}

// NewExecutionRepository creates a new execution repository.
func NewExecutionRepository(root string) *ExecutionRepository {
	return &ExecutionRepository{root: root}
}

// validateExecutionID guards against path traversal in file names.
func (er *ExecutionRepository) validateExecutionID(executionID string) error {
	if executionID == "" {
		return errors.New("execution ID cannot be empty")
	}

	if strings.ContainsAny(executionID, "/\\") || strings.Contains(executionID, "..") {
		return errors.New("execution ID contains invalid characters")
	}

	return nil
}

// Save writes an execution record to the file system.
func (er *ExecutionRepository) Save(_ context.Context, execution *models.Execution) error {
	if err := er.validateExecutionID(execution.ID); err != nil {
		return err
	}

	dir := filepath.Join(er.root, "executions")

	err := os.MkdirAll(dir, 0750)
	if err != nil {
		return fmt.Errorf("failed to create executions directory: %w", err)
	}

	data, err := json.MarshalIndent(execution, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal execution %s: %w", execution.ID, err)
	}

	return os.WriteFile(filepath.Join(dir, execution.ID+".json"), data, 0600)
}

// GetByID retrieves an execution record by its ID.
func (er *ExecutionRepository) GetByID(_ context.Context, id string) (*models.Execution, error) {
	if err := er.validateExecutionID(id); err != nil {
		return nil, err
	}

	filePath := filepath.Clean(path.Join(er.root, "executions", id+".json"))

	body, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, persistence.ErrExecutionNotFound
		}

		return nil, fmt.Errorf("failed to fetch execution %s: %w", id, err)
	}

	var execution models.Execution

	err = json.Unmarshal(body, &execution)
	if err != nil {
		return nil, fmt.Errorf("failed to unmarshal execution %s: %w", id, err)
	}

	return &execution, nil
}

// List returns executions newest first, optionally filtered by workflow.
func (er *ExecutionRepository) List(ctx context.Context, workflowID string, limit int) ([]*models.Execution, error) {
	dir := path.Join(er.root, "executions")
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return []*models.Execution{}, nil
	}

	jsonFiles, err := fs.Glob(os.DirFS(dir), "*.json")
	if err != nil {
		return nil, fmt.Errorf("failed to list execution files: %w", err)
	}

	executions := make([]*models.Execution, 0, len(jsonFiles))

	for _, file := range jsonFiles {
		execution, err := er.GetByID(ctx, file[:len(file)-len(".json")])
		if err != nil {
			return nil, err
		}

		if workflowID != "" && execution.WorkflowID != workflowID {
			continue
		}

		executions = append(executions, execution)
	}

	sort.Slice(executions, func(i, j int) bool {
		return executions[i].StartTime.After(executions[j].StartTime)
	})

	if limit > 0 && len(executions) > limit {
		executions = executions[:limit]
	}

	return executions, nil
}

// DeleteByWorkflow removes all execution records of a workflow.
func (er *ExecutionRepository) DeleteByWorkflow(ctx context.Context, workflowID string) error {
	executions, err := er.List(ctx, workflowID, 0)
	if err != nil {
		return err
	}

	for _, execution := range executions {
		filePath := path.Join(er.root, "executions", execution.ID+".json")
		if err := os.Remove(filePath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to delete execution %s: %w", execution.ID, err)
		}
	}

	return nil
}
