package file

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path"
	"time"

	"github.com/superdash/flowengine/pkg/models"
)

// ScheduleRepository handles schedule-entry file operations.
type ScheduleRepository struct {
	root string
}

// NewScheduleRepository creates a new schedule repository.
func NewScheduleRepository(root string) *ScheduleRepository {
	return &ScheduleRepository{root: root}
}

// GetAll returns every schedule entry.
func (sr *ScheduleRepository) GetAll(_ context.Context) ([]*models.Schedule, error) {
	dir := path.Join(sr.root, "schedules")
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return []*models.Schedule{}, nil
	}

	jsonFiles, err := fs.Glob(os.DirFS(dir), "*.json")
	if err != nil {
		return nil, fmt.Errorf("failed to list schedule files: %w", err)
	}

	schedules := make([]*models.Schedule, 0, len(jsonFiles))

	for _, file := range jsonFiles {
		body, err := os.ReadFile(path.Join(dir, file))
		if err != nil {
			return nil, fmt.Errorf("failed to read schedule file %s: %w", file, err)
		}

		var schedule models.Schedule

		err = json.Unmarshal(body, &schedule)
		if err != nil {
			return nil, fmt.Errorf("failed to unmarshal schedule file %s: %w", file, err)
		}

		schedules = append(schedules, &schedule)
	}

	return schedules, nil
}

// GetByWorkflowID returns the schedule of a workflow, or nil when none exists.
func (sr *ScheduleRepository) GetByWorkflowID(ctx context.Context, workflowID string) (*models.Schedule, error) {
	schedules, err := sr.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	for _, schedule := range schedules {
		if schedule.WorkflowID == workflowID {
			return schedule, nil
		}
	}

	return nil, nil
}

// Due returns active schedules whose next due time is at or before now.
func (sr *ScheduleRepository) Due(ctx context.Context, now time.Time) ([]*models.Schedule, error) {
	schedules, err := sr.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	due := make([]*models.Schedule, 0)

	for _, schedule := range schedules {
		if schedule.IsDue(now) {
			due = append(due, schedule)
		}
	}

	return due, nil
}

// Save writes a schedule entry to the file system.
func (sr *ScheduleRepository) Save(_ context.Context, schedule *models.Schedule) error {
	dir := path.Join(sr.root, "schedules")

	err := os.MkdirAll(dir, 0750)
	if err != nil {
		return fmt.Errorf("failed to create schedules directory: %w", err)
	}

	data, err := json.MarshalIndent(schedule, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal schedule %s: %w", schedule.ID, err)
	}

	return os.WriteFile(path.Join(dir, schedule.ID+".json"), data, 0600)
}

// DeleteByWorkflow removes the schedule of a workflow, if any.
func (sr *ScheduleRepository) DeleteByWorkflow(ctx context.Context, workflowID string) error {
	schedule, err := sr.GetByWorkflowID(ctx, workflowID)
	if err != nil {
		return err
	}

	if schedule == nil {
		return nil
	}

	filePath := path.Join(sr.root, "schedules", schedule.ID+".json")
	if err := os.Remove(filePath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete schedule %s: %w", schedule.ID, err)
	}

	return nil
}
