package services_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/superdash/flowengine/pkg/models"
	"github.com/superdash/flowengine/pkg/persistence"
	"github.com/superdash/flowengine/pkg/persistence/file"
	"github.com/superdash/flowengine/pkg/registry"
	"github.com/superdash/flowengine/pkg/services"
)

func newWorkflowService(t *testing.T) (*services.Workflow, persistence.Persistence) {
	t.Helper()

	reg := registry.NewRegistry(slog.Default())
	reg.RegisterDefaultNodes()

	store := file.NewPersistence(t.TempDir())

	return services.NewWorkflow(store, reg), store
}

func validWorkflow(name string) *models.Workflow {
	return &models.Workflow{
		Name:    name,
		Enabled: true,
		Nodes: []*models.Node{
			{ID: "start", Type: models.NodeTypeTrigger, Data: map[string]any{"triggerType": "manual"}},
			{ID: "set", Type: models.NodeTypeTransform, Data: map[string]any{
				"transformType": "set",
				"variable":      "greeting",
				"value":         "hello",
			}},
		},
		Edges: []*models.Edge{
			{ID: "e1", Source: "start", Target: "set"},
		},
	}
}

func TestWorkflow_CreateGeneratesID(t *testing.T) {
	t.Parallel()

	service, store := newWorkflowService(t)
	ctx := context.Background()

	created, err := service.CreateWorkflow(ctx, validWorkflow("Daily summary"))
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)

	loaded, err := store.WorkflowRepository().GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Daily summary", loaded.Name)
}

func TestWorkflow_CreateValidation(t *testing.T) {
	t.Parallel()

	type testCase struct {
		name     string
		mutate   func(w *models.Workflow)
		expected error
	}

	tests := []testCase{
		{
			name:     "name too short",
			mutate:   func(w *models.Workflow) { w.Name = "ab" },
			expected: services.ErrWorkflowNameRequired,
		},
		{
			name: "unknown node type",
			mutate: func(w *models.Workflow) {
				w.Nodes = append(w.Nodes, &models.Node{ID: "odd", Type: "teleport"})
			},
			expected: services.ErrUnknownNodeType,
		},
		{
			name: "invalid node configuration",
			mutate: func(w *models.Workflow) {
				w.Nodes = append(w.Nodes, &models.Node{
					ID:   "cond",
					Type: models.NodeTypeCondition,
					Data: map[string]any{"operator": "almost_equals"},
				})
			},
			expected: services.ErrInvalidNodeConfig,
		},
		{
			name: "dangling edge",
			mutate: func(w *models.Workflow) {
				w.Edges = append(w.Edges, &models.Edge{ID: "e2", Source: "set", Target: "ghost"})
			},
			expected: services.ErrDanglingEdge,
		},
		{
			name: "invalid cron expression",
			mutate: func(w *models.Workflow) {
				expr := "not a cron"
				w.Schedule = &expr
			},
			expected: services.ErrInvalidCronExpression,
		},
		{
			name: "six field cron rejected",
			mutate: func(w *models.Workflow) {
				expr := "0 0 9 * * 1"
				w.Schedule = &expr
			},
			expected: services.ErrInvalidCronExpression,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			service, _ := newWorkflowService(t)

			workflow := validWorkflow("Validation target")
			tc.mutate(workflow)

			_, err := service.CreateWorkflow(context.Background(), workflow)
			require.Error(t, err)
			assert.ErrorIs(t, err, tc.expected)
			assert.True(t, services.IsValidationError(err))
		})
	}
}

func TestWorkflow_CreateNil(t *testing.T) {
	t.Parallel()

	service, _ := newWorkflowService(t)

	_, err := service.CreateWorkflow(context.Background(), nil)
	assert.ErrorIs(t, err, services.ErrWorkflowNil)
}

func TestWorkflow_CreateRegistersSchedule(t *testing.T) {
	t.Parallel()

	service, store := newWorkflowService(t)
	ctx := context.Background()

	workflow := validWorkflow("Scheduled digest")
	expr := "0 9 * * *"
	workflow.Schedule = &expr

	created, err := service.CreateWorkflow(ctx, workflow)
	require.NoError(t, err)

	schedule, err := store.ScheduleRepository().GetByWorkflowID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, schedule)
	assert.True(t, schedule.Active)
	assert.Equal(t, "0 9 * * *", schedule.CronExpression)
	assert.False(t, schedule.NextDueAt.IsZero())
}

func TestWorkflow_ToggleDeactivatesSchedule(t *testing.T) {
	t.Parallel()

	service, store := newWorkflowService(t)
	ctx := context.Background()

	workflow := validWorkflow("Toggle target")
	expr := "*/10 * * * *"
	workflow.Schedule = &expr

	created, err := service.CreateWorkflow(ctx, workflow)
	require.NoError(t, err)

	toggled, err := service.ToggleWorkflow(ctx, created.ID, false)
	require.NoError(t, err)
	assert.False(t, toggled.Enabled)

	schedule, err := store.ScheduleRepository().GetByWorkflowID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, schedule)
	assert.False(t, schedule.Active)

	// Re-enabling reactivates the same entry.
	_, err = service.ToggleWorkflow(ctx, created.ID, true)
	require.NoError(t, err)

	schedule, err = store.ScheduleRepository().GetByWorkflowID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, schedule)
	assert.True(t, schedule.Active)
}

func TestWorkflow_UpdatePreservesCreatedAt(t *testing.T) {
	t.Parallel()

	service, _ := newWorkflowService(t)
	ctx := context.Background()

	created, err := service.CreateWorkflow(ctx, validWorkflow("Original name"))
	require.NoError(t, err)

	replacement := validWorkflow("Renamed workflow")

	updated, err := service.UpdateWorkflow(ctx, created.ID, replacement)
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Renamed workflow", updated.Name)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)
}

func TestWorkflow_UpdateNotFound(t *testing.T) {
	t.Parallel()

	service, _ := newWorkflowService(t)

	_, err := service.UpdateWorkflow(context.Background(), "missing", validWorkflow("Whatever"))
	assert.True(t, persistence.IsWorkflowNotFound(err))
}

func TestWorkflow_DeleteCascades(t *testing.T) {
	t.Parallel()

	service, store := newWorkflowService(t)
	ctx := context.Background()

	workflow := validWorkflow("Short lived")
	expr := "0 12 * * *"
	workflow.Schedule = &expr

	created, err := service.CreateWorkflow(ctx, workflow)
	require.NoError(t, err)

	require.NoError(t, store.ExecutionRepository().Save(ctx, &models.Execution{
		ID:         "exec-1",
		WorkflowID: created.ID,
		Status:     models.ExecutionStatusCompleted,
	}))

	require.NoError(t, service.DeleteWorkflow(ctx, created.ID))

	_, err = store.WorkflowRepository().GetByID(ctx, created.ID)
	assert.True(t, persistence.IsWorkflowNotFound(err))

	schedule, err := store.ScheduleRepository().GetByWorkflowID(ctx, created.ID)
	require.NoError(t, err)
	assert.Nil(t, schedule)

	executions, err := store.ExecutionRepository().List(ctx, created.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, executions)
}

func TestWorkflow_DeleteNotFound(t *testing.T) {
	t.Parallel()

	service, _ := newWorkflowService(t)

	err := service.DeleteWorkflow(context.Background(), "missing")
	assert.True(t, persistence.IsWorkflowNotFound(err))
}

func TestWorkflow_ScheduledWorkflows(t *testing.T) {
	t.Parallel()

	service, _ := newWorkflowService(t)
	ctx := context.Background()

	scheduled := validWorkflow("With schedule")
	expr := "30 8 * * 1"
	scheduled.Schedule = &expr

	created, err := service.CreateWorkflow(ctx, scheduled)
	require.NoError(t, err)

	_, err = service.CreateWorkflow(ctx, validWorkflow("Without schedule"))
	require.NoError(t, err)

	entries, err := service.ScheduledWorkflows(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	entry, ok := entries[created.ID]
	require.True(t, ok)
	assert.Equal(t, "30 8 * * 1", entry.Trigger)
	assert.False(t, entry.NextRunTime.IsZero())
}

func TestWorkflow_HealthCheck(t *testing.T) {
	t.Parallel()

	service, _ := newWorkflowService(t)

	_, healthy := service.HealthCheck(context.Background())
	assert.True(t, healthy)
}
