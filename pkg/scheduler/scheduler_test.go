package scheduler

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"github.com/superdash/flowengine/pkg/engine"
	"github.com/superdash/flowengine/pkg/models"
	"github.com/superdash/flowengine/pkg/persistence/file"
	"github.com/superdash/flowengine/pkg/protocol"
	"github.com/superdash/flowengine/pkg/registry"
)

func newTestScheduler(t *testing.T) (*Scheduler, *file.Persistence) {
	t.Helper()

	reg := registry.NewRegistry(slog.Default())
	reg.RegisterDefaultNodes()

	store := file.NewPersistence(t.TempDir())

	executor := engine.NewExecutor(
		slog.Default(),
		reg,
		store.ExecutionRepository(),
		nil,
		otel.Tracer("test"),
		protocol.Dependencies{Logger: slog.Default()},
	)

	return NewScheduler(slog.Default(), store, executor), store
}

func scheduledWorkflow(id string, enabled bool) *models.Workflow {
	expr := "*/5 * * * *"

	return &models.Workflow{
		ID:       id,
		Name:     "Scheduled workflow",
		Enabled:  enabled,
		Schedule: &expr,
		Nodes: []*models.Node{
			{ID: "start", Type: models.NodeTypeTrigger, Data: map[string]any{"triggerType": "schedule"}},
		},
	}
}

func dueSchedule(t *testing.T, workflowID string) *models.Schedule {
	t.Helper()

	schedule, err := models.NewSchedule("sched-"+workflowID, workflowID, "*/5 * * * *")
	require.NoError(t, err)

	schedule.NextDueAt = time.Now().UTC().Add(-time.Minute)

	return schedule
}

func TestScheduler_ProcessDueSchedules_ExecutesWorkflow(t *testing.T) {
	t.Parallel()

	scheduler, store := newTestScheduler(t)
	ctx := context.Background()

	require.NoError(t, store.WorkflowRepository().Save(ctx, scheduledWorkflow("wf-1", true)))

	schedule := dueSchedule(t, "wf-1")
	previousDue := schedule.NextDueAt
	require.NoError(t, store.ScheduleRepository().Save(ctx, schedule))

	scheduler.processDueSchedules(ctx)

	// The workflow run happens in the background.
	assert.Eventually(t, func() bool {
		executions, err := store.ExecutionRepository().List(ctx, "wf-1", 0)

		return err == nil && len(executions) == 1
	}, 2*time.Second, 10*time.Millisecond)

	executions, err := store.ExecutionRepository().List(ctx, "wf-1", 0)
	require.NoError(t, err)
	require.Len(t, executions, 1)
	assert.Equal(t, models.TriggerTypeSchedule, executions[0].TriggerType)

	updated, err := store.ScheduleRepository().GetByWorkflowID(ctx, "wf-1")
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.True(t, updated.NextDueAt.After(previousDue), "next due time should advance past the fired slot")
}

func TestScheduler_ProcessDueSchedules_RemovesOrphan(t *testing.T) {
	t.Parallel()

	scheduler, store := newTestScheduler(t)
	ctx := context.Background()

	require.NoError(t, store.ScheduleRepository().Save(ctx, dueSchedule(t, "wf-gone")))

	scheduler.processDueSchedules(ctx)

	schedule, err := store.ScheduleRepository().GetByWorkflowID(ctx, "wf-gone")
	require.NoError(t, err)
	assert.Nil(t, schedule)
}

func TestScheduler_ProcessDueSchedules_DeactivatesDisabled(t *testing.T) {
	t.Parallel()

	scheduler, store := newTestScheduler(t)
	ctx := context.Background()

	require.NoError(t, store.WorkflowRepository().Save(ctx, scheduledWorkflow("wf-off", false)))
	require.NoError(t, store.ScheduleRepository().Save(ctx, dueSchedule(t, "wf-off")))

	scheduler.processDueSchedules(ctx)

	schedule, err := store.ScheduleRepository().GetByWorkflowID(ctx, "wf-off")
	require.NoError(t, err)
	require.NotNil(t, schedule)
	assert.False(t, schedule.Active)

	executions, err := store.ExecutionRepository().List(ctx, "wf-off", 0)
	require.NoError(t, err)
	assert.Empty(t, executions)
}

func TestScheduler_StartStop(t *testing.T) {
	t.Parallel()

	scheduler, _ := newTestScheduler(t)
	ctx := context.Background()

	require.NoError(t, scheduler.Start(ctx))
	require.NoError(t, scheduler.Start(ctx), "starting twice is a no-op")

	require.NoError(t, scheduler.Stop(ctx))
	require.NoError(t, scheduler.Stop(ctx), "stopping twice is a no-op")
}
