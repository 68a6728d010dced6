package models_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/superdash/flowengine/pkg/models"
)

func TestNewSchedule(t *testing.T) {
	t.Parallel()

	schedule, err := models.NewSchedule("schedule-1", "workflow-1", "0 9 * * *")
	require.NoError(t, err)

	assert.Equal(t, "schedule-1", schedule.ID)
	assert.Equal(t, "workflow-1", schedule.WorkflowID)
	assert.True(t, schedule.Active)
	assert.True(t, schedule.NextDueAt.After(time.Now().UTC().Add(-time.Minute)))
	assert.Equal(t, 9, schedule.NextDueAt.Hour())
	assert.Equal(t, 0, schedule.NextDueAt.Minute())
}

func TestNewSchedule_InvalidCron(t *testing.T) {
	t.Parallel()

	_, err := models.NewSchedule("schedule-1", "workflow-1", "not a cron")
	require.Error(t, err)
}

func TestSchedule_UpdateNextDueAt(t *testing.T) {
	t.Parallel()

	schedule, err := models.NewSchedule("schedule-1", "workflow-1", "*/5 * * * *")
	require.NoError(t, err)

	schedule.NextDueAt = time.Now().UTC().Add(-time.Hour)

	require.NoError(t, schedule.UpdateNextDueAt())
	assert.True(t, schedule.NextDueAt.After(time.Now().UTC()))
}

func TestSchedule_IsDue(t *testing.T) {
	t.Parallel()

	now := time.Now().UTC()

	tests := []struct {
		name      string
		nextDueAt time.Time
		active    bool
		want      bool
	}{
		{name: "past and active", nextDueAt: now.Add(-time.Minute), active: true, want: true},
		{name: "exactly now", nextDueAt: now, active: true, want: true},
		{name: "future", nextDueAt: now.Add(time.Minute), active: true, want: false},
		{name: "past but inactive", nextDueAt: now.Add(-time.Minute), active: false, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			schedule := &models.Schedule{
				ID:             "schedule-1",
				WorkflowID:     "workflow-1",
				CronExpression: "* * * * *",
				NextDueAt:      tt.nextDueAt,
				Active:         tt.active,
			}

			assert.Equal(t, tt.want, schedule.IsDue(now))
		})
	}
}

func TestParseCron(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		expression string
		wantErr    bool
	}{
		{name: "daily at nine", expression: "0 9 * * *", wantErr: false},
		{name: "every five minutes", expression: "*/5 * * * *", wantErr: false},
		{name: "weekday mornings", expression: "30 8 * * 1-5", wantErr: false},
		{name: "six fields", expression: "0 0 9 * * *", wantErr: true},
		{name: "garbage", expression: "soon", wantErr: true},
		{name: "empty", expression: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := models.ParseCron(tt.expression)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}
