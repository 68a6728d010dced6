package web_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"

	"github.com/superdash/flowengine/pkg/engine"
	"github.com/superdash/flowengine/pkg/models"
	"github.com/superdash/flowengine/pkg/persistence"
	"github.com/superdash/flowengine/pkg/persistence/file"
	"github.com/superdash/flowengine/pkg/protocol"
	"github.com/superdash/flowengine/pkg/registry"
	"github.com/superdash/flowengine/pkg/services"
	"github.com/superdash/flowengine/pkg/web"
)

// newTestApp wires the full handler stack over file persistence, mirroring
// the API binary's route table.
func newTestApp(t *testing.T) (*fiber.App, persistence.Persistence) {
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

	workflowService := services.NewWorkflow(store, reg)
	executionService := services.NewExecution(store, executor)

	handlers := web.NewAPIHandlers(workflowService, executionService, validator.New(), reg)

	app := fiber.New()
	api := app.Group("/plugins/workflow-engine")

	api.Get("/health", handlers.HealthCheck)
	api.Get("/workflows", handlers.GetWorkflows)
	api.Post("/workflows", handlers.CreateWorkflow)
	api.Get("/workflows/:id", handlers.GetWorkflow)
	api.Put("/workflows/:id", handlers.UpdateWorkflow)
	api.Delete("/workflows/:id", handlers.DeleteWorkflow)
	api.Post("/workflows/:id/execute", handlers.ExecuteWorkflow)
	api.Post("/workflows/:id/toggle", handlers.ToggleWorkflow)
	api.Get("/executions", handlers.GetExecutions)
	api.Get("/executions/:id", handlers.GetExecution)
	api.Get("/scheduled", handlers.GetScheduled)
	api.Get("/available-plugins", handlers.GetAvailablePlugins)
	api.Get("/commands", handlers.GetCommands)
	api.Post("/webhook/:nodeId", handlers.WebhookTrigger)

	return app, store
}

func doJSON(t *testing.T, app *fiber.App, method, target string, body any) (*http.Response, []byte) {
	t.Helper()

	var reader io.Reader

	if body != nil {
		encoded, err := json.Marshal(body)
		require.NoError(t, err)

		reader = bytes.NewReader(encoded)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := app.Test(req)
	require.NoError(t, err)

	payload, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())

	return resp, payload
}

func workflowBody(name string) map[string]any {
	return map[string]any{
		"name":    name,
		"enabled": true,
		"nodes": []map[string]any{
			{"id": "start", "type": "trigger", "data": map[string]any{"triggerType": "webhook"}},
			{"id": "set", "type": "transform", "data": map[string]any{
				"transformType": "set",
				"variable":      "greeting",
				"value":         "hello",
			}},
		},
		"edges": []map[string]any{
			{"id": "e1", "source": "start", "target": "set"},
		},
	}
}

func TestHealthCheck(t *testing.T) {
	t.Parallel()

	app, _ := newTestApp(t)

	resp, body := doJSON(t, app, http.MethodGet, "/plugins/workflow-engine/health", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var health map[string]any
	require.NoError(t, json.Unmarshal(body, &health))
	assert.Equal(t, "healthy", health["status"])
	assert.Equal(t, "workflow-engine", health["service"])
}

func TestWorkflowCRUD(t *testing.T) {
	t.Parallel()

	app, _ := newTestApp(t)

	// Empty list comes back as an empty array, not null.
	resp, body := doJSON(t, app, http.MethodGet, "/plugins/workflow-engine/workflows", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, "[]", string(body))

	resp, body = doJSON(t, app, http.MethodPost, "/plugins/workflow-engine/workflows", workflowBody("Created via API"))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created models.Workflow
	require.NoError(t, json.Unmarshal(body, &created))
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Created via API", created.Name)

	resp, body = doJSON(t, app, http.MethodGet, "/plugins/workflow-engine/workflows/"+created.ID, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var fetched models.Workflow
	require.NoError(t, json.Unmarshal(body, &fetched))
	assert.Equal(t, created.ID, fetched.ID)

	update := workflowBody("Renamed via API")

	resp, body = doJSON(t, app, http.MethodPut, "/plugins/workflow-engine/workflows/"+created.ID, update)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var updated models.Workflow
	require.NoError(t, json.Unmarshal(body, &updated))
	assert.Equal(t, "Renamed via API", updated.Name)

	resp, body = doJSON(t, app, http.MethodDelete, "/plugins/workflow-engine/workflows/"+created.ID, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var deleted web.DeleteWorkflowResponse
	require.NoError(t, json.Unmarshal(body, &deleted))
	assert.Equal(t, "deleted", deleted.Status)
	assert.Equal(t, created.ID, deleted.WorkflowID)

	resp, _ = doJSON(t, app, http.MethodGet, "/plugins/workflow-engine/workflows/"+created.ID, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestCreateWorkflow_ValidationErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body map[string]any
	}{
		{
			name: "name too short",
			body: map[string]any{"name": "ab"},
		},
		{
			name: "unknown node type",
			body: map[string]any{
				"name":  "Bad node type",
				"nodes": []map[string]any{{"id": "n1", "type": "teleport"}},
			},
		},
		{
			name: "invalid cron",
			body: map[string]any{
				"name":     "Bad cron",
				"schedule": "every tuesday",
			},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			app, _ := newTestApp(t)

			resp, body := doJSON(t, app, http.MethodPost, "/plugins/workflow-engine/workflows", tc.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
			var problem map[string]any
			require.NoError(t, json.Unmarshal(body, &problem))
			assert.Equal(t, float64(http.StatusBadRequest), problem["status"])
		})
	}
}

func TestExecuteWorkflow(t *testing.T) {
	t.Parallel()

	app, _ := newTestApp(t)

	_, body := doJSON(t, app, http.MethodPost, "/plugins/workflow-engine/workflows", workflowBody("Runnable"))

	var created models.Workflow
	require.NoError(t, json.Unmarshal(body, &created))

	resp, body := doJSON(t, app, http.MethodPost, "/plugins/workflow-engine/workflows/"+created.ID+"/execute", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var execution models.Execution
	require.NoError(t, json.Unmarshal(body, &execution))
	assert.Equal(t, models.ExecutionStatusCompleted, execution.Status)
	assert.Equal(t, models.TriggerTypeManual, execution.TriggerType)

	resp, _ = doJSON(t, app, http.MethodPost, "/plugins/workflow-engine/workflows/missing/execute", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestToggleWorkflow(t *testing.T) {
	t.Parallel()

	app, _ := newTestApp(t)

	_, body := doJSON(t, app, http.MethodPost, "/plugins/workflow-engine/workflows", workflowBody("Toggle me"))

	var created models.Workflow
	require.NoError(t, json.Unmarshal(body, &created))

	resp, body := doJSON(t, app, http.MethodPost, "/plugins/workflow-engine/workflows/"+created.ID+"/toggle?enabled=false", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var toggled models.Workflow
	require.NoError(t, json.Unmarshal(body, &toggled))
	assert.False(t, toggled.Enabled)

	// Missing and malformed enabled parameters are rejected.
	resp, _ = doJSON(t, app, http.MethodPost, "/plugins/workflow-engine/workflows/"+created.ID+"/toggle", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodPost, "/plugins/workflow-engine/workflows/"+created.ID+"/toggle?enabled=maybe", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestGetExecutions(t *testing.T) {
	t.Parallel()

	app, _ := newTestApp(t)

	resp, body := doJSON(t, app, http.MethodGet, "/plugins/workflow-engine/executions", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, "[]", string(body))

	_, body = doJSON(t, app, http.MethodPost, "/plugins/workflow-engine/workflows", workflowBody("Execution source"))

	var created models.Workflow
	require.NoError(t, json.Unmarshal(body, &created))

	doJSON(t, app, http.MethodPost, "/plugins/workflow-engine/workflows/"+created.ID+"/execute", nil)
	doJSON(t, app, http.MethodPost, "/plugins/workflow-engine/workflows/"+created.ID+"/execute", nil)

	resp, body = doJSON(t, app, http.MethodGet, "/plugins/workflow-engine/executions?workflow_id="+created.ID+"&limit=1", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var executions []models.Execution
	require.NoError(t, json.Unmarshal(body, &executions))
	assert.Len(t, executions, 1)

	resp, _ = doJSON(t, app, http.MethodGet, "/plugins/workflow-engine/executions?limit=-1", nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = doJSON(t, app, http.MethodGet, "/plugins/workflow-engine/executions/missing", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestGetScheduled(t *testing.T) {
	t.Parallel()

	app, _ := newTestApp(t)

	scheduled := workflowBody("Scheduled workflow")
	scheduled["schedule"] = "0 9 * * *"

	_, body := doJSON(t, app, http.MethodPost, "/plugins/workflow-engine/workflows", scheduled)

	var created models.Workflow
	require.NoError(t, json.Unmarshal(body, &created))

	resp, body := doJSON(t, app, http.MethodGet, "/plugins/workflow-engine/scheduled", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var entries map[string]services.ScheduledWorkflow
	require.NoError(t, json.Unmarshal(body, &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "0 9 * * *", entries[created.ID].Trigger)
}

func TestCatalogEndpoints(t *testing.T) {
	t.Parallel()

	app, _ := newTestApp(t)

	resp, body := doJSON(t, app, http.MethodGet, "/plugins/workflow-engine/available-plugins", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var plugins map[string][]map[string]any
	require.NoError(t, json.Unmarshal(body, &plugins))
	assert.NotEmpty(t, plugins["plugins"])

	resp, body = doJSON(t, app, http.MethodGet, "/plugins/workflow-engine/commands", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var commands map[string][]map[string]any
	require.NoError(t, json.Unmarshal(body, &commands))
	assert.NotEmpty(t, commands["commands"])
}

func TestWebhookTrigger(t *testing.T) {
	t.Parallel()

	app, _ := newTestApp(t)

	resp, body := doJSON(t, app, http.MethodPost, "/plugins/workflow-engine/webhook/start", map[string]any{"name": "ada"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var noListeners web.WebhookResponse
	require.NoError(t, json.Unmarshal(body, &noListeners))
	assert.Equal(t, "no_workflows", noListeners.Status)

	_, _ = doJSON(t, app, http.MethodPost, "/plugins/workflow-engine/workflows", workflowBody("Webhook listener"))

	resp, body = doJSON(t, app, http.MethodPost, "/plugins/workflow-engine/webhook/start", map[string]any{"name": "ada"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var triggered web.WebhookResponse
	require.NoError(t, json.Unmarshal(body, &triggered))
	assert.Equal(t, "triggered", triggered.Status)
	assert.NotNil(t, triggered.Workflows)
}
