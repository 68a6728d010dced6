package web

import (
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"

	"github.com/superdash/flowengine/pkg/catalog"
	"github.com/superdash/flowengine/pkg/models"
	"github.com/superdash/flowengine/pkg/registry"
	"github.com/superdash/flowengine/pkg/services"
)

const defaultExecutionListLimit = 50

type APIHandlers struct {
	workflowService  *services.Workflow
	executionService *services.Execution
	validator        *validator.Validate
	registry         *registry.Registry
}

func NewAPIHandlers(
	workflowService *services.Workflow,
	executionService *services.Execution,
	validate *validator.Validate,
	reg *registry.Registry,
) *APIHandlers {
	return &APIHandlers{
		workflowService:  workflowService,
		executionService: executionService,
		validator:        validate,
		registry:         reg,
	}
}

func (h *APIHandlers) HealthCheck(c fiber.Ctx) error {
	registryCheck, regOk := h.registry.HealthCheck()
	repositoryCheck, repOk := h.workflowService.HealthCheck(c.Context())

	status := "unhealthy"
	httpStatus := http.StatusInternalServerError

	if regOk && repOk {
		status = "healthy"
		httpStatus = http.StatusOK
	}

	return c.Status(httpStatus).JSON(fiber.Map{
		"status":  status,
		"service": "workflow-engine",
		"checkers": fiber.Map{
			"registry":    registryCheck,
			"persistence": repositoryCheck,
		},
	})
}

func (h *APIHandlers) GetWorkflows(c fiber.Ctx) error {
	workflows, err := h.workflowService.ListWorkflows(c.Context())
	if err != nil {
		return handleServiceError(c, err)
	}

	if workflows == nil {
		workflows = []*models.Workflow{}
	}

	return c.JSON(workflows)
}

func (h *APIHandlers) GetWorkflow(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Workflow ID is required")
	}

	workflow, err := h.workflowService.GetWorkflow(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(workflow)
}

func (h *APIHandlers) CreateWorkflow(c fiber.Ctx) error {
	var req WorkflowRequest

	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid request body: "+err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		return badRequest(c, err.Error())
	}

	created, err := h.workflowService.CreateWorkflow(c.Context(), req.ToModel())
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *APIHandlers) UpdateWorkflow(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Workflow ID is required")
	}

	var req WorkflowRequest

	if err := c.Bind().JSON(&req); err != nil {
		return badRequest(c, "Invalid request body: "+err.Error())
	}

	if err := h.validator.Struct(&req); err != nil {
		return badRequest(c, err.Error())
	}

	updated, err := h.workflowService.UpdateWorkflow(c.Context(), id, req.ToModel())
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(updated)
}

func (h *APIHandlers) DeleteWorkflow(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Workflow ID is required")
	}

	if err := h.workflowService.DeleteWorkflow(c.Context(), id); err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(DeleteWorkflowResponse{
		Status:     "deleted",
		WorkflowID: id,
	})
}

// ExecuteWorkflow runs a workflow synchronously and returns the finished
// execution record, including when the run itself failed.
func (h *APIHandlers) ExecuteWorkflow(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Workflow ID is required")
	}

	execution, err := h.executionService.ExecuteWorkflow(c.Context(), id, models.TriggerTypeManual, nil)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(execution)
}

func (h *APIHandlers) ToggleWorkflow(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Workflow ID is required")
	}

	enabledStr := c.Query("enabled")
	if enabledStr == "" {
		return badRequest(c, "Query parameter 'enabled' is required")
	}

	enabled, err := strconv.ParseBool(enabledStr)
	if err != nil {
		return badRequest(c, "Query parameter 'enabled' must be a boolean")
	}

	workflow, err := h.workflowService.ToggleWorkflow(c.Context(), id, enabled)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(workflow)
}

func (h *APIHandlers) GetExecutions(c fiber.Ctx) error {
	workflowID := c.Query("workflow_id")

	limit := defaultExecutionListLimit

	if limitStr := c.Query("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed < 0 {
			return badRequest(c, "Query parameter 'limit' must be a non-negative integer")
		}

		limit = parsed
	}

	executions, err := h.executionService.ListExecutions(c.Context(), workflowID, limit)
	if err != nil {
		return handleServiceError(c, err)
	}

	if executions == nil {
		executions = []*models.Execution{}
	}

	return c.JSON(executions)
}

func (h *APIHandlers) GetExecution(c fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return badRequest(c, "Execution ID is required")
	}

	execution, err := h.executionService.GetExecution(c.Context(), id)
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(execution)
}

func (h *APIHandlers) GetScheduled(c fiber.Ctx) error {
	scheduled, err := h.workflowService.ScheduledWorkflows(c.Context())
	if err != nil {
		return handleServiceError(c, err)
	}

	return c.JSON(scheduled)
}

func (h *APIHandlers) GetAvailablePlugins(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"plugins": catalog.AvailablePlugins(),
	})
}

func (h *APIHandlers) GetCommands(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"commands": catalog.Commands(),
	})
}

// WebhookTrigger fires every enabled workflow holding the webhook trigger
// node named in the path. The request body becomes the trigger data.
func (h *APIHandlers) WebhookTrigger(c fiber.Ctx) error {
	nodeID := c.Params("nodeId")
	if nodeID == "" {
		return badRequest(c, "Node ID is required")
	}

	payload := map[string]any{}
	if len(c.Body()) > 0 {
		if err := c.Bind().JSON(&payload); err != nil {
			return badRequest(c, "Invalid JSON payload: "+err.Error())
		}
	}

	triggered, err := h.executionService.TriggerWebhook(c.Context(), nodeID, payload)
	if err != nil {
		return internalError(c, err)
	}

	if len(triggered) == 0 {
		return c.JSON(WebhookResponse{
			Status:  "no_workflows",
			Message: "No enabled workflows found with webhook trigger node: " + nodeID,
		})
	}

	return c.JSON(WebhookResponse{
		Status:    "triggered",
		Workflows: triggered,
		Payload:   payload,
	})
}
