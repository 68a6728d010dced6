// Package main provides the flowengine API server implementation.
package main

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"go.opentelemetry.io/otel/trace"

	"github.com/superdash/flowengine/pkg/engine"
	"github.com/superdash/flowengine/pkg/eventbus"
	"github.com/superdash/flowengine/pkg/persistence"
	"github.com/superdash/flowengine/pkg/protocol"
	"github.com/superdash/flowengine/pkg/registry"
	"github.com/superdash/flowengine/pkg/services"
	"github.com/superdash/flowengine/pkg/web"
)

const pluginActionTimeout = 30 * time.Second

type API struct {
	logger      *slog.Logger
	persistence persistence.Persistence
	registry    *registry.Registry
	eventBus    eventbus.EventBus
	tracer      trace.Tracer
	baseURL     string
	validate    *validator.Validate
}

func NewAPI(
	logger *slog.Logger,
	store persistence.Persistence,
	reg *registry.Registry,
	eventBus eventbus.EventBus,
	tracer trace.Tracer,
	baseURL string,
) *API {
	return &API{
		logger:      logger,
		persistence: store,
		registry:    reg,
		eventBus:    eventBus,
		tracer:      tracer,
		baseURL:     baseURL,
		validate:    validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (a *API) App() *fiber.App {
	executor := engine.NewExecutor(
		a.logger,
		a.registry,
		a.persistence.ExecutionRepository(),
		a.eventBus,
		a.tracer,
		protocol.Dependencies{
			Logger:     a.logger,
			BaseURL:    a.baseURL,
			HTTPClient: &http.Client{Timeout: pluginActionTimeout},
		},
	)

	workflowService := services.NewWorkflow(a.persistence, a.registry)
	executionService := services.NewExecution(a.persistence, executor)

	handlers := web.NewAPIHandlers(workflowService, executionService, a.validate, a.registry)

	app := fiber.New()
	app.Use(cors.New())
	app.Use(logger.New(logger.Config{
		DisableColors: true,
	}))

	app.Get(healthcheck.DefaultLivenessEndpoint, healthcheck.NewHealthChecker())
	app.Get(healthcheck.DefaultReadinessEndpoint, healthcheck.NewHealthChecker())

	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("Flowengine API")
	})

	plugin := app.Group("/plugins/workflow-engine")
	plugin.Get("/health", handlers.HealthCheck)

	w := plugin.Group("/workflows")
	w.Get("/", handlers.GetWorkflows)
	w.Post("/", handlers.CreateWorkflow)
	w.Get("/:id", handlers.GetWorkflow)
	w.Put("/:id", handlers.UpdateWorkflow)
	w.Delete("/:id", handlers.DeleteWorkflow)
	w.Post("/:id/execute", handlers.ExecuteWorkflow)
	w.Post("/:id/toggle", handlers.ToggleWorkflow)

	e := plugin.Group("/executions")
	e.Get("/", handlers.GetExecutions)
	e.Get("/:id", handlers.GetExecution)

	plugin.Get("/scheduled", handlers.GetScheduled)
	plugin.Get("/available-plugins", handlers.GetAvailablePlugins)
	plugin.Get("/commands", handlers.GetCommands)
	plugin.Post("/webhook/:nodeId", handlers.WebhookTrigger)

	return app
}

func (a *API) Start(port int) error {
	app := a.App()

	return app.Listen(":" + strconv.Itoa(port))
}
