// Package main provides the flowengine scheduler daemon: a centralized cron
// poller plus the Redis queue trigger consumers.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/superdash/flowengine/pkg/cmd"
	"github.com/superdash/flowengine/pkg/engine"
	"github.com/superdash/flowengine/pkg/log"
	"github.com/superdash/flowengine/pkg/otelhelper"
	"github.com/superdash/flowengine/pkg/protocol"
	"github.com/superdash/flowengine/pkg/scheduler"
	"github.com/superdash/flowengine/pkg/triggers/queue"
)

const serviceName = "flowengine-scheduler"

const pluginActionTimeout = 30 * time.Second

func main() {
	command := &cli.Command{
		Name:                  serviceName,
		Usage:                 "Run scheduled and queue-triggered workflows",
		EnableShellCompletion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "database-url",
				Usage:    "Database connection URL (file://path or postgres://...)",
				Required: true,
				Sources:  cli.EnvVars("DATABASE_URL"),
			},
			&cli.StringFlag{
				Name:    "base-url",
				Usage:   "Base URL of the dashboard gateway plugin-action nodes call",
				Value:   "http://localhost:8000",
				Sources: cli.EnvVars("BASE_URL"),
			},
			&cli.StringFlag{
				Name:    "event-bus",
				Usage:   "Event bus provider (gochannel, kafka)",
				Value:   "gochannel",
				Sources: cli.EnvVars("EVENT_BUS"),
			},
			&cli.StringFlag{
				Name:    "redis-addr",
				Usage:   "Redis address for queue triggers",
				Value:   "localhost:6379",
				Sources: cli.EnvVars("REDIS_ADDR"),
			},
			&cli.BoolFlag{
				Name:    "tracing",
				Usage:   "Export traces via OTLP",
				Sources: cli.EnvVars("TRACING_ENABLED"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
		},
		Action: run,
	}

	if err := command.Run(context.Background(), os.Args); err != nil {
		panic(err)
	}
}

func run(ctx context.Context, command *cli.Command) error {
	log.Setup(command.String("log-level"))

	logger := log.WithModule("scheduler")
	logger.InfoContext(ctx, "Initializing flowengine scheduler")

	registry := cmd.NewRegistry(logger)
	persistence := cmd.NewPersistence(ctx, logger, command.String("database-url"))

	defer func() {
		if err := persistence.Close(ctx); err != nil {
			logger.ErrorContext(ctx, "Failed to close persistence", "error", err)
		}
	}()

	eventBus := cmd.NewEventBus(command.String("event-bus"), logger)
	defer func() {
		if err := eventBus.Close(); err != nil {
			logger.ErrorContext(ctx, "Failed to close event bus", "error", err)
		}
	}()

	var tracer trace.Tracer

	if command.Bool("tracing") {
		var err error

		tracer, err = otelhelper.NewTracer(ctx, serviceName)
		if err != nil {
			return err
		}
	} else {
		tracer = otel.Tracer(serviceName)
	}

	executor := engine.NewExecutor(
		logger,
		registry,
		persistence.ExecutionRepository(),
		eventBus,
		tracer,
		protocol.Dependencies{
			Logger:     logger,
			BaseURL:    command.String("base-url"),
			HTTPClient: &http.Client{Timeout: pluginActionTimeout},
		},
	)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	cronScheduler := scheduler.NewScheduler(logger, persistence, executor)
	if err := cronScheduler.Start(ctx); err != nil {
		return err
	}

	queueManager := queue.NewManager(
		logger,
		persistence.WorkflowRepository(),
		executor,
		map[string]string{"addr": command.String("redis-addr")},
	)
	if err := queueManager.Start(ctx); err != nil {
		return err
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	logger.InfoContext(ctx, "Shutting down")

	if err := queueManager.Stop(ctx); err != nil {
		logger.ErrorContext(ctx, "Failed to stop queue manager", "error", err)
	}

	return cronScheduler.Stop(ctx)
}
