package queue

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/superdash/flowengine/pkg/engine"
	"github.com/superdash/flowengine/pkg/models"
	"github.com/superdash/flowengine/pkg/persistence"
)

const resyncInterval = 1 * time.Minute

// Manager keeps one running Trigger per queue-triggered workflow. It resyncs
// against the workflow store periodically so edits and deletions take effect
// without a restart.
type Manager struct {
	logger     *slog.Logger
	workflows  persistence.WorkflowRepository
	executor   *engine.Executor
	connection map[string]string

	mu       sync.Mutex
	triggers map[string]*Trigger
	done     chan struct{}
}

func NewManager(logger *slog.Logger, workflows persistence.WorkflowRepository, executor *engine.Executor, connection map[string]string) *Manager {
	return &Manager{
		logger:     logger.With("module", "queue_manager"),
		workflows:  workflows,
		executor:   executor,
		connection: connection,
		triggers:   make(map[string]*Trigger),
		done:       make(chan struct{}),
	}
}

// Start performs an initial sync and then resyncs every minute.
func (m *Manager) Start(ctx context.Context) error {
	m.sync(ctx)

	go func() {
		ticker := time.NewTicker(resyncInterval)
		defer ticker.Stop()

		for {
			select {
			case <-m.done:
				return
			case <-ctx.Done():
				return
			case <-ticker.C:
				m.sync(ctx)
			}
		}
	}()

	return nil
}

// Stop shuts down every running trigger.
func (m *Manager) Stop(ctx context.Context) error {
	close(m.done)

	m.mu.Lock()
	defer m.mu.Unlock()

	for workflowID, trigger := range m.triggers {
		if err := trigger.Stop(ctx); err != nil {
			m.logger.Error("Failed to stop queue trigger", "workflow_id", workflowID, "error", err)
		}

		delete(m.triggers, workflowID)
	}

	return nil
}

// sync diffs the desired trigger set against the running one.
func (m *Manager) sync(ctx context.Context) {
	workflows, err := m.workflows.GetAll(ctx)
	if err != nil {
		m.logger.Error("Failed to list workflows for queue sync", "error", err)

		return
	}

	desired := make(map[string]string)

	for _, workflow := range workflows {
		if !workflow.Enabled {
			continue
		}

		for _, node := range workflow.TriggerNodes() {
			if node.TriggerType() != models.TriggerTypeQueue {
				continue
			}

			queue := node.DataString("queue")
			if queue == "" {
				m.logger.Warn("Queue trigger node without queue name", "workflow_id", workflow.ID, "node_id", node.ID)

				continue
			}

			desired[workflow.ID] = queue
		}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for workflowID, trigger := range m.triggers {
		if queue, ok := desired[workflowID]; ok && queue == trigger.Queue {
			continue
		}

		if err := trigger.Stop(ctx); err != nil {
			m.logger.Error("Failed to stop queue trigger", "workflow_id", workflowID, "error", err)
		}

		delete(m.triggers, workflowID)
	}

	for workflowID, queue := range desired {
		if _, ok := m.triggers[workflowID]; ok {
			continue
		}

		m.startTrigger(ctx, workflowID, queue)
	}
}

func (m *Manager) startTrigger(ctx context.Context, workflowID, queue string) {
	trigger, err := NewTrigger(ctx, queue, m.connection, m.logger)
	if err != nil {
		m.logger.Error("Failed to create queue trigger", "workflow_id", workflowID, "error", err)

		return
	}

	callback := func(ctx context.Context, triggerData map[string]any) error {
		workflow, err := m.workflows.GetByID(ctx, workflowID)
		if err != nil {
			return err
		}

		if !workflow.Enabled {
			return nil
		}

		_, err = m.executor.Execute(ctx, workflow, models.TriggerTypeQueue, triggerData)

		return err
	}

	if err := trigger.Start(ctx, callback); err != nil {
		m.logger.Error("Failed to start queue trigger", "workflow_id", workflowID, "error", err)

		return
	}

	m.triggers[workflowID] = trigger
	m.logger.Info("Queue trigger started", "workflow_id", workflowID, "queue", queue)
}
