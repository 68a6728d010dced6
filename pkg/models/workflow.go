// Package models defines the core domain models for graph-based workflow automation.
package models

import "time"

// Workflow is a node/edge graph with scheduling metadata. Nodes hold the
// behavior configuration, edges define execution order between them.
type Workflow struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"        validate:"required,min=3"`
	Description string    `json:"description"`
	Enabled     bool      `json:"enabled"`
	Schedule    *string   `json:"schedule"` // 5-field cron expression, nil when unscheduled
	Nodes       []*Node   `json:"nodes"`
	Edges       []*Edge   `json:"edges"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// HasSchedule reports whether the workflow carries a non-empty cron expression.
func (w *Workflow) HasSchedule() bool {
	return w.Schedule != nil && *w.Schedule != ""
}

// NodeByID returns the node with the given ID, or nil.
func (w *Workflow) NodeByID(id string) *Node {
	for _, n := range w.Nodes {
		if n.ID == id {
			return n
		}
	}

	return nil
}

// TriggerNodes returns all nodes of the trigger type, preserving order.
func (w *Workflow) TriggerNodes() []*Node {
	var triggers []*Node

	for _, n := range w.Nodes {
		if n.Type == NodeTypeTrigger {
			triggers = append(triggers, n)
		}
	}

	return triggers
}

// WebhookTriggerNode returns the enabled webhook trigger node with the given
// ID, or nil when the workflow holds no such node.
func (w *Workflow) WebhookTriggerNode(nodeID string) *Node {
	node := w.NodeByID(nodeID)
	if node == nil || node.Type != NodeTypeTrigger {
		return nil
	}

	if node.TriggerType() != TriggerTypeWebhook {
		return nil
	}

	return node
}
