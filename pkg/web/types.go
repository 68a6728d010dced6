// Package web provides the HTTP handlers and request types for the workflow
// engine REST API.
package web

import "github.com/superdash/flowengine/pkg/models"

// WorkflowRequest is the request body for creating or updating a workflow.
// The graph comes in whole; partial updates are not supported.
type WorkflowRequest struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"        validate:"required,min=3"`
	Description string         `json:"description"`
	Enabled     bool           `json:"enabled"`
	Schedule    *string        `json:"schedule"`
	Nodes       []*models.Node `json:"nodes"`
	Edges       []*models.Edge `json:"edges"`
}

// ToModel converts the request into a workflow model.
func (r *WorkflowRequest) ToModel() *models.Workflow {
	return &models.Workflow{
		ID:          r.ID,
		Name:        r.Name,
		Description: r.Description,
		Enabled:     r.Enabled,
		Schedule:    r.Schedule,
		Nodes:       r.Nodes,
		Edges:       r.Edges,
	}
}

// DeleteWorkflowResponse confirms a workflow deletion.
type DeleteWorkflowResponse struct {
	Status     string `json:"status"`
	WorkflowID string `json:"workflow_id"`
}

// WebhookResponse reports the outcome of a webhook trigger call.
type WebhookResponse struct {
	Status    string         `json:"status"`
	Message   string         `json:"message,omitempty"`
	Workflows any            `json:"workflows,omitempty"`
	Payload   map[string]any `json:"payload,omitempty"`
}
