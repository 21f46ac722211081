// Package web provides the HTTP surface for triggering runs and
// inspecting workflows.
package web

import "github.com/autofy/autofy/pkg/models"

// RunRequest triggers workflow execution. Mode "single" runs one
// workflow by id, "batch" runs every active workflow, optionally scoped
// to one owner.
type RunRequest struct {
	WorkflowID string `json:"workflow_id,omitempty" validate:"required_if=Mode single"`
	UserID     string `json:"user_id,omitempty"`
	Mode       string `json:"mode"                  validate:"required,oneof=single batch"`
}

// RunResponse is the JSON result of a run invocation.
type RunResponse struct {
	Success bool                `json:"success"`
	Summary models.BatchSummary `json:"summary"`
	Results []*models.RunResult `json:"results"`
}
