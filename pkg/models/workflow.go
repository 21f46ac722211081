// Package models defines the core domain models for workflow execution.
package models

import (
	"errors"
	"sort"
	"time"

	"github.com/go-playground/validator/v10"
)

// WorkflowStatus represents the lifecycle state of a workflow.
type WorkflowStatus string

const (
	WorkflowStatusActive WorkflowStatus = "active" // Executable by the batch runner
	WorkflowStatusPaused WorkflowStatus = "paused" // Kept but never executed
)

var (
	// ErrNoSteps indicates a workflow without any steps.
	ErrNoSteps = errors.New("workflow has no steps")
	// ErrNoTriggerStep indicates a workflow without a trigger step.
	ErrNoTriggerStep = errors.New("workflow has no trigger step")
	// ErrMultipleTriggerSteps indicates more than one trigger step.
	ErrMultipleTriggerSteps = errors.New("workflow has more than one trigger step")
	// ErrTriggerNotFirst indicates the trigger step is not the lowest ordered step.
	ErrTriggerNotFirst = errors.New("trigger step must have the lowest step order")
)

// Workflow is a named, ordered set of one trigger step and N action steps
// owned by a single user.
type Workflow struct {
	ID             string          `json:"id"`
	UserID         string          `json:"user_id"             validate:"required"`
	Name           string          `json:"name"                validate:"required,min=3"`
	Status         WorkflowStatus  `json:"status"              validate:"required,oneof=active paused"`
	Steps          []*WorkflowStep `json:"steps"`
	TotalRuns      int             `json:"total_runs"`
	SuccessfulRuns int             `json:"successful_runs"`
	FailedRuns     int             `json:"failed_runs"`
	LastRunAt      *time.Time      `json:"last_run_at,omitempty"`
	LastError      string          `json:"last_error,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

func (w *Workflow) Validate() error {
	return validate.Struct(w)
}

func (w *Workflow) IsActive() bool {
	return w.Status == WorkflowStatusActive
}

// TriggerStep returns the single trigger step of the workflow. A workflow
// with zero steps, no trigger step, multiple trigger steps, or a trigger
// that is not the lowest ordered step is not executable.
func (w *Workflow) TriggerStep() (*WorkflowStep, error) {
	if len(w.Steps) == 0 {
		return nil, ErrNoSteps
	}

	var trigger *WorkflowStep

	minOrder := w.Steps[0].StepOrder

	for _, step := range w.Steps {
		if step.StepOrder < minOrder {
			minOrder = step.StepOrder
		}

		if step.StepType != StepTypeTrigger {
			continue
		}

		if trigger != nil {
			return nil, ErrMultipleTriggerSteps
		}

		trigger = step
	}

	if trigger == nil {
		return nil, ErrNoTriggerStep
	}

	if trigger.StepOrder != minOrder {
		return nil, ErrTriggerNotFirst
	}

	return trigger, nil
}

// ActionSteps returns all action steps sorted by ascending step order.
// Ascending order is the sole ordering rule between action steps.
func (w *Workflow) ActionSteps() []*WorkflowStep {
	actions := make([]*WorkflowStep, 0, len(w.Steps))

	for _, step := range w.Steps {
		if step.StepType == StepTypeAction {
			actions = append(actions, step)
		}
	}

	sort.Slice(actions, func(i, j int) bool {
		return actions[i].StepOrder < actions[j].StepOrder
	})

	return actions
}
