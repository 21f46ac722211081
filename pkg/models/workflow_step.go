package models

// StepType distinguishes the single trigger step from action steps.
type StepType string

const (
	StepTypeTrigger StepType = "trigger"
	StepTypeAction  StepType = "action"
)

// WorkflowStep is one stage of a workflow bound to a service and an
// event/action identifier plus free-form configuration.
type WorkflowStep struct {
	ID            string         `json:"id"`
	WorkflowID    string         `json:"workflow_id"`
	StepOrder     int            `json:"step_order"`
	StepType      StepType       `json:"step_type"    validate:"required,oneof=trigger action"`
	ServiceName   string         `json:"service_name" validate:"required"`
	ActionName    string         `json:"action_name"  validate:"required"`
	Configuration map[string]any `json:"configuration"`
}

// AdapterID is the registry key for the adapter implementing this step,
// e.g. "gmail.new_email" or "notion.create_page".
func (s *WorkflowStep) AdapterID() string {
	return s.ServiceName + "." + s.ActionName
}
