package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func triggerStep(order int) *WorkflowStep {
	return &WorkflowStep{
		ID:          "step-trigger",
		StepOrder:   order,
		StepType:    StepTypeTrigger,
		ServiceName: "gmail",
		ActionName:  "new_email",
	}
}

func actionStep(id string, order int) *WorkflowStep {
	return &WorkflowStep{
		ID:          id,
		StepOrder:   order,
		StepType:    StepTypeAction,
		ServiceName: "notion",
		ActionName:  "create_page",
	}
}

func TestWorkflow_TriggerStep(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		steps       []*WorkflowStep
		expectedErr error
	}{
		{
			name:        "no steps",
			steps:       nil,
			expectedErr: ErrNoSteps,
		},
		{
			name:        "no trigger step",
			steps:       []*WorkflowStep{actionStep("a", 1), actionStep("b", 2)},
			expectedErr: ErrNoTriggerStep,
		},
		{
			name: "multiple trigger steps",
			steps: []*WorkflowStep{
				triggerStep(0),
				{ID: "second-trigger", StepOrder: 1, StepType: StepTypeTrigger},
			},
			expectedErr: ErrMultipleTriggerSteps,
		},
		{
			name:        "trigger not lowest ordered",
			steps:       []*WorkflowStep{actionStep("a", 0), triggerStep(1)},
			expectedErr: ErrTriggerNotFirst,
		},
		{
			name:  "valid workflow",
			steps: []*WorkflowStep{actionStep("a", 1), triggerStep(0), actionStep("b", 2)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			workflow := &Workflow{ID: "wf-1", Steps: tt.steps}

			trigger, err := workflow.TriggerStep()

			if tt.expectedErr != nil {
				require.ErrorIs(t, err, tt.expectedErr)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, "step-trigger", trigger.ID)
		})
	}
}

func TestWorkflow_TriggerStep_OrderDoesNotNeedToBeZero(t *testing.T) {
	t.Parallel()

	workflow := &Workflow{Steps: []*WorkflowStep{
		actionStep("a", 10),
		triggerStep(5),
	}}

	trigger, err := workflow.TriggerStep()

	require.NoError(t, err)
	assert.Equal(t, 5, trigger.StepOrder)
}

func TestWorkflow_ActionSteps_SortedByOrder(t *testing.T) {
	t.Parallel()

	workflow := &Workflow{Steps: []*WorkflowStep{
		actionStep("third", 7),
		triggerStep(0),
		actionStep("first", 1),
		actionStep("second", 3),
	}}

	actions := workflow.ActionSteps()

	require.Len(t, actions, 3)
	assert.Equal(t, "first", actions[0].ID)
	assert.Equal(t, "second", actions[1].ID)
	assert.Equal(t, "third", actions[2].ID)
}

func TestWorkflow_ActionSteps_Empty(t *testing.T) {
	t.Parallel()

	workflow := &Workflow{Steps: []*WorkflowStep{triggerStep(0)}}

	assert.Empty(t, workflow.ActionSteps())
}

func TestWorkflow_IsActive(t *testing.T) {
	t.Parallel()

	assert.True(t, (&Workflow{Status: WorkflowStatusActive}).IsActive())
	assert.False(t, (&Workflow{Status: WorkflowStatusPaused}).IsActive())
}

func TestWorkflow_Validate(t *testing.T) {
	t.Parallel()

	workflow := &Workflow{
		UserID: "user-1",
		Name:   "Invoice pipeline",
		Status: WorkflowStatusActive,
	}

	require.NoError(t, workflow.Validate())

	workflow.Name = "ab"
	require.Error(t, workflow.Validate())

	workflow.Name = "Invoice pipeline"
	workflow.Status = "archived"
	require.Error(t, workflow.Validate())
}

func TestWorkflowStep_AdapterID(t *testing.T) {
	t.Parallel()

	step := &WorkflowStep{ServiceName: "telegram", ActionName: "broadcast"}
	assert.Equal(t, "telegram.broadcast", step.AdapterID())
}