package workflow

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autofy/autofy/pkg/models"
	"github.com/autofy/autofy/pkg/persistence/file"
)

// stubExecutor runs a canned function per workflow id.
type stubExecutor struct {
	run func(ctx context.Context, workflowID string) (*models.RunResult, error)
}

func (s *stubExecutor) Execute(ctx context.Context, workflowID string) (*models.RunResult, error) {
	return s.run(ctx, workflowID)
}

func seedWorkflows(t *testing.T, p *file.Persistence, ids ...string) {
	t.Helper()

	for _, id := range ids {
		workflow := &models.Workflow{
			ID:     id,
			UserID: "user-1",
			Name:   "Workflow " + id,
			Status: models.WorkflowStatusActive,
			Steps: []*models.WorkflowStep{
				{
					ID:          id + "-trigger",
					StepOrder:   0,
					StepType:    models.StepTypeTrigger,
					ServiceName: "gmail",
					ActionName:  "new_email",
				},
			},
		}
		require.NoError(t, p.WorkflowRepository().SaveWorkflow(context.Background(), workflow))
	}
}

func TestRunner_RunActive(t *testing.T) {
	t.Parallel()

	p := file.NewPersistence(t.TempDir())
	seedWorkflows(t, p, "wf-1", "wf-2", "wf-3")

	executor := &stubExecutor{run: func(_ context.Context, workflowID string) (*models.RunResult, error) {
		if workflowID == "wf-2" {
			return &models.RunResult{WorkflowID: workflowID, Success: false, Error: "boom"}, errors.New("boom")
		}

		return &models.RunResult{WorkflowID: workflowID, Success: true, EventsProcessed: 1}, nil
	}}

	runner := NewRunner(testLogger(), p.WorkflowRepository(), executor)

	batch, err := runner.RunActive(context.Background(), "user-1")

	require.NoError(t, err)
	assert.Equal(t, 3, batch.Summary.Total)
	assert.Equal(t, 2, batch.Summary.Successful)
	assert.Equal(t, 1, batch.Summary.Failed)
	require.Len(t, batch.Results, 3)

	for _, result := range batch.Results {
		if result.WorkflowID == "wf-2" {
			assert.False(t, result.Success)
			assert.Equal(t, "boom", result.Error)
		} else {
			assert.True(t, result.Success)
		}
	}
}

func TestRunner_RunActive_PanicIsIsolated(t *testing.T) {
	t.Parallel()

	p := file.NewPersistence(t.TempDir())
	seedWorkflows(t, p, "wf-1", "wf-2")

	executor := &stubExecutor{run: func(_ context.Context, workflowID string) (*models.RunResult, error) {
		if workflowID == "wf-1" {
			panic("broken adapter")
		}

		return &models.RunResult{WorkflowID: workflowID, Success: true}, nil
	}}

	runner := NewRunner(testLogger(), p.WorkflowRepository(), executor)

	batch, err := runner.RunActive(context.Background(), "user-1")

	require.NoError(t, err)
	assert.Equal(t, 2, batch.Summary.Total)
	assert.Equal(t, 1, batch.Summary.Successful)
	assert.Equal(t, 1, batch.Summary.Failed)

	var panicked *models.RunResult

	for _, result := range batch.Results {
		if result.WorkflowID == "wf-1" {
			panicked = result
		}
	}

	require.NotNil(t, panicked)
	assert.False(t, panicked.Success)
	assert.Contains(t, panicked.Error, "run panicked")
	assert.Contains(t, panicked.Error, "broken adapter")
}

func TestRunner_RunActive_NoActiveWorkflows(t *testing.T) {
	t.Parallel()

	p := file.NewPersistence(t.TempDir())

	executor := &stubExecutor{run: func(_ context.Context, workflowID string) (*models.RunResult, error) {
		t.Errorf("executor should not be called, got %s", workflowID)

		return nil, errors.New("unexpected")
	}}

	runner := NewRunner(testLogger(), p.WorkflowRepository(), executor)

	batch, err := runner.RunActive(context.Background(), "user-1")

	require.NoError(t, err)
	assert.Equal(t, 0, batch.Summary.Total)
	assert.Empty(t, batch.Results)
}