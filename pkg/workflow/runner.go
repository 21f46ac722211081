package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/autofy/autofy/pkg/models"
	"github.com/autofy/autofy/pkg/persistence"
)

// WorkflowExecutor runs one workflow once. Satisfied by *Executor.
type WorkflowExecutor interface {
	Execute(ctx context.Context, workflowID string) (*models.RunResult, error)
}

// Runner executes batches of workflows concurrently.
type Runner struct {
	logger    *slog.Logger
	workflows persistence.WorkflowRepository
	executor  WorkflowExecutor
}

func NewRunner(logger *slog.Logger, workflows persistence.WorkflowRepository, executor WorkflowExecutor) *Runner {
	return &Runner{
		logger:    logger,
		workflows: workflows,
		executor:  executor,
	}
}

// RunActive executes every active workflow, optionally scoped to one
// owner, concurrently. Every workflow gets an entry in the batch result:
// a panicking run is captured as a failed RunResult and never takes the
// other runs down with it.
func (r *Runner) RunActive(ctx context.Context, userID string) (*models.BatchResult, error) {
	workflows, err := r.workflows.ActiveWorkflows(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing active workflows: %w", err)
	}

	r.logger.Info("Starting batch run", "workflows", len(workflows), "user_id", userID)

	results := make([]*models.RunResult, len(workflows))

	var wg sync.WaitGroup
	for i, wf := range workflows {
		wg.Add(1)

		go func(i int, workflowID string) {
			defer wg.Done()

			results[i] = r.runOne(ctx, workflowID)
		}(i, wf.ID)
	}

	wg.Wait()

	batch := models.NewBatchResult(results)

	r.logger.Info("Batch run finished",
		"total", batch.Summary.Total,
		"successful", batch.Summary.Successful,
		"failed", batch.Summary.Failed)

	return batch, nil
}

// runOne executes a single workflow and converts a panic into a failed
// result so the batch always reports one outcome per workflow.
func (r *Runner) runOne(ctx context.Context, workflowID string) (result *models.RunResult) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("Workflow run panicked", "workflow_id", workflowID, "panic", rec)

			result = &models.RunResult{
				WorkflowID: workflowID,
				Success:    false,
				Error:      fmt.Sprintf("run panicked: %v", rec),
			}
		}
	}()

	result, _ = r.executor.Execute(ctx, workflowID)

	return result
}
