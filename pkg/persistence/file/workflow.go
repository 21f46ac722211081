package file

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/autofy/autofy/pkg/models"
	"github.com/autofy/autofy/pkg/persistence"
)

const dirPerm = 0o755

// WorkflowRepository stores each workflow as workflows/<id>.json.
type WorkflowRepository struct {
	root string
}

func NewWorkflowRepository(root string) *WorkflowRepository {
	return &WorkflowRepository{root: root}
}

func (wr *WorkflowRepository) dir() string {
	return filepath.Join(wr.root, "workflows")
}

func (wr *WorkflowRepository) path(id string) string {
	return filepath.Join(wr.dir(), id+".json")
}

// ActiveWorkflows loads every active workflow, optionally scoped to one
// owner when userID is non-empty.
func (wr *WorkflowRepository) ActiveWorkflows(ctx context.Context, userID string) ([]*models.Workflow, error) {
	jsonFiles, err := fs.Glob(os.DirFS(wr.dir()), "*.json")
	if err != nil {
		return nil, fmt.Errorf("failed to list workflow files: %w", err)
	}

	workflows := make([]*models.Workflow, 0, len(jsonFiles))

	for _, file := range jsonFiles {
		workflowID := file[:len(file)-len(".json")]

		workflow, err := wr.WorkflowByID(ctx, workflowID)
		if err != nil {
			return nil, fmt.Errorf("failed to load workflow %s: %w", workflowID, err)
		}

		if !workflow.IsActive() {
			continue
		}

		if userID != "" && workflow.UserID != userID {
			continue
		}

		workflows = append(workflows, workflow)
	}

	return workflows, nil
}

func (wr *WorkflowRepository) WorkflowByID(_ context.Context, id string) (*models.Workflow, error) {
	data, err := os.ReadFile(wr.path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, persistence.NewWorkflowError("fetch", id, persistence.ErrWorkflowNotFound)
		}

		return nil, persistence.NewWorkflowError("fetch", id, err)
	}

	var workflow models.Workflow
	if err := json.Unmarshal(data, &workflow); err != nil {
		return nil, persistence.NewWorkflowError("decode", id, err)
	}

	return &workflow, nil
}

func (wr *WorkflowRepository) SaveWorkflow(_ context.Context, workflow *models.Workflow) error {
	if err := os.MkdirAll(wr.dir(), dirPerm); err != nil {
		return persistence.NewWorkflowError("save", workflow.ID, err)
	}

	workflow.UpdatedAt = time.Now()

	data, err := json.MarshalIndent(workflow, "", "  ")
	if err != nil {
		return persistence.NewWorkflowError("encode", workflow.ID, err)
	}

	if err := os.WriteFile(wr.path(workflow.ID), data, 0o600); err != nil {
		return persistence.NewWorkflowError("save", workflow.ID, err)
	}

	return nil
}

// UpdateRunStats folds one run outcome into the workflow's counters.
func (wr *WorkflowRepository) UpdateRunStats(ctx context.Context, id string, stats models.RunStats) error {
	workflow, err := wr.WorkflowByID(ctx, id)
	if err != nil {
		return err
	}

	workflow.TotalRuns++

	if stats.Success {
		workflow.SuccessfulRuns++
		workflow.LastError = ""
	} else {
		workflow.FailedRuns++
		workflow.LastError = stats.Error
	}

	ranAt := stats.RanAt
	workflow.LastRunAt = &ranAt

	return wr.SaveWorkflow(ctx, workflow)
}
