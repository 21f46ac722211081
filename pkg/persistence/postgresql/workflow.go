package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/autofy/autofy/pkg/models"
	"github.com/autofy/autofy/pkg/persistence"
)

// WorkflowRepository handles workflow-related database operations.
type WorkflowRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewWorkflowRepository creates a new workflow repository.
func NewWorkflowRepository(db *sql.DB, logger *slog.Logger) *WorkflowRepository {
	return &WorkflowRepository{db: db, logger: logger}
}

const workflowColumns = `
	id
  , user_id
  , name
  , status
  , total_runs
  , successful_runs
  , failed_runs
  , last_run_at
  , last_error
  , created_at
  , updated_at
`

// ActiveWorkflows returns active workflows with their steps, optionally
// scoped to one owner when userID is non-empty.
func (r *WorkflowRepository) ActiveWorkflows(ctx context.Context, userID string) ([]*models.Workflow, error) {
	query := `
		SELECT ` + workflowColumns + `
		FROM workflows
		WHERE status = $1 AND ($2 = '' OR user_id = $2)
		ORDER BY created_at
	`

	rows, err := r.db.QueryContext(ctx, query, models.WorkflowStatusActive, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query workflows: %w", err)
	}

	defer func() {
		if err := rows.Close(); err != nil {
			r.logger.ErrorContext(ctx, "failed to close rows", "error", err)
		}
	}()

	workflows := make([]*models.Workflow, 0)

	for rows.Next() {
		workflow, err := r.scanWorkflow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan workflow: %w", err)
		}

		workflows = append(workflows, workflow)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating workflows: %w", err)
	}

	for _, workflow := range workflows {
		if err := r.loadSteps(ctx, workflow); err != nil {
			return nil, err
		}
	}

	return workflows, nil
}

func (r *WorkflowRepository) WorkflowByID(ctx context.Context, id string) (*models.Workflow, error) {
	query := `
		SELECT ` + workflowColumns + `
		FROM workflows
		WHERE id = $1
	`

	workflow, err := r.scanWorkflow(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, persistence.NewWorkflowError("fetch", id, persistence.ErrWorkflowNotFound)
		}

		return nil, fmt.Errorf("failed to scan workflow: %w", err)
	}

	if err := r.loadSteps(ctx, workflow); err != nil {
		return nil, err
	}

	return workflow, nil
}

// SaveWorkflow upserts the workflow row and replaces its steps in one
// transaction.
func (r *WorkflowRepository) SaveWorkflow(ctx context.Context, workflow *models.Workflow) error {
	now := time.Now().UTC()

	if workflow.CreatedAt.IsZero() {
		workflow.CreatedAt = now
	}

	workflow.UpdatedAt = now

	if workflow.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("failed to generate workflow ID: %w", err)
		}

		workflow.ID = id.String()
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		_ = tx.Rollback()
	}()

	upsert := `
		INSERT INTO workflows (
			id, user_id, name, status, total_runs, successful_runs,
			failed_runs, last_run_at, last_error, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		ON CONFLICT (id) DO UPDATE SET
			user_id = EXCLUDED.user_id,
			name = EXCLUDED.name,
			status = EXCLUDED.status,
			updated_at = EXCLUDED.updated_at
	`

	_, err = tx.ExecContext(ctx, upsert,
		workflow.ID, workflow.UserID, workflow.Name, workflow.Status,
		workflow.TotalRuns, workflow.SuccessfulRuns, workflow.FailedRuns,
		workflow.LastRunAt, nullableString(workflow.LastError),
		workflow.CreatedAt, workflow.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save workflow: %w", err)
	}

	_, err = tx.ExecContext(ctx, "DELETE FROM workflow_steps WHERE workflow_id = $1", workflow.ID)
	if err != nil {
		return fmt.Errorf("failed to clear workflow steps: %w", err)
	}

	for _, step := range workflow.Steps {
		if step.ID == "" {
			step.ID = uuid.New().String()
		}

		step.WorkflowID = workflow.ID

		configuration, err := json.Marshal(step.Configuration)
		if err != nil {
			return fmt.Errorf("failed to encode step configuration: %w", err)
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO workflow_steps (
				id, workflow_id, step_order, step_type,
				service_name, action_name, configuration
			) VALUES ($1, $2, $3, $4, $5, $6, $7)
		`, step.ID, step.WorkflowID, step.StepOrder, step.StepType,
			step.ServiceName, step.ActionName, configuration)
		if err != nil {
			return fmt.Errorf("failed to save workflow step: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit workflow: %w", err)
	}

	return nil
}

// UpdateRunStats folds one run outcome into the workflow's counters.
func (r *WorkflowRepository) UpdateRunStats(ctx context.Context, id string, stats models.RunStats) error {
	query := `
		UPDATE workflows SET
			total_runs = total_runs + 1,
			successful_runs = successful_runs + CASE WHEN $2 THEN 1 ELSE 0 END,
			failed_runs = failed_runs + CASE WHEN $2 THEN 0 ELSE 1 END,
			last_run_at = $3,
			last_error = CASE WHEN $2 THEN NULL ELSE $4 END,
			updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, id, stats.Success, stats.RanAt, nullableString(stats.Error))
	if err != nil {
		return persistence.NewWorkflowError("update_run_stats", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return persistence.NewWorkflowError("update_run_stats", id, err)
	}

	if affected == 0 {
		return persistence.NewWorkflowError("update_run_stats", id, persistence.ErrWorkflowNotFound)
	}

	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func (r *WorkflowRepository) scanWorkflow(row scanner) (*models.Workflow, error) {
	var (
		workflow  models.Workflow
		lastRunAt sql.NullTime
		lastError sql.NullString
	)

	err := row.Scan(
		&workflow.ID, &workflow.UserID, &workflow.Name, &workflow.Status,
		&workflow.TotalRuns, &workflow.SuccessfulRuns, &workflow.FailedRuns,
		&lastRunAt, &lastError, &workflow.CreatedAt, &workflow.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if lastRunAt.Valid {
		workflow.LastRunAt = &lastRunAt.Time
	}

	workflow.LastError = lastError.String

	return &workflow, nil
}

func (r *WorkflowRepository) loadSteps(ctx context.Context, workflow *models.Workflow) error {
	query := `
		SELECT
			id
		  , workflow_id
		  , step_order
		  , step_type
		  , service_name
		  , action_name
		  , configuration
		FROM workflow_steps
		WHERE workflow_id = $1
		ORDER BY step_order
	`

	rows, err := r.db.QueryContext(ctx, query, workflow.ID)
	if err != nil {
		return fmt.Errorf("failed to query workflow steps: %w", err)
	}

	defer func() {
		if err := rows.Close(); err != nil {
			r.logger.ErrorContext(ctx, "failed to close rows", "error", err)
		}
	}()

	workflow.Steps = make([]*models.WorkflowStep, 0)

	for rows.Next() {
		var (
			step          models.WorkflowStep
			configuration []byte
		)

		err := rows.Scan(&step.ID, &step.WorkflowID, &step.StepOrder,
			&step.StepType, &step.ServiceName, &step.ActionName, &configuration)
		if err != nil {
			return fmt.Errorf("failed to scan workflow step: %w", err)
		}

		if err := json.Unmarshal(configuration, &step.Configuration); err != nil {
			return fmt.Errorf("failed to decode step configuration: %w", err)
		}

		workflow.Steps = append(workflow.Steps, &step)
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("error iterating workflow steps: %w", err)
	}

	return nil
}

func nullableString(s string) any {
	if s == "" {
		return nil
	}

	return s
}
