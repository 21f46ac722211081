// Package workflow runs workflows: the executor drives one workflow
// through its run state machine, the runner fans out over all active
// workflows.
package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/autofy/autofy/pkg/eventbus"
	"github.com/autofy/autofy/pkg/events"
	"github.com/autofy/autofy/pkg/models"
	"github.com/autofy/autofy/pkg/otelhelper"
	"github.com/autofy/autofy/pkg/persistence"
	"github.com/autofy/autofy/pkg/protocol"
	"github.com/autofy/autofy/pkg/registry"
)

// runState tracks where a run is in its lifecycle. A run moves forward
// through the states in order, or drops to stateFailed from any of them.
type runState string

const (
	stateLoaded           runState = "loaded"
	stateTriggerEvaluated runState = "trigger_evaluated"
	stateActionsApplied   runState = "actions_applied"
	stateStatsUpdated     runState = "stats_updated"
	stateDone             runState = "done"
	stateFailed           runState = "failed"
)

// boundStep pairs a created action with the step it came from.
type boundStep struct {
	step   *models.WorkflowStep
	action protocol.Action
}

// Executor runs one workflow at a time through the run state machine.
type Executor struct {
	logger    *slog.Logger
	workflows persistence.WorkflowRepository
	registry  *registry.Registry
	bus       eventbus.EventPublisher
	tracer    trace.Tracer
}

func NewExecutor(
	logger *slog.Logger,
	workflows persistence.WorkflowRepository,
	reg *registry.Registry,
	bus eventbus.EventPublisher,
	tracer trace.Tracer,
) *Executor {
	return &Executor{
		logger:    logger,
		workflows: workflows,
		registry:  reg,
		bus:       bus,
		tracer:    tracer,
	}
}

// Execute runs the workflow once and always returns a RunResult, failed
// runs included. The returned error mirrors result.Error for callers
// that prefer error handling over result inspection.
func (e *Executor) Execute(ctx context.Context, workflowID string) (*models.RunResult, error) {
	runID := newRunID()
	startedAt := time.Now()

	logger := e.logger.With("workflow_id", workflowID, "run_id", runID)
	logger.Info("Starting workflow run")

	ctx, span := otelhelper.StartSpan(ctx, e.tracer, "workflow.execute",
		otelhelper.RunAttributes(workflowID, runID)...)
	defer span.End()

	result := &models.RunResult{RunID: runID, WorkflowID: workflowID}
	state := stateLoaded

	workflow, triggerAdapter, actions, err := e.load(ctx, workflowID)
	if err != nil {
		return e.fail(ctx, span, logger, result, state, startedAt, err)
	}

	e.publish(ctx, logger, events.RunStarted{
		BaseEvent: events.NewBaseEvent(events.RunStartedEvent, workflowID, runID),
		UserID:    workflow.UserID,
	})

	triggerEvents, err := triggerAdapter.FetchEvents(ctx, logger)
	if err != nil {
		return e.fail(ctx, span, logger, result, state, startedAt, fmt.Errorf("trigger failed: %w", err))
	}

	state = stateTriggerEvaluated

	logger.Info("Trigger evaluated", "events", len(triggerEvents))

	e.applyActions(ctx, logger, triggerEvents, actions, result)

	state = stateActionsApplied

	stats := models.RunStats{
		Success:          true,
		EventsProcessed:  result.EventsProcessed,
		ArtifactsCreated: result.ArtifactsCreated,
		RanAt:            startedAt,
	}
	if err := e.workflows.UpdateRunStats(ctx, workflowID, stats); err != nil {
		return e.fail(ctx, span, logger, result, state, startedAt, fmt.Errorf("updating run stats: %w", err))
	}

	state = stateStatsUpdated

	result.Success = true
	result.ElapsedMS = time.Since(startedAt).Milliseconds()

	e.publish(ctx, logger, events.RunFinished{
		BaseEvent:        events.NewBaseEvent(events.RunFinishedEvent, workflowID, runID),
		EventsProcessed:  result.EventsProcessed,
		ArtifactsCreated: result.ArtifactsCreated,
		ActionFailures:   result.ActionFailures,
		DurationMs:       result.ElapsedMS,
	})

	state = stateDone

	logger.Info("Workflow run finished",
		"state", string(state),
		"events_processed", result.EventsProcessed,
		"artifacts_created", result.ArtifactsCreated,
		"action_failures", result.ActionFailures,
		"elapsed_ms", result.ElapsedMS)

	return result, nil
}

// load fetches the workflow and materializes its trigger and ordered
// actions. Any problem here is workflow-fatal.
func (e *Executor) load(ctx context.Context, workflowID string) (*models.Workflow, protocol.Trigger, []boundStep, error) {
	workflow, err := e.workflows.WorkflowByID(ctx, workflowID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("fetching workflow: %w", err)
	}

	triggerStep, err := workflow.TriggerStep()
	if err != nil {
		return nil, nil, nil, err
	}

	triggerAdapter, err := e.registry.CreateTrigger(triggerStep.AdapterID(), workflow.UserID, triggerStep.Configuration)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("creating trigger: %w", err)
	}

	actionSteps := workflow.ActionSteps()

	actions := make([]boundStep, 0, len(actionSteps))
	for _, step := range actionSteps {
		action, err := e.registry.CreateAction(step.AdapterID(), workflow.UserID, step.Configuration)
		if err != nil {
			return nil, nil, nil, fmt.Errorf("creating action for step %s: %w", step.ID, err)
		}

		actions = append(actions, boundStep{step: step, action: action})
	}

	return workflow, triggerAdapter, actions, nil
}

// applyActions runs every action step, in ascending order, for every
// event. A failing step is counted and logged but never aborts the run:
// failures are per-event, not workflow-fatal.
func (e *Executor) applyActions(ctx context.Context, logger *slog.Logger, triggerEvents []*models.EnrichedEvent, actions []boundStep, result *models.RunResult) {
	for _, event := range triggerEvents {
		eventLogger := logger.With("event_id", event.ID)

		for _, bound := range actions {
			stepLogger := eventLogger.With("step_id", bound.step.ID, "adapter_id", bound.step.AdapterID())

			actionResult, err := bound.action.Execute(ctx, event, stepLogger)
			if err != nil {
				result.ActionFailures++

				stepLogger.Error("Action step failed, continuing run", "error", err)
				e.publish(ctx, logger, events.StepFailed{
					BaseEvent: events.NewBaseEvent(events.StepFailedEvent, result.WorkflowID, result.RunID),
					StepID:    bound.step.ID,
					AdapterID: bound.step.AdapterID(),
					EventID:   event.ID,
					Error:     err.Error(),
				})

				continue
			}

			result.ArtifactsCreated += actionResult.ArtifactsCreated
		}

		result.EventsProcessed++
	}
}

// fail finalizes a run that dropped to the failed state.
func (e *Executor) fail(ctx context.Context, span trace.Span, logger *slog.Logger, result *models.RunResult, from runState, startedAt time.Time, err error) (*models.RunResult, error) {
	result.Success = false
	result.Error = err.Error()
	result.ElapsedMS = time.Since(startedAt).Milliseconds()

	// Best effort: a failed run still records its error on the workflow.
	stats := models.RunStats{
		Success:          false,
		EventsProcessed:  result.EventsProcessed,
		ArtifactsCreated: result.ArtifactsCreated,
		Error:            result.Error,
		RanAt:            startedAt,
	}
	if statsErr := e.workflows.UpdateRunStats(ctx, result.WorkflowID, stats); statsErr != nil {
		logger.Warn("Failed to record run failure", "error", statsErr)
	}

	otelhelper.SetRunError(span, err, result.WorkflowID, result.RunID)

	logger.Error("Workflow run failed",
		"state", string(stateFailed),
		"from_state", string(from),
		"error", err,
		"elapsed_ms", result.ElapsedMS)

	e.publish(ctx, logger, events.RunFailed{
		BaseEvent:  events.NewBaseEvent(events.RunFailedEvent, result.WorkflowID, result.RunID),
		Error:      result.Error,
		DurationMs: result.ElapsedMS,
	})

	return result, err
}

// publish is best effort: a broken bus never fails a run.
func (e *Executor) publish(ctx context.Context, logger *slog.Logger, event any) {
	if e.bus == nil {
		return
	}

	if err := e.bus.Publish(ctx, event); err != nil {
		logger.Warn("Failed to publish run event", "error", err)
	}
}

func newRunID() string {
	return "run-" + uuid.New().String()[:8]
}
