// Package events defines event types for run lifecycle notifications.
package events

import (
	"time"

	"github.com/google/uuid"
)

type EventType string

// Topic carries every run lifecycle event.
const Topic = "autofy.runs"

const (
	RunStartedEvent  EventType = "run.started"
	RunFinishedEvent EventType = "run.finished"
	RunFailedEvent   EventType = "run.failed"
	StepFailedEvent  EventType = "run.step.failed"
)

type BaseEvent struct {
	ID         string         `json:"id"`
	Type       EventType      `json:"type"`
	Timestamp  time.Time      `json:"timestamp"`
	WorkflowID string         `json:"workflow_id"`
	RunID      string         `json:"run_id"`
	Metadata   map[string]any `json:"metadata,omitempty"`
}

type RunStarted struct {
	BaseEvent

	UserID string `json:"user_id"`
}

func (e RunStarted) GetType() EventType {
	return RunStartedEvent
}

type RunFinished struct {
	BaseEvent

	EventsProcessed  int   `json:"events_processed"`
	ArtifactsCreated int   `json:"artifacts_created"`
	ActionFailures   int   `json:"action_failures"`
	DurationMs       int64 `json:"duration_ms"`
}

func (e RunFinished) GetType() EventType {
	return RunFinishedEvent
}

type RunFailed struct {
	BaseEvent

	Error      string `json:"error"`
	DurationMs int64  `json:"duration_ms"`
}

func (e RunFailed) GetType() EventType {
	return RunFailedEvent
}

// StepFailed reports one action step failing for one event. The run
// keeps going, so several of these can precede a RunFinished.
type StepFailed struct {
	BaseEvent

	StepID    string `json:"step_id"`
	AdapterID string `json:"adapter_id"`
	EventID   string `json:"event_id"`
	Error     string `json:"error"`
}

func (e StepFailed) GetType() EventType {
	return StepFailedEvent
}

func NewBaseEvent(eventType EventType, workflowID, runID string) BaseEvent {
	return BaseEvent{
		ID:         uuid.New().String(),
		Type:       eventType,
		Timestamp:  time.Now().UTC(),
		WorkflowID: workflowID,
		RunID:      runID,
		Metadata:   make(map[string]any),
	}
}
