package models

import "time"

// TriggerEvent is the unit of work produced by a trigger adapter,
// normalized to a common shape across services. Events are created fresh
// per poll and discarded after the action chain for them completes; they
// are never persisted.
type TriggerEvent struct {
	ID        string    `json:"id"`
	ThreadID  string    `json:"thread_id,omitempty"`
	Subject   string    `json:"subject"`
	Sender    string    `json:"sender"`
	Body      string    `json:"body"`
	Timestamp time.Time `json:"timestamp"`
}

// EnrichedEvent is a TriggerEvent plus AI-derived content attached by an
// upstream action step. Downstream steps in the same fan-out iteration
// read the enrichment in place; absence of AI content must always be
// handled.
type EnrichedEvent struct {
	TriggerEvent

	AIContent     string     `json:"ai_content,omitempty"`
	AIModel       string     `json:"ai_model,omitempty"`
	AIPromptUsed  string     `json:"ai_prompt_used,omitempty"`
	AIProcessedAt *time.Time `json:"ai_processed_at,omitempty"`
}

func (e *EnrichedEvent) HasAIContent() bool {
	return e.AIContent != ""
}

// Enrich attaches AI-derived content to the event for all subsequent
// action steps of the same fan-out iteration.
func (e *EnrichedEvent) Enrich(content, model, prompt string, at time.Time) {
	e.AIContent = content
	e.AIModel = model
	e.AIPromptUsed = prompt
	e.AIProcessedAt = &at
}
