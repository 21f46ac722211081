// Package aiprocess provides the AI processing action: it renders the
// configured prompt against the event, calls the model provider, and
// enriches the event with the completion for later steps.
package aiprocess

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/autofy/autofy/pkg/credentials"
	"github.com/autofy/autofy/pkg/models"
	"github.com/autofy/autofy/pkg/protocol"
	"github.com/autofy/autofy/pkg/providers/openrouter"
	"github.com/autofy/autofy/pkg/retry"
	"github.com/autofy/autofy/pkg/template"
)

const defaultMaxTokens = 1000

// ErrEmptyCompletion is returned when the model produced no content. A
// missing completion is a content error for the event, not a transport
// failure, and is never retried.
var ErrEmptyCompletion = errors.New("model returned an empty completion")

// Action processes one event with the configured model and prompt.
type Action struct {
	UserID      string
	Model       string
	Prompt      string
	MaxTokens   int
	Temperature float64

	client *openrouter.Client
	store  *credentials.Store
}

// Execute renders the prompt against the event's raw fields, requires a
// non-empty completion, and attaches the AI content to the event in place.
func (a *Action) Execute(ctx context.Context, event *models.EnrichedEvent, logger *slog.Logger) (*protocol.ActionResult, error) {
	logger = logger.With("module", "ai_process_action", "model", a.Model)

	credential, err := a.store.Resolve(ctx, a.UserID, "openrouter")
	if err != nil {
		return nil, fmt.Errorf("model provider credential missing: %w", err)
	}

	prompt := template.Render(a.Prompt, event)

	request := openrouter.CompletionRequest{
		Model:       a.Model,
		Messages:    []openrouter.Message{{Role: "user", Content: prompt}},
		MaxTokens:   a.MaxTokens,
		Temperature: a.Temperature,
	}

	started := time.Now()

	content, err := retry.DoValue(ctx, logger, retry.DefaultOptions(), func(ctx context.Context) (string, error) {
		return a.client.Complete(ctx, credential.Token(), request)
	})
	if err != nil {
		return nil, err
	}

	if content == "" {
		return nil, ErrEmptyCompletion
	}

	event.Enrich(content, a.Model, prompt, time.Now())

	logger.InfoContext(ctx, "Event enriched with AI content",
		"event_id", event.ID,
		"content_length", len(content),
		"elapsed", time.Since(started))

	return &protocol.ActionResult{
		Output: map[string]any{
			"content_length": len(content),
			"model":          a.Model,
		},
	}, nil
}
