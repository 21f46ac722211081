package aiprocess

import (
	"errors"

	"github.com/autofy/autofy/pkg/protocol"
	"github.com/autofy/autofy/pkg/providers/openrouter"
)

var (
	// ErrModelMissing is returned when the step configuration has no model.
	ErrModelMissing = errors.New("missing 'model' in configuration")
	// ErrPromptMissing is returned when the step configuration has no prompt.
	ErrPromptMissing = errors.New("missing 'prompt' in configuration")
)

// ActionFactory creates AI processing Action instances.
type ActionFactory struct {
	deps   protocol.Dependencies
	client *openrouter.Client
}

func NewActionFactory(deps protocol.Dependencies) *ActionFactory {
	return &ActionFactory{
		deps:   deps,
		client: openrouter.NewClient(deps.Providers.OpenRouter.BaseURL),
	}
}

// Create builds an action bound to the owner from step configuration.
func (f *ActionFactory) Create(userID string, config map[string]any) (protocol.Action, error) {
	model, _ := config["model"].(string)
	if model == "" {
		return nil, ErrModelMissing
	}

	prompt, _ := config["prompt"].(string)
	if prompt == "" {
		return nil, ErrPromptMissing
	}

	action := &Action{
		UserID:    userID,
		Model:     model,
		Prompt:    prompt,
		MaxTokens: defaultMaxTokens,
		client:    f.client,
		store:     f.deps.Credentials,
	}

	if maxTokens, ok := config["max_tokens"].(float64); ok && maxTokens > 0 {
		action.MaxTokens = int(maxTokens)
	}

	if temperature, ok := config["temperature"].(float64); ok {
		action.Temperature = temperature
	}

	return action, nil
}

// ID returns the unique identifier for the action.
func (f *ActionFactory) ID() string {
	return "ai.process"
}

// Name returns the name of the action.
func (f *ActionFactory) Name() string {
	return "AI Process"
}

// Description returns a brief description of the action.
func (f *ActionFactory) Description() string {
	return "Processes the event with an AI model and attaches the completion for later steps."
}

// Schema returns the JSON schema for configuring this action.
func (f *ActionFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"model": map[string]any{
				"type":        "string",
				"description": "Model identifier understood by the provider.",
				"examples":    []string{"openai/gpt-4o-mini", "anthropic/claude-3-haiku"},
			},
			"prompt": map[string]any{
				"type":        "string",
				"description": "Prompt template rendered against the event's raw fields.",
				"examples":    []string{"Summarize this email in two sentences: {{body}}"},
			},
			"max_tokens": map[string]any{
				"type":        "integer",
				"description": "Completion token limit.",
				"default":     defaultMaxTokens,
				"minimum":     1,
			},
			"temperature": map[string]any{
				"type":        "number",
				"description": "Sampling temperature.",
				"minimum":     0,
				"maximum":     2,
			},
		},
		"required":             []string{"model", "prompt"},
		"additionalProperties": false,
	}
}
