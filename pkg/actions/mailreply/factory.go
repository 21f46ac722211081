package mailreply

import (
	"errors"

	"github.com/autofy/autofy/pkg/protocol"
	"github.com/autofy/autofy/pkg/providers/gmail"
)

// ErrBodyMissing is returned when the step configuration has no body template.
var ErrBodyMissing = errors.New("missing 'body_template' in configuration")

// ActionFactory creates mail reply Action instances.
type ActionFactory struct {
	deps   protocol.Dependencies
	client *gmail.Client
}

func NewActionFactory(deps protocol.Dependencies) *ActionFactory {
	gmailConfig := deps.Providers.Gmail

	return &ActionFactory{
		deps:   deps,
		client: gmail.NewClient(gmailConfig.BaseURL, gmailConfig.TokenURL),
	}
}

// Create builds an action bound to the owner from step configuration.
func (f *ActionFactory) Create(userID string, config map[string]any) (protocol.Action, error) {
	bodyTemplate, _ := config["body_template"].(string)
	if bodyTemplate == "" {
		return nil, ErrBodyMissing
	}

	action := &Action{
		UserID:       userID,
		BodyTemplate: bodyTemplate,
		client:       f.client,
		store:        f.deps.Credentials,
	}

	if subjectTemplate, ok := config["subject_template"].(string); ok {
		action.SubjectTemplate = subjectTemplate
	}

	if toOverride, ok := config["to"].(string); ok {
		action.ToOverride = toOverride
	}

	return action, nil
}

// ID returns the unique identifier for the action.
func (f *ActionFactory) ID() string {
	return "gmail.reply"
}

// Name returns the name of the action.
func (f *ActionFactory) Name() string {
	return "Mail Reply"
}

// Description returns a brief description of the action.
func (f *ActionFactory) Description() string {
	return "Replies on the event's mail thread with the rendered body."
}

// Schema returns the JSON schema for configuring this action.
func (f *ActionFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"body_template": map[string]any{
				"type":        "string",
				"description": "Template for the reply body.",
				"examples":    []string{"Thanks for your message. {{ai_content}}"},
			},
			"subject_template": map[string]any{
				"type":        "string",
				"description": "Template for the reply subject. Defaults to the event subject with a reply prefix.",
			},
			"to": map[string]any{
				"type":        "string",
				"description": "Override recipient address. Defaults to the event sender.",
				"format":      "email",
			},
		},
		"required":             []string{"body_template"},
		"additionalProperties": false,
	}
}
