package mailbox

import (
	"fmt"

	"github.com/autofy/autofy/pkg/protocol"
	"github.com/autofy/autofy/pkg/providers/gmail"
)

// TriggerFactory creates mailbox Trigger instances.
type TriggerFactory struct {
	deps   protocol.Dependencies
	client *gmail.Client
}

func NewTriggerFactory(deps protocol.Dependencies) *TriggerFactory {
	return &TriggerFactory{
		deps:   deps,
		client: gmail.NewClient(deps.Providers.Gmail.BaseURL, deps.Providers.Gmail.TokenURL),
	}
}

// Create builds a trigger bound to the owner from step configuration.
func (f *TriggerFactory) Create(userID string, config map[string]any) (protocol.Trigger, error) {
	if userID == "" {
		return nil, fmt.Errorf("mailbox trigger requires an owner")
	}

	trigger := &Trigger{
		UserID:       userID,
		MaxResults:   defaultMaxResults,
		client:       f.client,
		store:        f.deps.Credentials,
		clientID:     f.deps.Providers.Gmail.ClientID,
		clientSecret: f.deps.Providers.Gmail.ClientSecret,
	}

	if keywords, ok := config["keywords"].([]any); ok {
		for _, keyword := range keywords {
			if str, ok := keyword.(string); ok && str != "" {
				trigger.Keywords = append(trigger.Keywords, str)
			}
		}
	}

	if keywords, ok := config["keywords"].([]string); ok {
		trigger.Keywords = append(trigger.Keywords, keywords...)
	}

	if fromAddress, ok := config["from_address"].(string); ok {
		trigger.FromAddress = fromAddress
	}

	if maxResults, ok := config["max_results"].(float64); ok && maxResults > 0 {
		trigger.MaxResults = int(maxResults)
	}

	return trigger, nil
}

// ID returns the unique identifier for the trigger.
func (f *TriggerFactory) ID() string {
	return "gmail.new_email"
}

// Name returns the name of the trigger.
func (f *TriggerFactory) Name() string {
	return "New Email"
}

// Description returns a brief description of the trigger.
func (f *TriggerFactory) Description() string {
	return "Polls the owner's mailbox for messages matching keyword and sender filters."
}

// Schema returns the JSON schema for configuring this trigger.
func (f *TriggerFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"keywords": map[string]any{
				"type":        "array",
				"description": "Keywords ORed together; a message matches when any keyword appears.",
				"items":       map[string]any{"type": "string"},
			},
			"from_address": map[string]any{
				"type":        "string",
				"description": "Only match messages from this sender address.",
			},
			"max_results": map[string]any{
				"type":        "integer",
				"description": "Maximum candidate messages per poll.",
				"default":     defaultMaxResults,
				"minimum":     1,
				"maximum":     50,
			},
		},
		"additionalProperties": false,
	}
}
