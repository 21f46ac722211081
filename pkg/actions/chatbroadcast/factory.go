package chatbroadcast

import (
	"errors"

	"github.com/autofy/autofy/pkg/protocol"
	"github.com/autofy/autofy/pkg/providers/telegram"
)

// ErrMessageMissing is returned when the step configuration has no
// message template.
var ErrMessageMissing = errors.New("missing 'message_template' in configuration")

// ActionFactory creates chat broadcast Action instances.
type ActionFactory struct {
	deps   protocol.Dependencies
	client *telegram.Client
}

func NewActionFactory(deps protocol.Dependencies) *ActionFactory {
	return &ActionFactory{
		deps:   deps,
		client: telegram.NewClient(deps.Providers.Telegram.BaseURL),
	}
}

// Create builds an action bound to the owner from step configuration.
func (f *ActionFactory) Create(userID string, config map[string]any) (protocol.Action, error) {
	messageTemplate, _ := config["message_template"].(string)
	if messageTemplate == "" {
		return nil, ErrMessageMissing
	}

	action := &Action{
		UserID:          userID,
		MessageTemplate: messageTemplate,
		client:          f.client,
		store:           f.deps.Credentials,
		chats:           f.deps.Chats,
	}

	if parseMode, ok := config["parse_mode"].(string); ok {
		action.ParseMode = parseMode
	}

	if disableLinkPreview, ok := config["disable_link_preview"].(bool); ok {
		action.DisableLinkPreview = disableLinkPreview
	}

	if disableNotification, ok := config["disable_notification"].(bool); ok {
		action.DisableNotification = disableNotification
	}

	if specificChatID, ok := config["specific_chat_id"].(string); ok {
		action.SpecificChatID = specificChatID
	}

	return action, nil
}

// ID returns the unique identifier for the action.
func (f *ActionFactory) ID() string {
	return "telegram.broadcast"
}

// Name returns the name of the action.
func (f *ActionFactory) Name() string {
	return "Chat Broadcast"
}

// Description returns a brief description of the action.
func (f *ActionFactory) Description() string {
	return "Sends the rendered event message to the owner's registered chats."
}

// Schema returns the JSON schema for configuring this action.
func (f *ActionFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"message_template": map[string]any{
				"type":        "string",
				"description": "Template for the chat message.",
				"examples":    []string{"New email from {{sender}}: {{subject}}"},
			},
			"parse_mode": map[string]any{
				"type":        "string",
				"description": "Message formatting mode.",
				"enum":        []string{"", "Markdown", "MarkdownV2", "HTML"},
			},
			"disable_link_preview": map[string]any{
				"type":        "boolean",
				"description": "Suppress link previews in the message.",
				"default":     false,
			},
			"disable_notification": map[string]any{
				"type":        "boolean",
				"description": "Deliver the message silently.",
				"default":     false,
			},
			"specific_chat_id": map[string]any{
				"type":        "string",
				"description": "Send only to this chat. It must be registered to the owner.",
			},
		},
		"required":             []string{"message_template"},
		"additionalProperties": false,
	}
}
