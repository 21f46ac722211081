package notepage

import (
	"errors"

	"github.com/autofy/autofy/pkg/protocol"
	"github.com/autofy/autofy/pkg/providers/notion"
)

var (
	// ErrDestinationMissing is returned when neither a database id nor a
	// page id is configured.
	ErrDestinationMissing = errors.New("missing 'database_id' or 'page_id' in configuration")
	// ErrTitleMissing is returned when the step configuration has no title template.
	ErrTitleMissing = errors.New("missing 'title_template' in configuration")
)

const defaultContentTemplate = "{{body}}"

// ActionFactory creates note page Action instances.
type ActionFactory struct {
	deps   protocol.Dependencies
	client *notion.Client
}

func NewActionFactory(deps protocol.Dependencies) *ActionFactory {
	return &ActionFactory{
		deps:   deps,
		client: notion.NewClient(deps.Providers.Notion.BaseURL),
	}
}

// Create builds an action bound to the owner from step configuration.
func (f *ActionFactory) Create(userID string, config map[string]any) (protocol.Action, error) {
	destinationID, _ := config["database_id"].(string)
	if destinationID == "" {
		destinationID, _ = config["page_id"].(string)
	}

	if destinationID == "" {
		return nil, ErrDestinationMissing
	}

	titleTemplate, _ := config["title_template"].(string)
	if titleTemplate == "" {
		return nil, ErrTitleMissing
	}

	action := &Action{
		UserID:          userID,
		DestinationID:   destinationID,
		TitleTemplate:   titleTemplate,
		ContentTemplate: defaultContentTemplate,
		TitleProperty:   defaultTitleProperty,
		client:          f.client,
		store:           f.deps.Credentials,
	}

	if contentTemplate, ok := config["content_template"].(string); ok && contentTemplate != "" {
		action.ContentTemplate = contentTemplate
	}

	if titleProperty, ok := config["title_property"].(string); ok && titleProperty != "" {
		action.TitleProperty = titleProperty
	}

	return action, nil
}

// ID returns the unique identifier for the action.
func (f *ActionFactory) ID() string {
	return "notion.create_page"
}

// Name returns the name of the action.
func (f *ActionFactory) Name() string {
	return "Create Note Page"
}

// Description returns a brief description of the action.
func (f *ActionFactory) Description() string {
	return "Creates a page under a database or page destination with the rendered event content."
}

// Schema returns the JSON schema for configuring this action.
func (f *ActionFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"database_id": map[string]any{
				"type":        "string",
				"description": "Destination database id. Mutually exclusive with page_id.",
			},
			"page_id": map[string]any{
				"type":        "string",
				"description": "Destination page id. Mutually exclusive with database_id.",
			},
			"title_template": map[string]any{
				"type":        "string",
				"description": "Template for the page title.",
				"examples":    []string{"Email: {{subject}}"},
			},
			"content_template": map[string]any{
				"type":        "string",
				"description": "Template for the page body.",
				"default":     defaultContentTemplate,
			},
			"title_property": map[string]any{
				"type":        "string",
				"description": "Title property name when the destination is a database.",
				"default":     defaultTitleProperty,
			},
		},
		"anyOf": []map[string]any{
			{"required": []string{"database_id", "title_template"}},
			{"required": []string{"page_id", "title_template"}},
		},
		"additionalProperties": false,
	}
}
