// Package protocol defines the interfaces and contracts for trigger and
// action adapters.
package protocol

import (
	"context"
	"log/slog"

	"github.com/autofy/autofy/pkg/config"
	"github.com/autofy/autofy/pkg/credentials"
	"github.com/autofy/autofy/pkg/models"
	"github.com/autofy/autofy/pkg/persistence"
)

// Dependencies contains the shared collaborators adapter factories need.
type Dependencies struct {
	Credentials *credentials.Store
	Chats       persistence.ChatRepository
	Providers   *config.Providers
}

// ActionResult is what one action produced for one event.
type ActionResult struct {
	// ArtifactsCreated counts secondary artifacts (pages, messages).
	ArtifactsCreated int
	// Output carries adapter-specific result details for logging and for
	// the run's aggregate.
	Output map[string]any
}

// Action performs one effect for one event. It may enrich the event in
// place for later steps of the same fan-out iteration.
type Action interface {
	Execute(ctx context.Context, event *models.EnrichedEvent, logger *slog.Logger) (*ActionResult, error)
}

// ActionFactory creates configured Action instances and describes the
// configuration it accepts.
type ActionFactory interface {
	// Create builds an action bound to the owner from step configuration.
	Create(userID string, config map[string]any) (Action, error)

	// ID returns the unique identifier, "<service>.<action>".
	ID() string

	// Name returns the human-readable name for this action.
	Name() string

	// Description returns a brief description of what this action does.
	Description() string

	// Schema returns the JSON schema for configuring this action.
	Schema() map[string]any
}

// Trigger polls an external service and yields normalized events.
type Trigger interface {
	FetchEvents(ctx context.Context, logger *slog.Logger) ([]*models.EnrichedEvent, error)
}

// TriggerFactory creates configured Trigger instances.
type TriggerFactory interface {
	Create(userID string, config map[string]any) (Trigger, error)
	ID() string
	Name() string
	Description() string
	Schema() map[string]any
}
