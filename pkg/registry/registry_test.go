package registry

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autofy/autofy/pkg/models"
	"github.com/autofy/autofy/pkg/protocol"
)

type fakeAction struct {
	userID string
	config map[string]any
}

func (a *fakeAction) Execute(_ context.Context, _ *models.EnrichedEvent, _ *slog.Logger) (*protocol.ActionResult, error) {
	return &protocol.ActionResult{}, nil
}

type fakeActionFactory struct {
	id     string
	schema map[string]any
}

func (f *fakeActionFactory) ID() string          { return f.id }
func (f *fakeActionFactory) Name() string        { return "Fake Action" }
func (f *fakeActionFactory) Description() string { return "test action" }

func (f *fakeActionFactory) Schema() map[string]any { return f.schema }

func (f *fakeActionFactory) Create(userID string, config map[string]any) (protocol.Action, error) {
	return &fakeAction{userID: userID, config: config}, nil
}

type fakeTrigger struct{}

func (t *fakeTrigger) FetchEvents(_ context.Context, _ *slog.Logger) ([]*models.EnrichedEvent, error) {
	return nil, nil
}

type fakeTriggerFactory struct {
	id     string
	schema map[string]any
}

func (f *fakeTriggerFactory) ID() string          { return f.id }
func (f *fakeTriggerFactory) Name() string        { return "Fake Trigger" }
func (f *fakeTriggerFactory) Description() string { return "test trigger" }

func (f *fakeTriggerFactory) Schema() map[string]any { return f.schema }

func (f *fakeTriggerFactory) Create(_ string, _ map[string]any) (protocol.Trigger, error) {
	return &fakeTrigger{}, nil
}

func messageSchema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			"message": map[string]any{"type": "string"},
		},
		"required":             []string{"message"},
		"additionalProperties": false,
	}
}

func newTestRegistry() *Registry {
	return NewRegistry(slog.New(slog.NewTextHandler(os.Stdout, nil)))
}

func TestRegistry_CreateAction(t *testing.T) {
	t.Parallel()

	registry := newTestRegistry()
	registry.RegisterAction(&fakeActionFactory{id: "svc.do", schema: messageSchema()})

	action, err := registry.CreateAction("svc.do", "user-1", map[string]any{"message": "hi"})

	require.NoError(t, err)

	created, ok := action.(*fakeAction)
	require.True(t, ok)
	assert.Equal(t, "user-1", created.userID)
}

func TestRegistry_CreateAction_NotRegistered(t *testing.T) {
	t.Parallel()

	registry := newTestRegistry()

	_, err := registry.CreateAction("svc.missing", "user-1", nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "not registered")
}

func TestRegistry_CreateAction_InvalidConfiguration(t *testing.T) {
	t.Parallel()

	registry := newTestRegistry()
	registry.RegisterAction(&fakeActionFactory{id: "svc.do", schema: messageSchema()})

	tests := []struct {
		name   string
		config map[string]any
	}{
		{name: "missing required field", config: map[string]any{}},
		{name: "wrong type", config: map[string]any{"message": 42}},
		{name: "unknown property", config: map[string]any{"message": "hi", "extra": true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := registry.CreateAction("svc.do", "user-1", tt.config)

			require.ErrorIs(t, err, ErrConfigurationInvalid)
		})
	}
}

func TestRegistry_CreateTrigger(t *testing.T) {
	t.Parallel()

	registry := newTestRegistry()
	registry.RegisterTrigger(&fakeTriggerFactory{id: "svc.on_event"})

	trigger, err := registry.CreateTrigger("svc.on_event", "user-1", nil)

	require.NoError(t, err)
	assert.NotNil(t, trigger)
}

func TestRegistry_CreateTrigger_NotRegistered(t *testing.T) {
	t.Parallel()

	registry := newTestRegistry()

	_, err := registry.CreateTrigger("svc.missing", "user-1", nil)

	require.Error(t, err)
}

func TestRegistry_AvailableActions(t *testing.T) {
	t.Parallel()

	registry := newTestRegistry()
	registry.RegisterAction(&fakeActionFactory{id: "svc.two"})
	registry.RegisterAction(&fakeActionFactory{id: "svc.one"})

	assert.Equal(t, []string{"svc.one", "svc.two"}, registry.AvailableActions())
}

func TestRegistry_AvailableTriggers(t *testing.T) {
	t.Parallel()

	registry := newTestRegistry()
	registry.RegisterTrigger(&fakeTriggerFactory{id: "svc.poll"})
	registry.RegisterTrigger(&fakeTriggerFactory{id: "svc.mail"})

	assert.Equal(t, []string{"svc.mail", "svc.poll"}, registry.AvailableTriggers())
}