package mailreply

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/autofy/autofy/pkg/config"
	"github.com/autofy/autofy/pkg/protocol"
)

func newFactory() *ActionFactory {
	return NewActionFactory(protocol.Dependencies{Providers: &config.Providers{}})
}

func TestActionFactory_Create(t *testing.T) {
	t.Parallel()

	created, err := newFactory().Create("user-1", map[string]any{
		"body_template":    "Received: {{subject}}",
		"subject_template": "Auto-reply",
		"to":               "ops@example.com",
	})

	require.NoError(t, err)

	action, ok := created.(*Action)
	require.True(t, ok)

	assert.Equal(t, "user-1", action.UserID)
	assert.Equal(t, "Received: {{subject}}", action.BodyTemplate)
	assert.Equal(t, "Auto-reply", action.SubjectTemplate)
	assert.Equal(t, "ops@example.com", action.ToOverride)
}

func TestActionFactory_Create_MissingBodyTemplate(t *testing.T) {
	t.Parallel()

	_, err := newFactory().Create("user-1", map[string]any{"to": "ops@example.com"})

	require.ErrorIs(t, err, ErrBodyMissing)
}