package chatbroadcast

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
		"message_template":     "New email: {{subject}}",
		"parse_mode":           "HTML",
		"disable_link_preview": true,
		"specific_chat_id":     "chat-7",
	})

	require.NoError(t, err)

	action, ok := created.(*Action)
	require.True(t, ok)

	assert.Equal(t, "user-1", action.UserID)
	assert.Equal(t, "New email: {{subject}}", action.MessageTemplate)
	assert.Equal(t, "HTML", action.ParseMode)
	assert.True(t, action.DisableLinkPreview)
	assert.False(t, action.DisableNotification)
	assert.Equal(t, "chat-7", action.SpecificChatID)
}

func TestActionFactory_Create_MissingMessageTemplate(t *testing.T) {
	t.Parallel()

	_, err := newFactory().Create("user-1", map[string]any{})

	require.ErrorIs(t, err, ErrMessageMissing)
}