package notepage

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

func TestActionFactory_Create_DatabaseDestination(t *testing.T) {
	t.Parallel()

	created, err := newFactory().Create("user-1", map[string]any{
		"database_id":    "db-1",
		"title_template": "Mail: {{subject}}",
	})

	require.NoError(t, err)

	action, ok := created.(*Action)
	require.True(t, ok)

	assert.Equal(t, "user-1", action.UserID)
	assert.Equal(t, "db-1", action.DestinationID)
	assert.Equal(t, defaultContentTemplate, action.ContentTemplate)
	assert.Equal(t, defaultTitleProperty, action.TitleProperty)
}

func TestActionFactory_Create_PageDestination(t *testing.T) {
	t.Parallel()

	created, err := newFactory().Create("user-1", map[string]any{
		"page_id":          "page-1",
		"title_template":   "t",
		"content_template": "{{ai_content}}",
		"title_property":   "Title",
	})

	require.NoError(t, err)

	action, ok := created.(*Action)
	require.True(t, ok)

	assert.Equal(t, "page-1", action.DestinationID)
	assert.Equal(t, "{{ai_content}}", action.ContentTemplate)
	assert.Equal(t, "Title", action.TitleProperty)
}

func TestActionFactory_Create_DatabaseIDWinsOverPageID(t *testing.T) {
	t.Parallel()

	created, err := newFactory().Create("user-1", map[string]any{
		"database_id":    "db-1",
		"page_id":        "page-1",
		"title_template": "t",
	})

	require.NoError(t, err)

	action, ok := created.(*Action)
	require.True(t, ok)
	assert.Equal(t, "db-1", action.DestinationID)
}

func TestActionFactory_Create_MissingConfiguration(t *testing.T) {
	t.Parallel()

	_, err := newFactory().Create("user-1", map[string]any{"title_template": "t"})
	require.ErrorIs(t, err, ErrDestinationMissing)

	_, err = newFactory().Create("user-1", map[string]any{"database_id": "db-1"})
	require.ErrorIs(t, err, ErrTitleMissing)
}