package template

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/autofy/autofy/pkg/models"
)

func newEvent() *models.EnrichedEvent {
	return &models.EnrichedEvent{
		TriggerEvent: models.TriggerEvent{
			ID:        "msg-1",
			Subject:   "Invoice #42",
			Sender:    "billing@example.com",
			Body:      "Please find the invoice attached.",
			Timestamp: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC),
		},
	}
}

func TestRender_RawFields(t *testing.T) {
	t.Parallel()

	event := newEvent()

	tests := []struct {
		name     string
		template string
		want     string
	}{
		{
			name:     "subject and sender",
			template: "From {{sender}}: {{subject}}",
			want:     "From billing@example.com: Invoice #42",
		},
		{
			name:     "body",
			template: "{{body}}",
			want:     "Please find the invoice attached.",
		},
		{
			name:     "whitespace inside placeholder",
			template: "{{ subject }}",
			want:     "Invoice #42",
		},
		{
			name:     "timestamp",
			template: "{{timestamp}}",
			want:     "2025-03-01T10:00:00Z",
		},
		{
			name:     "no placeholders",
			template: "static text",
			want:     "static text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, Render(tt.template, event))
		})
	}
}

func TestRender_AIPrecedence(t *testing.T) {
	t.Parallel()

	event := newEvent()
	event.Enrich("A concise summary.", "openai/gpt-4o-mini", "Summarize: {{body}}", time.Now())

	t.Run("body yields AI content when ai_content is not referenced", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "A concise summary.", Render("{{body}}", event))
	})

	t.Run("explicit ai_content reference keeps body raw", func(t *testing.T) {
		t.Parallel()

		got := Render("{{ai_content}} | {{body}}", event)
		assert.Equal(t, "A concise summary. | Please find the invoice attached.", got)
	})

	t.Run("spaced ai_content reference counts as a reference", func(t *testing.T) {
		t.Parallel()

		got := Render("{{ ai_content }} | {{body}}", event)
		assert.Equal(t, "A concise summary. | Please find the invoice attached.", got)
	})
}

func TestRender_WithoutAIContent(t *testing.T) {
	t.Parallel()

	event := newEvent()

	assert.Equal(t, NotAvailable, Render("{{ai_content}}", event))
	assert.Equal(t, NotAvailable, Render("{{ai_model}}", event))
	assert.Equal(t, "Please find the invoice attached.", Render("{{body}}", event))
}

func TestRender_UnknownPlaceholder(t *testing.T) {
	t.Parallel()

	got := Render("value: {{nonexistent_field}}", newEvent())

	assert.Equal(t, "value: "+NotAvailable, got)
	assert.NotContains(t, got, "{{")
}

func TestRender_UnknownPlaceholderShapes(t *testing.T) {
	t.Parallel()

	event := &models.EnrichedEvent{}

	tests := []struct {
		name     string
		template string
		want     string
	}{
		{
			name:     "uppercase key",
			template: "Hello {{Subject}}",
			want:     "Hello " + NotAvailable,
		},
		{
			name:     "key with digits",
			template: "Value {{field2}}",
			want:     "Value " + NotAvailable,
		},
		{
			name:     "key with hyphen",
			template: "Value {{user-name}}",
			want:     "Value " + NotAvailable,
		},
		{
			name:     "empty key",
			template: "Value {{}}",
			want:     "Value " + NotAvailable,
		},
		{
			name:     "key with inner space",
			template: "Value {{some key}}",
			want:     "Value " + NotAvailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Render(tt.template, event)

			assert.Equal(t, tt.want, got)
			assert.NotContains(t, got, "{{")
			assert.NotContains(t, got, "}}")
		})
	}
}

func TestRender_MissingFieldDefaults(t *testing.T) {
	t.Parallel()

	event := &models.EnrichedEvent{}

	assert.Equal(t, "No Subject", Render("{{subject}}", event))
	assert.Equal(t, "Unknown Sender", Render("{{sender}}", event))
	assert.Empty(t, Render("{{body}}", event))
	assert.NotEmpty(t, Render("{{timestamp}}", event))
}
