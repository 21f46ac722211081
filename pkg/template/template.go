// Package template renders step configuration templates against trigger
// events. Rendering never fails: missing fields fall back to literal
// defaults and unknown placeholders become an explicit marker.
package template

import (
	"regexp"
	"strings"
	"time"

	"github.com/autofy/autofy/pkg/models"
)

const (
	// NotAvailable replaces AI placeholders without AI content and any
	// unknown placeholder.
	NotAvailable = "[Not Available]"

	defaultSubject = "No Subject"
	defaultSender  = "Unknown Sender"
)

// placeholderPattern matches anything shaped like a placeholder, not
// only the known keys, so that misspelled or foreign placeholders never
// survive into rendered output.
var placeholderPattern = regexp.MustCompile(`\{\{([^{}]*)\}\}`)

// Render substitutes the event's fields into templateStr.
//
// Precedence rule: when the event carries AI content and the template
// references {{body}} but not {{ai_content}}, the AI content replaces the
// raw body. Configurations authored before an AI step was added keep
// working and pick up the AI output without template edits.
func Render(templateStr string, event *models.EnrichedEvent) string {
	values := placeholderValues(event)

	if event.HasAIContent() && !references(templateStr, "ai_content") {
		values["body"] = event.AIContent
	}

	rendered := placeholderPattern.ReplaceAllStringFunc(templateStr, func(match string) string {
		key := strings.TrimSpace(placeholderPattern.FindStringSubmatch(match)[1])

		value, known := values[key]
		if !known {
			return NotAvailable
		}

		return value
	})

	return rendered
}

// references reports whether templateStr contains a placeholder for key,
// with or without inner whitespace.
func references(templateStr, key string) bool {
	for _, match := range placeholderPattern.FindAllStringSubmatch(templateStr, -1) {
		if strings.TrimSpace(match[1]) == key {
			return true
		}
	}

	return false
}

func placeholderValues(event *models.EnrichedEvent) map[string]string {
	subject := event.Subject
	if subject == "" {
		subject = defaultSubject
	}

	sender := event.Sender
	if sender == "" {
		sender = defaultSender
	}

	timestamp := event.Timestamp
	if timestamp.IsZero() {
		timestamp = time.Now()
	}

	values := map[string]string{
		"subject":         subject,
		"sender":          sender,
		"body":            event.Body,
		"timestamp":       timestamp.Format(time.RFC3339),
		"ai_content":      NotAvailable,
		"ai_model":        NotAvailable,
		"ai_processed_at": NotAvailable,
	}

	if event.HasAIContent() {
		values["ai_content"] = event.AIContent
		values["ai_model"] = event.AIModel

		if event.AIProcessedAt != nil {
			values["ai_processed_at"] = event.AIProcessedAt.Format(time.RFC3339)
		}
	}

	return values
}
