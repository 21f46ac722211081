package mailbox

import (
	"encoding/base64"
	"html"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/autofy/autofy/pkg/models"
	"github.com/autofy/autofy/pkg/providers/gmail"
)

var (
	senderPattern = regexp.MustCompile(`<([^>]+)>`)
	tagPattern    = regexp.MustCompile(`<[^>]*>`)
)

// parseMessage normalizes a provider message into the engine's event shape.
func parseMessage(message *gmail.Message) *models.EnrichedEvent {
	event := &models.EnrichedEvent{
		TriggerEvent: models.TriggerEvent{
			ID:        message.ID,
			ThreadID:  message.ThreadID,
			Timestamp: parseInternalDate(message.InternalDate),
		},
	}

	for _, header := range message.Payload.Headers {
		switch strings.ToLower(header.Name) {
		case "subject":
			event.Subject = header.Value
		case "from":
			event.Sender = extractSender(header.Value)
		}
	}

	event.Body = extractBody(message.Payload)
	if event.Body == "" {
		event.Body = message.Snippet
	}

	return event
}

// extractSender pulls the bare address out of a "Name <email>" header.
func extractSender(fromHeader string) string {
	if match := senderPattern.FindStringSubmatch(fromHeader); match != nil {
		return match[1]
	}

	return fromHeader
}

// extractBody favors the richest available representation: HTML parts
// (stripped of tags, entities decoded) over plain text, walking nested
// multiparts recursively.
func extractBody(payload gmail.Part) string {
	htmlBody, plainBody := walkParts(payload)
	if htmlBody != "" {
		return htmlBody
	}

	return plainBody
}

func walkParts(part gmail.Part) (htmlBody, plainBody string) {
	if part.Body.Data != "" {
		decoded := decodeBase64URL(part.Body.Data)
		if strings.EqualFold(part.MimeType, "text/html") {
			return stripHTML(decoded), ""
		}

		return "", decoded
	}

	for _, child := range part.Parts {
		childHTML, childPlain := walkParts(child)

		if htmlBody == "" && childHTML != "" {
			htmlBody = childHTML
		}

		if plainBody == "" && childPlain != "" {
			plainBody = childPlain
		}
	}

	return htmlBody, plainBody
}

func decodeBase64URL(data string) string {
	decoded, err := base64.RawURLEncoding.DecodeString(strings.TrimRight(data, "="))
	if err != nil {
		return ""
	}

	return string(decoded)
}

func stripHTML(content string) string {
	return strings.TrimSpace(html.UnescapeString(tagPattern.ReplaceAllString(content, "")))
}

func parseInternalDate(internalDate string) time.Time {
	millis, err := strconv.ParseInt(internalDate, 10, 64)
	if err != nil || millis == 0 {
		return time.Now()
	}

	return time.UnixMilli(millis)
}
