// Package mailreply sends a reply on the event's mail thread.
package mailreply

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"strings"

	"github.com/autofy/autofy/pkg/credentials"
	"github.com/autofy/autofy/pkg/models"
	"github.com/autofy/autofy/pkg/protocol"
	"github.com/autofy/autofy/pkg/providers/gmail"
	"github.com/autofy/autofy/pkg/retry"
	"github.com/autofy/autofy/pkg/template"
)

// Action replies to the event's sender, or to a configured override
// address, on the originating thread.
type Action struct {
	UserID          string
	BodyTemplate    string
	SubjectTemplate string
	ToOverride      string

	client *gmail.Client
	store  *credentials.Store
}

func (a *Action) Execute(ctx context.Context, event *models.EnrichedEvent, logger *slog.Logger) (*protocol.ActionResult, error) {
	credential, err := a.store.Resolve(ctx, a.UserID, "gmail")
	if err != nil {
		return nil, fmt.Errorf("resolving mailbox credential: %w", err)
	}

	to := a.ToOverride
	if to == "" {
		to = event.Sender
	}

	if to == "" {
		return nil, fmt.Errorf("no recipient: event has no sender and no override address is configured")
	}

	subject := a.subjectFor(event)
	body := template.Render(a.BodyTemplate, event)
	raw := buildRawMessage(to, subject, body, event.ID)

	response, err := retry.DoValue(ctx, logger, retry.Options{}, func(ctx context.Context) (*gmail.SendResponse, error) {
		return a.client.SendMessage(ctx, credential.AccessToken, raw, event.ThreadID)
	})
	if err != nil {
		return nil, fmt.Errorf("sending reply: %w", err)
	}

	logger.Info("Sent reply", "message_id", response.ID, "thread_id", response.ThreadID, "to", to)

	return &protocol.ActionResult{
		Output: map[string]any{
			"message_id": response.ID,
			"thread_id":  response.ThreadID,
			"to":         to,
		},
	}, nil
}

// subjectFor renders the configured subject template, or derives a reply
// subject from the event, prefixing "Re: " only when not already present.
func (a *Action) subjectFor(event *models.EnrichedEvent) string {
	if a.SubjectTemplate != "" {
		return template.Render(a.SubjectTemplate, event)
	}

	subject := event.Subject
	if subject == "" {
		subject = "No Subject"
	}

	if strings.HasPrefix(strings.ToLower(subject), "re:") {
		return subject
	}

	return "Re: " + subject
}

// buildRawMessage assembles an RFC 2822 reply and encodes it the way the
// provider's send endpoint expects.
func buildRawMessage(to, subject, body, inReplyTo string) string {
	var message strings.Builder

	message.WriteString("To: " + to + "\r\n")
	message.WriteString("Subject: " + subject + "\r\n")

	if inReplyTo != "" {
		message.WriteString("In-Reply-To: <" + inReplyTo + ">\r\n")
		message.WriteString("References: <" + inReplyTo + ">\r\n")
	}

	message.WriteString("Content-Type: text/plain; charset=\"UTF-8\"\r\n")
	message.WriteString("\r\n")
	message.WriteString(body)

	return base64.RawURLEncoding.EncodeToString([]byte(message.String()))
}
