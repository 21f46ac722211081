// Package mailbox provides the mailbox polling trigger: it searches the
// owner's mailbox with the configured filters and yields normalized
// events for the action chain.
package mailbox

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/autofy/autofy/pkg/credentials"
	"github.com/autofy/autofy/pkg/models"
	"github.com/autofy/autofy/pkg/providers"
	"github.com/autofy/autofy/pkg/providers/gmail"
	"github.com/autofy/autofy/pkg/retry"
)

const (
	// detailFetchCap bounds full-message fetches per poll to respect the
	// provider's rate limits.
	detailFetchCap = 5

	// detailFetchPacing is the fixed delay between per-message detail
	// fetches.
	detailFetchPacing = 200 * time.Millisecond

	defaultMaxResults = 10
)

// ErrReconnectRequired is returned when the stored credential cannot be
// refreshed; the user has to reconnect the mailbox integration.
var ErrReconnectRequired = errors.New("mailbox authorization expired, please reconnect the integration")

// Trigger polls the mailbox for messages matching the configured filters.
type Trigger struct {
	UserID      string
	Keywords    []string
	FromAddress string
	MaxResults  int

	client       *gmail.Client
	store        *credentials.Store
	clientID     string
	clientSecret string
}

// FetchEvents searches the mailbox and returns up to detailFetchCap fully
// parsed events. On an authorization failure it refreshes the credential
// once, writes the fresh token back, and retries the whole fetch.
func (t *Trigger) FetchEvents(ctx context.Context, logger *slog.Logger) ([]*models.EnrichedEvent, error) {
	logger = logger.With("module", "mailbox_trigger", "user_id", t.UserID)

	credential, err := t.store.Resolve(ctx, t.UserID, "gmail")
	if err != nil {
		return nil, fmt.Errorf("mailbox credential missing: %w", err)
	}

	events, err := t.fetchOnce(ctx, credential.AccessToken, logger)
	if err == nil {
		return events, nil
	}

	if !providers.IsAuthError(err) {
		return nil, err
	}

	if credential.RefreshToken == "" {
		return nil, fmt.Errorf("%w: %w", ErrReconnectRequired, err)
	}

	logger.InfoContext(ctx, "Access token rejected, refreshing credential")

	token, refreshErr := t.client.RefreshToken(ctx, t.clientID, t.clientSecret, credential.RefreshToken)
	if refreshErr != nil {
		return nil, fmt.Errorf("%w: %w", ErrReconnectRequired, refreshErr)
	}

	if saveErr := t.store.SaveRefreshed(ctx, credential, token.AccessToken, token.ExpiresIn); saveErr != nil {
		logger.WarnContext(ctx, "Failed to persist refreshed token", "error", saveErr)
	}

	return t.fetchOnce(ctx, token.AccessToken, logger)
}

func (t *Trigger) fetchOnce(ctx context.Context, accessToken string, logger *slog.Logger) ([]*models.EnrichedEvent, error) {
	query := t.buildQuery()

	logger.DebugContext(ctx, "Searching mailbox", "query", query)

	refs, err := retry.DoValue(ctx, logger, retry.DefaultOptions(), func(ctx context.Context) ([]gmail.MessageRef, error) {
		return t.client.ListMessages(ctx, accessToken, query, t.MaxResults)
	})
	if err != nil {
		return nil, err
	}

	events := make([]*models.EnrichedEvent, 0, len(refs))

	for i, ref := range refs {
		if i >= detailFetchCap {
			break
		}

		if i > 0 {
			time.Sleep(detailFetchPacing)
		}

		message, err := retry.DoValue(ctx, logger, retry.DefaultOptions(), func(ctx context.Context) (*gmail.Message, error) {
			return t.client.GetMessage(ctx, accessToken, ref.ID)
		})
		if err != nil {
			if providers.IsAuthError(err) {
				return nil, err
			}

			logger.ErrorContext(ctx, "Failed to fetch message detail", "message_id", ref.ID, "error", err)

			continue
		}

		events = append(events, parseMessage(message))
	}

	logger.InfoContext(ctx, "Mailbox poll complete", "candidates", len(refs), "events", len(events))

	return events, nil
}

// buildQuery ANDs a quoted keyword OR-group with a sender filter.
func (t *Trigger) buildQuery() string {
	var parts []string

	if len(t.Keywords) > 0 {
		quoted := make([]string, 0, len(t.Keywords))
		for _, keyword := range t.Keywords {
			quoted = append(quoted, `"`+keyword+`"`)
		}

		parts = append(parts, "("+strings.Join(quoted, " OR ")+")")
	}

	if t.FromAddress != "" {
		parts = append(parts, "from:"+t.FromAddress)
	}

	if len(parts) == 0 {
		return "is:unread"
	}

	return strings.Join(parts, " ")
}
