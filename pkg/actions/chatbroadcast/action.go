// Package chatbroadcast fans out one rendered message per event to the
// owner's registered chat destinations.
package chatbroadcast

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/autofy/autofy/pkg/credentials"
	"github.com/autofy/autofy/pkg/models"
	"github.com/autofy/autofy/pkg/persistence"
	"github.com/autofy/autofy/pkg/protocol"
	"github.com/autofy/autofy/pkg/providers/telegram"
	"github.com/autofy/autofy/pkg/retry"
	"github.com/autofy/autofy/pkg/template"
)

// SkipSentinel suppresses the broadcast when it appears in the rendered
// message. Upstream AI steps emit it to silence noisy notifications.
const SkipSentinel = "[NO_NOTIFICATION]"

// ErrChatNotOwned is returned when a specific chat id does not belong to
// the owner. The broadcast fails closed with zero sends.
var ErrChatNotOwned = errors.New("chat is not registered to this user")

// Action broadcasts one message per event to every resolved chat.
type Action struct {
	UserID              string
	MessageTemplate     string
	ParseMode           string
	DisableLinkPreview  bool
	DisableNotification bool
	SpecificChatID      string

	client *telegram.Client
	store  *credentials.Store
	chats  persistence.ChatRepository
}

func (a *Action) Execute(ctx context.Context, event *models.EnrichedEvent, logger *slog.Logger) (*protocol.ActionResult, error) {
	credential, err := a.store.Resolve(ctx, a.UserID, "telegram")
	if err != nil {
		return nil, fmt.Errorf("resolving chat credential: %w", err)
	}

	message := template.Render(a.MessageTemplate, event)
	if shouldSkip(message) {
		logger.Info("Broadcast suppressed by skip directive")

		return &protocol.ActionResult{
			Output: map[string]any{
				"success":    true,
				"sent_count": 0,
				"skipped":    true,
			},
		}, nil
	}

	chatIDs, err := a.resolveChatIDs(ctx)
	if err != nil {
		return nil, err
	}

	if len(chatIDs) == 0 {
		logger.Info("No active chats registered, nothing to send")

		return &protocol.ActionResult{
			Output: map[string]any{
				"success":    true,
				"sent_count": 0,
			},
		}, nil
	}

	sentCount, failedChatIDs, sendErrors := a.fanOut(ctx, logger, credential.Token(), chatIDs, message)

	success := len(failedChatIDs) == 0
	if !success {
		logger.Warn("Broadcast partially failed",
			"sent", sentCount,
			"failed", len(failedChatIDs))
	}

	return &protocol.ActionResult{
		Output: map[string]any{
			"success":         success,
			"sent_count":      sentCount,
			"failed_chat_ids": failedChatIDs,
			"errors":          sendErrors,
		},
	}, nil
}

// resolveChatIDs returns the destinations for this broadcast. A specific
// chat id must belong to the owner or the whole broadcast fails closed.
func (a *Action) resolveChatIDs(ctx context.Context) ([]string, error) {
	if a.SpecificChatID != "" {
		chat, err := a.chats.ChatByID(ctx, a.UserID, a.SpecificChatID)
		if err != nil {
			if persistence.IsChatNotFound(err) {
				return nil, fmt.Errorf("%w: %s", ErrChatNotOwned, a.SpecificChatID)
			}

			return nil, fmt.Errorf("verifying chat ownership: %w", err)
		}

		return []string{chat.ChatID}, nil
	}

	chats, err := a.chats.ActiveChats(ctx, a.UserID)
	if err != nil {
		return nil, fmt.Errorf("listing active chats: %w", err)
	}

	chatIDs := make([]string, 0, len(chats))
	for _, chat := range chats {
		chatIDs = append(chatIDs, chat.ChatID)
	}

	return chatIDs, nil
}

// fanOut sends the message to every chat independently so one failing
// destination does not block the others.
func (a *Action) fanOut(ctx context.Context, logger *slog.Logger, botToken string, chatIDs []string, message string) (int, []string, []string) {
	var (
		mu            sync.Mutex
		sentCount     int
		failedChatIDs []string
		sendErrors    []string
	)

	var wg sync.WaitGroup
	for _, chatID := range chatIDs {
		wg.Add(1)

		go func(chatID string) {
			defer wg.Done()

			err := retry.Do(ctx, logger, retry.Options{}, func(ctx context.Context) error {
				return a.client.SendMessage(ctx, botToken, telegram.SendMessageRequest{
					ChatID:                chatID,
					Text:                  message,
					ParseMode:             a.ParseMode,
					DisableWebPagePreview: a.DisableLinkPreview,
					DisableNotification:   a.DisableNotification,
				})
			})

			mu.Lock()
			defer mu.Unlock()

			if err != nil {
				failedChatIDs = append(failedChatIDs, chatID)
				sendErrors = append(sendErrors, fmt.Sprintf("%s: %v", chatID, err))

				return
			}

			sentCount++
		}(chatID)
	}

	wg.Wait()

	sort.Strings(failedChatIDs)
	sort.Strings(sendErrors)

	return sentCount, failedChatIDs, sendErrors
}

func shouldSkip(message string) bool {
	return strings.Contains(message, SkipSentinel)
}
