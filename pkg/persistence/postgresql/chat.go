package postgresql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/autofy/autofy/pkg/models"
	"github.com/autofy/autofy/pkg/persistence"
)

// ChatRepository handles chat registration database operations.
type ChatRepository struct {
	db *sql.DB
}

// NewChatRepository creates a new chat repository.
func NewChatRepository(db *sql.DB) *ChatRepository {
	return &ChatRepository{db: db}
}

const chatColumns = `
	chat_id
  , user_id
  , chat_type
  , title
  , active
  , connected_at
`

func (r *ChatRepository) ActiveChats(ctx context.Context, userID string) ([]*models.ChatChannel, error) {
	query := `
		SELECT ` + chatColumns + `
		FROM chat_channels
		WHERE user_id = $1 AND active
		ORDER BY connected_at
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query chats: %w", err)
	}

	defer func() {
		_ = rows.Close()
	}()

	chats := make([]*models.ChatChannel, 0)

	for rows.Next() {
		chat, err := scanChat(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan chat: %w", err)
		}

		chats = append(chats, chat)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating chats: %w", err)
	}

	return chats, nil
}

func (r *ChatRepository) ChatByID(ctx context.Context, userID, chatID string) (*models.ChatChannel, error) {
	query := `
		SELECT ` + chatColumns + `
		FROM chat_channels
		WHERE user_id = $1 AND chat_id = $2
	`

	chat, err := scanChat(r.db.QueryRowContext(ctx, query, userID, chatID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, persistence.ErrChatNotFound
		}

		return nil, fmt.Errorf("failed to scan chat: %w", err)
	}

	return chat, nil
}

// SaveChat registers a chat destination for the owner.
func (r *ChatRepository) SaveChat(ctx context.Context, chat *models.ChatChannel) error {
	query := `
		INSERT INTO chat_channels (
			chat_id, user_id, chat_type, title, active, connected_at
		) VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, chat_id) DO UPDATE SET
			chat_type = EXCLUDED.chat_type,
			title = EXCLUDED.title,
			active = EXCLUDED.active
	`

	_, err := r.db.ExecContext(ctx, query,
		chat.ChatID, chat.UserID, chat.ChatType,
		nullableString(chat.Title), chat.Active, chat.ConnectedAt)
	if err != nil {
		return fmt.Errorf("failed to save chat %s: %w", chat.ChatID, err)
	}

	return nil
}

func scanChat(row scanner) (*models.ChatChannel, error) {
	var (
		chat  models.ChatChannel
		title sql.NullString
	)

	err := row.Scan(&chat.ChatID, &chat.UserID, &chat.ChatType,
		&title, &chat.Active, &chat.ConnectedAt)
	if err != nil {
		return nil, err
	}

	chat.Title = title.String

	return &chat, nil
}
