package file

import (
	"context"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/autofy/autofy/pkg/models"
	"github.com/autofy/autofy/pkg/persistence"
)

// ChatRepository stores each registration as chats/<user>/<chat>.json.
type ChatRepository struct {
	root string
}

func NewChatRepository(root string) *ChatRepository {
	return &ChatRepository{root: root}
}

func (cr *ChatRepository) dir(userID string) string {
	return filepath.Join(cr.root, "chats", userID)
}

func (cr *ChatRepository) path(userID, chatID string) string {
	return filepath.Join(cr.dir(userID), chatID+".json")
}

func (cr *ChatRepository) ActiveChats(_ context.Context, userID string) ([]*models.ChatChannel, error) {
	jsonFiles, err := fs.Glob(os.DirFS(cr.dir(userID)), "*.json")
	if err != nil {
		return nil, fmt.Errorf("failed to list chat files: %w", err)
	}

	chats := make([]*models.ChatChannel, 0, len(jsonFiles))

	for _, file := range jsonFiles {
		chat, err := cr.read(cr.path(userID, file[:len(file)-len(".json")]))
		if err != nil {
			return nil, err
		}

		if chat.Active {
			chats = append(chats, chat)
		}
	}

	return chats, nil
}

func (cr *ChatRepository) ChatByID(_ context.Context, userID, chatID string) (*models.ChatChannel, error) {
	chat, err := cr.read(cr.path(userID, chatID))
	if err != nil {
		return nil, err
	}

	return chat, nil
}

// SaveChat registers a chat destination for the owner.
func (cr *ChatRepository) SaveChat(_ context.Context, chat *models.ChatChannel) error {
	if err := os.MkdirAll(cr.dir(chat.UserID), dirPerm); err != nil {
		return fmt.Errorf("failed to create chat directory: %w", err)
	}

	data, err := json.MarshalIndent(chat, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode chat %s: %w", chat.ChatID, err)
	}

	if err := os.WriteFile(cr.path(chat.UserID, chat.ChatID), data, 0o600); err != nil {
		return fmt.Errorf("failed to save chat %s: %w", chat.ChatID, err)
	}

	return nil
}

func (cr *ChatRepository) read(path string) (*models.ChatChannel, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, persistence.ErrChatNotFound
		}

		return nil, fmt.Errorf("failed to read chat file: %w", err)
	}

	var chat models.ChatChannel
	if err := json.Unmarshal(data, &chat); err != nil {
		return nil, fmt.Errorf("failed to decode chat file: %w", err)
	}

	return &chat, nil
}
