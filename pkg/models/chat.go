package models

import "time"

// ChatChannel is a chat destination a user registered with the bot.
// Broadcasts go to every active channel of the owner unless a specific
// chat id is configured on the step.
type ChatChannel struct {
	ChatID      string    `json:"chat_id"   validate:"required"`
	UserID      string    `json:"user_id"   validate:"required"`
	ChatType    string    `json:"chat_type"`
	Title       string    `json:"title,omitempty"`
	Active      bool      `json:"active"`
	ConnectedAt time.Time `json:"connected_at"`
}
