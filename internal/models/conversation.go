package models

import (
	"time"

	"github.com/google/uuid"
)

// Conversation описывает переписку ровно двух участников.
type Conversation struct {
	ID        uuid.UUID `db:"id" json:"id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
	// Участники загружаются отдельно
	Participants []uuid.UUID `json:"participants,omitempty"`
}

// Message описывает сообщение в переписке.
type Message struct {
	ID             uuid.UUID `db:"id" json:"id"`
	ConversationID uuid.UUID `db:"conversation_id" json:"conversation_id"`
	SenderID       uuid.UUID `db:"sender_id" json:"sender_id"`
	Content        string    `db:"content" json:"content"`
	IsRead         bool      `db:"is_read" json:"is_read"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// ConversationPreview агрегирует данные для списка переписок.
type ConversationPreview struct {
	Conversation Conversation `json:"conversation"`
	OtherUserID  uuid.UUID    `json:"other_user_id"`
	UnreadCount  int          `json:"unread_count"`
	LastMessage  *Message     `json:"last_message,omitempty"`
}
