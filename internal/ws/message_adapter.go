package ws

import (
	"github.com/google/uuid"

	"github.com/skillbazar/backend/internal/logger"
	"github.com/skillbazar/backend/internal/models"
)

// MessageAdapter доставляет события чата через хаб.
type MessageAdapter struct {
	hub *Hub
}

// NewMessageAdapter создаёт адаптер для ConversationService.
func NewMessageAdapter(hub *Hub) *MessageAdapter {
	return &MessageAdapter{hub: hub}
}

// NotifyNewMessage отправляет получателю событие о новом сообщении.
func (a *MessageAdapter) NotifyNewMessage(recipientID uuid.UUID, message *models.Message) {
	if err := a.hub.BroadcastToUser(recipientID, "message.new", message); err != nil && logger.Log != nil {
		logger.Log.WithError(err).Warn("не удалось доставить событие чата")
	}
}
