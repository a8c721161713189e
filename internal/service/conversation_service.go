package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/skillbazar/backend/internal/models"
	"github.com/skillbazar/backend/internal/pkg/apperror"
	"github.com/skillbazar/backend/internal/validation"
)

// ConversationRepository описывает зависимости ConversationService от слоя хранилища.
type ConversationRepository interface {
	Create(ctx context.Context, conv *models.Conversation, first, second uuid.UUID) error
	GetByParticipants(ctx context.Context, first, second uuid.UUID) (*models.Conversation, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Conversation, error)
	IsParticipant(ctx context.Context, conversationID, userID uuid.UUID) (bool, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]models.ConversationPreview, error)
	AddMessage(ctx context.Context, msg *models.Message) error
	ListMessages(ctx context.Context, conversationID uuid.UUID) ([]models.Message, error)
	MarkMessagesRead(ctx context.Context, conversationID, readerID uuid.UUID) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// ReplyGenerator синтезирует приветствия и автоответы фрилансера.
type ReplyGenerator interface {
	Welcome(freelancerName string) string
	Reply(userMessage, freelancerName string) string
}

// MessageNotifier доставляет событие о новом сообщении онлайн-получателю.
type MessageNotifier interface {
	NotifyNewMessage(recipientID uuid.UUID, message *models.Message)
}

// ConversationService инкапсулирует переписки и симуляцию ответов фрилансера.
type ConversationService struct {
	repo     ConversationRepository
	users    UserReader
	autoresp ReplyGenerator
	notifier MessageNotifier
}

// NewConversationService создаёт сервис переписок.
func NewConversationService(repo ConversationRepository, users UserReader, autoresp ReplyGenerator, notifier MessageNotifier) *ConversationService {
	return &ConversationService{repo: repo, users: users, autoresp: autoresp, notifier: notifier}
}

// ConversationView агрегирует переписку с сообщениями для просмотра.
type ConversationView struct {
	Conversation *models.Conversation `json:"conversation"`
	Messages     []models.Message     `json:"messages"`
	OtherUser    *models.User         `json:"other_user,omitempty"`
}

// Start открывает переписку с собеседником или возвращает существующую.
// Если собеседник — фрилансер, в новую переписку добавляется приветствие
// от его имени.
func (s *ConversationService) Start(ctx context.Context, userID, otherID uuid.UUID) (*models.Conversation, error) {
	if userID == otherID {
		return nil, apperror.ErrSelfConversation
	}

	other, err := s.users.GetByID(ctx, otherID)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByParticipants(ctx, userID, otherID)
	if err == nil {
		return existing, nil
	}
	if !apperror.IsNotFound(err) {
		return nil, err
	}

	conv := &models.Conversation{}
	if err := s.repo.Create(ctx, conv, userID, otherID); err != nil {
		return nil, err
	}

	if models.CanSell(other.UserType) {
		welcome := &models.Message{
			ConversationID: conv.ID,
			SenderID:       otherID,
			Content:        s.autoresp.Welcome(other.FullName()),
			IsRead:         false,
		}
		if err := s.repo.AddMessage(ctx, welcome); err != nil {
			return nil, err
		}
		if s.notifier != nil {
			s.notifier.NotifyNewMessage(userID, welcome)
		}
	}

	return conv, nil
}

// PostMessage добавляет сообщение участника. Если собеседник — фрилансер,
// следом добавляется симулированный ответ от его имени.
func (s *ConversationService) PostMessage(ctx context.Context, conversationID, senderID uuid.UUID, content string) ([]models.Message, error) {
	if err := validation.ValidateMessageContent(content); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeValidation, err.Error())
	}

	conv, err := s.repo.GetByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	otherID, ok := otherParticipant(conv, senderID)
	if !ok {
		return nil, apperror.ErrForbidden
	}

	message := &models.Message{
		ConversationID: conversationID,
		SenderID:       senderID,
		Content:        strings.TrimSpace(content),
		IsRead:         false,
	}
	if err := s.repo.AddMessage(ctx, message); err != nil {
		return nil, err
	}

	created := []models.Message{*message}

	if s.notifier != nil {
		s.notifier.NotifyNewMessage(otherID, message)
	}

	other, err := s.users.GetByID(ctx, otherID)
	if err == nil && models.CanSell(other.UserType) {
		reply := &models.Message{
			ConversationID: conversationID,
			SenderID:       otherID,
			Content:        s.autoresp.Reply(message.Content, other.FullName()),
			IsRead:         false,
		}
		if err := s.repo.AddMessage(ctx, reply); err != nil {
			return nil, err
		}
		created = append(created, *reply)
		if s.notifier != nil {
			s.notifier.NotifyNewMessage(senderID, reply)
		}
	}

	return created, nil
}

// View возвращает переписку участнику и отмечает чужие сообщения прочитанными.
func (s *ConversationService) View(ctx context.Context, conversationID, userID uuid.UUID) (*ConversationView, error) {
	conv, err := s.repo.GetByID(ctx, conversationID)
	if err != nil {
		return nil, err
	}

	otherID, ok := otherParticipant(conv, userID)
	if !ok {
		return nil, apperror.ErrForbidden
	}

	if err := s.repo.MarkMessagesRead(ctx, conversationID, userID); err != nil {
		return nil, err
	}

	messages, err := s.repo.ListMessages(ctx, conversationID)
	if err != nil {
		return nil, err
	}
	for i := range messages {
		if messages[i].SenderID != userID {
			messages[i].IsRead = true
		}
	}

	view := &ConversationView{
		Conversation: conv,
		Messages:     messages,
	}

	if other, err := s.users.GetByID(ctx, otherID); err == nil {
		view.OtherUser = other
	}

	return view, nil
}

// List возвращает переписки пользователя.
func (s *ConversationService) List(ctx context.Context, userID uuid.UUID) ([]models.ConversationPreview, error) {
	previews, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if previews == nil {
		previews = []models.ConversationPreview{}
	}
	return previews, nil
}

// Delete удаляет переписку участника вместе с сообщениями.
func (s *ConversationService) Delete(ctx context.Context, conversationID, userID uuid.UUID) error {
	isParticipant, err := s.repo.IsParticipant(ctx, conversationID, userID)
	if err != nil {
		return err
	}
	if !isParticipant {
		return apperror.ErrForbidden
	}
	return s.repo.Delete(ctx, conversationID)
}

// otherParticipant возвращает собеседника пользователя в переписке.
func otherParticipant(conv *models.Conversation, userID uuid.UUID) (uuid.UUID, bool) {
	found := false
	var other uuid.UUID
	for _, participant := range conv.Participants {
		if participant == userID {
			found = true
		} else {
			other = participant
		}
	}
	if !found || other == uuid.Nil {
		return uuid.Nil, false
	}
	return other, true
}
