package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/skillbazar/backend/internal/models"
	"github.com/skillbazar/backend/internal/pkg/apperror"
)

// ConversationRepository отвечает за переписки и сообщения.
type ConversationRepository struct {
	db *sqlx.DB
}

// NewConversationRepository создаёт новый экземпляр.
func NewConversationRepository(db *sqlx.DB) *ConversationRepository {
	return &ConversationRepository{db: db}
}

// Create создаёт переписку с двумя участниками в одной транзакции.
func (r *ConversationRepository) Create(ctx context.Context, conv *models.Conversation, first, second uuid.UUID) error {
	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("conversation repository: begin tx %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = tx.QueryRowxContext(ctx, `INSERT INTO conversations DEFAULT VALUES RETURNING id, created_at, updated_at`).
		Scan(&conv.ID, &conv.CreatedAt, &conv.UpdatedAt); err != nil {
		return fmt.Errorf("conversation repository: insert conversation %w", err)
	}

	if _, err = tx.ExecContext(ctx,
		`INSERT INTO conversation_participants (conversation_id, user_id) VALUES ($1, $2), ($1, $3)`,
		conv.ID, first, second,
	); err != nil {
		return fmt.Errorf("conversation repository: insert participants %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("conversation repository: commit %w", err)
	}

	conv.Participants = []uuid.UUID{first, second}
	return nil
}

// GetByParticipants возвращает переписку ровно этих двух участников.
func (r *ConversationRepository) GetByParticipants(ctx context.Context, first, second uuid.UUID) (*models.Conversation, error) {
	var conv models.Conversation
	query := `
		SELECT c.id, c.created_at, c.updated_at
		FROM conversations c
		JOIN conversation_participants p1 ON p1.conversation_id = c.id AND p1.user_id = $1
		JOIN conversation_participants p2 ON p2.conversation_id = c.id AND p2.user_id = $2
		LIMIT 1
	`
	if err := r.db.GetContext(ctx, &conv, query, first, second); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrConversationNotFound
		}
		return nil, fmt.Errorf("conversation repository: get by participants %w", err)
	}
	conv.Participants = []uuid.UUID{first, second}
	return &conv, nil
}

// GetByID возвращает переписку с участниками.
func (r *ConversationRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Conversation, error) {
	var conv models.Conversation
	if err := r.db.GetContext(ctx, &conv, `SELECT id, created_at, updated_at FROM conversations WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrConversationNotFound
		}
		return nil, fmt.Errorf("conversation repository: get by id %w", err)
	}

	var participants []uuid.UUID
	query := `SELECT user_id FROM conversation_participants WHERE conversation_id = $1 ORDER BY user_id`
	if err := r.db.SelectContext(ctx, &participants, query, id); err != nil {
		return nil, fmt.Errorf("conversation repository: get participants %w", err)
	}
	conv.Participants = participants
	return &conv, nil
}

// IsParticipant проверяет принадлежность пользователя к переписке.
func (r *ConversationRepository) IsParticipant(ctx context.Context, conversationID, userID uuid.UUID) (bool, error) {
	var count int
	query := `SELECT COUNT(*) FROM conversation_participants WHERE conversation_id = $1 AND user_id = $2`
	if err := r.db.GetContext(ctx, &count, query, conversationID, userID); err != nil {
		return false, fmt.Errorf("conversation repository: is participant %w", err)
	}
	return count > 0, nil
}

// ListByUser возвращает переписки пользователя с собеседником, числом
// непрочитанных и последним сообщением. Свежие переписки первыми.
func (r *ConversationRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.ConversationPreview, error) {
	query := `
		SELECT c.id, c.created_at, c.updated_at, other.user_id AS other_user_id,
			(
				SELECT COUNT(*) FROM messages m
				WHERE m.conversation_id = c.id AND m.sender_id <> $1 AND m.is_read = FALSE
			) AS unread_count
		FROM conversations c
		JOIN conversation_participants own ON own.conversation_id = c.id AND own.user_id = $1
		JOIN conversation_participants other ON other.conversation_id = c.id AND other.user_id <> $1
		ORDER BY c.updated_at DESC
	`

	rows, err := r.db.QueryxContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("conversation repository: list by user %w", err)
	}
	defer rows.Close()

	var previews []models.ConversationPreview
	for rows.Next() {
		var preview models.ConversationPreview
		if err := rows.Scan(
			&preview.Conversation.ID,
			&preview.Conversation.CreatedAt,
			&preview.Conversation.UpdatedAt,
			&preview.OtherUserID,
			&preview.UnreadCount,
		); err != nil {
			return nil, fmt.Errorf("conversation repository: scan preview %w", err)
		}
		previews = append(previews, preview)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("conversation repository: previews rows %w", err)
	}

	for i := range previews {
		last, err := r.GetLastMessage(ctx, previews[i].Conversation.ID)
		if err != nil {
			return nil, err
		}
		previews[i].LastMessage = last
	}

	return previews, nil
}

// GetLastMessage возвращает последнее сообщение переписки или nil.
func (r *ConversationRepository) GetLastMessage(ctx context.Context, conversationID uuid.UUID) (*models.Message, error) {
	var message models.Message
	query := `SELECT * FROM messages WHERE conversation_id = $1 ORDER BY created_at DESC LIMIT 1`
	if err := r.db.GetContext(ctx, &message, query, conversationID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("conversation repository: get last message %w", err)
	}
	return &message, nil
}

// AddMessage добавляет сообщение и обновляет метку активности переписки.
func (r *ConversationRepository) AddMessage(ctx context.Context, msg *models.Message) error {
	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("conversation repository: begin tx %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	query := `
		INSERT INTO messages (conversation_id, sender_id, content, is_read)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	if err = tx.QueryRowxContext(ctx, query, msg.ConversationID, msg.SenderID, msg.Content, msg.IsRead).
		Scan(&msg.ID, &msg.CreatedAt); err != nil {
		return fmt.Errorf("conversation repository: insert message %w", err)
	}

	if _, err = tx.ExecContext(ctx, `UPDATE conversations SET updated_at = NOW() WHERE id = $1`, msg.ConversationID); err != nil {
		return fmt.Errorf("conversation repository: touch conversation %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("conversation repository: commit %w", err)
	}

	return nil
}

// ListMessages возвращает сообщения переписки в хронологическом порядке.
func (r *ConversationRepository) ListMessages(ctx context.Context, conversationID uuid.UUID) ([]models.Message, error) {
	var messages []models.Message
	query := `SELECT * FROM messages WHERE conversation_id = $1 ORDER BY created_at ASC`
	if err := r.db.SelectContext(ctx, &messages, query, conversationID); err != nil {
		return nil, fmt.Errorf("conversation repository: list messages %w", err)
	}
	return messages, nil
}

// MarkMessagesRead отмечает прочитанными сообщения собеседников.
func (r *ConversationRepository) MarkMessagesRead(ctx context.Context, conversationID, readerID uuid.UUID) error {
	query := `UPDATE messages SET is_read = TRUE WHERE conversation_id = $1 AND sender_id <> $2 AND is_read = FALSE`
	if _, err := r.db.ExecContext(ctx, query, conversationID, readerID); err != nil {
		return fmt.Errorf("conversation repository: mark messages read %w", err)
	}
	return nil
}

// Delete удаляет переписку вместе с сообщениями.
func (r *ConversationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM conversations WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("conversation repository: delete %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("conversation repository: delete rows affected %w", err)
	}
	if affected == 0 {
		return apperror.ErrConversationNotFound
	}
	return nil
}
