package repositories

import (
	"context"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"chat-api/internal/models"
)

// MessageRepository defines interactions for chat messages.
type MessageRepository interface {
	CreateMessage(ctx context.Context, chatID, senderID, text string) (models.Message, error)
	ListChatMessages(ctx context.Context, chatID string) ([]models.Message, error)
}

// MessageRepo is a sqlx-backed repository.
type MessageRepo struct {
	db *sqlx.DB
}

// NewMessageRepo constructs MessageRepo.
func NewMessageRepo(db *sqlx.DB) *MessageRepo {
	return &MessageRepo{db: db}
}

// CreateMessage stores a message in a chat.
func (r *MessageRepo) CreateMessage(ctx context.Context, chatID, senderID, text string) (models.Message, error) {
	var msg models.Message
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO messages (id, chat_id, user_id, text) VALUES ($1, $2, $3, $4)
         RETURNING id, chat_id, user_id, text, created_at`,
		uuid.NewString(), chatID, senderID, text,
	).StructScan(&msg)
	return msg, err
}

// ListChatMessages returns a chat's messages ordered by creation time ascending.
func (r *MessageRepo) ListChatMessages(ctx context.Context, chatID string) ([]models.Message, error) {
	var msgs []models.Message
	err := r.db.SelectContext(ctx, &msgs,
		`SELECT id, chat_id, user_id, text, created_at FROM messages
         WHERE chat_id=$1 ORDER BY created_at ASC`, chatID)
	return msgs, err
}
