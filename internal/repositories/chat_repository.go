package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"chat-api/internal/models"
)

var ErrChatNotFound = errors.New("chat not found")

const chatColumns = `id, user_ids, seen_by, last_message, created_at`

// ChatRepository abstracts chat persistence.
type ChatRepository interface {
	CreateChat(ctx context.Context, userID, receiverID string) (models.Chat, error)
	GetChatForUser(ctx context.Context, chatID, userID string) (models.Chat, error)
	ListChatsForUser(ctx context.Context, userID string) ([]models.Chat, error)
	UpdateSeenBy(ctx context.Context, chatID string, seenBy []string) (models.Chat, error)
	SetLastMessage(ctx context.Context, chatID, text, senderID string) error
}

// ChatRepo is a sqlx implementation of ChatRepository.
type ChatRepo struct {
	db *sqlx.DB
}

// NewChatRepo constructs a ChatRepo.
func NewChatRepo(db *sqlx.DB) *ChatRepo {
	return &ChatRepo{db: db}
}

// CreateChat inserts a new chat between two users with an empty seen-by set.
// Duplicate participant pairs are allowed.
func (r *ChatRepo) CreateChat(ctx context.Context, userID, receiverID string) (models.Chat, error) {
	var chat models.Chat
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO chats (id, user_ids, seen_by) VALUES ($1, $2, '{}') RETURNING `+chatColumns,
		uuid.NewString(), pq.StringArray{userID, receiverID},
	).StructScan(&chat)
	return chat, err
}

// GetChatForUser fetches a chat by id, requiring userID to be a participant.
// A missing chat and a membership miss are indistinguishable.
func (r *ChatRepo) GetChatForUser(ctx context.Context, chatID, userID string) (models.Chat, error) {
	var chat models.Chat
	err := r.db.GetContext(ctx, &chat,
		`SELECT `+chatColumns+` FROM chats WHERE id=$1 AND $2 = ANY(user_ids)`, chatID, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Chat{}, ErrChatNotFound
	}
	return chat, err
}

// ListChatsForUser returns every chat the user participates in, oldest first.
func (r *ChatRepo) ListChatsForUser(ctx context.Context, userID string) ([]models.Chat, error) {
	var chats []models.Chat
	err := r.db.SelectContext(ctx, &chats,
		`SELECT `+chatColumns+` FROM chats WHERE $1 = ANY(user_ids) ORDER BY created_at ASC`, userID)
	return chats, err
}

// UpdateSeenBy replaces the chat's seen-by set and returns the updated row.
func (r *ChatRepo) UpdateSeenBy(ctx context.Context, chatID string, seenBy []string) (models.Chat, error) {
	var chat models.Chat
	err := r.db.QueryRowxContext(ctx,
		`UPDATE chats SET seen_by=$2 WHERE id=$1 RETURNING `+chatColumns,
		chatID, pq.StringArray(seenBy),
	).StructScan(&chat)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Chat{}, ErrChatNotFound
	}
	return chat, err
}

// SetLastMessage records the chat's latest message text and resets the
// seen-by set to just the sender.
func (r *ChatRepo) SetLastMessage(ctx context.Context, chatID, text, senderID string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE chats SET last_message=$2, seen_by=$3 WHERE id=$1`,
		chatID, text, pq.StringArray{senderID})
	return err
}
