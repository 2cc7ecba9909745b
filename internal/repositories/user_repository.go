package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"chat-api/internal/models"
)

var ErrUserNotFound = errors.New("user not found")

// UserRepository reads public user profiles. Users are written by the
// account service; this service only looks them up.
type UserRepository interface {
	GetProfile(ctx context.Context, userID string) (models.UserProfile, error)
}

// UserRepo is a sqlx implementation of UserRepository.
type UserRepo struct {
	db *sqlx.DB
}

// NewUserRepo constructs a UserRepo.
func NewUserRepo(db *sqlx.DB) *UserRepo {
	return &UserRepo{db: db}
}

// GetProfile fetches the minimal public projection of a user.
func (r *UserRepo) GetProfile(ctx context.Context, userID string) (models.UserProfile, error) {
	var profile models.UserProfile
	err := r.db.GetContext(ctx, &profile,
		`SELECT id, username, avatar FROM users WHERE id=$1`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.UserProfile{}, ErrUserNotFound
	}
	return profile, err
}
