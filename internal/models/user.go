package models

// UserProfile is the minimal public projection of a user. The user entity
// itself is owned by the account service; this service only reads it.
type UserProfile struct {
	ID       string  `db:"id" json:"id"`
	Username string  `db:"username" json:"username"`
	Avatar   *string `db:"avatar" json:"avatar"`
}
