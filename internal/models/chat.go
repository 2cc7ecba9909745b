package models

import (
	"time"

	"github.com/lib/pq"
)

// Chat represents a private conversation between exactly two users.
// UserIDs and SeenBy map to postgres text arrays; SeenBy only ever grows.
type Chat struct {
	ID          string         `db:"id" json:"id"`
	UserIDs     pq.StringArray `db:"user_ids" json:"userIDs"`
	SeenBy      pq.StringArray `db:"seen_by" json:"seenBy"`
	LastMessage *string        `db:"last_message" json:"lastMessage,omitempty"`
	CreatedAt   time.Time      `db:"created_at" json:"createdAt"`

	// Receiver is the other participant's public profile, attached by the
	// list endpoint. Never persisted.
	Receiver *UserProfile `db:"-" json:"receiver,omitempty"`
}

// ReceiverID returns the participant other than userID, or "" when the
// record has no distinct counterpart.
func (c Chat) ReceiverID(userID string) string {
	for _, id := range c.UserIDs {
		if id != userID {
			return id
		}
	}
	return ""
}

// UnionSeen returns seen with userID added, preserving existing order and
// collapsing duplicates.
func UnionSeen(seen []string, userID string) []string {
	out := make([]string, 0, len(seen)+1)
	present := make(map[string]struct{}, len(seen)+1)
	for _, id := range append(append([]string{}, seen...), userID) {
		if _, ok := present[id]; ok {
			continue
		}
		present[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
