package models

import (
	"time"

	"github.com/google/uuid"
)

// Comment is a user's comment on a post. The timestamp is server-set.
type Comment struct {
	ID       uuid.UUID `json:"comment_id"`
	Comment  string    `json:"comment"`
	UserID   uuid.UUID `json:"user_id"`
	PostID   uuid.UUID `json:"post_id"`
	Datetime time.Time `json:"datetime"`
}
