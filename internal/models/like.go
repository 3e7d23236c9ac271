package models

import "github.com/google/uuid"

// Like marks that a user liked a post. The composite (user, post) pair is
// the identity; at most one like exists per pair.
type Like struct {
	UserID uuid.UUID `json:"user_id"`
	PostID uuid.UUID `json:"post_id"`
}
