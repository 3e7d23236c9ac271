package models

import (
	"time"

	"github.com/google/uuid"
)

// Post is a rating/review of an item by a user. The timestamp is set
// server-side at creation and never accepted from the caller. A post
// exclusively owns its photos and comments; tags and liking users are
// shared references removed only from the join tables on deletion.
type Post struct {
	ID           uuid.UUID `json:"post_id"`
	PostDatetime time.Time `json:"post_datetime"`
	UserID       uuid.UUID `json:"user_id"`
	ItemID       uuid.UUID `json:"-"`
	Rating       *int      `json:"rating"`
	Review       *string   `json:"review"`
	IsFavorite   bool      `json:"is_favorite"`
	IsInterested bool      `json:"is_interested"`

	Item     *Item       `json:"item,omitempty"`
	Tags     []Tag       `json:"tags"`
	Photos   []Photo     `json:"photos"`
	LikedBy  []uuid.UUID `json:"liked_by,omitempty"`
	Comments []Comment   `json:"comments,omitempty"`
}
