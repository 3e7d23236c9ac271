package models

import (
	"strings"

	"github.com/google/uuid"
)

// Tag is a lowercase-normalized label attached to posts. Name equality is
// case-insensitive: names are lowercased before storage and lookup.
type Tag struct {
	ID   uuid.UUID `json:"tag_id"`
	Name string    `json:"tag_name"`

	// NumberOfPosts is the count of posts carrying this tag.
	NumberOfPosts int `json:"number_of_posts"`

	// Posts is populated on single-tag fetches.
	Posts []Post `json:"posts,omitempty"`
}

// NormalizeTagName lowercases a tag name for storage and lookup.
func NormalizeTagName(name string) string {
	return strings.ToLower(name)
}

// TagCount is one entry of a tag ranking (popular or trending tags).
type TagCount struct {
	TagName       string `json:"tag_name"`
	NumberOfPosts int    `json:"number_of_posts"`
}
