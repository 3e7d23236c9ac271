package models

import "github.com/google/uuid"

// Item is a rateable thing (a hike, a restaurant, an artist). It requires a
// category and may carry a location; both are shared references and are
// never cascade-deleted with the item.
type Item struct {
	ID         uuid.UUID  `json:"item_id"`
	Name       string     `json:"item_name"`
	CategoryID uuid.UUID  `json:"-"`
	LocationID *uuid.UUID `json:"-"`

	// Category is the derived category path of the item.
	Category string `json:"category"`

	// Location projects the referenced location; {} when none is set.
	Location OptionalLocation `json:"location"`

	// Rating is the mean of all non-null post ratings, or null when the
	// item has no rated posts.
	Rating *float64 `json:"rating"`

	// Posts is populated on single-item fetches.
	Posts []Post `json:"posts,omitempty"`
}
