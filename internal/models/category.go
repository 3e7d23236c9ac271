package models

import "github.com/google/uuid"

// PathSeparator joins ancestor category names into the display identity,
// e.g. `Place\Business\Hotel`.
const PathSeparator = `\`

// Category is a node in the self-referential category forest. Its display
// identity is the root-to-leaf path of ancestor names.
type Category struct {
	ID       uuid.UUID  `json:"category_id"`
	Name     string     `json:"name"`
	ParentID *uuid.UUID `json:"parent_id,omitempty"`

	// Path is derived on fetch: ancestor names joined root-to-leaf.
	Path string `json:"category_name,omitempty"`

	// Items is populated on single-category fetches.
	Items []Item `json:"items,omitempty"`
}
