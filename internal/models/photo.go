package models

import "github.com/google/uuid"

// Photo records a stored photo file name. A photo may be owned by a post,
// in which case deleting the post deletes the photo row.
type Photo struct {
	ID       uuid.UUID  `json:"photo_id"`
	FileName string     `json:"file_name"`
	PostID   *uuid.UUID `json:"post_id,omitempty"`
}
