package store

import (
	"fmt"

	"github.com/google/uuid"

	"ratepoint/internal/entity"
	"ratepoint/internal/models"
)

var photoSpec = entity.Spec{
	Kind:     "photo",
	Required: []string{"file_name"},
	Optional: []string{"post_id"},
}

var photoTable = table[models.Photo]{
	name:     "photos",
	idColumn: "id",
	columns:  "id, file_name, post_id",
	scan: func(r rowScanner) (*models.Photo, error) {
		var p models.Photo
		if err := r.Scan(&p.ID, &p.FileName, &p.PostID); err != nil {
			return nil, err
		}
		return &p, nil
	},
}

// CreatePhoto validates the field set and inserts a photo, optionally
// already attached to a post.
func (s *Store) CreatePhoto(q Querier, f entity.Fields) (*models.Photo, error) {
	if err := photoSpec.Check(f); err != nil {
		return nil, err
	}
	fileName, ok := f.String("file_name")
	if !ok {
		return nil, &entity.FieldError{Kind: "photo", Field: "file_name", Reason: entity.FieldInvalid}
	}
	var postID *uuid.UUID
	if f.Has("post_id") {
		id, ok := f.UUID("post_id")
		if !ok {
			return nil, &entity.FieldError{Kind: "photo", Field: "post_id", Reason: entity.FieldInvalid}
		}
		postID = &id
	}
	return insertReturning(q, photoTable,
		[]string{"file_name", "post_id"},
		[]any{fileName, postID})
}

// GetPhoto returns a photo by id, or nil when absent.
func (s *Store) GetPhoto(q Querier, id uuid.UUID) (*models.Photo, error) {
	return fetchByID(q, photoTable, id)
}

// AllPhotos returns every photo.
func (s *Store) AllPhotos(q Querier) ([]models.Photo, error) {
	return fetchAll(q, photoTable, "file_name")
}

// attachPhoto points an existing photo at a post. The photo must exist and
// not already belong to another post.
func (s *Store) attachPhoto(q Querier, photoID, postID uuid.UUID) error {
	p, err := fetchByID(q, photoTable, photoID)
	if err != nil {
		return err
	}
	if p == nil {
		return fmt.Errorf("%w: photo %s", entity.ErrNotFound, photoID)
	}
	if p.PostID != nil && *p.PostID != postID {
		return fmt.Errorf("%w: photo %s already attached to post %s",
			entity.ErrInvariant, photoID, *p.PostID)
	}
	_, err = q.Exec(`UPDATE photos SET post_id = $1 WHERE id = $2`, postID, photoID)
	if err != nil {
		return fmt.Errorf("attach photo: %w", err)
	}
	return nil
}

// DeletePhoto removes a photo row. The stored file is outside this layer's
// responsibility.
func (s *Store) DeletePhoto(q Querier, id uuid.UUID) error {
	return deleteRow(q, "photos", "id", id)
}

// photosForPost returns the photos attached to one post.
func (s *Store) photosForPost(q Querier, postID uuid.UUID) ([]models.Photo, error) {
	rows, err := q.Query(
		`SELECT `+photoTable.columns+` FROM photos WHERE post_id = $1 ORDER BY file_name`,
		postID)
	if err != nil {
		return nil, fmt.Errorf("list post photos: %w", err)
	}
	defer rows.Close()

	var photos []models.Photo
	for rows.Next() {
		p, err := photoTable.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan photo: %w", err)
		}
		photos = append(photos, *p)
	}
	return photos, rows.Err()
}
