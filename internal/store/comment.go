package store

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"ratepoint/internal/entity"
	"ratepoint/internal/models"
)

var commentSpec = entity.Spec{
	Kind:     "comment",
	Required: []string{"comment", "user|user_id", "post|post_id"},
}

var commentTable = table[models.Comment]{
	name:     "post_comments",
	idColumn: "id",
	columns:  "id, comment, user_id, post_id, datetime",
	scan: func(r rowScanner) (*models.Comment, error) {
		var c models.Comment
		if err := r.Scan(&c.ID, &c.Comment, &c.UserID, &c.PostID, &c.Datetime); err != nil {
			return nil, err
		}
		return &c, nil
	},
}

// CreateComment validates the field set, resolves the user and post
// references (by id or materialized record), and inserts a comment with a
// server-set timestamp.
func (s *Store) CreateComment(q Querier, f entity.Fields) (*models.Comment, error) {
	if err := commentSpec.Check(f); err != nil {
		return nil, err
	}
	text, ok := f.String("comment")
	if !ok {
		return nil, &entity.FieldError{Kind: "comment", Field: "comment", Reason: entity.FieldInvalid}
	}
	userID, err := s.resolveUserRef(q, f)
	if err != nil {
		return nil, err
	}
	postID, err := s.resolvePostRef(q, f)
	if err != nil {
		return nil, err
	}
	return insertReturning(q, commentTable,
		[]string{"comment", "user_id", "post_id", "datetime"},
		[]any{text, userID, postID, time.Now().UTC()})
}

// GetComment returns a comment by id, or nil when absent.
func (s *Store) GetComment(q Querier, id uuid.UUID) (*models.Comment, error) {
	return fetchByID(q, commentTable, id)
}

// AllComments returns every comment, most recent first.
func (s *Store) AllComments(q Querier) ([]models.Comment, error) {
	return fetchAll(q, commentTable, "datetime DESC")
}

// DeleteComment removes one comment.
func (s *Store) DeleteComment(q Querier, id uuid.UUID) error {
	return deleteRow(q, "post_comments", "id", id)
}

// commentsForPost returns a post's comments, oldest first.
func (s *Store) commentsForPost(q Querier, postID uuid.UUID) ([]models.Comment, error) {
	rows, err := q.Query(
		`SELECT `+commentTable.columns+` FROM post_comments WHERE post_id = $1 ORDER BY datetime`,
		postID)
	if err != nil {
		return nil, fmt.Errorf("list post comments: %w", err)
	}
	defer rows.Close()

	var comments []models.Comment
	for rows.Next() {
		c, err := commentTable.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		comments = append(comments, *c)
	}
	return comments, rows.Err()
}

// commentsForUser returns a user's comments, most recent first.
func (s *Store) commentsForUser(q Querier, userID uuid.UUID) ([]models.Comment, error) {
	rows, err := q.Query(
		`SELECT `+commentTable.columns+` FROM post_comments WHERE user_id = $1 ORDER BY datetime DESC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("list user comments: %w", err)
	}
	defer rows.Close()

	var comments []models.Comment
	for rows.Next() {
		c, err := commentTable.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan comment: %w", err)
		}
		comments = append(comments, *c)
	}
	return comments, rows.Err()
}
