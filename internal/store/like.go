package store

import (
	"fmt"

	"github.com/google/uuid"

	"ratepoint/internal/entity"
	"ratepoint/internal/models"
)

var likeSpec = entity.Spec{
	Kind:     "like",
	Required: []string{"user|user_id", "post|post_id"},
}

// CreateLike records that a user liked a post, resolving both references by
// id or materialized record. The (user, post) pair is the identity; liking
// the same post twice fails with ErrUniqueViolation.
func (s *Store) CreateLike(q Querier, f entity.Fields) (*models.Like, error) {
	if err := likeSpec.Check(f); err != nil {
		return nil, err
	}
	userID, err := s.resolveUserRef(q, f)
	if err != nil {
		return nil, err
	}
	postID, err := s.resolvePostRef(q, f)
	if err != nil {
		return nil, err
	}
	_, err = q.Exec(
		`INSERT INTO post_likes (user_id, post_id) VALUES ($1, $2)`, userID, postID)
	if err != nil {
		return nil, fmt.Errorf("insert like: %w", entity.TranslateConstraint(err))
	}
	return &models.Like{UserID: userID, PostID: postID}, nil
}

// GetLike returns the like for a (user, post) pair, or nil when absent.
func (s *Store) GetLike(q Querier, userID, postID uuid.UUID) (*models.Like, error) {
	var n int
	err := q.QueryRow(
		`SELECT COUNT(*) FROM post_likes WHERE user_id = $1 AND post_id = $2`,
		userID, postID).Scan(&n)
	if err != nil {
		return nil, fmt.Errorf("fetch like: %w", err)
	}
	if n == 0 {
		return nil, nil
	}
	return &models.Like{UserID: userID, PostID: postID}, nil
}

// DeleteLike removes the like for a (user, post) pair. An absent pair is
// reported as ErrNotFound.
func (s *Store) DeleteLike(q Querier, userID, postID uuid.UUID) error {
	res, err := q.Exec(
		`DELETE FROM post_likes WHERE user_id = $1 AND post_id = $2`, userID, postID)
	if err != nil {
		return fmt.Errorf("delete like: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete like: %w", err)
	}
	if n == 0 {
		return entity.ErrNotFound
	}
	return nil
}

// likingUsers returns the ids of all users who liked one post.
func (s *Store) likingUsers(q Querier, postID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := q.Query(
		`SELECT user_id FROM post_likes WHERE post_id = $1`, postID)
	if err != nil {
		return nil, fmt.Errorf("list likes: %w", err)
	}
	defer rows.Close()

	var users []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan like: %w", err)
		}
		users = append(users, id)
	}
	return users, rows.Err()
}

// likedPosts returns the posts a user liked, most recent first.
func (s *Store) likedPosts(q Querier, userID uuid.UUID) ([]models.Post, error) {
	return s.queryPosts(q, `
		SELECT `+postTable.columns+`
		FROM posts
		JOIN post_likes pl ON pl.post_id = posts.id
		WHERE pl.user_id = $1
		ORDER BY post_datetime DESC`, userID)
}
