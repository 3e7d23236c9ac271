package store

import (
	"fmt"

	"github.com/google/uuid"

	"ratepoint/internal/entity"
	"ratepoint/internal/hashing"
	"ratepoint/internal/models"
)

var userSpec = entity.Spec{
	Kind:     "user",
	Required: []string{"email_address", "secondary_login", "password"},
	Optional: []string{"status"},
}

var userTable = table[models.User]{
	name:     "users",
	idColumn: "id",
	columns:  "id, email_address, secondary_login, password, account_creation_date, status",
	scan: func(r rowScanner) (*models.User, error) {
		var u models.User
		err := r.Scan(&u.ID, &u.EmailAddress, &u.SecondaryLogin, &u.Password,
			&u.AccountCreationDate, &u.Status)
		if err != nil {
			return nil, err
		}
		return &u, nil
	},
}

// CreateUser validates the field set, hashes all three credentials, and
// inserts the user. Credentials are never stored in the clear; a digest of
// the wrong length is an invariant violation caught before the write.
func (s *Store) CreateUser(q Querier, f entity.Fields) (*models.User, error) {
	if err := userSpec.Check(f); err != nil {
		return nil, err
	}
	email, ok := f.String("email_address")
	if !ok || email == "" {
		return nil, &entity.FieldError{Kind: "user", Field: "email_address", Reason: entity.FieldInvalid}
	}
	secondary, ok := f.String("secondary_login")
	if !ok || secondary == "" {
		return nil, &entity.FieldError{Kind: "user", Field: "secondary_login", Reason: entity.FieldInvalid}
	}
	password, ok := f.String("password")
	if !ok || password == "" {
		return nil, &entity.FieldError{Kind: "user", Field: "password", Reason: entity.FieldInvalid}
	}

	emailDigest, err := s.digest(email)
	if err != nil {
		return nil, err
	}
	secondaryDigest, err := s.digest(secondary)
	if err != nil {
		return nil, err
	}
	passwordDigest, err := s.digest(password)
	if err != nil {
		return nil, err
	}

	status := models.UserStatusActive
	if raw, ok := f.String("status"); ok {
		status = models.UserStatus(raw)
		if !status.Valid() {
			return nil, &entity.FieldError{Kind: "user", Field: "status", Reason: entity.FieldInvalid}
		}
	}

	return insertReturning(q, userTable,
		[]string{"email_address", "secondary_login", "password", "status"},
		[]any{emailDigest, secondaryDigest, passwordDigest, string(status)})
}

// resolveUserRef resolves a user reference from either the "user" key (id
// map or materialized user) or a bare "user_id". Inline definitions are
// rejected: comments and likes never create their author.
func (s *Store) resolveUserRef(q Querier, f entity.Fields) (uuid.UUID, error) {
	raw, ok := f["user"]
	if !ok {
		raw = f["user_id"]
	}
	rel, err := entity.ParseRelation(raw, "user_id", func(v any) (uuid.UUID, bool) {
		if u, ok := v.(*models.User); ok {
			return u.ID, true
		}
		if u, ok := v.(models.User); ok {
			return u.ID, true
		}
		return uuid.Nil, false
	})
	if err != nil {
		return uuid.Nil, err
	}
	if rel.Shape == entity.ShapeID || rel.Shape == entity.ShapeHandle {
		u, err := fetchByID(q, userTable, rel.ID)
		if err != nil {
			return uuid.Nil, err
		}
		if u == nil {
			return uuid.Nil, fmt.Errorf("%w: user %s", entity.ErrNotFound, rel.ID)
		}
		return u.ID, nil
	}
	return uuid.Nil, fmt.Errorf("%w: user reference", entity.ErrInvalidRelationShape)
}

// digest hashes one credential and checks the fixed digest length.
func (s *Store) digest(plain string) (string, error) {
	d, err := s.hasher.Hash(plain)
	if err != nil {
		return "", fmt.Errorf("hash credential: %w", err)
	}
	if len(d) != hashing.DigestLen {
		return "", fmt.Errorf("%w: credential digest length %d", entity.ErrInvariant, len(d))
	}
	return d, nil
}

// GetUser returns a user with their posts, comments, and liked posts, or
// nil when absent. Credential digests stay internal and never serialize.
func (s *Store) GetUser(q Querier, id uuid.UUID) (*models.User, error) {
	u, err := fetchByID(q, userTable, id)
	if err != nil || u == nil {
		return u, err
	}
	u.Posts, err = s.postsForUser(q, u.ID)
	if err != nil {
		return nil, err
	}
	u.Comments, err = s.commentsForUser(q, u.ID)
	if err != nil {
		return nil, err
	}
	u.LikedPosts, err = s.likedPosts(q, u.ID)
	if err != nil {
		return nil, err
	}
	return u, nil
}

// AllUsers returns every user without their association projections.
func (s *Store) AllUsers(q Querier) ([]models.User, error) {
	return fetchAll(q, userTable, "account_creation_date, id")
}

// DeleteUser removes a user. Posts, comments, likes, or relationships still
// referencing the user block the deletion and surface as ErrReferenced.
func (s *Store) DeleteUser(q Querier, id uuid.UUID) error {
	return deleteRow(q, "users", "id", id)
}

// CreateRelationship records an edge between two users. The type must be
// one of the seeded relationship types.
func (s *Store) CreateRelationship(q Querier, rel models.Relationship) error {
	if !rel.Type.Valid() {
		return &entity.FieldError{Kind: "relationship", Field: "type", Reason: entity.FieldInvalid}
	}
	_, err := q.Exec(`
		INSERT INTO user_relationships (first_user_id, second_user_id, type)
		VALUES ($1, $2, $3)`,
		rel.FirstUserID, rel.SecondUserID, string(rel.Type))
	if err != nil {
		return fmt.Errorf("insert relationship: %w", entity.TranslateConstraint(err))
	}
	return nil
}

// Friends returns the ids of everyone in a "friends" relationship with the
// user, regardless of which side of the edge the user was recorded on.
func (s *Store) Friends(q Querier, userID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := q.Query(`
		SELECT second_user_id FROM user_relationships
		WHERE first_user_id = $1 AND type = $2
		UNION
		SELECT first_user_id FROM user_relationships
		WHERE second_user_id = $1 AND type = $2`,
		userID, string(models.RelationshipFriends))
	if err != nil {
		return nil, fmt.Errorf("list friends: %w", err)
	}
	defer rows.Close()

	var friends []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan friend: %w", err)
		}
		friends = append(friends, id)
	}
	return friends, rows.Err()
}
