package store

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"ratepoint/internal/entity"
	"ratepoint/internal/hashing"
	"ratepoint/internal/models"
)

func TestCreateUserHashesCredentials(t *testing.T) {
	s, db := testStore(t)

	email := "hash-" + uuid.NewString() + "@example.com"
	secondary := "alt-" + uuid.NewString()
	var u *models.User
	err := s.InTx(func(q Querier) error {
		var err error
		u, err = s.CreateUser(q, entity.Fields{
			"email_address":   email,
			"password":        "correct horse battery staple",
			"secondary_login": secondary,
		})
		return err
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	cleanupRow(t, db, "users", u.ID)

	for name, digest := range map[string]string{
		"email_address":   u.EmailAddress,
		"password":        u.Password,
		"secondary_login": *u.SecondaryLogin,
	} {
		if len(digest) != hashing.DigestLen {
			t.Errorf("%s digest length: got %d, want %d", name, len(digest), hashing.DigestLen)
		}
	}
	if u.EmailAddress == email {
		t.Errorf("email stored in the clear")
	}
	if u.Status != models.UserStatusActive {
		t.Errorf("Status: got %q, want %q", u.Status, models.UserStatusActive)
	}
}

func TestCreateUserInvalidStatus(t *testing.T) {
	s, _ := testStore(t)

	var fieldErr *entity.FieldError
	err := s.InTx(func(q Querier) error {
		_, err := s.CreateUser(q, entity.Fields{
			"email_address":   "status-" + uuid.NewString() + "@example.com",
			"secondary_login": "alt-" + uuid.NewString(),
			"password":        "pw",
			"status":          "banished",
		})
		return err
	})
	if !errors.As(err, &fieldErr) || fieldErr.Reason != entity.FieldInvalid {
		t.Errorf("expected invalid-field error for status, got %v", err)
	}
}

func TestCreateUserRequiresSecondaryLogin(t *testing.T) {
	s, _ := testStore(t)

	var fieldErr *entity.FieldError
	_, err := s.CreateUser(s.Reader(), entity.Fields{
		"email_address": "nosecond-" + uuid.NewString() + "@example.com",
		"password":      "pw",
	})
	if !errors.As(err, &fieldErr) || fieldErr.Reason != entity.FieldMissing {
		t.Errorf("expected missing-field error for secondary_login, got %v", err)
	}
	if fieldErr != nil && fieldErr.Field != "secondary_login" {
		t.Errorf("Field: got %q, want %q", fieldErr.Field, "secondary_login")
	}
}

func TestFriendsBothDirections(t *testing.T) {
	s, db := testStore(t)

	center := mustCreateUser(t, s, db)
	initiated := mustCreateUser(t, s, db)
	received := mustCreateUser(t, s, db)
	pending := mustCreateUser(t, s, db)

	err := s.InTx(func(q Querier) error {
		if err := s.CreateRelationship(q, models.Relationship{
			FirstUserID: center.ID, SecondUserID: initiated.ID,
			Type: models.RelationshipFriends,
		}); err != nil {
			return err
		}
		if err := s.CreateRelationship(q, models.Relationship{
			FirstUserID: received.ID, SecondUserID: center.ID,
			Type: models.RelationshipFriends,
		}); err != nil {
			return err
		}
		return s.CreateRelationship(q, models.Relationship{
			FirstUserID: center.ID, SecondUserID: pending.ID,
			Type: models.RelationshipPendingFirstSecond,
		})
	})
	if err != nil {
		t.Fatalf("create relationships: %v", err)
	}
	t.Cleanup(func() {
		db.Exec("DELETE FROM user_relationships WHERE first_user_id = $1 OR second_user_id = $1", center.ID)
	})

	friends, err := s.Friends(s.Reader(), center.ID)
	if err != nil {
		t.Fatalf("Friends: %v", err)
	}
	got := map[uuid.UUID]bool{}
	for _, id := range friends {
		got[id] = true
	}
	if !got[initiated.ID] || !got[received.ID] {
		t.Errorf("friends from both edge directions expected, got %v", friends)
	}
	if got[pending.ID] {
		t.Errorf("pending relationship must not count as friendship")
	}
}

func TestCreateRelationshipInvalidType(t *testing.T) {
	s, db := testStore(t)

	a := mustCreateUser(t, s, db)
	b := mustCreateUser(t, s, db)

	var fieldErr *entity.FieldError
	err := s.InTx(func(q Querier) error {
		return s.CreateRelationship(q, models.Relationship{
			FirstUserID: a.ID, SecondUserID: b.ID, Type: "nemesis",
		})
	})
	if !errors.As(err, &fieldErr) || fieldErr.Reason != entity.FieldInvalid {
		t.Errorf("expected invalid-field error for type, got %v", err)
	}
}

func TestLikeLifecycle(t *testing.T) {
	s, db := testStore(t)

	user := mustCreateUser(t, s, db)
	it := mustCreateItem(t, s, db, "liked-"+uuid.NewString())
	post := mustCreatePost(t, s, db, entity.Fields{"item_id": it.ID, "user_id": user.ID})

	err := s.InTx(func(q Querier) error {
		_, err := s.CreateLike(q, entity.Fields{"user_id": user.ID, "post_id": post.ID})
		return err
	})
	if err != nil {
		t.Fatalf("create like: %v", err)
	}

	err = s.InTx(func(q Querier) error {
		_, err := s.CreateLike(q, entity.Fields{"user_id": user.ID, "post_id": post.ID})
		return err
	})
	if !errors.Is(err, entity.ErrUniqueViolation) {
		t.Errorf("expected ErrUniqueViolation for duplicate like, got %v", err)
	}

	like, err := s.GetLike(s.Reader(), user.ID, post.ID)
	if err != nil {
		t.Fatalf("GetLike: %v", err)
	}
	if like == nil {
		t.Fatal("expected like to exist")
	}

	got, err := s.GetPost(s.Reader(), post.ID)
	if err != nil {
		t.Fatalf("GetPost: %v", err)
	}
	if len(got.LikedBy) != 1 || got.LikedBy[0] != user.ID {
		t.Errorf("LikedBy: got %v, want [%s]", got.LikedBy, user.ID)
	}

	err = s.InTx(func(q Querier) error {
		return s.DeleteLike(q, user.ID, post.ID)
	})
	if err != nil {
		t.Fatalf("DeleteLike: %v", err)
	}
	if like, _ := s.GetLike(s.Reader(), user.ID, post.ID); like != nil {
		t.Errorf("like should be gone")
	}

	err = s.InTx(func(q Querier) error {
		return s.DeleteLike(q, user.ID, post.ID)
	})
	if !errors.Is(err, entity.ErrNotFound) {
		t.Errorf("expected ErrNotFound deleting an absent like, got %v", err)
	}
}

func TestGetUserProjections(t *testing.T) {
	s, db := testStore(t)

	user := mustCreateUser(t, s, db)
	other := mustCreateUser(t, s, db)
	it := mustCreateItem(t, s, db, "proj-"+uuid.NewString())

	own := mustCreatePost(t, s, db, entity.Fields{"item_id": it.ID, "user_id": user.ID})
	liked := mustCreatePost(t, s, db, entity.Fields{"item_id": it.ID, "user_id": other.ID})
	err := s.InTx(func(q Querier) error {
		if _, err := s.CreateLike(q, entity.Fields{"user_id": user.ID, "post_id": liked.ID}); err != nil {
			return err
		}
		_, err := s.CreateComment(q, entity.Fields{
			"comment": "nice one", "user_id": user.ID, "post_id": liked.ID,
		})
		return err
	})
	if err != nil {
		t.Fatalf("create like and comment: %v", err)
	}

	got, err := s.GetUser(s.Reader(), user.ID)
	if err != nil {
		t.Fatalf("GetUser: %v", err)
	}
	if len(got.Posts) != 1 || got.Posts[0].ID != own.ID {
		t.Errorf("Posts projection: got %+v", got.Posts)
	}
	if len(got.LikedPosts) != 1 || got.LikedPosts[0].ID != liked.ID {
		t.Errorf("LikedPosts projection: got %+v", got.LikedPosts)
	}
	if len(got.Comments) != 1 {
		t.Errorf("Comments projection: got %+v", got.Comments)
	}
}

func TestDeleteUserRestrictedByPosts(t *testing.T) {
	s, db := testStore(t)

	user := mustCreateUser(t, s, db)
	it := mustCreateItem(t, s, db, "keepuser-"+uuid.NewString())
	mustCreatePost(t, s, db, entity.Fields{"item_id": it.ID, "user_id": user.ID})

	err := s.InTx(func(q Querier) error {
		return s.DeleteUser(q, user.ID)
	})
	if !errors.Is(err, entity.ErrReferenced) {
		t.Errorf("expected ErrReferenced deleting a user with posts, got %v", err)
	}
}
