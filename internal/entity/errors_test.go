package entity

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func TestTranslateConstraint(t *testing.T) {
	t.Run("unique violation", func(t *testing.T) {
		src := &pgconn.PgError{Code: "23505", ConstraintName: "tags_name_key"}
		err := TranslateConstraint(fmt.Errorf("insert tags: %w", src))
		if !errors.Is(err, ErrUniqueViolation) {
			t.Errorf("expected ErrUniqueViolation, got %v", err)
		}
	})

	t.Run("foreign key violation", func(t *testing.T) {
		src := &pgconn.PgError{Code: "23503", ConstraintName: "posts_item_id_fkey"}
		err := TranslateConstraint(src)
		if !errors.Is(err, ErrReferenced) {
			t.Errorf("expected ErrReferenced, got %v", err)
		}
	})

	t.Run("other errors pass through", func(t *testing.T) {
		src := errors.New("connection refused")
		if got := TranslateConstraint(src); got != src {
			t.Errorf("expected unchanged error, got %v", got)
		}
		other := &pgconn.PgError{Code: "42P01"}
		if got := TranslateConstraint(other); !errors.As(got, new(*pgconn.PgError)) {
			t.Errorf("expected PgError to pass through, got %v", got)
		}
	})

	t.Run("nil stays nil", func(t *testing.T) {
		if TranslateConstraint(nil) != nil {
			t.Error("nil should stay nil")
		}
	})
}

func TestFieldErrorMessage(t *testing.T) {
	err := &FieldError{Kind: "post", Field: "rating", Reason: FieldInvalid}
	want := `post: invalid field "rating"`
	if err.Error() != want {
		t.Errorf("got %q, want %q", err.Error(), want)
	}
}
