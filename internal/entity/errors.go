// Package entity defines the building blocks of the generic persistence
// engine: field-set validation against per-kind specs, relation-input
// classification, the kind registry, and the error taxonomy shared by the
// store layer and the REST façade.
package entity

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	// ErrNotFound is returned when a delete targets an id that does not
	// resolve. Fetch misses are not errors — they return a nil record.
	ErrNotFound = errors.New("ratepoint: entity not found")

	// ErrReferenced is returned when a restrict-mode deletion is blocked
	// because other rows still reference the entity.
	ErrReferenced = errors.New("ratepoint: entity is still referenced")

	// ErrUniqueViolation is returned when a unique constraint is violated,
	// e.g. creating a tag whose normalized name already exists.
	ErrUniqueViolation = errors.New("ratepoint: unique constraint violated")

	// ErrInvalidRelationShape is returned when a relation field value is
	// neither an id reference, an inline definition, a materialized handle,
	// nor (where supported) a bare name.
	ErrInvalidRelationShape = errors.New("ratepoint: invalid relation shape")

	// ErrInvalidSearchInput is returned when search input contains
	// characters outside the allow-listed alphanumeric/space/underscore set.
	ErrInvalidSearchInput = errors.New("ratepoint: invalid search input")

	// ErrInvariant is returned on invariant violations such as a category
	// parent cycle or a malformed credential digest.
	ErrInvariant = errors.New("ratepoint: invariant violation")
)

// FieldReason classifies why a field failed validation.
type FieldReason string

const (
	FieldMissing    FieldReason = "missing"
	FieldUnexpected FieldReason = "unexpected"
	FieldInvalid    FieldReason = "invalid"
)

// FieldError reports a field-set validation failure. It is always detected
// before any write is issued.
type FieldError struct {
	Kind   string
	Field  string
	Reason FieldReason
}

// Error implements the error interface.
func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s field %q", e.Kind, e.Reason, e.Field)
}

// PostgreSQL SQLSTATE codes for the constraint classes the engine
// distinguishes.
const (
	sqlstateUniqueViolation     = "23505"
	sqlstateForeignKeyViolation = "23503"
)

// TranslateConstraint maps a PostgreSQL constraint violation into the error
// taxonomy. Uniqueness conflicts become ErrUniqueViolation, foreign-key
// conflicts ErrReferenced. Any other error is returned unchanged.
func TranslateConstraint(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case sqlstateUniqueViolation:
		return fmt.Errorf("%w (%s)", ErrUniqueViolation, pgErr.ConstraintName)
	case sqlstateForeignKeyViolation:
		return fmt.Errorf("%w (%s)", ErrReferenced, pgErr.ConstraintName)
	}
	return err
}
