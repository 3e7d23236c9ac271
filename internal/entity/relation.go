package entity

import (
	"fmt"

	"github.com/google/uuid"
)

// Shape identifies how a relation field value was supplied.
type Shape int

const (
	// ShapeID references an existing child by its identity.
	ShapeID Shape = iota

	// ShapeInline carries a full field set for a child to create on demand.
	ShapeInline

	// ShapeHandle is an already-materialized record of the expected kind.
	ShapeHandle

	// ShapeName is a bare string, supported only by kinds with name-based
	// lookup (tags) or name-based creation (photo file names).
	ShapeName
)

// String returns the shape name for error messages and logs.
func (s Shape) String() string {
	switch s {
	case ShapeID:
		return "id"
	case ShapeInline:
		return "inline"
	case ShapeHandle:
		return "handle"
	case ShapeName:
		return "name"
	}
	return "unknown"
}

// RelationInput is the classified value of a relation field. Exactly one of
// ID, Fields, or Name is meaningful, selected by Shape.
type RelationInput struct {
	Shape  Shape
	ID     uuid.UUID
	Fields Fields
	Name   string
}

// HandleFunc extracts the identity from an already-materialized record of
// the expected kind, reporting false for anything else.
type HandleFunc func(v any) (uuid.UUID, bool)

// ParseRelation classifies a relation field value of unknown shape. A map
// containing idKey is a reference by id; a map without it is an inline
// definition; a string is a reference by id when it parses as a uuid
// (JSON delivers every id as a string) and a bare name otherwise; a value
// recognized by handle is a materialized record. Anything else fails with
// ErrInvalidRelationShape.
func ParseRelation(v any, idKey string, handle HandleFunc) (RelationInput, error) {
	if handle != nil {
		if id, ok := handle(v); ok {
			return RelationInput{Shape: ShapeHandle, ID: id}, nil
		}
	}
	switch val := v.(type) {
	case map[string]any:
		return parseRelationMap(Fields(val), idKey)
	case Fields:
		return parseRelationMap(val, idKey)
	case string:
		// Names are lowercase words, never valid uuids, so the two
		// readings cannot collide.
		if id, err := uuid.Parse(val); err == nil {
			return RelationInput{Shape: ShapeID, ID: id}, nil
		}
		return RelationInput{Shape: ShapeName, Name: val}, nil
	case uuid.UUID:
		return RelationInput{Shape: ShapeID, ID: val}, nil
	}
	return RelationInput{}, fmt.Errorf("%w: %T for %s", ErrInvalidRelationShape, v, idKey)
}

func parseRelationMap(f Fields, idKey string) (RelationInput, error) {
	if !f.Has(idKey) {
		return RelationInput{Shape: ShapeInline, Fields: f}, nil
	}
	id, ok := f.UUID(idKey)
	if !ok {
		return RelationInput{}, fmt.Errorf("%w: malformed %s", ErrInvalidRelationShape, idKey)
	}
	return RelationInput{Shape: ShapeID, ID: id}, nil
}
