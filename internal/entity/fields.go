package entity

import (
	"strings"

	"github.com/google/uuid"
)

// Fields is a decoded field set for one entity, as it arrives from the
// façade (JSON object) or from an inline relation definition. Values carry
// JSON dynamic types: numbers are float64, ids are uuid strings.
type Fields map[string]any

// Has reports whether the key is present, regardless of its value.
func (f Fields) Has(key string) bool {
	_, ok := f[key]
	return ok
}

// String returns the value for key as a string.
func (f Fields) String(key string) (string, bool) {
	s, ok := f[key].(string)
	return s, ok
}

// Float returns the value for key as a float64, accepting ints too.
func (f Fields) Float(key string) (float64, bool) {
	switch v := f[key].(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	}
	return 0, false
}

// Int returns the value for key as an int. JSON numbers decode as float64;
// non-integral values are rejected.
func (f Fields) Int(key string) (int, bool) {
	switch v := f[key].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		if v != float64(int(v)) {
			return 0, false
		}
		return int(v), true
	}
	return 0, false
}

// Bool returns the value for key as a bool.
func (f Fields) Bool(key string) (bool, bool) {
	b, ok := f[key].(bool)
	return b, ok
}

// UUID returns the value for key as a uuid, accepting either a uuid.UUID
// value or its string form.
func (f Fields) UUID(key string) (uuid.UUID, bool) {
	switch v := f[key].(type) {
	case uuid.UUID:
		return v, true
	case string:
		id, err := uuid.Parse(v)
		if err != nil {
			return uuid.Nil, false
		}
		return id, true
	}
	return uuid.Nil, false
}

// List returns the value for key as a slice. A single non-slice value is
// wrapped into a one-element slice, matching the loose input the façade
// accepts for photos and tags.
func (f Fields) List(key string) ([]any, bool) {
	v, ok := f[key]
	if !ok {
		return nil, false
	}
	if l, ok := v.([]any); ok {
		return l, true
	}
	return []any{v}, true
}

// Spec declares the field surface of one entity kind. A Required entry may
// contain several "|"-separated alternatives, of which at least one must be
// supplied ("item|item_id").
type Spec struct {
	Kind     string
	Required []string
	Optional []string
}

// Check validates a field set against the spec: every required entry (or one
// of its alternatives) must be present, and no undeclared field may appear.
// Validation happens before any write.
func (s Spec) Check(f Fields) error {
	allowed := make(map[string]struct{})
	for _, req := range s.Required {
		alts := strings.Split(req, "|")
		found := false
		for _, alt := range alts {
			allowed[alt] = struct{}{}
			if f.Has(alt) {
				found = true
			}
		}
		if !found {
			return &FieldError{Kind: s.Kind, Field: req, Reason: FieldMissing}
		}
	}
	for _, opt := range s.Optional {
		allowed[opt] = struct{}{}
	}
	for key := range f {
		if _, ok := allowed[key]; !ok {
			return &FieldError{Kind: s.Kind, Field: key, Reason: FieldUnexpected}
		}
	}
	return nil
}
