// Package models defines the data structures that map to database tables
// and provides the core types used throughout the application.
package models

import (
	"encoding/json"

	"github.com/google/uuid"
)

// Location is a geographic point an item can be attached to. Locations are
// shared references: items point at them but never own them.
type Location struct {
	ID      uuid.UUID `json:"location_id"`
	Lat     float64   `json:"lat"`
	Lon     float64   `json:"lon"`
	Address *string   `json:"address,omitempty"`
}

// OptionalLocation projects a possibly-absent location. An absent location
// marshals as an empty object rather than null, matching the wire format of
// item projections.
type OptionalLocation struct {
	*Location
}

// MarshalJSON implements json.Marshaler.
func (l OptionalLocation) MarshalJSON() ([]byte, error) {
	if l.Location == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(l.Location)
}
