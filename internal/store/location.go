package store

import (
	"fmt"

	"github.com/google/uuid"

	"ratepoint/internal/entity"
	"ratepoint/internal/models"
)

var locationSpec = entity.Spec{
	Kind:     "location",
	Required: []string{"lat", "lon"},
	Optional: []string{"address"},
}

var locationTable = table[models.Location]{
	name:     "locations",
	idColumn: "id",
	columns:  "id, lat, lon, address",
	scan: func(r rowScanner) (*models.Location, error) {
		var l models.Location
		if err := r.Scan(&l.ID, &l.Lat, &l.Lon, &l.Address); err != nil {
			return nil, err
		}
		return &l, nil
	},
}

// CreateLocation validates the field set and inserts a location.
func (s *Store) CreateLocation(q Querier, f entity.Fields) (*models.Location, error) {
	if err := locationSpec.Check(f); err != nil {
		return nil, err
	}
	lat, ok := f.Float("lat")
	if !ok {
		return nil, &entity.FieldError{Kind: "location", Field: "lat", Reason: entity.FieldInvalid}
	}
	lon, ok := f.Float("lon")
	if !ok {
		return nil, &entity.FieldError{Kind: "location", Field: "lon", Reason: entity.FieldInvalid}
	}
	var address *string
	if addr, ok := f.String("address"); ok {
		address = &addr
	}
	return insertReturning(q, locationTable,
		[]string{"lat", "lon", "address"},
		[]any{lat, lon, address})
}

// GetLocation returns a location by id, or nil when absent.
func (s *Store) GetLocation(q Querier, id uuid.UUID) (*models.Location, error) {
	return fetchByID(q, locationTable, id)
}

// AllLocations returns every location.
func (s *Store) AllLocations(q Querier) ([]models.Location, error) {
	return fetchAll(q, locationTable, "lat, lon")
}

// DeleteLocation removes a location unless items still reference it.
// Locations are shared references, so deletion is restricted rather than
// cascaded into the items that point at them.
func (s *Store) DeleteLocation(q Querier, id uuid.UUID) error {
	var n int
	err := q.QueryRow(
		`SELECT COUNT(*) FROM items WHERE location_id = $1`, id).Scan(&n)
	if err != nil {
		return fmt.Errorf("count location references: %w", err)
	}
	if n > 0 {
		return fmt.Errorf("%w: %d items at location %s", entity.ErrReferenced, n, id)
	}
	return deleteRow(q, "locations", "id", id)
}
