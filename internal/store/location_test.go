package store

import (
	"errors"
	"testing"

	"github.com/google/uuid"

	"ratepoint/internal/entity"
	"ratepoint/internal/models"
)

func TestCreateLocationFields(t *testing.T) {
	s, db := testStore(t)

	var loc *models.Location
	err := s.InTx(func(q Querier) error {
		var err error
		loc, err = s.CreateLocation(q, entity.Fields{
			"lat": 45.5, "lon": 25.3, "address": "Bran",
		})
		return err
	})
	if err != nil {
		t.Fatalf("create location: %v", err)
	}
	cleanupRow(t, db, "locations", loc.ID)

	if loc.Lat != 45.5 || loc.Lon != 25.3 {
		t.Errorf("coordinates: got (%v, %v)", loc.Lat, loc.Lon)
	}
	if loc.Address == nil || *loc.Address != "Bran" {
		t.Errorf("Address: got %v", loc.Address)
	}
}

func TestCreateLocationMissingLon(t *testing.T) {
	s, _ := testStore(t)

	var fieldErr *entity.FieldError
	_, err := s.CreateLocation(s.Reader(), entity.Fields{"lat": 45.5})
	if !errors.As(err, &fieldErr) || fieldErr.Reason != entity.FieldMissing {
		t.Errorf("expected missing-field error for lon, got %v", err)
	}
}

func TestDeleteLocationRestrictedThenAllowed(t *testing.T) {
	s, db := testStore(t)

	var loc *models.Location
	var it *models.Item
	err := s.InTx(func(q Querier) error {
		var err error
		loc, err = s.CreateLocation(q, entity.Fields{"lat": 1.0, "lon": 2.0})
		if err != nil {
			return err
		}
		it, err = s.CreateItem(q, entity.Fields{
			"item_name":   "pinned-" + uuid.NewString(),
			"category":    map[string]any{"category_name": "pin-" + uuid.NewString()},
			"location_id": loc.ID,
		})
		return err
	})
	if err != nil {
		t.Fatalf("create fixtures: %v", err)
	}
	cleanupRow(t, db, "categories", it.CategoryID)
	cleanupRow(t, db, "locations", loc.ID)
	cleanupRow(t, db, "items", it.ID)

	err = s.InTx(func(q Querier) error {
		return s.DeleteLocation(q, loc.ID)
	})
	if !errors.Is(err, entity.ErrReferenced) {
		t.Fatalf("expected ErrReferenced while an item points at the location, got %v", err)
	}

	err = s.InTx(func(q Querier) error {
		if err := s.DeleteItem(q, it.ID); err != nil {
			return err
		}
		return s.DeleteLocation(q, loc.ID)
	})
	if err != nil {
		t.Fatalf("delete item then location: %v", err)
	}

	gone, err := s.GetLocation(s.Reader(), loc.ID)
	if err != nil {
		t.Fatalf("GetLocation: %v", err)
	}
	if gone != nil {
		t.Errorf("location should be gone after its last item was removed")
	}
}
