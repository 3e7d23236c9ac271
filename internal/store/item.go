package store

import (
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"ratepoint/internal/entity"
	"ratepoint/internal/models"
)

var itemSpec = entity.Spec{
	Kind:     "item",
	Required: []string{"item_name", "category|category_id"},
	Optional: []string{"location", "location_id"},
}

var itemTable = table[models.Item]{
	name:     "items",
	idColumn: "id",
	columns:  "id, name, category_id, location_id",
	scan: func(r rowScanner) (*models.Item, error) {
		var it models.Item
		if err := r.Scan(&it.ID, &it.Name, &it.CategoryID, &it.LocationID); err != nil {
			return nil, err
		}
		return &it, nil
	},
}

// CreateItem validates the field set, resolves the required category
// reference and the optional location reference (each by id, inline
// definition, or materialized record), and inserts the item. Inline
// children are created first, inside the same transaction.
func (s *Store) CreateItem(q Querier, f entity.Fields) (*models.Item, error) {
	if err := itemSpec.Check(f); err != nil {
		return nil, err
	}
	name, ok := f.String("item_name")
	if !ok {
		return nil, &entity.FieldError{Kind: "item", Field: "item_name", Reason: entity.FieldInvalid}
	}

	categoryID, err := s.resolveItemCategory(q, f)
	if err != nil {
		return nil, err
	}

	var locationID *uuid.UUID
	if f.Has("location") || f.Has("location_id") {
		id, err := s.resolveItemLocation(q, f)
		if err != nil {
			return nil, err
		}
		locationID = &id
	}

	it, err := insertReturning(q, itemTable,
		[]string{"name", "category_id", "location_id"},
		[]any{name, categoryID, locationID})
	if err != nil {
		return nil, err
	}
	return s.projectItem(q, it)
}

func (s *Store) resolveItemCategory(q Querier, f entity.Fields) (uuid.UUID, error) {
	raw, ok := f["category"]
	if !ok {
		raw = f["category_id"]
	}
	rel, err := entity.ParseRelation(raw, "category_id", func(v any) (uuid.UUID, bool) {
		if c, ok := v.(*models.Category); ok {
			return c.ID, true
		}
		if c, ok := v.(models.Category); ok {
			return c.ID, true
		}
		return uuid.Nil, false
	})
	if err != nil {
		return uuid.Nil, err
	}
	switch rel.Shape {
	case entity.ShapeID, entity.ShapeHandle:
		cat, err := fetchByID(q, categoryTable, rel.ID)
		if err != nil {
			return uuid.Nil, err
		}
		if cat == nil {
			return uuid.Nil, fmt.Errorf("%w: category %s", entity.ErrNotFound, rel.ID)
		}
		return cat.ID, nil
	case entity.ShapeInline:
		cat, err := s.CreateCategory(q, rel.Fields)
		if err != nil {
			return uuid.Nil, err
		}
		return cat.ID, nil
	}
	return uuid.Nil, fmt.Errorf("%w: item category", entity.ErrInvalidRelationShape)
}

func (s *Store) resolveItemLocation(q Querier, f entity.Fields) (uuid.UUID, error) {
	raw, ok := f["location"]
	if !ok {
		raw = f["location_id"]
	}
	rel, err := entity.ParseRelation(raw, "location_id", func(v any) (uuid.UUID, bool) {
		if l, ok := v.(*models.Location); ok {
			return l.ID, true
		}
		if l, ok := v.(models.Location); ok {
			return l.ID, true
		}
		return uuid.Nil, false
	})
	if err != nil {
		return uuid.Nil, err
	}
	switch rel.Shape {
	case entity.ShapeID, entity.ShapeHandle:
		loc, err := fetchByID(q, locationTable, rel.ID)
		if err != nil {
			return uuid.Nil, err
		}
		if loc == nil {
			return uuid.Nil, fmt.Errorf("%w: location %s", entity.ErrNotFound, rel.ID)
		}
		return loc.ID, nil
	case entity.ShapeInline:
		loc, err := s.CreateLocation(q, rel.Fields)
		if err != nil {
			return uuid.Nil, err
		}
		return loc.ID, nil
	}
	return uuid.Nil, fmt.Errorf("%w: item location", entity.ErrInvalidRelationShape)
}

// GetItem returns an item with its derived category path, projected
// location, mean rating, and posts, or nil when absent.
func (s *Store) GetItem(q Querier, id uuid.UUID) (*models.Item, error) {
	it, err := fetchByID(q, itemTable, id)
	if err != nil || it == nil {
		return it, err
	}
	if it, err = s.projectItem(q, it); err != nil {
		return nil, err
	}
	it.Posts, err = s.postsForItem(q, it.ID)
	if err != nil {
		return nil, err
	}
	return it, nil
}

// AllItems returns every item with derived fields, without their posts.
func (s *Store) AllItems(q Querier) ([]models.Item, error) {
	items, err := fetchAll(q, itemTable, "name")
	if err != nil {
		return nil, err
	}
	for i := range items {
		p, err := s.projectItem(q, &items[i])
		if err != nil {
			return nil, err
		}
		items[i] = *p
	}
	return items, nil
}

// itemsInCategory returns the projected items directly in one category.
func (s *Store) itemsInCategory(q Querier, categoryID uuid.UUID) ([]models.Item, error) {
	rows, err := q.Query(
		`SELECT `+itemTable.columns+` FROM items WHERE category_id = $1 ORDER BY name`,
		categoryID)
	if err != nil {
		return nil, fmt.Errorf("list category items: %w", err)
	}
	defer rows.Close()

	var items []models.Item
	for rows.Next() {
		it, err := itemTable.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, *it)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range items {
		p, err := s.projectItem(q, &items[i])
		if err != nil {
			return nil, err
		}
		items[i] = *p
	}
	return items, nil
}

// projectItem fills the derived fields of an item: the category path, the
// optional location, and the mean rating over its rated posts.
func (s *Store) projectItem(q Querier, it *models.Item) (*models.Item, error) {
	var err error
	it.Category, err = s.CategoryPath(q, it.CategoryID)
	if err != nil {
		return nil, err
	}
	if it.LocationID != nil {
		loc, err := fetchByID(q, locationTable, *it.LocationID)
		if err != nil {
			return nil, err
		}
		it.Location = models.OptionalLocation{Location: loc}
	}
	it.Rating, err = s.itemRating(q, it.ID)
	if err != nil {
		return nil, err
	}
	return it, nil
}

// itemRating returns the mean of all non-null post ratings for an item, or
// nil when no rated posts exist.
func (s *Store) itemRating(q Querier, itemID uuid.UUID) (*float64, error) {
	var avg sql.NullFloat64
	err := q.QueryRow(
		`SELECT AVG(rating) FROM posts WHERE item_id = $1 AND rating IS NOT NULL`,
		itemID).Scan(&avg)
	if err != nil {
		return nil, fmt.Errorf("item rating: %w", err)
	}
	if !avg.Valid {
		return nil, nil
	}
	return &avg.Float64, nil
}

// DeleteItem removes an item. Posts referencing the item block the deletion
// through the foreign key and surface as ErrReferenced; the shared category
// and location are never touched.
func (s *Store) DeleteItem(q Querier, id uuid.UUID) error {
	return deleteRow(q, "items", "id", id)
}
