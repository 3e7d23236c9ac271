package store

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"ratepoint/internal/entity"
	"ratepoint/internal/models"
)

var categorySpec = entity.Spec{
	Kind:     "category",
	Required: []string{"category_name"},
	Optional: []string{"parent", "parent_id"},
}

var categoryTable = table[models.Category]{
	name:     "categories",
	idColumn: "id",
	columns:  "id, name, parent_id",
	scan: func(r rowScanner) (*models.Category, error) {
		var c models.Category
		if err := r.Scan(&c.ID, &c.Name, &c.ParentID); err != nil {
			return nil, err
		}
		return &c, nil
	},
}

// CreateCategory validates the field set, resolves the optional parent
// reference (by id, inline definition, or materialized record), and inserts
// the category. An inline parent is created first, inside the same
// transaction.
func (s *Store) CreateCategory(q Querier, f entity.Fields) (*models.Category, error) {
	if err := categorySpec.Check(f); err != nil {
		return nil, err
	}
	name, ok := f.String("category_name")
	if !ok {
		return nil, &entity.FieldError{Kind: "category", Field: "category_name", Reason: entity.FieldInvalid}
	}

	var parentID *uuid.UUID
	if f.Has("parent") || f.Has("parent_id") {
		id, err := s.resolveCategoryRef(q, f)
		if err != nil {
			return nil, err
		}
		parentID = &id
	}

	cat, err := insertReturning(q, categoryTable,
		[]string{"name", "parent_id"},
		[]any{name, parentID})
	if err != nil {
		return nil, err
	}
	cat.Path, err = s.CategoryPath(q, cat.ID)
	if err != nil {
		return nil, err
	}
	return cat, nil
}

// resolveCategoryRef resolves a parent reference from either the "parent"
// key (id map, inline definition, or materialized category) or a bare
// "parent_id".
func (s *Store) resolveCategoryRef(q Querier, f entity.Fields) (uuid.UUID, error) {
	raw, ok := f["parent"]
	if !ok {
		raw = f["parent_id"]
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
		parent, err := fetchByID(q, categoryTable, rel.ID)
		if err != nil {
			return uuid.Nil, err
		}
		if parent == nil {
			return uuid.Nil, fmt.Errorf("%w: parent category %s", entity.ErrNotFound, rel.ID)
		}
		return parent.ID, nil
	case entity.ShapeInline:
		parent, err := s.CreateCategory(q, rel.Fields)
		if err != nil {
			return uuid.Nil, err
		}
		return parent.ID, nil
	case entity.ShapeName:
		// A bare string could mean either a path lookup or a new root
		// category; neither reading is unambiguous, so reject it.
		return uuid.Nil, fmt.Errorf("%w: bare string for category parent", entity.ErrInvalidRelationShape)
	}
	return uuid.Nil, fmt.Errorf("%w: category parent", entity.ErrInvalidRelationShape)
}

// GetCategory returns a category with its derived path and its items, or
// nil when absent.
func (s *Store) GetCategory(q Querier, id uuid.UUID) (*models.Category, error) {
	cat, err := fetchByID(q, categoryTable, id)
	if err != nil || cat == nil {
		return cat, err
	}
	cat.Path, err = s.CategoryPath(q, cat.ID)
	if err != nil {
		return nil, err
	}
	cat.Items, err = s.itemsInCategory(q, cat.ID)
	if err != nil {
		return nil, err
	}
	return cat, nil
}

// AllCategories returns every category with its derived path, ordered by
// path. The path is computed per node, so ordering happens client-side.
func (s *Store) AllCategories(q Querier) ([]models.Category, error) {
	cats, err := fetchAll(q, categoryTable, "name")
	if err != nil {
		return nil, err
	}
	names := make(map[uuid.UUID]string, len(cats))
	parents := make(map[uuid.UUID]*uuid.UUID, len(cats))
	for _, c := range cats {
		names[c.ID] = c.Name
		parents[c.ID] = c.ParentID
	}
	for i := range cats {
		p, err := pathFromMaps(cats[i].ID, names, parents)
		if err != nil {
			return nil, err
		}
		cats[i].Path = p
	}
	sortProjected(cats, func(a, b models.Category) bool {
		return a.Path < b.Path
	})
	return cats, nil
}

// CategoryPath derives the display identity of a category: ancestor names
// joined root-to-leaf. A parent cycle is an invariant violation.
func (s *Store) CategoryPath(q Querier, id uuid.UUID) (string, error) {
	var names []string
	seen := make(map[uuid.UUID]bool)
	current := &id
	for current != nil {
		if seen[*current] {
			return "", fmt.Errorf("%w: category parent cycle at %s", entity.ErrInvariant, current)
		}
		seen[*current] = true
		cat, err := fetchByID(q, categoryTable, *current)
		if err != nil {
			return "", err
		}
		if cat == nil {
			return "", fmt.Errorf("%w: category %s", entity.ErrNotFound, current)
		}
		names = append(names, cat.Name)
		current = cat.ParentID
	}
	reverse(names)
	return strings.Join(names, models.PathSeparator), nil
}

// pathFromMaps is CategoryPath over an already-loaded category set, used by
// AllCategories to avoid one query per ancestor.
func pathFromMaps(id uuid.UUID, names map[uuid.UUID]string, parents map[uuid.UUID]*uuid.UUID) (string, error) {
	var parts []string
	seen := make(map[uuid.UUID]bool)
	current := &id
	for current != nil {
		if seen[*current] {
			return "", fmt.Errorf("%w: category parent cycle at %s", entity.ErrInvariant, current)
		}
		seen[*current] = true
		name, ok := names[*current]
		if !ok {
			return "", fmt.Errorf("%w: category %s", entity.ErrNotFound, current)
		}
		parts = append(parts, name)
		current = parents[*current]
	}
	reverse(parts)
	return strings.Join(parts, models.PathSeparator), nil
}

func reverse(s []string) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

// DeleteCategory removes a category and its whole subtree of descendant
// categories. Items referencing any deleted category block the deletion
// through the foreign key and surface as ErrReferenced.
func (s *Store) DeleteCategory(q Querier, id uuid.UUID) error {
	rows, err := q.Query(`SELECT id FROM categories WHERE parent_id = $1`, id)
	if err != nil {
		return fmt.Errorf("list subcategories: %w", err)
	}
	var children []uuid.UUID
	for rows.Next() {
		var child uuid.UUID
		if err := rows.Scan(&child); err != nil {
			rows.Close()
			return fmt.Errorf("scan subcategory: %w", err)
		}
		children = append(children, child)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}
	for _, child := range children {
		if err := s.DeleteCategory(q, child); err != nil {
			return err
		}
	}
	return deleteRow(q, "categories", "id", id)
}
