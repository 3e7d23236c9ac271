package store

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"ratepoint/internal/entity"
	"ratepoint/internal/models"
)

func TestCategoryPathHierarchy(t *testing.T) {
	s, db := testStore(t)

	suffix := uuid.NewString()[:8]
	var leaf *models.Category
	err := s.InTx(func(q Querier) error {
		var err error
		leaf, err = s.CreateCategory(q, entity.Fields{
			"category_name": "Hotel-" + suffix,
			"parent": map[string]any{
				"category_name": "Business-" + suffix,
				"parent": map[string]any{
					"category_name": "Place-" + suffix,
				},
			},
		})
		return err
	})
	if err != nil {
		t.Fatalf("create nested categories: %v", err)
	}
	t.Cleanup(func() {
		var rootID *uuid.UUID
		db.QueryRow("SELECT parent_id FROM categories WHERE id = $1", *leaf.ParentID).Scan(&rootID)
		db.Exec("DELETE FROM categories WHERE id = $1", leaf.ID)
		db.Exec("DELETE FROM categories WHERE id = $1", *leaf.ParentID)
		if rootID != nil {
			db.Exec("DELETE FROM categories WHERE id = $1", *rootID)
		}
	})

	want := strings.Join(
		[]string{"Place-" + suffix, "Business-" + suffix, "Hotel-" + suffix},
		models.PathSeparator)
	if leaf.Path != want {
		t.Errorf("Path: got %q, want %q", leaf.Path, want)
	}

	got, err := s.GetCategory(s.Reader(), leaf.ID)
	if err != nil {
		t.Fatalf("GetCategory: %v", err)
	}
	if got.Path != want {
		t.Errorf("fetched Path: got %q, want %q", got.Path, want)
	}
	if len(got.Items) != 0 {
		t.Errorf("expected no items, got %d", len(got.Items))
	}
}

func TestAllCategoriesSortedByPath(t *testing.T) {
	s, db := testStore(t)

	suffix := uuid.NewString()[:8]
	err := s.InTx(func(q Querier) error {
		c, err := s.CreateCategory(q, entity.Fields{
			"category_name": "Zz-" + suffix,
			"parent":        map[string]any{"category_name": "Aa-" + suffix},
		})
		if err != nil {
			return err
		}
		cleanupRow(t, db, "categories", c.ID)
		cleanupRow(t, db, "categories", *c.ParentID)
		return nil
	})
	if err != nil {
		t.Fatalf("create categories: %v", err)
	}

	cats, err := s.AllCategories(s.Reader())
	if err != nil {
		t.Fatalf("AllCategories: %v", err)
	}
	for i := 1; i < len(cats); i++ {
		if cats[i-1].Path > cats[i].Path {
			t.Fatalf("categories not ordered by path: %q before %q",
				cats[i-1].Path, cats[i].Path)
		}
	}
}

func TestCategoryParentCycleDetected(t *testing.T) {
	s, db := testStore(t)

	var a, b *models.Category
	err := s.InTx(func(q Querier) error {
		var err error
		a, err = s.CreateCategory(q, entity.Fields{"category_name": "cycle-a-" + uuid.NewString()})
		if err != nil {
			return err
		}
		b, err = s.CreateCategory(q, entity.Fields{
			"category_name": "cycle-b-" + uuid.NewString(),
			"parent_id":     a.ID,
		})
		return err
	})
	if err != nil {
		t.Fatalf("create categories: %v", err)
	}
	t.Cleanup(func() {
		db.Exec("UPDATE categories SET parent_id = NULL WHERE id = $1", a.ID)
		db.Exec("DELETE FROM categories WHERE id = $1", b.ID)
		db.Exec("DELETE FROM categories WHERE id = $1", a.ID)
	})

	// Corrupt the forest directly so a -> b -> a.
	if _, err := db.Exec("UPDATE categories SET parent_id = $1 WHERE id = $2", b.ID, a.ID); err != nil {
		t.Fatalf("force cycle: %v", err)
	}

	_, err = s.CategoryPath(s.Reader(), a.ID)
	if !errors.Is(err, entity.ErrInvariant) {
		t.Errorf("expected ErrInvariant for parent cycle, got %v", err)
	}
}

func TestDeleteCategorySubtree(t *testing.T) {
	s, _ := testStore(t)

	var parent, child *models.Category
	err := s.InTx(func(q Querier) error {
		var err error
		parent, err = s.CreateCategory(q, entity.Fields{"category_name": "sub-p-" + uuid.NewString()})
		if err != nil {
			return err
		}
		child, err = s.CreateCategory(q, entity.Fields{
			"category_name": "sub-c-" + uuid.NewString(),
			"parent_id":     parent.ID,
		})
		return err
	})
	if err != nil {
		t.Fatalf("create categories: %v", err)
	}

	err = s.InTx(func(q Querier) error {
		return s.DeleteCategory(q, parent.ID)
	})
	if err != nil {
		t.Fatalf("DeleteCategory: %v", err)
	}

	for _, id := range []uuid.UUID{parent.ID, child.ID} {
		got, err := s.GetCategory(s.Reader(), id)
		if err != nil {
			t.Fatalf("GetCategory after delete: %v", err)
		}
		if got != nil {
			t.Errorf("category %s should be gone", id)
		}
	}
}

func TestDeleteCategoryRestrictedByItems(t *testing.T) {
	s, db := testStore(t)

	it := mustCreateItem(t, s, db, "restrict-"+uuid.NewString())

	err := s.InTx(func(q Querier) error {
		return s.DeleteCategory(q, it.CategoryID)
	})
	if !errors.Is(err, entity.ErrReferenced) {
		t.Errorf("expected ErrReferenced deleting a category with items, got %v", err)
	}
}

func TestCreateCategoryFieldValidation(t *testing.T) {
	s, _ := testStore(t)

	var fieldErr *entity.FieldError

	_, err := s.CreateCategory(s.Reader(), entity.Fields{})
	if !errors.As(err, &fieldErr) || fieldErr.Reason != entity.FieldMissing {
		t.Errorf("expected missing-field error, got %v", err)
	}

	_, err = s.CreateCategory(s.Reader(), entity.Fields{
		"category_name": "x",
		"bogus":         1,
	})
	if !errors.As(err, &fieldErr) || fieldErr.Reason != entity.FieldUnexpected {
		t.Errorf("expected unexpected-field error, got %v", err)
	}
}

func TestCreateCategoryRejectsBareStringParent(t *testing.T) {
	s, _ := testStore(t)

	_, err := s.CreateCategory(s.Reader(), entity.Fields{
		"category_name": "x-" + uuid.NewString(),
		"parent":        "just-a-string",
	})
	if !errors.Is(err, entity.ErrInvalidRelationShape) {
		t.Errorf("expected ErrInvalidRelationShape, got %v", err)
	}
}
