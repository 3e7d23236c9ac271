package store

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"ratepoint/internal/entity"
	"ratepoint/internal/models"
)

var tagSpec = entity.Spec{
	Kind:     "tag",
	Required: []string{"tag_name"},
}

var tagTable = table[models.Tag]{
	name:     "tags",
	idColumn: "id",
	columns:  "id, name",
	scan: func(r rowScanner) (*models.Tag, error) {
		var t models.Tag
		if err := r.Scan(&t.ID, &t.Name); err != nil {
			return nil, err
		}
		return &t, nil
	},
}

// CreateTag validates the field set, lowercases the name, and inserts the
// tag. A duplicate normalized name fails with ErrUniqueViolation.
func (s *Store) CreateTag(q Querier, f entity.Fields) (*models.Tag, error) {
	if err := tagSpec.Check(f); err != nil {
		return nil, err
	}
	name, ok := f.String("tag_name")
	if !ok || name == "" {
		return nil, &entity.FieldError{Kind: "tag", Field: "tag_name", Reason: entity.FieldInvalid}
	}
	return insertReturning(q, tagTable,
		[]string{"name"},
		[]any{models.NormalizeTagName(name)})
}

// GetTag returns a tag with its post count and posts, or nil when absent.
func (s *Store) GetTag(q Querier, id uuid.UUID) (*models.Tag, error) {
	t, err := fetchByID(q, tagTable, id)
	if err != nil || t == nil {
		return t, err
	}
	return s.projectTag(q, t)
}

// GetTagByName looks a tag up by its normalized name, or nil when absent.
func (s *Store) GetTagByName(q Querier, name string) (*models.Tag, error) {
	row := q.QueryRow(
		`SELECT `+tagTable.columns+` FROM tags WHERE name = $1`,
		models.NormalizeTagName(name))
	t, err := tagTable.scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetch tag by name: %w", err)
	}
	return t, nil
}

// EnsureTag returns the tag with the given name, creating it when absent.
// Used when attaching tags to posts by bare name.
func (s *Store) EnsureTag(q Querier, name string) (*models.Tag, error) {
	t, err := s.GetTagByName(q, name)
	if err != nil || t != nil {
		return t, err
	}
	return s.CreateTag(q, entity.Fields{"tag_name": name})
}

func (s *Store) projectTag(q Querier, t *models.Tag) (*models.Tag, error) {
	var err error
	t.NumberOfPosts, err = s.TagPostCount(q, t.ID)
	if err != nil {
		return nil, err
	}
	t.Posts, err = s.postsForTag(q, t.ID)
	if err != nil {
		return nil, err
	}
	return t, nil
}

// TagPostCount returns the number of posts carrying a tag.
func (s *Store) TagPostCount(q Querier, tagID uuid.UUID) (int, error) {
	var n int
	err := q.QueryRow(
		`SELECT COUNT(*) FROM posts_tags WHERE tag_id = $1`, tagID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("tag post count: %w", err)
	}
	return n, nil
}

// AllTags returns every tag with its post count, ordered by name.
func (s *Store) AllTags(q Querier) ([]models.Tag, error) {
	rows, err := q.Query(`
		SELECT t.id, t.name, COUNT(pt.post_id)
		FROM tags t
		LEFT JOIN posts_tags pt ON pt.tag_id = t.id
		GROUP BY t.id, t.name
		ORDER BY t.name`)
	if err != nil {
		return nil, fmt.Errorf("list tags: %w", err)
	}
	defer rows.Close()

	var tags []models.Tag
	for rows.Next() {
		var t models.Tag
		if err := rows.Scan(&t.ID, &t.Name, &t.NumberOfPosts); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// PopularTags ranks all tags by descending post count, ties broken by name.
func (s *Store) PopularTags(q Querier) ([]models.TagCount, error) {
	rows, err := q.Query(`
		SELECT t.name, COUNT(pt.post_id) AS n
		FROM tags t
		LEFT JOIN posts_tags pt ON pt.tag_id = t.id
		GROUP BY t.name
		ORDER BY n DESC, t.name`)
	if err != nil {
		return nil, fmt.Errorf("popular tags: %w", err)
	}
	defer rows.Close()

	var out []models.TagCount
	for rows.Next() {
		var tc models.TagCount
		if err := rows.Scan(&tc.TagName, &tc.NumberOfPosts); err != nil {
			return nil, fmt.Errorf("scan tag count: %w", err)
		}
		out = append(out, tc)
	}
	return out, rows.Err()
}

// DeleteTag removes a tag. Join rows in posts_tags are removed by the
// schema's cascade; the tagged posts themselves are untouched.
func (s *Store) DeleteTag(q Querier, id uuid.UUID) error {
	return deleteRow(q, "tags", "id", id)
}
