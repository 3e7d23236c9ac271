package store

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"ratepoint/internal/config"
	"ratepoint/internal/entity"
	"ratepoint/internal/models"
)

var postSpec = entity.Spec{
	Kind:     "post",
	Required: []string{"item|item_id", "user_id"},
	Optional: []string{"rating", "review", "is_favorite", "is_interested", "photos", "tags"},
}

var postTable = table[models.Post]{
	name:     "posts",
	idColumn: "id",
	columns:  "id, post_datetime, user_id, item_id, rating, review, is_favorite, is_interested",
	scan: func(r rowScanner) (*models.Post, error) {
		var p models.Post
		err := r.Scan(&p.ID, &p.PostDatetime, &p.UserID, &p.ItemID,
			&p.Rating, &p.Review, &p.IsFavorite, &p.IsInterested)
		if err != nil {
			return nil, err
		}
		return &p, nil
	},
}

// CreatePost validates the field set, resolves the item reference (by id,
// inline definition, or materialized record), inserts the post with a
// server-set timestamp, and attaches any photos and tags. Inline children
// (item, category, location, photos, tags) are created inside the same
// transaction, so a failed attachment rolls everything back.
func (s *Store) CreatePost(q Querier, f entity.Fields) (*models.Post, error) {
	if err := postSpec.Check(f); err != nil {
		return nil, err
	}
	userID, ok := f.UUID("user_id")
	if !ok {
		return nil, &entity.FieldError{Kind: "post", Field: "user_id", Reason: entity.FieldInvalid}
	}
	itemID, err := s.resolvePostItem(q, f)
	if err != nil {
		return nil, err
	}

	var rating *int
	if f.Has("rating") {
		r, ok := f.Int("rating")
		if !ok || r < config.MinRating || r > config.MaxRating {
			return nil, &entity.FieldError{Kind: "post", Field: "rating", Reason: entity.FieldInvalid}
		}
		rating = &r
	}
	var review *string
	if rv, ok := f.String("review"); ok {
		review = &rv
	}
	isFavorite, _ := f.Bool("is_favorite")
	isInterested, _ := f.Bool("is_interested")

	p, err := insertReturning(q, postTable,
		[]string{"post_datetime", "user_id", "item_id", "rating", "review", "is_favorite", "is_interested"},
		[]any{time.Now().UTC(), userID, itemID, rating, review, isFavorite, isInterested})
	if err != nil {
		return nil, err
	}

	if raw, ok := f.List("photos"); ok {
		if err := s.attachPostPhotos(q, p.ID, raw); err != nil {
			return nil, err
		}
	}
	if raw, ok := f.List("tags"); ok {
		if err := s.attachPostTags(q, p.ID, raw); err != nil {
			return nil, err
		}
	}
	return s.projectPost(q, p, true)
}

func (s *Store) resolvePostItem(q Querier, f entity.Fields) (uuid.UUID, error) {
	raw, ok := f["item"]
	if !ok {
		raw = f["item_id"]
	}
	rel, err := entity.ParseRelation(raw, "item_id", func(v any) (uuid.UUID, bool) {
		if it, ok := v.(*models.Item); ok {
			return it.ID, true
		}
		if it, ok := v.(models.Item); ok {
			return it.ID, true
		}
		return uuid.Nil, false
	})
	if err != nil {
		return uuid.Nil, err
	}
	switch rel.Shape {
	case entity.ShapeID, entity.ShapeHandle:
		it, err := fetchByID(q, itemTable, rel.ID)
		if err != nil {
			return uuid.Nil, err
		}
		if it == nil {
			return uuid.Nil, fmt.Errorf("%w: item %s", entity.ErrNotFound, rel.ID)
		}
		return it.ID, nil
	case entity.ShapeInline:
		it, err := s.CreateItem(q, rel.Fields)
		if err != nil {
			return uuid.Nil, err
		}
		return it.ID, nil
	}
	return uuid.Nil, fmt.Errorf("%w: post item", entity.ErrInvalidRelationShape)
}

// resolvePostRef resolves a post reference from either the "post" key (id
// map or materialized post) or a bare "post_id". Inline definitions are
// rejected: comments and likes never create their post.
func (s *Store) resolvePostRef(q Querier, f entity.Fields) (uuid.UUID, error) {
	raw, ok := f["post"]
	if !ok {
		raw = f["post_id"]
	}
	rel, err := entity.ParseRelation(raw, "post_id", func(v any) (uuid.UUID, bool) {
		if p, ok := v.(*models.Post); ok {
			return p.ID, true
		}
		if p, ok := v.(models.Post); ok {
			return p.ID, true
		}
		return uuid.Nil, false
	})
	if err != nil {
		return uuid.Nil, err
	}
	if rel.Shape == entity.ShapeID || rel.Shape == entity.ShapeHandle {
		p, err := fetchByID(q, postTable, rel.ID)
		if err != nil {
			return uuid.Nil, err
		}
		if p == nil {
			return uuid.Nil, fmt.Errorf("%w: post %s", entity.ErrNotFound, rel.ID)
		}
		return p.ID, nil
	}
	return uuid.Nil, fmt.Errorf("%w: post reference", entity.ErrInvalidRelationShape)
}

// attachPostPhotos resolves each photo input: an id reference attaches an
// existing photo, an inline definition or bare file name creates one.
func (s *Store) attachPostPhotos(q Querier, postID uuid.UUID, inputs []any) error {
	for _, raw := range inputs {
		rel, err := entity.ParseRelation(raw, "photo_id", func(v any) (uuid.UUID, bool) {
			if p, ok := v.(*models.Photo); ok {
				return p.ID, true
			}
			if p, ok := v.(models.Photo); ok {
				return p.ID, true
			}
			return uuid.Nil, false
		})
		if err != nil {
			return err
		}
		switch rel.Shape {
		case entity.ShapeID, entity.ShapeHandle:
			if err := s.attachPhoto(q, rel.ID, postID); err != nil {
				return err
			}
		case entity.ShapeInline:
			rel.Fields["post_id"] = postID
			if _, err := s.CreatePhoto(q, rel.Fields); err != nil {
				return err
			}
		case entity.ShapeName:
			f := entity.Fields{"file_name": rel.Name, "post_id": postID}
			if _, err := s.CreatePhoto(q, f); err != nil {
				return err
			}
		}
	}
	return nil
}

// attachPostTags resolves each tag input to a tag (creating missing ones by
// name) and links it to the post. Re-linking an already-linked tag is a
// no-op.
func (s *Store) attachPostTags(q Querier, postID uuid.UUID, inputs []any) error {
	for _, raw := range inputs {
		rel, err := entity.ParseRelation(raw, "tag_id", func(v any) (uuid.UUID, bool) {
			if t, ok := v.(*models.Tag); ok {
				return t.ID, true
			}
			if t, ok := v.(models.Tag); ok {
				return t.ID, true
			}
			return uuid.Nil, false
		})
		if err != nil {
			return err
		}
		var tagID uuid.UUID
		switch rel.Shape {
		case entity.ShapeID, entity.ShapeHandle:
			t, err := fetchByID(q, tagTable, rel.ID)
			if err != nil {
				return err
			}
			if t == nil {
				return fmt.Errorf("%w: tag %s", entity.ErrNotFound, rel.ID)
			}
			tagID = t.ID
		case entity.ShapeName:
			t, err := s.EnsureTag(q, rel.Name)
			if err != nil {
				return err
			}
			tagID = t.ID
		case entity.ShapeInline:
			// An inline definition reuses an existing tag with the
			// same normalized name rather than failing on the
			// uniqueness constraint.
			if err := tagSpec.Check(rel.Fields); err != nil {
				return err
			}
			name, ok := rel.Fields.String("tag_name")
			if !ok || name == "" {
				return &entity.FieldError{Kind: "tag", Field: "tag_name", Reason: entity.FieldInvalid}
			}
			t, err := s.EnsureTag(q, name)
			if err != nil {
				return err
			}
			tagID = t.ID
		}
		_, err = q.Exec(`
			INSERT INTO posts_tags (post_id, tag_id) VALUES ($1, $2)
			ON CONFLICT DO NOTHING`, postID, tagID)
		if err != nil {
			return fmt.Errorf("link tag: %w", err)
		}
	}
	return nil
}

// GetPost returns a post with its projected item, tags, photos, likes, and
// comments, or nil when absent.
func (s *Store) GetPost(q Querier, id uuid.UUID) (*models.Post, error) {
	p, err := fetchByID(q, postTable, id)
	if err != nil || p == nil {
		return p, err
	}
	return s.projectPost(q, p, true)
}

// AllPosts returns every post, most recent first, with tags and photos.
func (s *Store) AllPosts(q Querier) ([]models.Post, error) {
	return s.queryPosts(q,
		`SELECT `+postTable.columns+` FROM posts ORDER BY post_datetime DESC`)
}

// RecentPosts returns the n most recent posts.
func (s *Store) RecentPosts(q Querier, n int) ([]models.Post, error) {
	return s.queryPosts(q,
		`SELECT `+postTable.columns+` FROM posts ORDER BY post_datetime DESC LIMIT $1`, n)
}

// postsForItem returns an item's posts, most recent first.
func (s *Store) postsForItem(q Querier, itemID uuid.UUID) ([]models.Post, error) {
	return s.queryPosts(q,
		`SELECT `+postTable.columns+` FROM posts WHERE item_id = $1 ORDER BY post_datetime DESC`,
		itemID)
}

// postsForTag returns the posts carrying a tag, most recent first.
func (s *Store) postsForTag(q Querier, tagID uuid.UUID) ([]models.Post, error) {
	return s.queryPosts(q, `
		SELECT `+postTable.columns+`
		FROM posts
		JOIN posts_tags pt ON pt.post_id = posts.id
		WHERE pt.tag_id = $1
		ORDER BY post_datetime DESC`, tagID)
}

// postsForUser returns a user's posts, most recent first.
func (s *Store) postsForUser(q Querier, userID uuid.UUID) ([]models.Post, error) {
	return s.queryPosts(q,
		`SELECT `+postTable.columns+` FROM posts WHERE user_id = $1 ORDER BY post_datetime DESC`,
		userID)
}

// queryPosts runs a posts query and projects each row with its tags and
// photos. Single-post fetches add likes and comments separately.
func (s *Store) queryPosts(q Querier, query string, args ...any) ([]models.Post, error) {
	rows, err := q.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query posts: %w", err)
	}
	defer rows.Close()

	var posts []models.Post
	for rows.Next() {
		p, err := postTable.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range posts {
		p, err := s.projectPost(q, &posts[i], false)
		if err != nil {
			return nil, err
		}
		posts[i] = *p
	}
	return posts, nil
}

// projectPost fills a post's associations. The full projection (single-post
// fetches) additionally loads the item, liking users, and comments.
func (s *Store) projectPost(q Querier, p *models.Post, full bool) (*models.Post, error) {
	var err error
	p.Tags, err = s.tagsForPost(q, p.ID)
	if err != nil {
		return nil, err
	}
	p.Photos, err = s.photosForPost(q, p.ID)
	if err != nil {
		return nil, err
	}
	if !full {
		return p, nil
	}
	it, err := fetchByID(q, itemTable, p.ItemID)
	if err != nil {
		return nil, err
	}
	if it != nil {
		if p.Item, err = s.projectItem(q, it); err != nil {
			return nil, err
		}
	}
	p.LikedBy, err = s.likingUsers(q, p.ID)
	if err != nil {
		return nil, err
	}
	p.Comments, err = s.commentsForPost(q, p.ID)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// tagsForPost returns the tags linked to one post, ordered by name.
func (s *Store) tagsForPost(q Querier, postID uuid.UUID) ([]models.Tag, error) {
	rows, err := q.Query(`
		SELECT t.id, t.name
		FROM tags t
		JOIN posts_tags pt ON pt.tag_id = t.id
		WHERE pt.post_id = $1
		ORDER BY t.name`, postID)
	if err != nil {
		return nil, fmt.Errorf("list post tags: %w", err)
	}
	defer rows.Close()

	var tags []models.Tag
	for rows.Next() {
		var t models.Tag
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, fmt.Errorf("scan tag: %w", err)
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// DeletePost removes a post and everything it exclusively owns: photos,
// comments, likes, and its tag links. Tags and the item survive.
func (s *Store) DeletePost(q Querier, id uuid.UUID) error {
	for _, stmt := range []string{
		`DELETE FROM photos WHERE post_id = $1`,
		`DELETE FROM post_comments WHERE post_id = $1`,
		`DELETE FROM post_likes WHERE post_id = $1`,
		`DELETE FROM posts_tags WHERE post_id = $1`,
	} {
		if _, err := q.Exec(stmt, id); err != nil {
			return fmt.Errorf("cascade post delete: %w", err)
		}
	}
	return deleteRow(q, "posts", "id", id)
}
