package store

import (
	"fmt"

	"github.com/google/uuid"

	"ratepoint/internal/entity"
)

// defaultRegistry describes every entity kind the engine manages: its field
// surface and its deletion policy. Shared references (categories, locations,
// tags, users, items) restrict or detach; posts cascade into what they own.
func defaultRegistry() *entity.Registry {
	r := entity.NewRegistry()
	r.Register(entity.Descriptor{
		Kind: "location", IDField: "location_id",
		DeleteMode: entity.DeleteRestrict, Spec: locationSpec,
	})
	r.Register(entity.Descriptor{
		Kind: "category", IDField: "category_id",
		DeleteMode: entity.DeleteCascade, Spec: categorySpec,
	})
	r.Register(entity.Descriptor{
		Kind: "item", IDField: "item_id",
		DeleteMode: entity.DeleteRestrict, Spec: itemSpec,
	})
	r.Register(entity.Descriptor{
		Kind: "tag", IDField: "tag_id",
		DeleteMode: entity.DeleteSimple, Spec: tagSpec,
	})
	r.Register(entity.Descriptor{
		Kind: "photo", IDField: "photo_id",
		DeleteMode: entity.DeleteSimple, Spec: photoSpec,
	})
	r.Register(entity.Descriptor{
		Kind: "post", IDField: "post_id",
		DeleteMode: entity.DeleteCascade, Spec: postSpec,
	})
	r.Register(entity.Descriptor{
		Kind: "comment", IDField: "comment_id",
		DeleteMode: entity.DeleteSimple, Spec: commentSpec,
	})
	r.Register(entity.Descriptor{
		Kind: "like", IDField: "",
		DeleteMode: entity.DeleteSimple, Spec: likeSpec,
	})
	r.Register(entity.Descriptor{
		Kind: "user", IDField: "user_id",
		DeleteMode: entity.DeleteRestrict, Spec: userSpec,
	})
	return r
}

var registry = defaultRegistry()

// Registry exposes the kind descriptors, mainly for the façade to report
// the managed kinds.
func (s *Store) Registry() *entity.Registry {
	return registry
}

// Delete dispatches a deletion by kind, applying that kind's policy.
// Likes have a composite identity and are deleted through DeleteLike.
func (s *Store) Delete(q Querier, kind string, id uuid.UUID) error {
	if _, ok := registry.Lookup(kind); !ok {
		return fmt.Errorf("%w: unknown kind %q", entity.ErrNotFound, kind)
	}
	switch kind {
	case "location":
		return s.DeleteLocation(q, id)
	case "category":
		return s.DeleteCategory(q, id)
	case "item":
		return s.DeleteItem(q, id)
	case "tag":
		return s.DeleteTag(q, id)
	case "photo":
		return s.DeletePhoto(q, id)
	case "post":
		return s.DeletePost(q, id)
	case "comment":
		return s.DeleteComment(q, id)
	case "user":
		return s.DeleteUser(q, id)
	}
	return fmt.Errorf("%w: kind %q has no id-based deletion", entity.ErrInvalidRelationShape, kind)
}
