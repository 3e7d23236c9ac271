package models

import "github.com/google/uuid"

// RelationshipType is the kind of edge between two users, drawn from the
// seeded user_relationship_types enumeration table. The first/second
// direction records which user initiated the pending or blocked state.
type RelationshipType string

const (
	RelationshipFriends            RelationshipType = "friends"
	RelationshipPendingFirstSecond RelationshipType = "pending_first_second"
	RelationshipPendingSecondFirst RelationshipType = "pending_second_first"
	RelationshipBlockedFirstSecond RelationshipType = "blocked_first_second"
	RelationshipBlockedSecondFirst RelationshipType = "blocked_second_first"
	RelationshipBlockedBoth        RelationshipType = "blocked_both"
)

// RelationshipTypes lists all valid relationship types, in seed order.
var RelationshipTypes = []RelationshipType{
	RelationshipFriends,
	RelationshipPendingFirstSecond,
	RelationshipPendingSecondFirst,
	RelationshipBlockedFirstSecond,
	RelationshipBlockedSecondFirst,
	RelationshipBlockedBoth,
}

// Valid reports whether the type is one of the seeded values.
func (t RelationshipType) Valid() bool {
	for _, known := range RelationshipTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Relationship is a directed edge between two users. A "friends" edge is
// visible to both users regardless of which side was recorded first.
type Relationship struct {
	FirstUserID  uuid.UUID        `json:"first_user_id"`
	SecondUserID uuid.UUID        `json:"second_user_id"`
	Type         RelationshipType `json:"type"`
}
