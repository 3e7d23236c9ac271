package models

import (
	"time"

	"github.com/google/uuid"
)

// UserStatus is a user's account status, drawn from the seeded
// user_status_types enumeration table.
type UserStatus string

const (
	UserStatusActive  UserStatus = "active"
	UserStatusWarned  UserStatus = "warned"
	UserStatusBlocked UserStatus = "blocked"
	UserStatusPending UserStatus = "pending"
)

// UserStatuses lists all valid statuses, in seed order.
var UserStatuses = []UserStatus{
	UserStatusActive, UserStatusWarned, UserStatusBlocked, UserStatusPending,
}

// Valid reports whether the status is one of the seeded values.
func (s UserStatus) Valid() bool {
	for _, known := range UserStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// User is an account holder. The three credential fields are stored as
// fixed-length one-way digests and never serialized.
type User struct {
	ID                  uuid.UUID  `json:"user_id"`
	EmailAddress        string     `json:"-"`
	SecondaryLogin      *string    `json:"-"`
	Password            string     `json:"-"`
	AccountCreationDate time.Time  `json:"account_creation_date"`
	Status              UserStatus `json:"status"`

	// Populated on single-user fetches.
	Posts      []Post    `json:"posts,omitempty"`
	Comments   []Comment `json:"comments,omitempty"`
	LikedPosts []Post    `json:"likes,omitempty"`
}
