// Package hashing provides the one-way credential digest collaborator used
// when creating users. Digests have a fixed encoded length; user records
// carrying a digest of any other length violate the storage invariant.
package hashing

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DigestLen is the fixed encoded length of a credential digest. bcrypt
// always produces 60 bytes.
const DigestLen = 60

// Hasher is a one-way digest function with fixed output length.
type Hasher interface {
	Hash(plain string) (string, error)
}

// Bcrypt hashes credentials with bcrypt at a configurable cost.
type Bcrypt struct {
	Cost int
}

// NewBcrypt returns a Bcrypt hasher at the default cost.
func NewBcrypt() *Bcrypt {
	return &Bcrypt{Cost: bcrypt.DefaultCost}
}

// Hash digests a plaintext credential.
func (h *Bcrypt) Hash(plain string) (string, error) {
	cost := h.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	digest, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", fmt.Errorf("hash credential: %w", err)
	}
	return string(digest), nil
}
