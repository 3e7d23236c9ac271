// Package store implements the generic entity-persistence engine: validated
// creation with nested reference resolution, projection fetches with derived
// fields, cascade/restrict deletion policy, and the hierarchy and aggregate
// queries. Every operation runs against an explicit Querier so the façade
// can scope one transaction per request.
package store

import (
	"database/sql"
	"fmt"

	"ratepoint/internal/entity"
	"ratepoint/internal/hashing"
)

// Querier is the subset of database/sql shared by *sql.DB and *sql.Tx.
// Engine operations take a Querier so that composite creations and cascades
// run inside the caller's transaction.
type Querier interface {
	Exec(query string, args ...any) (sql.Result, error)
	Query(query string, args ...any) (*sql.Rows, error)
	QueryRow(query string, args ...any) *sql.Row
}

// Store is the entity engine. It holds the connection pool and the
// credential-hashing collaborator used for user creation.
type Store struct {
	db     *sql.DB
	hasher hashing.Hasher
}

// New creates a Store over an open connection pool.
func New(db *sql.DB, hasher hashing.Hasher) *Store {
	return &Store{db: db, hasher: hasher}
}

// Reader returns a Querier for standalone reads outside any transaction.
func (s *Store) Reader() Querier {
	return s.db
}

// InTx runs fn inside a single transaction. Any error rolls the whole
// transaction back, so a composite creation (post, inline item, inline
// category, tags) either commits entirely or leaves nothing behind.
// Constraint violations raised by the storage engine are translated into
// the entity error taxonomy.
func (s *Store) InTx(fn func(q Querier) error) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		tx.Rollback()
		return entity.TranslateConstraint(err)
	}
	if err := tx.Commit(); err != nil {
		return entity.TranslateConstraint(fmt.Errorf("commit tx: %w", err))
	}
	return nil
}
