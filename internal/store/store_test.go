// store_test.go provides a shared test database helper for all store
// integration tests. Tests are skipped if PostgreSQL is not available.
package store

import (
	"database/sql"
	"os"
	"testing"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"
	"golang.org/x/crypto/bcrypt"

	"ratepoint/internal/database"
	"ratepoint/internal/entity"
	"ratepoint/internal/hashing"
	"ratepoint/internal/models"
)

// testDSN returns the PostgreSQL connection string for testing.
// Uses environment variables with development defaults.
func testDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "ratepoint")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "ratepoint")
	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test database, runs migrations, and
// seeds the enumeration tables. If the database is unavailable, the test
// is skipped.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("pgx", testDSN())
	if err != nil {
		t.Skipf("skipping integration test: cannot open DB: %v", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}
	goose.SetBaseFS(nil)

	if err := database.Seed(db); err != nil {
		db.Close()
		t.Fatalf("failed to seed enumeration tables: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

// testStore builds a Store over the test database with the cheapest bcrypt
// cost, since test credentials don't need real work factors.
func testStore(t *testing.T) (*Store, *sql.DB) {
	t.Helper()
	db := testDB(t)
	return New(db, &hashing.Bcrypt{Cost: bcrypt.MinCost}), db
}

// cleanupRow registers a best-effort row deletion. t.Cleanup runs LIFO, so
// rows registered later (children) are removed before their parents.
func cleanupRow(t *testing.T, db *sql.DB, table string, id uuid.UUID) {
	t.Helper()
	t.Cleanup(func() {
		db.Exec("DELETE FROM "+table+" WHERE id = $1", id)
	})
}

// mustCreateUser creates a committed user with unique credentials.
func mustCreateUser(t *testing.T, s *Store, db *sql.DB) *models.User {
	t.Helper()
	var u *models.User
	err := s.InTx(func(q Querier) error {
		var err error
		u, err = s.CreateUser(q, entity.Fields{
			"email_address":   "test-" + uuid.NewString() + "@example.com",
			"secondary_login": "alt-" + uuid.NewString(),
			"password":        "hunter2hunter2",
		})
		return err
	})
	if err != nil {
		t.Fatalf("create user: %v", err)
	}
	cleanupRow(t, db, "users", u.ID)
	return u
}

// mustCreateItem creates a committed item inside a fresh inline category.
func mustCreateItem(t *testing.T, s *Store, db *sql.DB, name string) *models.Item {
	t.Helper()
	var it *models.Item
	err := s.InTx(func(q Querier) error {
		var err error
		it, err = s.CreateItem(q, entity.Fields{
			"item_name": name,
			"category":  map[string]any{"category_name": "cat-" + uuid.NewString()},
		})
		return err
	})
	if err != nil {
		t.Fatalf("create item: %v", err)
	}
	cleanupRow(t, db, "categories", it.CategoryID)
	cleanupRow(t, db, "items", it.ID)
	return it
}

// mustCreatePost creates a committed post for the given user and item.
func mustCreatePost(t *testing.T, s *Store, db *sql.DB, f entity.Fields) *models.Post {
	t.Helper()
	var p *models.Post
	err := s.InTx(func(q Querier) error {
		var err error
		p, err = s.CreatePost(q, f)
		return err
	})
	if err != nil {
		t.Fatalf("create post: %v", err)
	}
	t.Cleanup(func() {
		db.Exec("DELETE FROM posts_tags WHERE post_id = $1", p.ID)
		db.Exec("DELETE FROM post_likes WHERE post_id = $1", p.ID)
		db.Exec("DELETE FROM post_comments WHERE post_id = $1", p.ID)
		db.Exec("DELETE FROM photos WHERE post_id = $1", p.ID)
		db.Exec("DELETE FROM posts WHERE id = $1", p.ID)
	})
	return p
}

// mustCreateTag creates a committed tag with a unique lowercase name.
func mustCreateTag(t *testing.T, s *Store, db *sql.DB, name string) *models.Tag {
	t.Helper()
	var tag *models.Tag
	err := s.InTx(func(q Querier) error {
		var err error
		tag, err = s.CreateTag(q, entity.Fields{"tag_name": name})
		return err
	})
	if err != nil {
		t.Fatalf("create tag: %v", err)
	}
	cleanupRow(t, db, "tags", tag.ID)
	return tag
}
