// Package database owns the PostgreSQL side of the entity store: the pgx
// connection pool, the embedded goose migrations that create the entity
// tables, and the enumeration-table seed.
package database

import (
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"ratepoint/internal/config"
)

//go:embed migrations
var embedMigrations embed.FS

// connMaxLifetime bounds how long one pooled connection is reused before
// being replaced, so rotated database credentials take effect.
const connMaxLifetime = 30 * time.Minute

// Connect opens the PostgreSQL pool for the entity store, applies the
// configured pool bounds, and verifies the connection with a ping. The DSN
// carries credentials, so the connect log reports host and database only.
func Connect(cfg *config.Config) (*sql.DB, error) {
	db, err := sql.Open("pgx", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("database open: %w", err)
	}
	db.SetMaxOpenConns(cfg.DBMaxConns)
	db.SetMaxIdleConns(cfg.DBMaxConns / 2)
	db.SetConnMaxLifetime(connMaxLifetime)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database ping: %w", err)
	}

	slog.Info("database connected",
		"host", cfg.DBHost,
		"database", cfg.DBName,
		"max_conns", cfg.DBMaxConns,
	)
	return db, nil
}

// Migrate brings the entity schema up to date. The migration files are
// embedded at compile time, so nothing external is needed at runtime.
func Migrate(db *sql.DB) error {
	goose.SetBaseFS(embedMigrations)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("goose set dialect: %w", err)
	}

	if err := goose.Up(db, "migrations"); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}

	slog.Info("database migrations applied")
	return nil
}
