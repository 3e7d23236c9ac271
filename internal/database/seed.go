package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"ratepoint/internal/models"
)

// Seed populates the two enumeration tables (user statuses and user
// relationship types). It is idempotent and safe to run on every start.
func Seed(db *sql.DB) error {
	for _, status := range models.UserStatuses {
		_, err := db.Exec(`
			INSERT INTO user_status_types (name) VALUES ($1)
			ON CONFLICT (name) DO NOTHING
		`, string(status))
		if err != nil {
			return fmt.Errorf("seed user status %q: %w", status, err)
		}
	}

	for _, relType := range models.RelationshipTypes {
		_, err := db.Exec(`
			INSERT INTO user_relationship_types (name) VALUES ($1)
			ON CONFLICT (name) DO NOTHING
		`, string(relType))
		if err != nil {
			return fmt.Errorf("seed relationship type %q: %w", relType, err)
		}
	}

	slog.Info("enumeration tables seeded",
		"statuses", len(models.UserStatuses),
		"relationship_types", len(models.RelationshipTypes),
	)
	return nil
}
