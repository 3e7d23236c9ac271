package store

import (
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"ratepoint/internal/entity"
)

// rowScanner matches both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// table describes the SQL surface of one entity kind for the generic CRUD
// combinators: where it lives, how it is identified, and how a row scans
// into its record type.
type table[T any] struct {
	name     string
	idColumn string
	columns  string
	scan     func(rowScanner) (*T, error)
}

// fetchByID returns the record with the given identity, or nil when absent.
// Absence is a normal result, not an error.
func fetchByID[T any](q Querier, t table[T], id uuid.UUID) (*T, error) {
	row := q.QueryRow(
		`SELECT `+t.columns+` FROM `+t.name+` WHERE `+t.idColumn+` = $1`, id)
	v, err := t.scan(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetch %s: %w", t.name, err)
	}
	return v, nil
}

// fetchAll returns every record of a kind, ordered by the declared natural
// order when orderBy is non-empty.
func fetchAll[T any](q Querier, t table[T], orderBy string) ([]T, error) {
	query := `SELECT ` + t.columns + ` FROM ` + t.name
	if orderBy != "" {
		query += ` ORDER BY ` + orderBy
	}
	rows, err := q.Query(query)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", t.name, err)
	}
	defer rows.Close()

	var out []T
	for rows.Next() {
		v, err := t.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", t.name, err)
		}
		out = append(out, *v)
	}
	return out, rows.Err()
}

// sortProjected re-sorts projected records client-side by a supplied key
// function, used when the ordering key is a derived field the database
// cannot order by (e.g. category paths).
func sortProjected[T any](items []T, less func(a, b T) bool) {
	sort.SliceStable(items, func(i, j int) bool {
		return less(items[i], items[j])
	})
}

// insertReturning inserts one row and scans the stored record back.
// Constraint violations are translated into the entity error taxonomy.
func insertReturning[T any](q Querier, t table[T], cols []string, vals []any) (*T, error) {
	placeholders := make([]string, len(vals))
	for i := range vals {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}
	row := q.QueryRow(
		`INSERT INTO `+t.name+` (`+strings.Join(cols, ", ")+`)
		 VALUES (`+strings.Join(placeholders, ", ")+`)
		 RETURNING `+t.columns,
		vals...,
	)
	v, err := t.scan(row)
	if err != nil {
		return nil, fmt.Errorf("insert %s: %w", t.name, entity.TranslateConstraint(err))
	}
	return v, nil
}

// deleteRow deletes one row by identity. Deleting an absent identity is a
// caller error and reported as ErrNotFound; constraint violations are
// translated.
func deleteRow(q Querier, tbl, idColumn string, id uuid.UUID) error {
	res, err := q.Exec(`DELETE FROM `+tbl+` WHERE `+idColumn+` = $1`, id)
	if err != nil {
		return fmt.Errorf("delete %s: %w", tbl, entity.TranslateConstraint(err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete %s: %w", tbl, err)
	}
	if n == 0 {
		return entity.ErrNotFound
	}
	return nil
}
