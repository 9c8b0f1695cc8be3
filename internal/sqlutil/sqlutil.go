// Package sqlutil has small helpers shared by the index queries.
package sqlutil

import (
	"database/sql"
	"strings"
)

// InClauseArgs builds the placeholder list and args for an IN clause. An
// empty item list yields "NULL", so `IN (NULL)` matches no rows instead of
// being a syntax error.
func InClauseArgs(items []string) (placeholders string, args []any) {
	if len(items) == 0 {
		return "NULL", nil
	}
	ph := make([]string, len(items))
	args = make([]any, len(items))
	for i, item := range items {
		ph[i] = "?"
		args[i] = item
	}
	return strings.Join(ph, ", "), args
}

// ScanRows drains rows into a slice with the given per-row scanner and
// closes them.
func ScanRows[T any](rows *sql.Rows, scan func(*sql.Rows) (T, error)) ([]T, error) {
	defer rows.Close()

	var out []T
	for rows.Next() {
		item, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, item)
	}
	return out, rows.Err()
}
