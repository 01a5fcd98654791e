package corpus

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver
)

// LoadSQLite reads column from table in rowid order. NULL values are
// skipped. The database is opened in query-only mode.
func LoadSQLite(ctx context.Context, path, table, column string) ([]string, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("opening candidate database: %w", err)
	}

	db, err := sql.Open("sqlite", path+"?_pragma=query_only(1)")
	if err != nil {
		return nil, fmt.Errorf("opening candidate database: %w", err)
	}
	defer db.Close()

	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY rowid", quoteIdent(column), quoteIdent(table))
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		if strings.Contains(err.Error(), "no such column") {
			return nil, fmt.Errorf("%w: %s.%s", ErrColumnNotFound, table, column)
		}
		return nil, fmt.Errorf("querying candidates: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var v sql.NullString
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scanning candidate: %w", err)
		}
		if !v.Valid {
			continue
		}
		out = append(out, v.String)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating candidates: %w", err)
	}
	return out, nil
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
