package database

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"strings"
)

// Schema is the DDL of the tables this service reads.  It is kept portable
// (no engine options, no AUTO_INCREMENT) so the same statements create the
// in-memory SQLite databases used by the repository tests.
//
//go:embed schema.sql
var Schema string

// Migrate applies Schema statement by statement; the MySQL driver rejects
// multi-statement Exec calls unless multiStatements is enabled.
func Migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range strings.Split(Schema, ";") {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema statement %q: %w", firstLine(stmt), err)
		}
	}
	return nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}
