package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Dialect selects placeholder style and DDL for the SQL adapters.
type Dialect string

const (
	SQLite   Dialect = "sqlite"
	Postgres Dialect = "postgres"
)

// ParseDialect maps a db driver name to its dialect.
func ParseDialect(driver string) (Dialect, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "sqlite", "sqlite3":
		return SQLite, nil
	case "postgres", "pgx", "postgresql":
		return Postgres, nil
	default:
		return "", fmt.Errorf("unsupported sql dialect %q", driver)
	}
}

// rebind rewrites ? placeholders as $1..$n for Postgres.
func (d Dialect) rebind(query string) string {
	if d != Postgres {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (d Dialect) schema() []string {
	floatType, intType := "REAL", "INTEGER"
	if d == Postgres {
		floatType, intType = "DOUBLE PRECISION", "BIGINT"
	}

	return []string{
		`
	CREATE TABLE IF NOT EXISTS docks (
		code TEXT PRIMARY KEY,
		status TEXT NOT NULL DEFAULT 'available',
		allowed_vessel_types TEXT NOT NULL DEFAULT ''
	);
	`,
		fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS vessel_visit_notifications (
		vvn_id TEXT PRIMARY KEY,
		vessel_name TEXT NOT NULL,
		vessel_type TEXT NOT NULL DEFAULT '',
		dock TEXT NOT NULL,
		eta %[1]s NULL,
		etd %[1]s NULL,
		operation_duration_hours %[2]s NOT NULL DEFAULT 0
	);
	`, intType, floatType),
		`
	CREATE INDEX IF NOT EXISTS idx_vvn_eta
	ON vessel_visit_notifications(eta);
	`,
		fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS dock_reassignment_log (
		id TEXT PRIMARY KEY,
		vvn_id TEXT NOT NULL,
		vessel_name TEXT NOT NULL,
		original_dock TEXT NOT NULL,
		updated_dock TEXT NOT NULL,
		officer_id TEXT NOT NULL,
		logged_at_ms %s NOT NULL
	);
	`, intType),
		`
	CREATE INDEX IF NOT EXISTS idx_reassignment_log_vvn
	ON dock_reassignment_log(vvn_id);
	`,
	}
}

// Initialize the database schema for the given dialect.
func InitSchema(db *sql.DB, dialect Dialect) error {
	if db == nil {
		return errors.New("init schema: DB is nil")
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("init schema: begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for i, stmt := range dialect.schema() {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("init schema: exec statement #%d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("init schema: commit tx: %w", err)
	}

	return nil
}
