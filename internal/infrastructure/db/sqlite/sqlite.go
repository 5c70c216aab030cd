package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

// DB wraps the catalogue database.
type DB struct {
	db  *sql.DB
	log zerolog.Logger
}

// Open opens (creating if needed) the SQLite database at path, enables WAL and
// foreign keys, and brings the schema up to date.
func Open(ctx context.Context, path string, log zerolog.Logger) (*DB, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// SQLite serialises writers; one connection avoids SQLITE_BUSY under WAL.
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{"PRAGMA journal_mode=WAL", "PRAGMA foreign_keys=ON", "PRAGMA busy_timeout=5000"} {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("%s: %w", pragma, err)
		}
	}

	s := &DB{db: db, log: log.With().Str("component", "sqlite").Logger()}
	if err := s.createSchema(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	if err := s.runMigrations(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	s.log.Info().Str("path", path).Msg("sqlite catalogue ready")
	return s, nil
}

// Close releases the underlying connection.
func (s *DB) Close() error {
	return s.db.Close()
}

// Ping is a readiness check.
func (s *DB) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *DB) createSchema(ctx context.Context) error {
	const schema = `
		CREATE TABLE IF NOT EXISTS apps (
			id              TEXT PRIMARY KEY,
			name            TEXT NOT NULL UNIQUE COLLATE NOCASE,
			category        TEXT NOT NULL,
			icon            TEXT NOT NULL DEFAULT '',
			url             TEXT NOT NULL UNIQUE,
			description     TEXT NOT NULL DEFAULT '',
			key_features    TEXT NOT NULL DEFAULT '',
			base_activity   TEXT NOT NULL DEFAULT '',
			metrics_enabled INTEGER NOT NULL DEFAULT 0,
			metric_name     TEXT NOT NULL DEFAULT '',
			metric_value    TEXT NOT NULL DEFAULT '',
			is_active       INTEGER NOT NULL DEFAULT 1,
			created_at      TEXT NOT NULL,
			updated_at      TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_apps_active ON apps(is_active);

		CREATE TABLE IF NOT EXISTS categories (
			id         TEXT PRIMARY KEY,
			name       TEXT NOT NULL UNIQUE,
			icon       TEXT NOT NULL DEFAULT 'Folder',
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		);
	`
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// runMigrations adds columns introduced after the first release. SQLite has
// no ADD COLUMN IF NOT EXISTS, so each column is checked first.
func (s *DB) runMigrations(ctx context.Context) error {
	migrations := []struct {
		table  string
		column string
		apply  string
	}{
		{"apps", "key_features", `ALTER TABLE apps ADD COLUMN key_features TEXT NOT NULL DEFAULT ''`},
		{"apps", "base_activity", `ALTER TABLE apps ADD COLUMN base_activity TEXT NOT NULL DEFAULT ''`},
	}

	for _, m := range migrations {
		var exists int
		err := s.db.QueryRowContext(ctx, `SELECT 1 FROM pragma_table_info(?) WHERE name = ?`, m.table, m.column).Scan(&exists)
		if err == nil {
			continue
		}
		if err != sql.ErrNoRows {
			return fmt.Errorf("checking %s.%s: %w", m.table, m.column, err)
		}
		if _, err := s.db.ExecContext(ctx, m.apply); err != nil {
			return fmt.Errorf("adding %s.%s: %w", m.table, m.column, err)
		}
		s.log.Info().Str("table", m.table).Str("column", m.column).Msg("applied migration")
	}
	return nil
}

// uniqueViolation returns the "table.column" named in a SQLite UNIQUE
// constraint error, or "" when err is something else.
func uniqueViolation(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	const marker = "UNIQUE constraint failed: "
	i := strings.Index(msg, marker)
	if i < 0 {
		return ""
	}
	rest := msg[i+len(marker):]
	if j := strings.IndexAny(rest, " ,)"); j >= 0 {
		rest = rest[:j]
	}
	return rest
}
