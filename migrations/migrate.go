// Package migrations manages database schema migrations. It uses the goose
// migration library with embedded SQL files so migrations are compiled into
// the binary and applied automatically at startup, regardless of working
// directory or deployment environment.
package migrations

import (
	"database/sql"
	"embed"
	"fmt"
	"strings"

	"github.com/pressly/goose/v3"
)

// embedMigrations holds all *.sql migration files embedded at compile time.
//
//go:embed *.sql sqlite/*.sql
var embedMigrations embed.FS

// Migrate applies all pending migrations in ascending order. The goose
// dialect and migration directory are resolved from the driver type, so the
// same entry point serves the PostgreSQL server store and the sqlite client
// replica.
//
// Intended to be called once at startup, before the database is used by any
// other component.
func Migrate(db *sql.DB) error {
	if db == nil {
		return fmt.Errorf("migration error: db is nil")
	}

	goose.SetBaseFS(embedMigrations)

	dialect, dir := resolveDialectAndDir(db)
	if err := goose.SetDialect(dialect); err != nil {
		return fmt.Errorf("migration error setting dialect for db: %w", err)
	}

	if err := goose.Up(db, dir); err != nil {
		return fmt.Errorf("migration error: %w", err)
	}

	return nil
}

func resolveDialectAndDir(db *sql.DB) (dialect, dir string) {
	driverType := fmt.Sprintf("%T", db.Driver())
	if strings.Contains(strings.ToLower(driverType), "sqlite") {
		return "sqlite3", "sqlite"
	}
	return "pgx", "."
}
