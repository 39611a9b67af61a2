package postgres

import (
	"database/sql"
	"embed"
	"fmt"

	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var embedMigrations embed.FS

// Migrate applies (up) or rolls back the last (down) schema migration.
func Migrate(db *sql.DB, direction string) error {
	goose.SetBaseFS(embedMigrations)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("goose set dialect: %w", err)
	}

	switch direction {
	case "up":
		if err := goose.Up(db, "migrations"); err != nil {
			return fmt.Errorf("goose up: %w", err)
		}
	case "down":
		if err := goose.Down(db, "migrations"); err != nil {
			return fmt.Errorf("goose down: %w", err)
		}
	default:
		return fmt.Errorf("unknown migration direction %q", direction)
	}
	return nil
}
