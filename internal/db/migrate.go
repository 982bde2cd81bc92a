package db

import (
	"database/sql"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/pressly/goose/v3"
)

type dialect struct {
	goose string // goose dialect name
	dir   string // migrations subdirectory
}

// dialectMap maps database drivers to Goose dialects and migration sets
var dialectMap = map[string]dialect{
	DriverSQLite:   {goose: "sqlite3", dir: "sqlite"},
	DriverPostgres: {goose: "postgres", dir: "postgres"},
}

// setupGoose configures Goose with the correct dialect and filesystem
func setupGoose(driver string) error {
	d, ok := dialectMap[driver]
	if !ok {
		return fmt.Errorf("unsupported database driver %q", driver)
	}

	err := goose.SetDialect(d.goose)
	if err != nil {
		return fmt.Errorf("failed to set dialect: %w", err)
	}

	migrationsDir, err := fs.Sub(migrationsFS, "migrations/"+d.dir)
	if err != nil {
		return fmt.Errorf("failed to get migrations directory: %w", err)
	}

	goose.SetBaseFS(migrationsDir)
	goose.SetLogger(goose.NopLogger())
	return nil
}

func RunMigrations(db *sql.DB, driver string) error {
	err := setupGoose(driver)
	if err != nil {
		return err
	}

	err = goose.Up(db, ".")
	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	version, err := goose.GetDBVersion(db)
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	slog.Info("migrations completed successfully", "version", version)
	return nil
}

func MigrateDown(db *sql.DB, driver string) error {
	err := setupGoose(driver)
	if err != nil {
		return err
	}

	err = goose.Down(db, ".")
	if err != nil {
		return fmt.Errorf("failed to rollback migration: %w", err)
	}

	slog.Info("rolled back one migration")
	return nil
}
