package db

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	_ "github.com/golang-migrate/migrate/v4/source/file" // file:// source driver
)

// MigrateUp applies all pending up migrations. migrationsPath uses
// golang-migrate source syntax, e.g. "file://db/migrations".
//
// IMPORTANT: the migrator takes ownership of the database connection and
// closes it when done. Open a fresh connection for the store afterwards,
// or use OpenStore which handles both steps.
//
// A database that is already up to date is not an error.
func MigrateUp(conn *sql.DB, migrationsPath string) error {
	m, err := newMigrator(conn, migrationsPath)
	if err != nil {
		return fmt.Errorf("db: failed to create migrator: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			return nil
		}
		return fmt.Errorf("db: failed to apply migrations: %w", err)
	}
	return nil
}

// MigrateUpFromPath applies pending migrations using its own short-lived
// connection.
func MigrateUpFromPath(dbPath, migrationsPath string) error {
	conn, err := NewSQLiteConnectionWithDefaults(dbPath)
	if err != nil {
		return err
	}
	// MigrateUp closes conn via the migrator.
	return MigrateUp(conn, migrationsPath)
}

// MigrationVersion returns the current migration version and dirty state.
// Returns version=0, dirty=false when no migrations have been applied.
//
// The dirty flag indicates a migration failed partway through; manual
// intervention may be required.
//
// Takes ownership of the connection like MigrateUp.
func MigrationVersion(conn *sql.DB, migrationsPath string) (uint, bool, error) {
	m, err := newMigrator(conn, migrationsPath)
	if err != nil {
		return 0, false, fmt.Errorf("db: failed to create migrator: %w", err)
	}
	defer m.Close()

	version, dirty, err := m.Version()
	if err != nil {
		if errors.Is(err, migrate.ErrNilVersion) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("db: failed to get migration version: %w", err)
	}
	return version, dirty, nil
}

// newMigrator wires the sqlite driver and file source into a migrator.
func newMigrator(conn *sql.DB, migrationsPath string) (*migrate.Migrate, error) {
	if conn == nil {
		return nil, errors.New("db: database connection is required")
	}
	if migrationsPath == "" {
		return nil, errors.New("db: migrations path is required")
	}

	driver, err := sqlite.WithInstance(conn, &sqlite.Config{DatabaseName: "main"})
	if err != nil {
		return nil, fmt.Errorf("db: failed to create sqlite driver: %w", err)
	}

	return migrate.NewWithDatabaseInstance(migrationsPath, "sqlite", driver)
}
