package storage

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// DB wraps a sql.DB for the per frame analysis store
type DB struct {
	conn *sql.DB
}

// Open opens (or creates) the SQLite database at the given path and
// migrates it to the latest schema.  Use ":memory:" for a throwaway store.
func Open(path string) (*DB, error) {

	conn, err := sql.Open("sqlite", path)

	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	// sqlite allows a single writer and each :memory: connection is a
	// separate database
	conn.SetMaxOpenConns(1)

	if _, err := conn.Exec("PRAGMA foreign_keys = ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.MigrateUp(); err != nil {
		conn.Close()
		return nil, err
	}

	return db, nil
}

// Close closes the underlying connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// MigrateUp runs all pending migrations up to the latest version
func (db *DB) MigrateUp() error {

	m, err := db.newMigrate()

	if err != nil {
		return err
	}

	// m is not closed as that would close the underlying connection

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration up failed: %w", err)
	}

	return nil
}

// MigrateDown rolls back the most recent migration
func (db *DB) MigrateDown() error {

	m, err := db.newMigrate()

	if err != nil {
		return err
	}

	if err := m.Steps(-1); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("migration down failed: %w", err)
	}

	return nil
}

// MigrateVersion returns the current migration version and dirty state
func (db *DB) MigrateVersion() (uint, bool, error) {

	m, err := db.newMigrate()

	if err != nil {
		return 0, false, err
	}

	version, dirty, err := m.Version()

	if err != nil && errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}

	return version, dirty, err
}

// newMigrate creates a migrate instance reading the embedded migrations
func (db *DB) newMigrate() (*migrate.Migrate, error) {

	src, err := iofs.New(migrationsFS, "migrations")

	if err != nil {
		return nil, fmt.Errorf("failed to open embedded migrations: %w", err)
	}

	driver, err := sqlite.WithInstance(db.conn, &sqlite.Config{})

	if err != nil {
		return nil, fmt.Errorf("failed to create sqlite driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)

	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}

	return m, nil
}
