package database

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	migratedb "github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/savingsboard/core/internal/infrastructure/config"
)

//go:embed migrations
var migrationsFS embed.FS

// Migrator applies the embedded schema migrations for the connection's driver
type Migrator struct {
	m      *migrate.Migrate
	source source.Driver
	conn   *sql.Conn
}

// NewMigrator builds a migrator bound to db. Close releases what the
// migrator holds; db itself stays open and owned by the caller.
func NewMigrator(db *DB) (*Migrator, error) {
	src, err := iofs.New(migrationsFS, "migrations/"+db.driver)
	if err != nil {
		return nil, fmt.Errorf("failed to load migrations: %w", err)
	}

	mg := &Migrator{source: src}

	var driver migratedb.Driver
	switch db.driver {
	case config.DriverPostgres:
		// postgres.WithInstance would close the shared pool on Close, so the
		// driver gets its own pooled connection instead
		ctx := context.Background()
		mg.conn, err = db.DB.Conn(ctx)
		if err == nil {
			driver, err = postgres.WithConnection(ctx, mg.conn, &postgres.Config{})
		}
	case config.DriverSQLite:
		driver, err = sqlite.WithInstance(db.DB.DB, &sqlite.Config{})
	default:
		err = fmt.Errorf("unsupported database driver %q", db.driver)
	}
	if err != nil {
		mg.Close()
		return nil, fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, db.driver, driver)
	if err != nil {
		mg.Close()
		return nil, fmt.Errorf("failed to create migration instance: %w", err)
	}
	mg.m = m

	return mg, nil
}

// Close returns the dedicated postgres connection to the pool and closes the
// migration source. It never closes the shared *sql.DB.
func (mg *Migrator) Close() error {
	var errs []error
	if err := mg.source.Close(); err != nil {
		errs = append(errs, fmt.Errorf("close migration source: %w", err))
	}
	if mg.conn != nil {
		if err := mg.conn.Close(); err != nil && !errors.Is(err, sql.ErrConnDone) {
			errs = append(errs, fmt.Errorf("close migration connection: %w", err))
		}
	}
	return errors.Join(errs...)
}

// Up applies all pending migrations. It returns false when there was nothing
// to apply.
func (mg *Migrator) Up() (bool, error) {
	return changed(mg.m.Up())
}

// Down reverts all migrations
func (mg *Migrator) Down() (bool, error) {
	return changed(mg.m.Down())
}

// Version reports the applied schema version
func (mg *Migrator) Version() (uint, bool, error) {
	version, dirty, err := mg.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	return version, dirty, err
}

func changed(err error) (bool, error) {
	if errors.Is(err, migrate.ErrNoChange) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("migration failed: %w", err)
	}
	return true, nil
}

// Migrate is a shortcut that applies all pending migrations on db
func Migrate(db *DB) error {
	mg, err := NewMigrator(db)
	if err != nil {
		return err
	}
	defer mg.Close()

	_, err = mg.Up()
	return err
}
