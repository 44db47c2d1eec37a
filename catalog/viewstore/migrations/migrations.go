// Package migrations embeds the schema of the view tables and applies it with golang-migrate.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"errors"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed postgres/*.sql sqlite/*.sql
var files embed.FS

const (
	DialectPostgres = "postgres"
	DialectSQLite   = "sqlite3"
)

var (
	// ErrUnknownDialect is returned for dialects without embedded migrations.
	ErrUnknownDialect = errors.New("no migrations for dialect")

	// ErrMigrationFailed wraps failures of the migration run.
	ErrMigrationFailed = errors.New("schema migration failed")
)

// Up applies all pending migrations for dialect on db. An up-to-date schema is not an error.
//
// db stays open; it is owned by the caller.
func Up(db *sql.DB, dialect string) error {
	m, release, err := newMigrate(db, dialect)
	if err != nil {
		return err
	}
	defer release()

	if err = m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return errors.Join(ErrMigrationFailed, err)
	}

	return nil
}

// Down reverts all migrations for dialect on db.
func Down(db *sql.DB, dialect string) error {
	m, release, err := newMigrate(db, dialect)
	if err != nil {
		return err
	}
	defer release()

	if err = m.Down(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return errors.Join(ErrMigrationFailed, err)
	}

	return nil
}

// Version reports the applied schema version and whether the last migration left the schema dirty.
func Version(db *sql.DB, dialect string) (uint, bool, error) {
	m, release, err := newMigrate(db, dialect)
	if err != nil {
		return 0, false, err
	}
	defer release()

	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}

	if err != nil {
		return 0, false, errors.Join(ErrMigrationFailed, err)
	}

	return version, dirty, nil
}

// newMigrate builds a migrate instance on db. The instance itself is never closed because
// that would close db; release frees the dedicated connection the postgres driver holds.
func newMigrate(db *sql.DB, dialect string) (*migrate.Migrate, func(), error) {
	var (
		dir     string
		driver  database.Driver
		release = func() {}
		err     error
	)

	switch dialect {
	case DialectPostgres:
		dir = "postgres"

		var conn *sql.Conn
		if conn, err = db.Conn(context.Background()); err != nil {
			return nil, nil, errors.Join(ErrMigrationFailed, err)
		}

		release = func() { _ = conn.Close() }
		driver, err = postgres.WithConnection(context.Background(), conn, &postgres.Config{})
	case DialectSQLite:
		dir = "sqlite"
		driver, err = sqlite3.WithInstance(db, &sqlite3.Config{})
	default:
		return nil, nil, ErrUnknownDialect
	}

	if err != nil {
		release()
		return nil, nil, errors.Join(ErrMigrationFailed, err)
	}

	source, err := iofs.New(files, dir)
	if err != nil {
		release()
		return nil, nil, errors.Join(ErrMigrationFailed, err)
	}

	m, err := migrate.NewWithInstance("iofs", source, dialect, driver)
	if err != nil {
		release()
		return nil, nil, errors.Join(ErrMigrationFailed, err)
	}

	return m, release, nil
}
