package sqlstore

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed migrations/sqlite/*.sql migrations/postgres/*.sql
var migrationsFS embed.FS

// RunMigrations brings the schema at dsn up to date on a dedicated
// connection. It is safe to call on every start; an up-to-date schema is
// not an error.
func RunMigrations(d Dialect, dsn string) error {
	db, err := sql.Open(d.Driver, dsn)
	if err != nil {
		return fmt.Errorf("open migration database: %w", err)
	}
	defer db.Close()

	var driver database.Driver
	switch d.Name {
	case SQLite.Name:
		driver, err = sqlite.WithInstance(db, &sqlite.Config{})
	case Postgres.Name:
		driver, err = postgres.WithInstance(db, &postgres.Config{})
	default:
		return fmt.Errorf("no migrations for dialect %q", d.Name)
	}
	if err != nil {
		return fmt.Errorf("create %s migrate driver: %w", d.Name, err)
	}

	src, err := iofs.New(migrationsFS, "migrations/"+d.Name)
	if err != nil {
		return fmt.Errorf("create iofs source: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, d.Name, driver)
	if err != nil {
		return fmt.Errorf("create migrate instance: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}
