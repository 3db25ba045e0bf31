// Package migrations applies the versioned PostgreSQL schema embedded in the binary.
package migrations

import (
	"database/sql"
	"embed"
	"log/slog"

	"freshharvest/internal/errors"

	"github.com/golang-migrate/migrate/v4"
	pgmigrate "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed sql/*.sql
var files embed.FS

// Runner wraps a migrate instance bound to the embedded scripts.
type Runner struct {
	m      *migrate.Migrate
	logger *slog.Logger
}

// NewRunner prepares a migration runner over an open PostgreSQL connection.
func NewRunner(db *sql.DB, logger *slog.Logger) (*Runner, error) {
	source, err := iofs.New(files, "sql")
	if err != nil {
		return nil, errors.Wrap(err, "failed to open embedded migrations")
	}

	driver, err := pgmigrate.WithInstance(db, &pgmigrate.Config{})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create migration driver")
	}

	m, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create migrator")
	}

	return &Runner{m: m, logger: logger}, nil
}

// Up applies every pending migration.
func (r *Runner) Up() error {
	r.logger.Info("Running migrations")
	if err := r.m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			r.logger.Info("No migrations to run")

			return nil
		}

		return errors.Wrap(err, "failed to apply migrations")
	}

	return r.logVersion()
}

// Down rolls back the most recent migration.
func (r *Runner) Down() error {
	if err := r.m.Steps(-1); err != nil {
		return errors.Wrap(err, "failed to roll back migration")
	}

	return r.logVersion()
}

// Version reports the applied schema version.
func (r *Runner) Version() (uint, bool, error) {
	version, dirty, err := r.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, errors.Wrap(err, "failed to read schema version")
	}

	return version, dirty, nil
}

func (r *Runner) logVersion() error {
	version, dirty, err := r.Version()
	if err != nil {
		return err
	}
	r.logger.Info("Schema version", slog.Uint64("version", uint64(version)), slog.Bool("dirty", dirty))

	return nil
}
