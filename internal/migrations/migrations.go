package migrations

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

//go:embed *.sql
var MigrationFiles embed.FS

// Source returns the embedded migrations as a migrate source driver.
func Source() (source.Driver, error) {
	sourceDriver, err := iofs.New(MigrationFiles, ".")
	if err != nil {
		return nil, fmt.Errorf("failed to create migration source: %w", err)
	}
	return sourceDriver, nil
}

// RunMigrations brings the consumption tables up to date.
// If autoMigrate is false, it only logs the current version.
func RunMigrations(db *sql.DB, autoMigrate bool) error {
	sourceDriver, err := Source()
	if err != nil {
		return err
	}

	dbDriver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("failed to create database driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "postgres", dbDriver)
	if err != nil {
		return fmt.Errorf("failed to create migrate instance: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("failed to get current migration version: %w", err)
	}

	if dirty {
		slog.Warn("[Migrations] Database is in dirty state",
			"version", version,
			"action", "forcing current version",
		)
		// Every migration is idempotent (IF [NOT] EXISTS), so re-running after a force is safe.
		if err := m.Force(int(version)); err != nil {
			return fmt.Errorf("failed to recover dirty migration state at version %d: %w", version, err)
		}
	}

	if !autoMigrate {
		slog.Info("[Migrations] Auto-migration disabled",
			"current_version", version,
			"dirty", dirty,
		)
		return nil
	}

	slog.Info("[Migrations] Applying", "current_version", version)

	if err := m.Up(); err != nil {
		if errors.Is(err, migrate.ErrNoChange) {
			slog.Info("[Migrations] Schema is up to date", "version", version)
			return nil
		}
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	newVersion, _, err := m.Version()
	if err != nil {
		return fmt.Errorf("failed to get updated migration version: %w", err)
	}

	slog.Info("[Migrations] Completed",
		"from_version", version,
		"to_version", newVersion,
	)
	return nil
}
