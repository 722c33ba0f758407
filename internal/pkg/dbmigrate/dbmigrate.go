// Package dbmigrate applies the embedded schema migrations with golang-migrate.
package dbmigrate

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/bissquit/incident-tracker/migrations"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/pgx/v5" // registers pgx5://
	_ "github.com/golang-migrate/migrate/v4/database/sqlite" // registers sqlite://
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// Supported drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Up migrates the database to the latest version.
// For postgres dsn is a connection URL, for sqlite a file path.
func Up(driver, dsn string) error {
	m, err := newMigrator(driver, dsn)
	if err != nil {
		return err
	}
	defer closeMigrator(m)

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		return fmt.Errorf("read schema version: %w", err)
	}
	slog.Info("database schema up to date", "driver", driver, "version", version, "dirty", dirty)

	return nil
}

// DatabaseURL converts a driver DSN into the URL golang-migrate expects.
func DatabaseURL(driver, dsn string) (string, error) {
	switch driver {
	case DriverPostgres:
		for _, prefix := range []string{"postgres://", "postgresql://"} {
			if strings.HasPrefix(dsn, prefix) {
				return "pgx5://" + strings.TrimPrefix(dsn, prefix), nil
			}
		}
		return "", fmt.Errorf("postgres url must start with postgres:// or postgresql://")
	case DriverSQLite:
		if dsn == "" {
			return "", fmt.Errorf("sqlite path is empty")
		}
		return "sqlite://" + dsn, nil
	default:
		return "", fmt.Errorf("unsupported database driver %q", driver)
	}
}

func newMigrator(driver, dsn string) (*migrate.Migrate, error) {
	dbURL, err := DatabaseURL(driver, dsn)
	if err != nil {
		return nil, err
	}

	source, err := iofs.New(migrations.FS, driver)
	if err != nil {
		return nil, fmt.Errorf("open embedded migrations: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, dbURL)
	if err != nil {
		return nil, fmt.Errorf("create migrator: %w", err)
	}
	return m, nil
}

func closeMigrator(m *migrate.Migrate) {
	srcErr, dbErr := m.Close()
	if err := errors.Join(srcErr, dbErr); err != nil {
		slog.Warn("failed to close migrator", "error", err)
	}
}
