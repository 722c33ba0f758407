// Package store opens the configured database backend and exposes its repositories.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/bissquit/incident-tracker/internal/config"
	"github.com/bissquit/incident-tracker/internal/incidents"
	incidentspostgres "github.com/bissquit/incident-tracker/internal/incidents/postgres"
	incidentssqlite "github.com/bissquit/incident-tracker/internal/incidents/sqlite"
	"github.com/bissquit/incident-tracker/internal/pkg/dbmigrate"
	"github.com/bissquit/incident-tracker/internal/pkg/metrics"
	"github.com/bissquit/incident-tracker/internal/pkg/postgres"
	"github.com/bissquit/incident-tracker/internal/pkg/sqlite"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store bundles an open database with the repositories built on it.
type Store struct {
	Driver    string
	Incidents incidents.Repository

	pool *pgxpool.Pool
	db   *sql.DB
}

// Open connects to the database selected by cfg.Driver and, when
// cfg.AutoMigrate is set, brings the schema up to date.
func Open(ctx context.Context, cfg config.DatabaseConfig) (*Store, error) {
	switch cfg.Driver {
	case dbmigrate.DriverPostgres:
		return openPostgres(ctx, cfg)
	case dbmigrate.DriverSQLite, "":
		return openSQLite(ctx, cfg)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

func openPostgres(ctx context.Context, cfg config.DatabaseConfig) (*Store, error) {
	pool, err := postgres.Connect(ctx, postgres.Config{
		URL:             cfg.URL,
		MaxOpenConns:    cfg.MaxOpenConns,
		MaxIdleConns:    cfg.MaxIdleConns,
		ConnMaxLifetime: cfg.ConnMaxLifetime,
		ConnectAttempts: cfg.ConnectAttempts,
	})
	if err != nil {
		return nil, err
	}

	if cfg.AutoMigrate {
		if err := dbmigrate.Up(dbmigrate.DriverPostgres, cfg.URL); err != nil {
			pool.Close()
			return nil, err
		}
	}

	return &Store{
		Driver:    dbmigrate.DriverPostgres,
		Incidents: incidentspostgres.NewRepository(pool),
		pool:      pool,
	}, nil
}

func openSQLite(ctx context.Context, cfg config.DatabaseConfig) (*Store, error) {
	db, err := sqlite.Open(ctx, sqlite.Config{
		Path:         cfg.Path,
		MaxOpenConns: cfg.MaxOpenConns,
	})
	if err != nil {
		return nil, err
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	if cfg.AutoMigrate {
		if err := dbmigrate.Up(dbmigrate.DriverSQLite, cfg.Path); err != nil {
			_ = db.Close()
			return nil, err
		}
	}

	return &Store{
		Driver:    dbmigrate.DriverSQLite,
		Incidents: incidentssqlite.NewRepository(db),
		db:        db,
	}, nil
}

// Ping verifies the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if s.pool != nil {
		return s.pool.Ping(ctx)
	}
	if s.db != nil {
		return s.db.PingContext(ctx)
	}
	return errors.New("store is closed")
}

// RecordMetrics publishes connection pool gauges.
func (s *Store) RecordMetrics() {
	switch {
	case s.pool != nil:
		metrics.RecordDBPoolMetrics(s.pool)
	case s.db != nil:
		metrics.RecordSQLDBMetrics(s.db)
	}
}

// Close releases the underlying connections.
func (s *Store) Close() error {
	if s.pool != nil {
		s.pool.Close()
		s.pool = nil
	}
	if s.db != nil {
		err := s.db.Close()
		s.db = nil
		return err
	}
	return nil
}
