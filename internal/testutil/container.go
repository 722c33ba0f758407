package testutil

import (
	"context"
	"fmt"
	"time"

	"github.com/bissquit/incident-tracker/internal/config"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const postgresImage = "postgres:16-alpine"

// PostgresContainer is a throwaway incidents database.
type PostgresContainer struct {
	*postgres.PostgresContainer
	ConnectionString string
}

// NewPostgresContainer starts PostgreSQL with an empty incidents database.
// Schema is left to the caller, usually through the store's auto-migrate.
func NewPostgresContainer(ctx context.Context) (*PostgresContainer, error) {
	container, err := postgres.Run(ctx,
		postgresImage,
		postgres.WithDatabase("incidents"),
		postgres.WithUsername("incidents"),
		postgres.WithPassword("incidents"),
		testcontainers.WithWaitStrategy(
			// postgres logs readiness twice: once for the init server, once for the real one
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("run %s: %w", postgresImage, err)
	}

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		_ = testcontainers.TerminateContainer(container)
		return nil, fmt.Errorf("postgres dsn: %w", err)
	}

	return &PostgresContainer{PostgresContainer: container, ConnectionString: dsn}, nil
}

// DatabaseConfig points the store at this container with migrations enabled.
func (c *PostgresContainer) DatabaseConfig() config.DatabaseConfig {
	return config.DatabaseConfig{
		Driver:          "postgres",
		URL:             c.ConnectionString,
		MaxOpenConns:    5,
		MaxIdleConns:    2,
		ConnMaxLifetime: 5 * time.Minute,
		ConnectTimeout:  30 * time.Second,
		ConnectAttempts: 3,
		AutoMigrate:     true,
	}
}
