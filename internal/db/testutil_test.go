//go:build integration

package db

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/le-stagiaire-ag2r/casper-yield-indexer/internal/config"
	"github.com/le-stagiaire-ag2r/casper-yield-indexer/internal/db/migrations"
)

// setupTestDB starts a throwaway Postgres container with migrations applied.
// The returned cleanup must be called after the test completes.
func setupTestDB(t *testing.T) (*Database, func()) {
	t.Helper()

	ctx := context.Background()

	container, err := postgres.Run(ctx, "postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err, "failed to start postgres container")

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err, "failed to get connection string")

	database, err := New(ctx, config.DbConfig{DSN: dsn, MaxConns: 5})
	require.NoError(t, err, "failed to create db client")

	require.NoError(t, migrations.RunPostgresMigrations(ctx, database.Pool()),
		"failed to apply migrations")

	cleanup := func() {
		database.Close()
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	}

	return database, cleanup
}

func resetTables(t *testing.T, database *Database) {
	t.Helper()
	_, err := database.Pool().Exec(context.Background(),
		"TRUNCATE transactions, user_positions, pool_stats RESTART IDENTITY")
	require.NoError(t, err)
}
