//go:build integration

// AngelaMos | 2026
// postgres.go

package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	postgrescontainer "github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/pulsecrm/pulse-crm/internal/core"
)

const postgresImage = "postgres:16-alpine"

// StartPostgres runs a throwaway Postgres with the schema applied.
func StartPostgres(t *testing.T) *sqlx.DB {
	t.Helper()
	ctx := context.Background()

	pg, err := postgrescontainer.Run(ctx, postgresImage,
		postgrescontainer.WithDatabase("crm"),
		postgrescontainer.WithUsername("crm"),
		postgrescontainer.WithPassword("crm"),
		postgrescontainer.BasicWaitStrategies(),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pg.Terminate(ctx) })

	connStr, err := pg.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := waitForDatabase(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, core.Migrate(ctx, db))

	return db
}

func waitForDatabase(ctx context.Context, connStr string) (*sqlx.DB, error) {
	deadline := time.Now().Add(30 * time.Second)
	for {
		db, err := sqlx.ConnectContext(ctx, "pgx", connStr)
		if err == nil {
			return db, nil
		}
		if time.Now().After(deadline) {
			return nil, err
		}
		time.Sleep(time.Second)
	}
}

// SeedUser inserts a user row and returns its id.
func SeedUser(t *testing.T, db *sqlx.DB, name, email, role string) string {
	t.Helper()
	id := uuid.NewString()
	_, err := db.ExecContext(context.Background(),
		`INSERT INTO users (id, email, password_hash, name, role)
		 VALUES ($1, $2, 'x', $3, $4)`,
		id, email, name, role)
	require.NoError(t, err)
	return id
}
