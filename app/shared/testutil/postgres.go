//go:build integration

// Package testutil starts a migrated Postgres for integration tests.
package testutil

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/Black-And-White-Club/last-man-standing/app/shared/dbmigrate"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

// Postgres is a running, migrated database.
type Postgres struct {
	DB  *bun.DB
	DSN string
}

// StartPostgres runs a Postgres container, applies the module and River
// migrations and registers cleanup on t.
func StartPostgres(t *testing.T) *Postgres {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	container, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err, "failed to start postgres container")
	t.Cleanup(func() {
		_ = testcontainers.TerminateContainer(container)
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	pgdb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(pgdb, pgdialect.New())
	t.Cleanup(func() { _ = db.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	require.NoError(t, dbmigrate.RiverUp(ctx, dsn, logger))
	require.NoError(t, dbmigrate.Up(ctx, db, logger))

	return &Postgres{DB: db, DSN: dsn}
}

// Truncate empties the application tables between tests.
func (p *Postgres) Truncate(t *testing.T) {
	t.Helper()
	_, err := p.DB.ExecContext(context.Background(),
		`TRUNCATE TABLE picks, league_memberships, leagues, fixtures, gameweek_states RESTART IDENTITY CASCADE`)
	require.NoError(t, err)
}

// Faker returns a seeded generator so failures can be replayed.
func Faker(t *testing.T) *gofakeit.Faker {
	t.Helper()
	seed := uint64(time.Now().UnixNano())
	t.Logf("gofakeit seed %d", seed)
	return gofakeit.New(seed)
}
