// Package dbmigrate runs the per-module bun migrations and the River schema
// migrations in a fixed order.
package dbmigrate

import (
	"context"
	"fmt"
	"log/slog"

	fixturemigrations "github.com/Black-And-White-Club/last-man-standing/app/modules/fixture/infrastructure/repositories/migrations"
	gameweekmigrations "github.com/Black-And-White-Club/last-man-standing/app/modules/gameweek/infrastructure/repositories/migrations"
	leaguemigrations "github.com/Black-And-White-Club/last-man-standing/app/modules/league/infrastructure/repositories/migrations"
	"github.com/Black-And-White-Club/last-man-standing/app/shared/observability/attr"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/riverqueue/river/riverdriver/riverpgxv5"
	"github.com/riverqueue/river/rivermigrate"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/migrate"
)

// Module is one module's migration set.
type Module struct {
	Name       string
	Migrations *migrate.Migrations
}

// Modules lists the migration sets in dependency order: picks reference
// fixtures.
func Modules() []Module {
	return []Module{
		{"fixture", fixturemigrations.Migrations},
		{"gameweek", gameweekmigrations.Migrations},
		{"league", leaguemigrations.Migrations},
	}
}

// NamedMigrator pairs a module name with its migrator.
type NamedMigrator struct {
	Name     string
	Migrator *migrate.Migrator
}

// Migrators builds a migrator per module, in Modules order.
func Migrators(db *bun.DB) []NamedMigrator {
	mods := Modules()
	out := make([]NamedMigrator, 0, len(mods))
	for _, m := range mods {
		out = append(out, NamedMigrator{Name: m.Name, Migrator: migrate.NewMigrator(db, m.Migrations)})
	}
	return out
}

// Up creates the migration tables and applies every pending module migration.
func Up(ctx context.Context, db *bun.DB, logger *slog.Logger) error {
	migrators := Migrators(db)
	if len(migrators) == 0 {
		return nil
	}
	// All modules share one migrations table.
	if err := migrators[0].Migrator.Init(ctx); err != nil {
		return fmt.Errorf("failed to initialize migration tables: %w", err)
	}

	for _, m := range migrators {
		group, err := m.Migrator.Migrate(ctx)
		if err != nil {
			return fmt.Errorf("failed to run %s migrations: %w", m.Name, err)
		}
		if group.IsZero() {
			logger.InfoContext(ctx, "No new migrations", attr.String("module", m.Name))
		} else {
			logger.InfoContext(ctx, "Migrated module", attr.String("module", m.Name), attr.String("group", group.String()))
		}
	}
	return nil
}

// RiverUp applies the River queue schema through a short-lived pgx pool.
func RiverUp(ctx context.Context, dsn string, logger *slog.Logger) error {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return fmt.Errorf("failed to create pgx pool for River migrations: %w", err)
	}
	defer pool.Close()

	migrator, err := rivermigrate.New(riverpgxv5.New(pool), nil)
	if err != nil {
		return fmt.Errorf("failed to create River migrator: %w", err)
	}
	res, err := migrator.Migrate(ctx, rivermigrate.DirectionUp, &rivermigrate.MigrateOpts{})
	if err != nil {
		return fmt.Errorf("failed to run River migrations: %w", err)
	}
	logger.InfoContext(ctx, "River migrations applied", attr.Int("versions", len(res.Versions)))
	return nil
}

// RiverDown rolls back the most recent River schema version.
func RiverDown(ctx context.Context, dsn string, logger *slog.Logger) error {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return fmt.Errorf("failed to create pgx pool for River migrations: %w", err)
	}
	defer pool.Close()

	migrator, err := rivermigrate.New(riverpgxv5.New(pool), nil)
	if err != nil {
		return fmt.Errorf("failed to create River migrator: %w", err)
	}
	res, err := migrator.Migrate(ctx, rivermigrate.DirectionDown, &rivermigrate.MigrateOpts{MaxSteps: 1})
	if err != nil {
		return fmt.Errorf("failed to roll back River migrations: %w", err)
	}
	logger.InfoContext(ctx, "River migrations rolled back", attr.Int("versions", len(res.Versions)))
	return nil
}
