package leaguemigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating leagues and league_memberships tables...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS leagues (
					id BIGSERIAL PRIMARY KEY,
					name TEXT NOT NULL,
					join_code VARCHAR(6) NOT NULL UNIQUE,
					creator_id TEXT NOT NULL,
					active BOOLEAN NOT NULL DEFAULT FALSE,
					activated_at TIMESTAMPTZ,
					finished_at TIMESTAMPTZ,
					winner_user_id TEXT,
					washed BOOLEAN NOT NULL DEFAULT FALSE,
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					CONSTRAINT chk_leagues_finished_inactive CHECK (finished_at IS NULL OR active = FALSE),
					CONSTRAINT chk_leagues_single_result CHECK (NOT (washed AND winner_user_id IS NOT NULL))
				);
				CREATE INDEX IF NOT EXISTS idx_leagues_active ON leagues(active) WHERE active = TRUE;
			`); err != nil {
				return fmt.Errorf("failed to create leagues table: %w", err)
			}

			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS league_memberships (
					id BIGSERIAL PRIMARY KEY,
					league_id BIGINT NOT NULL REFERENCES leagues(id) ON DELETE CASCADE,
					user_id TEXT NOT NULL,
					is_eliminated BOOLEAN NOT NULL DEFAULT FALSE,
					can_pick BOOLEAN NOT NULL DEFAULT TRUE,
					winner BOOLEAN NOT NULL DEFAULT FALSE,
					eliminated_at TIMESTAMPTZ,
					elimination_reason VARCHAR(32),
					version BIGINT NOT NULL DEFAULT 1,
					joined_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					CONSTRAINT uq_league_memberships UNIQUE (league_id, user_id),
					CONSTRAINT chk_memberships_can_pick CHECK (NOT (can_pick AND is_eliminated)),
					CONSTRAINT chk_memberships_winner CHECK (NOT (winner AND is_eliminated))
				);
				CREATE INDEX IF NOT EXISTS idx_league_memberships_user ON league_memberships(user_id);
				CREATE UNIQUE INDEX IF NOT EXISTS uq_league_memberships_winner ON league_memberships(league_id) WHERE winner;
			`); err != nil {
				return fmt.Errorf("failed to create league_memberships table: %w", err)
			}
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping league_memberships and leagues tables...")

		_, err := db.ExecContext(ctx, `
			DROP TABLE IF EXISTS league_memberships CASCADE;
			DROP TABLE IF EXISTS leagues CASCADE;
		`)
		return err
	})
}
