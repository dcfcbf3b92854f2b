package leaguemigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating picks table...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS picks (
					id BIGSERIAL PRIMARY KEY,
					league_id BIGINT NOT NULL REFERENCES leagues(id) ON DELETE CASCADE,
					user_id TEXT NOT NULL,
					fixture_id BIGINT NOT NULL REFERENCES fixtures(id),
					team TEXT NOT NULL,
					kickoff_at TIMESTAMPTZ NOT NULL,
					outcome VARCHAR(8) NOT NULL DEFAULT 'unknown',
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					CONSTRAINT chk_picks_outcome CHECK (outcome IN ('win', 'loss', 'draw', 'unknown'))
				);
				CREATE UNIQUE INDEX IF NOT EXISTS uq_picks_league_user_team ON picks(league_id, user_id, lower(team));
				CREATE INDEX IF NOT EXISTS idx_picks_fixture ON picks(fixture_id);
				CREATE INDEX IF NOT EXISTS idx_picks_league_user ON picks(league_id, user_id);
			`); err != nil {
				return fmt.Errorf("failed to create picks table: %w", err)
			}
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping picks table...")

		_, err := db.ExecContext(ctx, `DROP TABLE IF EXISTS picks CASCADE;`)
		return err
	})
}
