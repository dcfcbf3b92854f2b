package fixturemigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating fixtures table...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS fixtures (
					id BIGSERIAL PRIMARY KEY,
					fixture_key TEXT NOT NULL UNIQUE,
					league TEXT NOT NULL,
					home_team TEXT NOT NULL,
					away_team TEXT NOT NULL,
					kickoff_at TIMESTAMPTZ NOT NULL,
					progress VARCHAR(16) NOT NULL DEFAULT 'PreEvent',
					home_score INTEGER,
					away_score INTEGER,
					home_outcome VARCHAR(8) NOT NULL DEFAULT 'unknown',
					away_outcome VARCHAR(8) NOT NULL DEFAULT 'unknown',
					created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
					CONSTRAINT chk_fixtures_progress CHECK (progress IN ('PreEvent', 'MidEvent', 'PostEvent', 'Postponed', 'Cancelled')),
					CONSTRAINT chk_fixtures_teams CHECK (lower(home_team) <> lower(away_team))
				);
				CREATE INDEX IF NOT EXISTS idx_fixtures_kickoff_at ON fixtures(kickoff_at);
				CREATE INDEX IF NOT EXISTS idx_fixtures_home_team ON fixtures(lower(home_team), kickoff_at);
				CREATE INDEX IF NOT EXISTS idx_fixtures_away_team ON fixtures(lower(away_team), kickoff_at);
			`); err != nil {
				return fmt.Errorf("failed to create fixtures table: %w", err)
			}
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping fixtures table...")

		_, err := db.ExecContext(ctx, `DROP TABLE IF EXISTS fixtures CASCADE;`)
		return err
	})
}
