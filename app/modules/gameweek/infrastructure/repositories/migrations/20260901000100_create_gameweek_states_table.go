package gameweekmigrations

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"
)

func init() {
	Migrations.MustRegister(func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Creating gameweek_states table...")

		return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
			if _, err := tx.ExecContext(ctx, `
				CREATE TABLE IF NOT EXISTS gameweek_states (
					window_start TIMESTAMPTZ PRIMARY KEY,
					window_end TIMESTAMPTZ NOT NULL,
					fixture_count INTEGER NOT NULL DEFAULT 0,
					active BOOLEAN NOT NULL DEFAULT FALSE,
					checked_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
				);
			`); err != nil {
				return fmt.Errorf("failed to create gameweek_states table: %w", err)
			}
			return nil
		})
	}, func(ctx context.Context, db *bun.DB) error {
		fmt.Println("Dropping gameweek_states table...")

		_, err := db.ExecContext(ctx, `DROP TABLE IF EXISTS gameweek_states;`)
		return err
	})
}
