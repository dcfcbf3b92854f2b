package leaguedb

import (
	"context"
	"fmt"

	fixturedomain "github.com/Black-And-White-Club/last-man-standing/app/modules/fixture/domain"
	"github.com/uptrace/bun"
)

func (r *Impl) CreatePick(ctx context.Context, db bun.IDB, pick *Pick) error {
	db = r.resolveDB(db)
	_, err := db.NewInsert().
		Model(pick).
		Returning("*").
		Exec(ctx)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("pick.CreatePick: %w", err)
	}
	return nil
}

func (r *Impl) ListPicks(ctx context.Context, db bun.IDB, leagueID int64, userID string) ([]*Pick, error) {
	db = r.resolveDB(db)
	var picks []*Pick
	err := db.NewSelect().
		Model(&picks).
		Where("league_id = ?", leagueID).
		Where("user_id = ?", userID).
		Order("kickoff_at ASC", "id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("pick.ListPicks: %w", err)
	}
	return picks, nil
}

func (r *Impl) ListLeaguePicks(ctx context.Context, db bun.IDB, leagueID int64) ([]*Pick, error) {
	db = r.resolveDB(db)
	var picks []*Pick
	err := db.NewSelect().
		Model(&picks).
		Where("league_id = ?", leagueID).
		Order("kickoff_at ASC", "id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("pick.ListLeaguePicks: %w", err)
	}
	return picks, nil
}

func (r *Impl) ListPicksByFixture(ctx context.Context, db bun.IDB, fixtureID int64) ([]*Pick, error) {
	db = r.resolveDB(db)
	var picks []*Pick
	err := db.NewSelect().
		Model(&picks).
		Where("fixture_id = ?", fixtureID).
		Order("league_id ASC", "id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("pick.ListPicksByFixture: %w", err)
	}
	return picks, nil
}

func (r *Impl) UpdatePickOutcome(ctx context.Context, db bun.IDB, pickID int64, outcome fixturedomain.Outcome) error {
	db = r.resolveDB(db)
	result, err := db.NewUpdate().
		Model((*Pick)(nil)).
		Set("outcome = ?", outcome).
		Where("id = ?", pickID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("pick.UpdatePickOutcome: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("pick.UpdatePickOutcome: %w", err)
	}
	if rows == 0 {
		return ErrNoRowsAffected
	}
	return nil
}

func (r *Impl) DeletePick(ctx context.Context, db bun.IDB, pickID int64) error {
	db = r.resolveDB(db)
	_, err := db.NewDelete().
		Model((*Pick)(nil)).
		Where("id = ?", pickID).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("pick.DeletePick: %w", err)
	}
	return nil
}
