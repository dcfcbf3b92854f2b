package leaguedb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"
)

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new league repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

func (r *Impl) CreateLeague(ctx context.Context, db bun.IDB, league *League) error {
	db = r.resolveDB(db)
	_, err := db.NewInsert().
		Model(league).
		Returning("*").
		Exec(ctx)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("league.CreateLeague: %w", err)
	}
	return nil
}

func (r *Impl) GetLeague(ctx context.Context, db bun.IDB, id int64) (*League, error) {
	db = r.resolveDB(db)
	league := new(League)
	err := db.NewSelect().
		Model(league).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("league.GetLeague: %w", err)
	}
	return league, nil
}

func (r *Impl) GetLeagueByJoinCode(ctx context.Context, db bun.IDB, code string) (*League, error) {
	db = r.resolveDB(db)
	league := new(League)
	err := db.NewSelect().
		Model(league).
		Where("join_code = ?", code).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("league.GetLeagueByJoinCode: %w", err)
	}
	return league, nil
}

func (r *Impl) UpdateLeague(ctx context.Context, db bun.IDB, league *League) error {
	db = r.resolveDB(db)
	result, err := db.NewUpdate().
		Model(league).
		Column("active", "activated_at", "finished_at", "winner_user_id", "washed").
		WherePK().
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("league.UpdateLeague: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("league.UpdateLeague: %w", err)
	}
	if rows == 0 {
		return ErrNoRowsAffected
	}
	return nil
}

func (r *Impl) ListActiveLeagues(ctx context.Context, db bun.IDB) ([]*League, error) {
	db = r.resolveDB(db)
	var leagues []*League
	err := db.NewSelect().
		Model(&leagues).
		Where("active = TRUE").
		Where("finished_at IS NULL").
		Order("id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("league.ListActiveLeagues: %w", err)
	}
	return leagues, nil
}

func (r *Impl) ListLeaguesForUser(ctx context.Context, db bun.IDB, userID string) ([]*League, error) {
	db = r.resolveDB(db)
	var leagues []*League
	err := db.NewSelect().
		Model(&leagues).
		Join("JOIN league_memberships AS m ON m.league_id = l.id").
		Where("m.user_id = ?", userID).
		Order("l.created_at DESC", "l.id DESC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("league.ListLeaguesForUser: %w", err)
	}
	return leagues, nil
}

func (r *Impl) LockLeague(ctx context.Context, db bun.IDB, leagueID int64) error {
	db = r.resolveDB(db)
	_, err := db.NewRaw("SELECT pg_advisory_xact_lock(hashtext(?))", fmt.Sprintf("league:%d", leagueID)).Exec(ctx)
	if err != nil {
		return fmt.Errorf("league.LockLeague: %w", err)
	}
	return nil
}
