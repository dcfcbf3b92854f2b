package leaguedb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uptrace/bun"
)

func (r *Impl) CreateMembership(ctx context.Context, db bun.IDB, membership *Membership) error {
	db = r.resolveDB(db)
	if membership.Version == 0 {
		membership.Version = 1
	}
	_, err := db.NewInsert().
		Model(membership).
		Returning("*").
		Exec(ctx)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("membership.CreateMembership: %w", err)
	}
	return nil
}

func (r *Impl) GetMembership(ctx context.Context, db bun.IDB, leagueID int64, userID string) (*Membership, error) {
	db = r.resolveDB(db)
	membership := new(Membership)
	err := db.NewSelect().
		Model(membership).
		Where("league_id = ?", leagueID).
		Where("user_id = ?", userID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("membership.GetMembership: %w", err)
	}
	return membership, nil
}

func (r *Impl) ListMemberships(ctx context.Context, db bun.IDB, leagueID int64) ([]*Membership, error) {
	db = r.resolveDB(db)
	var memberships []*Membership
	err := db.NewSelect().
		Model(&memberships).
		Where("league_id = ?", leagueID).
		Order("joined_at ASC", "id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("membership.ListMemberships: %w", err)
	}
	return memberships, nil
}

func (r *Impl) ListMembershipsForUser(ctx context.Context, db bun.IDB, userID string) ([]*Membership, error) {
	db = r.resolveDB(db)
	var memberships []*Membership
	err := db.NewSelect().
		Model(&memberships).
		Where("user_id = ?", userID).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("membership.ListMembershipsForUser: %w", err)
	}
	return memberships, nil
}

func (r *Impl) UpdateMembership(ctx context.Context, db bun.IDB, membership *Membership) error {
	db = r.resolveDB(db)
	result, err := db.NewUpdate().
		Model(membership).
		Set("is_eliminated = ?", membership.IsEliminated).
		Set("can_pick = ?", membership.CanPick).
		Set("winner = ?", membership.Winner).
		Set("eliminated_at = ?", membership.EliminatedAt).
		Set("elimination_reason = NULLIF(?, '')", string(membership.EliminationReason)).
		Set("version = version + 1").
		Where("id = ?", membership.ID).
		Where("version = ?", membership.Version).
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("membership.UpdateMembership: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("membership.UpdateMembership: %w", err)
	}
	if rows == 0 {
		return ErrConcurrentUpdate
	}
	membership.Version++
	return nil
}
