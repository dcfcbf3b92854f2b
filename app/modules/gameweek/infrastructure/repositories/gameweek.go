package gameweekdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/bun"
)

// ErrNotFound is returned when no state is cached for a window.
var ErrNotFound = errors.New("gameweek state not found")

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new gameweek repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

func (r *Impl) GetState(ctx context.Context, db bun.IDB, windowStart time.Time) (*GameweekState, error) {
	db = r.resolveDB(db)
	state := new(GameweekState)
	err := db.NewSelect().
		Model(state).
		Where("window_start = ?", windowStart.UTC()).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get gameweek state: %w", err)
	}
	return state, nil
}

func (r *Impl) UpsertState(ctx context.Context, db bun.IDB, state *GameweekState) error {
	db = r.resolveDB(db)
	state.WindowStart = state.WindowStart.UTC()
	state.WindowEnd = state.WindowEnd.UTC()
	_, err := db.NewInsert().
		Model(state).
		On("CONFLICT (window_start) DO UPDATE").
		Set("window_end = EXCLUDED.window_end").
		Set("fixture_count = EXCLUDED.fixture_count").
		Set("active = EXCLUDED.active").
		Set("checked_at = EXCLUDED.checked_at").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to upsert gameweek state: %w", err)
	}
	return nil
}
