package fixturedb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	fixturedomain "github.com/Black-And-White-Club/last-man-standing/app/modules/fixture/domain"
	"github.com/uptrace/bun"
)

// ErrNotFound is returned when a fixture is not found.
var ErrNotFound = errors.New("fixture not found")

// Impl implements the Repository interface using Bun ORM.
type Impl struct {
	db bun.IDB
}

// NewRepository creates a new fixture repository.
func NewRepository(db bun.IDB) Repository {
	return &Impl{db: db}
}

func (r *Impl) resolveDB(db bun.IDB) bun.IDB {
	if db == nil {
		return r.db
	}
	return db
}

func (r *Impl) GetByKey(ctx context.Context, db bun.IDB, key string) (*Fixture, error) {
	db = r.resolveDB(db)
	fixture := new(Fixture)
	q := db.NewSelect().
		Model(fixture).
		Where("fixture_key = ?", key)
	if _, inTx := db.(bun.Tx); inTx {
		q = q.For("UPDATE")
	}
	if err := q.Scan(ctx); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get fixture by key: %w", err)
	}
	return fixture, nil
}

func (r *Impl) GetByID(ctx context.Context, db bun.IDB, id int64) (*Fixture, error) {
	db = r.resolveDB(db)
	fixture := new(Fixture)
	err := db.NewSelect().
		Model(fixture).
		Where("id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get fixture by id: %w", err)
	}
	return fixture, nil
}

func (r *Impl) ListByIDs(ctx context.Context, db bun.IDB, ids []int64) ([]*Fixture, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	db = r.resolveDB(db)
	var fixtures []*Fixture
	err := db.NewSelect().
		Model(&fixtures).
		Where("id IN (?)", bun.In(ids)).
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list fixtures by id: %w", err)
	}
	return fixtures, nil
}

func (r *Impl) FindByTeamAndKickoff(ctx context.Context, db bun.IDB, team string, kickoff time.Time) (*Fixture, error) {
	db = r.resolveDB(db)
	team = fixturedomain.NormalizeTeam(team)
	fixture := new(Fixture)
	err := db.NewSelect().
		Model(fixture).
		Where("kickoff_at = ?", fixturedomain.NormalizeKickoff(kickoff)).
		WhereGroup(" AND ", func(q *bun.SelectQuery) *bun.SelectQuery {
			return q.
				Where("lower(home_team) = lower(?)", team).
				WhereOr("lower(away_team) = lower(?)", team)
		}).
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find fixture for %s: %w", team, err)
	}
	return fixture, nil
}

func (r *Impl) ListInRange(ctx context.Context, db bun.IDB, from, to time.Time) ([]*Fixture, error) {
	db = r.resolveDB(db)
	var fixtures []*Fixture
	err := db.NewSelect().
		Model(&fixtures).
		Where("kickoff_at >= ?", from.UTC()).
		Where("kickoff_at <= ?", to.UTC()).
		Order("kickoff_at ASC", "id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list fixtures in range: %w", err)
	}
	return fixtures, nil
}

func (r *Impl) CountScheduled(ctx context.Context, db bun.IDB, from, to time.Time) (int, error) {
	db = r.resolveDB(db)
	count, err := db.NewSelect().
		Model((*Fixture)(nil)).
		Where("kickoff_at >= ?", from.UTC()).
		Where("kickoff_at <= ?", to.UTC()).
		Where("progress NOT IN (?)", bun.In([]fixturedomain.Progress{fixturedomain.Postponed, fixturedomain.Cancelled})).
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count scheduled fixtures: %w", err)
	}
	return count, nil
}

func (r *Impl) Upsert(ctx context.Context, db bun.IDB, fixture *Fixture) error {
	db = r.resolveDB(db)
	fixture.UpdatedAt = time.Now().UTC()
	_, err := db.NewInsert().
		Model(fixture).
		On("CONFLICT (fixture_key) DO UPDATE").
		Set("progress = EXCLUDED.progress").
		Set("home_score = EXCLUDED.home_score").
		Set("away_score = EXCLUDED.away_score").
		Set("home_outcome = EXCLUDED.home_outcome").
		Set("away_outcome = EXCLUDED.away_outcome").
		Set("updated_at = EXCLUDED.updated_at").
		Returning("id").
		Exec(ctx)
	if err != nil {
		return fmt.Errorf("failed to upsert fixture: %w", err)
	}
	return nil
}
