package fixturedb

import (
	"context"
	"time"

	fixturedomain "github.com/Black-And-White-Club/last-man-standing/app/modules/fixture/domain"
	"github.com/uptrace/bun"
)

// Reader exposes stored fixtures as domain values to other modules.
type Reader struct {
	Repo Repository
}

// FixturesByID returns the fixtures found for ids, keyed by id. Missing ids
// are absent from the map.
func (r Reader) FixturesByID(ctx context.Context, db bun.IDB, ids []int64) (map[int64]fixturedomain.Fixture, error) {
	rows, err := r.Repo.ListByIDs(ctx, db, ids)
	if err != nil {
		return nil, err
	}
	out := make(map[int64]fixturedomain.Fixture, len(rows))
	for _, row := range rows {
		out[row.ID] = row.ToDomain()
	}
	return out, nil
}

// FindFixture returns the fixture team plays with kickoff in [from, to]. When
// from equals to the kickoff must match exactly. ErrNotFound when none does.
func (r Reader) FindFixture(ctx context.Context, db bun.IDB, team string, from, to time.Time) (fixturedomain.Fixture, error) {
	if from.Equal(to) {
		row, err := r.Repo.FindByTeamAndKickoff(ctx, db, team, from)
		if err != nil {
			return fixturedomain.Fixture{}, err
		}
		return row.ToDomain(), nil
	}

	rows, err := r.Repo.ListInRange(ctx, db, from, to)
	if err != nil {
		return fixturedomain.Fixture{}, err
	}
	for _, row := range rows {
		if f := row.ToDomain(); f.Involves(team) {
			return f, nil
		}
	}
	return fixturedomain.Fixture{}, ErrNotFound
}
