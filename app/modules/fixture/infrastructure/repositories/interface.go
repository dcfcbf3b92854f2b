package fixturedb

import (
	"context"
	"time"

	"github.com/uptrace/bun"
)

// Repository defines the contract for fixture persistence.
type Repository interface {
	// GetByKey retrieves a fixture by its stable key, locking the row when db
	// is a transaction.
	GetByKey(ctx context.Context, db bun.IDB, key string) (*Fixture, error)

	GetByID(ctx context.Context, db bun.IDB, id int64) (*Fixture, error)

	// ListByIDs retrieves the fixtures with the given ids, in any order.
	ListByIDs(ctx context.Context, db bun.IDB, ids []int64) ([]*Fixture, error)

	// FindByTeamAndKickoff finds the fixture team plays at kickoff.
	FindByTeamAndKickoff(ctx context.Context, db bun.IDB, team string, kickoff time.Time) (*Fixture, error)

	// ListInRange lists fixtures with kickoff in [from, to], ordered by kickoff.
	ListInRange(ctx context.Context, db bun.IDB, from, to time.Time) ([]*Fixture, error)

	// CountScheduled counts fixtures in [from, to] that are not postponed or cancelled.
	CountScheduled(ctx context.Context, db bun.IDB, from, to time.Time) (int, error)

	// Upsert inserts or updates a fixture by key and sets its ID.
	Upsert(ctx context.Context, db bun.IDB, fixture *Fixture) error
}
