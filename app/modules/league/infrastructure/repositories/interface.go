package leaguedb

import (
	"context"

	fixturedomain "github.com/Black-And-White-Club/last-man-standing/app/modules/fixture/domain"
	"github.com/uptrace/bun"
)

// Repository defines the persistence contract for leagues, memberships and picks.
//
// Error semantics:
//   - ErrNotFound: requested record does not exist (Get* methods)
//   - ErrDuplicate: a unique constraint rejected an insert
//   - ErrConcurrentUpdate: a membership version check failed
//   - other errors: infrastructure failures
type Repository interface {
	// League operations
	CreateLeague(ctx context.Context, db bun.IDB, league *League) error
	GetLeague(ctx context.Context, db bun.IDB, id int64) (*League, error)
	GetLeagueByJoinCode(ctx context.Context, db bun.IDB, code string) (*League, error)
	UpdateLeague(ctx context.Context, db bun.IDB, league *League) error
	ListActiveLeagues(ctx context.Context, db bun.IDB) ([]*League, error)
	ListLeaguesForUser(ctx context.Context, db bun.IDB, userID string) ([]*League, error)

	// LockLeague takes the transaction-scoped advisory lock for a league.
	// Must be called within a transaction.
	LockLeague(ctx context.Context, db bun.IDB, leagueID int64) error

	// Membership operations
	CreateMembership(ctx context.Context, db bun.IDB, membership *Membership) error
	GetMembership(ctx context.Context, db bun.IDB, leagueID int64, userID string) (*Membership, error)
	ListMemberships(ctx context.Context, db bun.IDB, leagueID int64) ([]*Membership, error)
	ListMembershipsForUser(ctx context.Context, db bun.IDB, userID string) ([]*Membership, error)
	// UpdateMembership writes the membership flags if the stored version
	// still matches and bumps membership.Version.
	UpdateMembership(ctx context.Context, db bun.IDB, membership *Membership) error

	// Pick operations
	CreatePick(ctx context.Context, db bun.IDB, pick *Pick) error
	ListPicks(ctx context.Context, db bun.IDB, leagueID int64, userID string) ([]*Pick, error)
	ListLeaguePicks(ctx context.Context, db bun.IDB, leagueID int64) ([]*Pick, error)
	ListPicksByFixture(ctx context.Context, db bun.IDB, fixtureID int64) ([]*Pick, error)
	UpdatePickOutcome(ctx context.Context, db bun.IDB, pickID int64, outcome fixturedomain.Outcome) error
	DeletePick(ctx context.Context, db bun.IDB, pickID int64) error
}
