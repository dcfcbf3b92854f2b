package eliminationservice

import (
	"context"
	"time"

	fixturedomain "github.com/Black-And-White-Club/last-man-standing/app/modules/fixture/domain"
	gameweekdomain "github.com/Black-And-White-Club/last-man-standing/app/modules/gameweek/domain"
	"github.com/Black-And-White-Club/last-man-standing/app/shared/handlerwrapper"
	"github.com/Black-And-White-Club/last-man-standing/app/shared/results"
	"github.com/uptrace/bun"
)

// Sweep names, shared by the River jobs and the admin trigger.
const (
	SweepWinners  = "winners"
	SweepDeadline = "deadline"
	SweepRollover = "rollover"
)

// Service applies the elimination rules to stored leagues.
type Service interface {
	// ApplyTransition applies a fixture transition to every pick on the
	// fixture. It runs inside the caller's transaction and returns the events
	// to publish once that transaction commits.
	ApplyTransition(ctx context.Context, db bun.IDB, fixture fixturedomain.Fixture, transition fixturedomain.Transition) ([]handlerwrapper.Result, error)

	// RunWinnerSweep declares winners and washes across active leagues.
	RunWinnerSweep(ctx context.Context) (results.OperationResult[SweepSummary, error], error)

	// EliminateNonPickers eliminates members who missed the pick deadline of
	// an active gameweek.
	EliminateNonPickers(ctx context.Context) (results.OperationResult[SweepSummary, error], error)

	// RollGameweek reopens picking for survivors once the gameweek is over.
	RollGameweek(ctx context.Context) (results.OperationResult[SweepSummary, error], error)
}

// SweepSummary reports what one sweep did.
type SweepSummary struct {
	Sweep      string `json:"sweep"`
	Leagues    int    `json:"leagues"`
	Eliminated int    `json:"eliminated"`
	Reopened   int    `json:"reopened"`
	Winners    int    `json:"winners"`
	Washes     int    `json:"washes"`
	Failed     int    `json:"failed"`
	Skipped    string `json:"skipped,omitempty"`
}

// GameweekStatus is the part of the gameweek service the sweeps need.
type GameweekStatus interface {
	Calculator() gameweekdomain.Calculator
	Status(ctx context.Context, db bun.IDB, at time.Time) (gameweekdomain.Status, error)
}

// FixtureReader loads the fixtures picks refer to.
type FixtureReader interface {
	FixturesByID(ctx context.Context, db bun.IDB, ids []int64) (map[int64]fixturedomain.Fixture, error)
}
