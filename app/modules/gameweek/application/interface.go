package gameweekservice

import (
	"context"
	"time"

	gameweekdomain "github.com/Black-And-White-Club/last-man-standing/app/modules/gameweek/domain"
	"github.com/Black-And-White-Club/last-man-standing/app/shared/results"
	"github.com/uptrace/bun"
)

// Service answers gameweek questions for the rest of the engine.
type Service interface {
	Calculator() gameweekdomain.Calculator

	// Status computes the status of the window containing or following at.
	Status(ctx context.Context, db bun.IDB, at time.Time) (gameweekdomain.Status, error)

	// CurrentStatus is Status at the clock's now.
	CurrentStatus(ctx context.Context) (gameweekdomain.Status, error)

	// CheckGameweek recomputes the current status and refreshes the cache row.
	CheckGameweek(ctx context.Context) (results.OperationResult[gameweekdomain.Status, error], error)
}

// FixtureCounter counts scheduled fixtures, i.e. those not postponed or
// cancelled, whose kickoff falls in [from, to].
type FixtureCounter interface {
	CountScheduled(ctx context.Context, db bun.IDB, from, to time.Time) (int, error)
}
