package eliminationservice

import (
	"context"
	"fmt"

	gameweekdomain "github.com/Black-And-White-Club/last-man-standing/app/modules/gameweek/domain"
	"github.com/Black-And-White-Club/last-man-standing/app/shared/apperrors"
	"github.com/Black-And-White-Club/last-man-standing/app/shared/results"
)

// SweepGameweek refreshes the cached gameweek status. It belongs to the
// gameweek module but is scheduled and triggered alongside the elimination
// sweeps.
const SweepGameweek = "gameweek"

// SweepNames lists every sweep a SweepRunner accepts.
var SweepNames = []string{SweepWinners, SweepDeadline, SweepRollover, SweepGameweek}

// GameweekChecker refreshes the gameweek status cache.
type GameweekChecker interface {
	CheckGameweek(ctx context.Context) (results.OperationResult[gameweekdomain.Status, error], error)
}

// SweepRunner runs a sweep by name. The River jobs, the admin endpoint and
// the CLI all go through it.
type SweepRunner struct {
	Elimination Service
	Gameweek    GameweekChecker
}

// Run executes the named sweep and returns its summary. Unknown names are a
// not-found failure.
func (r SweepRunner) Run(ctx context.Context, name string) (any, error) {
	switch name {
	case SweepWinners:
		return unwrap(r.Elimination.RunWinnerSweep(ctx))
	case SweepDeadline:
		return unwrap(r.Elimination.EliminateNonPickers(ctx))
	case SweepRollover:
		return unwrap(r.Elimination.RollGameweek(ctx))
	case SweepGameweek:
		if r.Gameweek == nil {
			return nil, fmt.Errorf("gameweek sweep is not configured")
		}
		return unwrap(r.Gameweek.CheckGameweek(ctx))
	}
	return nil, apperrors.ErrNotFound.WithReason("unknown sweep %q", name)
}

func unwrap[S any](result results.OperationResult[S, error], err error) (any, error) {
	switch {
	case err != nil:
		return nil, err
	case result.Failure != nil:
		return nil, *result.Failure
	case result.Success == nil:
		return nil, fmt.Errorf("sweep returned no result")
	}
	return *result.Success, nil
}
