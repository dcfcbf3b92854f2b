package eliminationservice

import (
	"context"
	"errors"
	"fmt"
	"time"

	eliminationdomain "github.com/Black-And-White-Club/last-man-standing/app/modules/elimination/domain"
	fixturedomain "github.com/Black-And-White-Club/last-man-standing/app/modules/fixture/domain"
	leaguedomain "github.com/Black-And-White-Club/last-man-standing/app/modules/league/domain"
	leaguedb "github.com/Black-And-White-Club/last-man-standing/app/modules/league/infrastructure/repositories"
	"github.com/Black-And-White-Club/last-man-standing/app/shared/handlerwrapper"
	"github.com/Black-And-White-Club/last-man-standing/app/shared/observability/attr"
	"github.com/Black-And-White-Club/last-man-standing/app/shared/results"
	"github.com/uptrace/bun"
)

func (s *EliminationService) ApplyTransition(ctx context.Context, db bun.IDB, fixture fixturedomain.Fixture, transition fixturedomain.Transition) ([]handlerwrapper.Result, error) {
	if transition == fixturedomain.TransitionNone {
		return nil, nil
	}

	result, err := withTelemetry(s, ctx, "ApplyTransition", fixture.Key, func(ctx context.Context) (results.OperationResult[[]handlerwrapper.Result, error], error) {
		events, err := s.applyTransitionLogic(ctx, db, fixture, transition)
		if err != nil {
			return results.OperationResult[[]handlerwrapper.Result, error]{}, err
		}
		return results.SuccessResult[[]handlerwrapper.Result, error](events), nil
	})
	if err != nil {
		return nil, err
	}
	return *result.Success, nil
}

func (s *EliminationService) applyTransitionLogic(ctx context.Context, db bun.IDB, fixture fixturedomain.Fixture, transition fixturedomain.Transition) ([]handlerwrapper.Result, error) {
	rows, err := s.leagues.ListPicksByFixture(ctx, db, fixture.ID)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}

	now := s.clock.Now()
	decision := eliminationdomain.PostponeReopen
	if transition == fixturedomain.TransitionVoided {
		decision = eliminationdomain.DecidePostponement(s.gameweek.Calculator(), now)
	}

	// Rows come ordered by league, so locks are always taken in ascending order.
	var events []handlerwrapper.Result
	var locked int64
	var finished bool
	for _, row := range rows {
		pick := row.ToDomain()
		if pick.LeagueID != locked {
			if err := s.leagues.LockLeague(ctx, db, pick.LeagueID); err != nil {
				return nil, err
			}
			league, err := s.leagues.GetLeague(ctx, db, pick.LeagueID)
			if err != nil {
				return nil, fmt.Errorf("failed to load league %d: %w", pick.LeagueID, err)
			}
			locked = pick.LeagueID
			finished = league.FinishedAt != nil
		}

		var ev []handlerwrapper.Result
		switch transition {
		case fixturedomain.TransitionResolved:
			ev, err = s.resolvePick(ctx, db, fixture, pick, finished, now)
		case fixturedomain.TransitionVoided:
			ev, err = s.voidPick(ctx, db, fixture, pick, decision, finished, now)
		}
		if err != nil {
			return nil, err
		}
		events = append(events, ev...)
	}
	return events, nil
}

// resolvePick writes the pick outcome first and then eliminates the member if
// the picked side did not win.
func (s *EliminationService) resolvePick(ctx context.Context, db bun.IDB, fixture fixturedomain.Fixture, pick leaguedomain.Pick, finished bool, now time.Time) ([]handlerwrapper.Result, error) {
	decision := eliminationdomain.DecideResult(pick.Team, fixture)
	if !decision.Outcome.IsResolved() {
		s.logger.ErrorContext(ctx, "Pick team is not playing in its fixture",
			attr.ExtractCorrelationID(ctx),
			attr.FixtureKey(fixture.Key),
			attr.LeagueID(pick.LeagueID),
			attr.UserID(pick.UserID),
			attr.String("team", pick.Team),
		)
		return nil, nil
	}

	if err := s.leagues.UpdatePickOutcome(ctx, db, pick.ID, decision.Outcome); err != nil {
		return nil, err
	}
	if !decision.Eliminate || finished {
		return nil, nil
	}

	member, err := s.member(ctx, db, pick)
	if err != nil || member == nil {
		return nil, err
	}
	out, changed := member.Eliminate(leaguedomain.ReasonResult, now)
	if !changed {
		return nil, nil
	}
	if err := s.saveMember(ctx, db, out); err != nil {
		return nil, err
	}
	return []handlerwrapper.Result{eliminatedEvent(out, fixture.Key)}, nil
}

// voidPick removes the pick of a postponed or cancelled fixture and either
// reopens the member or, past the cutoff, eliminates them.
func (s *EliminationService) voidPick(ctx context.Context, db bun.IDB, fixture fixturedomain.Fixture, pick leaguedomain.Pick, decision eliminationdomain.PostponementDecision, finished bool, now time.Time) ([]handlerwrapper.Result, error) {
	if err := s.leagues.DeletePick(ctx, db, pick.ID); err != nil {
		return nil, err
	}
	if finished {
		return nil, nil
	}

	member, err := s.member(ctx, db, pick)
	if err != nil || member == nil {
		return nil, err
	}

	switch decision {
	case eliminationdomain.PostponeEliminate:
		out, changed := member.Eliminate(leaguedomain.ReasonPostponedAfterCutoff, now)
		if !changed {
			return nil, nil
		}
		if err := s.saveMember(ctx, db, out); err != nil {
			return nil, err
		}
		return []handlerwrapper.Result{eliminatedEvent(out, fixture.Key)}, nil
	default:
		out, changed := member.Reopen()
		if !changed {
			return nil, nil
		}
		if err := s.saveMember(ctx, db, out); err != nil {
			return nil, err
		}
		return []handlerwrapper.Result{reopenedEvent(out, fixture.Key)}, nil
	}
}

// member loads the membership a pick belongs to. A pick without a membership
// is logged and skipped.
func (s *EliminationService) member(ctx context.Context, db bun.IDB, pick leaguedomain.Pick) (*leaguedomain.Membership, error) {
	row, err := s.leagues.GetMembership(ctx, db, pick.LeagueID, pick.UserID)
	if err != nil {
		if errors.Is(err, leaguedb.ErrNotFound) {
			s.logger.ErrorContext(ctx, "Pick has no membership",
				attr.ExtractCorrelationID(ctx),
				attr.LeagueID(pick.LeagueID),
				attr.UserID(pick.UserID),
				attr.Int64("pick_id", pick.ID),
			)
			return nil, nil
		}
		return nil, err
	}
	m := row.ToDomain()
	return &m, nil
}

func (s *EliminationService) saveMember(ctx context.Context, db bun.IDB, m leaguedomain.Membership) error {
	if err := m.Validate(); err != nil {
		return err
	}
	return s.leagues.UpdateMembership(ctx, db, leaguedb.MembershipFromDomain(m))
}
