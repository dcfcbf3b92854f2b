package eliminationservice

import (
	"context"
	"fmt"
	"time"

	eliminationdomain "github.com/Black-And-White-Club/last-man-standing/app/modules/elimination/domain"
	leaguedomain "github.com/Black-And-White-Club/last-man-standing/app/modules/league/domain"
	leaguedb "github.com/Black-And-White-Club/last-man-standing/app/modules/league/infrastructure/repositories"
	"github.com/Black-And-White-Club/last-man-standing/app/shared/apperrors"
	"github.com/Black-And-White-Club/last-man-standing/app/shared/handlerwrapper"
	"github.com/Black-And-White-Club/last-man-standing/app/shared/observability/attr"
	"github.com/Black-And-White-Club/last-man-standing/app/shared/results"
	"github.com/uptrace/bun"
)

// leagueUnit is one league loaded under its advisory lock.
type leagueUnit struct {
	league  leaguedomain.League
	members []leaguedomain.Membership
	picks   []leaguedomain.Pick
	events  []handlerwrapper.Result
	tally   SweepSummary
}

func (u *leagueUnit) done() bool {
	return !u.league.Active || u.league.IsFinished()
}

func (s *EliminationService) RunWinnerSweep(ctx context.Context) (results.OperationResult[SweepSummary, error], error) {
	now := s.clock.Now()
	return withTelemetry(s, ctx, "RunWinnerSweep", SweepWinners, func(ctx context.Context) (results.OperationResult[SweepSummary, error], error) {
		summary, err := s.sweepActiveLeagues(ctx, SweepWinners, nil, func(ctx context.Context, db bun.IDB, u *leagueUnit) error {
			_, err := s.settleLeague(ctx, db, u, now)
			return err
		})
		if err != nil {
			return results.OperationResult[SweepSummary, error]{}, err
		}
		return results.SuccessResult[SweepSummary, error](summary), nil
	})
}

func (s *EliminationService) EliminateNonPickers(ctx context.Context) (results.OperationResult[SweepSummary, error], error) {
	now := s.clock.Now()
	return withTelemetry(s, ctx, "EliminateNonPickers", SweepDeadline, func(ctx context.Context) (results.OperationResult[SweepSummary, error], error) {
		status, err := s.gameweek.Status(ctx, nil, now)
		if err != nil {
			return results.OperationResult[SweepSummary, error]{}, err
		}
		switch {
		case !status.PickLock:
			return results.SuccessResult[SweepSummary, error](SweepSummary{Sweep: SweepDeadline, Skipped: "outside the pick-lock period"}), nil
		case !status.Active:
			return results.SuccessResult[SweepSummary, error](SweepSummary{Sweep: SweepDeadline, Skipped: "inactive gameweek"}), nil
		}

		applies := func(l leaguedomain.League) bool {
			return eliminationdomain.DeadlineApplies(status, l)
		}
		summary, err := s.sweepActiveLeagues(ctx, SweepDeadline, applies, func(ctx context.Context, db bun.IDB, u *leagueUnit) error {
			for _, m := range u.members {
				if !eliminationdomain.MissedDeadline(m) {
					continue
				}
				out, changed := m.Eliminate(leaguedomain.ReasonNoPick, now)
				if !changed {
					continue
				}
				if err := s.saveMember(ctx, db, out); err != nil {
					return err
				}
				u.events = append(u.events, eliminatedEvent(out, ""))
				u.tally.Eliminated++
			}
			return nil
		})
		if err != nil {
			return results.OperationResult[SweepSummary, error]{}, err
		}
		return results.SuccessResult[SweepSummary, error](summary), nil
	})
}

func (s *EliminationService) RollGameweek(ctx context.Context) (results.OperationResult[SweepSummary, error], error) {
	now := s.clock.Now()
	return withTelemetry(s, ctx, "RollGameweek", SweepRollover, func(ctx context.Context) (results.OperationResult[SweepSummary, error], error) {
		if s.gameweek.Calculator().IsPickLockPeriod(now) {
			return results.SuccessResult[SweepSummary, error](SweepSummary{Sweep: SweepRollover, Skipped: "pick-lock period active"}), nil
		}

		summary, err := s.sweepActiveLeagues(ctx, SweepRollover, nil, func(ctx context.Context, db bun.IDB, u *leagueUnit) error {
			finished, err := s.settleLeague(ctx, db, u, now)
			if err != nil || finished {
				return err
			}
			byUser := leaguedomain.PicksByUser(u.picks)
			for _, m := range u.members {
				if !eliminationdomain.ShouldReopen(m, byUser[m.UserID]) {
					continue
				}
				out, _ := m.Reopen()
				if err := s.saveMember(ctx, db, out); err != nil {
					return err
				}
				u.events = append(u.events, reopenedEvent(out, ""))
				u.tally.Reopened++
			}
			return nil
		})
		if err != nil {
			return results.OperationResult[SweepSummary, error]{}, err
		}
		return results.SuccessResult[SweepSummary, error](summary), nil
	})
}

// sweepActiveLeagues runs fn once per active league, each in its own
// transaction and timeout. A failing league is logged and counted and the
// sweep moves on.
func (s *EliminationService) sweepActiveLeagues(
	ctx context.Context,
	sweep string,
	filter func(leaguedomain.League) bool,
	fn func(ctx context.Context, db bun.IDB, u *leagueUnit) error,
) (SweepSummary, error) {
	summary := SweepSummary{Sweep: sweep}
	rows, err := s.leagues.ListActiveLeagues(ctx, nil)
	if err != nil {
		return summary, fmt.Errorf("failed to list active leagues: %w", err)
	}

	for _, row := range rows {
		if filter != nil && !filter(row.ToDomain()) {
			continue
		}
		summary.Leagues++

		unit, err := s.runLeagueUnit(ctx, row.ID, fn)
		if err != nil {
			summary.Failed++
			s.recordItem(ctx, sweep, "failed")
			s.logger.ErrorContext(ctx, "League sweep unit failed",
				attr.ExtractCorrelationID(ctx),
				attr.String("sweep", sweep),
				attr.LeagueID(row.ID),
				attr.String("kind", string(apperrors.KindOf(err))),
				attr.Error(err),
			)
			continue
		}
		s.recordItem(ctx, sweep, "ok")

		summary.Eliminated += unit.tally.Eliminated
		summary.Reopened += unit.tally.Reopened
		summary.Winners += unit.tally.Winners
		summary.Washes += unit.tally.Washes
	}
	return summary, nil
}

func (s *EliminationService) runLeagueUnit(ctx context.Context, leagueID int64, fn func(ctx context.Context, db bun.IDB, u *leagueUnit) error) (*leagueUnit, error) {
	ctx, cancel := context.WithTimeout(ctx, s.unitTimeout)
	defer cancel()

	result, err := runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (results.OperationResult[*leagueUnit, error], error) {
		if err := s.leagues.LockLeague(ctx, db, leagueID); err != nil {
			return results.OperationResult[*leagueUnit, error]{}, err
		}
		unit, err := s.loadLeague(ctx, db, leagueID)
		if err != nil {
			return results.OperationResult[*leagueUnit, error]{}, err
		}
		if unit.done() {
			return results.SuccessResult[*leagueUnit, error](unit), nil
		}
		if err := fn(ctx, db, unit); err != nil {
			return results.OperationResult[*leagueUnit, error]{}, err
		}
		return results.SuccessResult[*leagueUnit, error](unit), nil
	})
	if err != nil {
		return nil, err
	}

	unit := *result.Success
	s.publish(ctx, unit.events)
	return unit, nil
}

func (s *EliminationService) loadLeague(ctx context.Context, db bun.IDB, leagueID int64) (*leagueUnit, error) {
	league, err := s.leagues.GetLeague(ctx, db, leagueID)
	if err != nil {
		return nil, fmt.Errorf("failed to load league %d: %w", leagueID, err)
	}
	members, err := s.leagues.ListMemberships(ctx, db, leagueID)
	if err != nil {
		return nil, err
	}
	picks, err := s.leagues.ListLeaguePicks(ctx, db, leagueID)
	if err != nil {
		return nil, err
	}
	return &leagueUnit{
		league:  league.ToDomain(),
		members: leaguedb.MembershipsToDomain(members),
		picks:   leaguedb.PicksToDomain(picks),
	}, nil
}

// settleLeague finishes the league if it has a winner or nobody left. It
// reports whether the league finished.
func (s *EliminationService) settleLeague(ctx context.Context, db bun.IDB, u *leagueUnit, now time.Time) (bool, error) {
	verdict := eliminationdomain.EvaluateWinner(u.members, u.picks)

	switch verdict.Verdict {
	case eliminationdomain.VerdictWash:
		league := u.league.FinishWashed(now)
		if err := s.leagues.UpdateLeague(ctx, db, leaguedb.LeagueFromDomain(league)); err != nil {
			return false, err
		}
		u.league = league
		u.events = append(u.events, washedEvent(league))
		u.tally.Washes++
		return true, nil

	case eliminationdomain.VerdictWinner:
		if err := s.checkPickFixtures(ctx, db, u, verdict.WinnerUserID); err != nil {
			return false, err
		}
		var winner *leaguedomain.Membership
		for i := range u.members {
			if u.members[i].UserID == verdict.WinnerUserID {
				winner = &u.members[i]
			}
		}
		if winner == nil {
			return false, apperrors.ErrDataInconsistency.WithReason("winner %s is not a member of league %d", verdict.WinnerUserID, u.league.ID)
		}
		declared, err := winner.DeclareWinner()
		if err != nil {
			return false, err
		}
		if err := s.saveMember(ctx, db, declared); err != nil {
			return false, err
		}
		*winner = declared

		league := u.league.FinishWithWinner(declared.UserID, now)
		if err := s.leagues.UpdateLeague(ctx, db, leaguedb.LeagueFromDomain(league)); err != nil {
			return false, err
		}
		u.league = league
		u.events = append(u.events, winnerEvent(league, declared.UserID))
		u.tally.Winners++
		return true, nil
	}
	return false, nil
}

// checkPickFixtures refuses to crown a winner whose picks point at fixtures
// that no longer exist.
func (s *EliminationService) checkPickFixtures(ctx context.Context, db bun.IDB, u *leagueUnit, userID string) error {
	picks := leaguedomain.PicksByUser(u.picks)[userID]
	if len(picks) == 0 || s.fixtures == nil {
		return nil
	}
	ids := make([]int64, 0, len(picks))
	for _, p := range picks {
		ids = append(ids, p.FixtureID)
	}
	found, err := s.fixtures.FixturesByID(ctx, db, ids)
	if err != nil {
		return err
	}
	for _, p := range picks {
		if _, ok := found[p.FixtureID]; !ok {
			return apperrors.ErrDataInconsistency.WithReason("pick %d of %s in league %d refers to missing fixture %d", p.ID, userID, u.league.ID, p.FixtureID)
		}
	}
	return nil
}
