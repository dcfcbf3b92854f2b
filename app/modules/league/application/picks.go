package leagueservice

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	fixturedomain "github.com/Black-And-White-Club/last-man-standing/app/modules/fixture/domain"
	fixturedb "github.com/Black-And-White-Club/last-man-standing/app/modules/fixture/infrastructure/repositories"
	gameweekdomain "github.com/Black-And-White-Club/last-man-standing/app/modules/gameweek/domain"
	leaguedomain "github.com/Black-And-White-Club/last-man-standing/app/modules/league/domain"
	leaguedb "github.com/Black-And-White-Club/last-man-standing/app/modules/league/infrastructure/repositories"
	"github.com/Black-And-White-Club/last-man-standing/app/shared/apperrors"
	"github.com/Black-And-White-Club/last-man-standing/app/shared/handlerwrapper"
	"github.com/Black-And-White-Club/last-man-standing/app/shared/results"
	"github.com/uptrace/bun"
)

func (s *LeagueService) SubmitPick(ctx context.Context, req SubmitPickRequest) (results.OperationResult[leaguedomain.Pick, error], error) {
	result, err := withTelemetry(s, ctx, "SubmitPick", strconv.FormatInt(req.LeagueID, 10), func(ctx context.Context) (results.OperationResult[leaguedomain.Pick, error], error) {
		if req.UserID == "" {
			return results.FailureResult[leaguedomain.Pick, error](apperrors.ErrUnauthorized), nil
		}
		team := fixturedomain.NormalizeTeam(req.Team)
		if req.LeagueID <= 0 || team == "" || strings.TrimSpace(req.Date) == "" {
			return results.FailureResult[leaguedomain.Pick, error](apperrors.ErrInvalidInput.WithReason("league, team and date are required")), nil
		}

		calc := s.gameweek.Calculator()
		from, to, err := pickRange(req.Date, calc.Location())
		if err != nil {
			return results.FailureResult[leaguedomain.Pick, error](apperrors.ErrInvalidInput.WithReason("%v", err)), nil
		}

		result, err := runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (results.OperationResult[leaguedomain.Pick, error], error) {
			return s.submitPick(ctx, db, req.LeagueID, req.UserID, team, from, to)
		})
		// Failures found after a write come back as errors so the transaction
		// rolls back; report them as failures.
		if e, ok := apperrors.As(err); ok && e.Kind != apperrors.KindInternal {
			return results.FailureResult[leaguedomain.Pick, error](e), nil
		}
		return result, err
	})
	if err != nil || result.Success == nil {
		return result, err
	}

	pick := *result.Success
	s.publish(ctx, handlerwrapper.Result{
		Topic: leaguedomain.TopicPickSubmittedV1,
		Payload: leaguedomain.PickSubmittedPayloadV1{
			LeagueID:  pick.LeagueID,
			UserID:    pick.UserID,
			FixtureID: pick.FixtureID,
			Team:      pick.Team,
			KickoffAt: pick.KickoffAt,
		},
	})
	return result, nil
}

func (s *LeagueService) submitPick(ctx context.Context, db bun.IDB, leagueID int64, userID, team string, from, to time.Time) (results.OperationResult[leaguedomain.Pick, error], error) {
	fail := func(err error) (results.OperationResult[leaguedomain.Pick, error], error) {
		return results.FailureResult[leaguedomain.Pick, error](err), nil
	}
	now := s.clock.Now()

	if err := s.repo.LockLeague(ctx, db, leagueID); err != nil {
		return results.OperationResult[leaguedomain.Pick, error]{}, err
	}
	row, err := s.repo.GetLeague(ctx, db, leagueID)
	if errors.Is(err, leaguedb.ErrNotFound) {
		return fail(apperrors.ErrNotFound.WithReason("league %d not found", leagueID))
	}
	if err != nil {
		return results.OperationResult[leaguedomain.Pick, error]{}, err
	}
	league := row.ToDomain()
	if !league.Active || league.IsFinished() {
		return fail(apperrors.ErrNotPickable.WithReason("the league is not running"))
	}

	memberRow, err := s.repo.GetMembership(ctx, db, leagueID, userID)
	if errors.Is(err, leaguedb.ErrNotFound) {
		return fail(apperrors.ErrNotPickable.WithReason("you are not a member of this league"))
	}
	if err != nil {
		return results.OperationResult[leaguedomain.Pick, error]{}, err
	}
	member := memberRow.ToDomain()
	switch member.State() {
	case leaguedomain.StateEliminated:
		return fail(apperrors.ErrNotPickable.WithReason("you have been eliminated"))
	case leaguedomain.StateWinner:
		return fail(apperrors.ErrNotPickable.WithReason("you have already won this league"))
	case leaguedomain.StateActiveLocked:
		return fail(apperrors.ErrNotPickable.WithReason("you have already picked this gameweek"))
	}

	calc := s.gameweek.Calculator()
	if calc.IsPickLockPeriod(now) {
		return fail(apperrors.ErrNotPickable.WithReason("picks are closed until the gameweek ends"))
	}
	status, err := s.gameweek.Status(ctx, db, now)
	if err != nil {
		return results.OperationResult[leaguedomain.Pick, error]{}, err
	}
	if !status.Active {
		return fail(apperrors.ErrNotPickable.WithReason("there is no gameweek to pick for"))
	}

	fixture, err := s.fixtures.FindFixture(ctx, db, team, from, to)
	if errors.Is(err, fixturedb.ErrNotFound) {
		return fail(apperrors.ErrInvalidFixture)
	}
	if err != nil {
		return results.OperationResult[leaguedomain.Pick, error]{}, err
	}
	if reason := unpickable(fixture, status.Window, now); reason != "" {
		return fail(apperrors.ErrInvalidFixture.WithReason("%s", reason))
	}
	side, _ := fixture.SideOf(team)
	team = fixture.HomeTeam
	if side == fixturedomain.SideAway {
		team = fixture.AwayTeam
	}

	previous, err := s.repo.ListPicks(ctx, db, leagueID, userID)
	if err != nil {
		return results.OperationResult[leaguedomain.Pick, error]{}, err
	}
	if leaguedomain.HasPickedTeam(leaguedb.PicksToDomain(previous), team) {
		return fail(apperrors.ErrAlreadyPicked)
	}

	locked, err := member.LockForPick()
	if err != nil {
		return fail(err)
	}

	pick := &leaguedb.Pick{
		LeagueID:  leagueID,
		UserID:    userID,
		FixtureID: fixture.ID,
		Team:      team,
		KickoffAt: fixture.KickoffAt,
		Outcome:   fixturedomain.OutcomeUnknown,
		CreatedAt: now.UTC(),
	}
	err = s.repo.CreatePick(ctx, db, pick)
	if errors.Is(err, leaguedb.ErrDuplicate) {
		return fail(apperrors.ErrAlreadyPicked)
	}
	if err != nil {
		return results.OperationResult[leaguedomain.Pick, error]{}, fmt.Errorf("failed to save pick: %w", err)
	}

	err = s.repo.UpdateMembership(ctx, db, leaguedb.MembershipFromDomain(locked))
	if errors.Is(err, leaguedb.ErrConcurrentUpdate) {
		return results.OperationResult[leaguedomain.Pick, error]{}, apperrors.ErrNotPickable.WithReason("your membership changed while picking, try again").Wrap(err)
	}
	if err != nil {
		return results.OperationResult[leaguedomain.Pick, error]{}, fmt.Errorf("failed to lock membership: %w", err)
	}

	return results.SuccessResult[leaguedomain.Pick, error](pick.ToDomain()), nil
}

func (s *LeagueService) GetUserPicks(ctx context.Context, leagueID int64, userID string) (results.OperationResult[[]leaguedomain.Pick, error], error) {
	return withTelemetry(s, ctx, "GetUserPicks", strconv.FormatInt(leagueID, 10), func(ctx context.Context) (results.OperationResult[[]leaguedomain.Pick, error], error) {
		_, failure, err := s.memberLeague(ctx, leagueID, userID)
		if err != nil {
			return results.OperationResult[[]leaguedomain.Pick, error]{}, err
		}
		if failure != nil {
			return results.FailureResult[[]leaguedomain.Pick, error](failure), nil
		}

		picks, err := s.repo.ListPicks(ctx, nil, leagueID, userID)
		if err != nil {
			return results.OperationResult[[]leaguedomain.Pick, error]{}, err
		}
		return results.SuccessResult[[]leaguedomain.Pick, error](leaguedb.PicksToDomain(picks)), nil
	})
}

// pickRange turns the date of a pick into the kickoff range it may name. A
// calendar date covers that whole local day.
func pickRange(date string, loc *time.Location) (time.Time, time.Time, error) {
	date = strings.TrimSpace(date)
	if day, err := time.ParseInLocation(time.DateOnly, date, loc); err == nil {
		return day, day.AddDate(0, 0, 1).Add(-time.Millisecond), nil
	}
	kickoff, err := fixturedomain.ParseKickoff(date, loc)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	kickoff = fixturedomain.NormalizeKickoff(kickoff)
	return kickoff, kickoff, nil
}

// unpickable explains why a fixture cannot be picked now, or returns "".
func unpickable(f fixturedomain.Fixture, window gameweekdomain.Window, now time.Time) string {
	switch {
	case !window.Contains(f.KickoffAt):
		return "that game is not in the coming gameweek"
	case !f.Progress.IsPickable():
		return "that game is no longer open for picks"
	case !f.KickoffAt.After(now):
		return "that game has already kicked off"
	}
	return ""
}
