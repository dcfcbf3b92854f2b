package leagueservice

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	leaguedomain "github.com/Black-And-White-Club/last-man-standing/app/modules/league/domain"
	leaguedb "github.com/Black-And-White-Club/last-man-standing/app/modules/league/infrastructure/repositories"
	"github.com/Black-And-White-Club/last-man-standing/app/shared/apperrors"
	"github.com/Black-And-White-Club/last-man-standing/app/shared/handlerwrapper"
	"github.com/Black-And-White-Club/last-man-standing/app/shared/observability/attr"
	"github.com/Black-And-White-Club/last-man-standing/app/shared/results"
	"github.com/uptrace/bun"
)

const joinCodeAttempts = 5

func (s *LeagueService) CreateLeague(ctx context.Context, creatorID, name string) (results.OperationResult[leaguedomain.League, error], error) {
	return withTelemetry(s, ctx, "CreateLeague", creatorID, func(ctx context.Context) (results.OperationResult[leaguedomain.League, error], error) {
		now := s.clock.Now()
		if _, err := leaguedomain.NewLeague(name, creatorID, "", now); err != nil {
			return results.FailureResult[leaguedomain.League, error](err), nil
		}

		for attempt := 1; attempt <= joinCodeAttempts; attempt++ {
			code, err := s.codes()
			if err != nil {
				return results.OperationResult[leaguedomain.League, error]{}, fmt.Errorf("failed to generate join code: %w", err)
			}
			league, _ := leaguedomain.NewLeague(name, creatorID, code, now)

			result, err := runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (results.OperationResult[leaguedomain.League, error], error) {
				row := leaguedb.LeagueFromDomain(league)
				if err := s.repo.CreateLeague(ctx, db, row); err != nil {
					return results.OperationResult[leaguedomain.League, error]{}, err
				}
				member := leaguedb.MembershipFromDomain(leaguedomain.NewMembership(row.ID, creatorID, now))
				if err := s.repo.CreateMembership(ctx, db, member); err != nil {
					return results.OperationResult[leaguedomain.League, error]{}, fmt.Errorf("failed to add creator to league: %w", err)
				}
				return results.SuccessResult[leaguedomain.League, error](row.ToDomain()), nil
			})
			if errors.Is(err, leaguedb.ErrDuplicate) {
				s.logger.DebugContext(ctx, "Join code collision, retrying",
					attr.ExtractCorrelationID(ctx),
					attr.Int("attempt", attempt),
				)
				continue
			}
			return result, err
		}
		return results.OperationResult[leaguedomain.League, error]{}, fmt.Errorf("no free join code after %d attempts", joinCodeAttempts)
	})
}

func (s *LeagueService) JoinLeague(ctx context.Context, userID, joinCode string) (results.OperationResult[leaguedomain.Membership, error], error) {
	return withTelemetry(s, ctx, "JoinLeague", joinCode, func(ctx context.Context) (results.OperationResult[leaguedomain.Membership, error], error) {
		if userID == "" {
			return results.FailureResult[leaguedomain.Membership, error](apperrors.ErrUnauthorized), nil
		}
		code, ok := leaguedomain.NormalizeJoinCode(joinCode)
		if !ok {
			return results.FailureResult[leaguedomain.Membership, error](apperrors.ErrInvalidInput.WithReason("join code must be %d letters or digits", leaguedomain.JoinCodeLength)), nil
		}

		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (results.OperationResult[leaguedomain.Membership, error], error) {
			row, err := s.repo.GetLeagueByJoinCode(ctx, db, code)
			if errors.Is(err, leaguedb.ErrNotFound) {
				return results.FailureResult[leaguedomain.Membership, error](apperrors.ErrNotFound.WithReason("no league uses join code %s", code)), nil
			}
			if err != nil {
				return results.OperationResult[leaguedomain.Membership, error]{}, err
			}
			if err := s.repo.LockLeague(ctx, db, row.ID); err != nil {
				return results.OperationResult[leaguedomain.Membership, error]{}, err
			}

			// Re-read under the lock; activation may have raced the lookup.
			row, err = s.repo.GetLeague(ctx, db, row.ID)
			if err != nil {
				return results.OperationResult[leaguedomain.Membership, error]{}, err
			}
			if err := row.ToDomain().CanJoin(); err != nil {
				return results.FailureResult[leaguedomain.Membership, error](err), nil
			}

			member := leaguedb.MembershipFromDomain(leaguedomain.NewMembership(row.ID, userID, s.clock.Now()))
			err = s.repo.CreateMembership(ctx, db, member)
			if errors.Is(err, leaguedb.ErrDuplicate) {
				return results.FailureResult[leaguedomain.Membership, error](apperrors.ErrAlreadyMember), nil
			}
			if err != nil {
				return results.OperationResult[leaguedomain.Membership, error]{}, err
			}
			return results.SuccessResult[leaguedomain.Membership, error](member.ToDomain()), nil
		})
	})
}

func (s *LeagueService) ActivateLeague(ctx context.Context, leagueID int64, requesterID string) (results.OperationResult[leaguedomain.League, error], error) {
	result, err := withTelemetry(s, ctx, "ActivateLeague", strconv.FormatInt(leagueID, 10), func(ctx context.Context) (results.OperationResult[leaguedomain.League, error], error) {
		now := s.clock.Now()
		if s.gameweek.Calculator().IsPickLockPeriod(now) {
			return results.FailureResult[leaguedomain.League, error](apperrors.ErrPickLockActive), nil
		}

		return runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (results.OperationResult[leaguedomain.League, error], error) {
			if err := s.repo.LockLeague(ctx, db, leagueID); err != nil {
				return results.OperationResult[leaguedomain.League, error]{}, err
			}
			row, err := s.repo.GetLeague(ctx, db, leagueID)
			if errors.Is(err, leaguedb.ErrNotFound) {
				return results.FailureResult[leaguedomain.League, error](apperrors.ErrNotFound.WithReason("league %d not found", leagueID)), nil
			}
			if err != nil {
				return results.OperationResult[leaguedomain.League, error]{}, err
			}

			league := row.ToDomain()
			if err := league.CanActivate(requesterID); err != nil {
				return results.FailureResult[leaguedomain.League, error](err), nil
			}

			league = league.Activate(now)
			if err := s.repo.UpdateLeague(ctx, db, leaguedb.LeagueFromDomain(league)); err != nil {
				return results.OperationResult[leaguedomain.League, error]{}, fmt.Errorf("failed to activate league %d: %w", leagueID, err)
			}
			return results.SuccessResult[leaguedomain.League, error](league), nil
		})
	})
	if err != nil || result.Success == nil {
		return result, err
	}

	league := *result.Success
	s.publish(ctx, handlerwrapper.Result{
		Topic: leaguedomain.TopicLeagueActivatedV1,
		Payload: leaguedomain.LeagueActivatedPayloadV1{
			LeagueID:    league.ID,
			ActivatedBy: requesterID,
			ActivatedAt: *league.ActivatedAt,
		},
	})
	return result, nil
}

func (s *LeagueService) GetLeague(ctx context.Context, leagueID int64, userID string) (results.OperationResult[LeagueDetail, error], error) {
	return withTelemetry(s, ctx, "GetLeague", strconv.FormatInt(leagueID, 10), func(ctx context.Context) (results.OperationResult[LeagueDetail, error], error) {
		row, failure, err := s.memberLeague(ctx, leagueID, userID)
		if err != nil {
			return results.OperationResult[LeagueDetail, error]{}, err
		}
		if failure != nil {
			return results.FailureResult[LeagueDetail, error](failure), nil
		}

		members, err := s.repo.ListMemberships(ctx, nil, leagueID)
		if err != nil {
			return results.OperationResult[LeagueDetail, error]{}, err
		}
		picks, err := s.repo.ListLeaguePicks(ctx, nil, leagueID)
		if err != nil {
			return results.OperationResult[LeagueDetail, error]{}, err
		}

		domainMembers := leaguedb.MembershipsToDomain(members)
		detail := LeagueDetail{
			League:    row.ToDomain(),
			Members:   len(domainMembers),
			Standings: leaguedomain.BuildStandings(domainMembers, leaguedb.PicksToDomain(picks)),
		}
		for _, m := range domainMembers {
			if m.Survivor() {
				detail.Survivors++
			}
		}
		return results.SuccessResult[LeagueDetail, error](detail), nil
	})
}

func (s *LeagueService) ListUserLeagues(ctx context.Context, userID string) (results.OperationResult[[]UserLeague, error], error) {
	return withTelemetry(s, ctx, "ListUserLeagues", userID, func(ctx context.Context) (results.OperationResult[[]UserLeague, error], error) {
		if userID == "" {
			return results.FailureResult[[]UserLeague, error](apperrors.ErrUnauthorized), nil
		}

		leagues, err := s.repo.ListLeaguesForUser(ctx, nil, userID)
		if err != nil {
			return results.OperationResult[[]UserLeague, error]{}, err
		}
		memberships, err := s.repo.ListMembershipsForUser(ctx, nil, userID)
		if err != nil {
			return results.OperationResult[[]UserLeague, error]{}, err
		}
		state := make(map[int64]string, len(memberships))
		for _, m := range memberships {
			state[m.LeagueID] = m.ToDomain().State().String()
		}

		out := make([]UserLeague, 0, len(leagues))
		for _, l := range leagues {
			out = append(out, UserLeague{League: l.ToDomain(), State: state[l.ID]})
		}
		return results.SuccessResult[[]UserLeague, error](out), nil
	})
}

// memberLeague loads a league on behalf of one of its members. The second
// return value is a business failure.
func (s *LeagueService) memberLeague(ctx context.Context, leagueID int64, userID string) (*leaguedb.League, error, error) {
	fail := func(failure error) (*leaguedb.League, error, error) { return nil, failure, nil }

	if userID == "" {
		return fail(apperrors.ErrUnauthorized)
	}
	row, err := s.repo.GetLeague(ctx, nil, leagueID)
	if errors.Is(err, leaguedb.ErrNotFound) {
		return fail(apperrors.ErrNotFound.WithReason("league %d not found", leagueID))
	}
	if err != nil {
		return nil, nil, err
	}
	_, err = s.repo.GetMembership(ctx, nil, leagueID, userID)
	if errors.Is(err, leaguedb.ErrNotFound) {
		return fail(apperrors.ErrPermissionDenied.WithReason("you are not a member of this league"))
	}
	if err != nil {
		return nil, nil, err
	}
	return row, nil, nil
}
