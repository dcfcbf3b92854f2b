package leaguehandlers

import (
	"context"

	leagueservice "github.com/Black-And-White-Club/last-man-standing/app/modules/league/application"
	leaguedomain "github.com/Black-And-White-Club/last-man-standing/app/modules/league/domain"
	"github.com/Black-And-White-Club/last-man-standing/app/shared/results"
)

// ------------------------
// Fake League Service
// ------------------------

type FakeLeagueService struct {
	trace []string

	CreateLeagueFunc    func(ctx context.Context, creatorID, name string) (results.OperationResult[leaguedomain.League, error], error)
	JoinLeagueFunc      func(ctx context.Context, userID, joinCode string) (results.OperationResult[leaguedomain.Membership, error], error)
	ActivateLeagueFunc  func(ctx context.Context, leagueID int64, requesterID string) (results.OperationResult[leaguedomain.League, error], error)
	SubmitPickFunc      func(ctx context.Context, req leagueservice.SubmitPickRequest) (results.OperationResult[leaguedomain.Pick, error], error)
	GetLeagueFunc       func(ctx context.Context, leagueID int64, userID string) (results.OperationResult[leagueservice.LeagueDetail, error], error)
	ListUserLeaguesFunc func(ctx context.Context, userID string) (results.OperationResult[[]leagueservice.UserLeague, error], error)
	GetUserPicksFunc    func(ctx context.Context, leagueID int64, userID string) (results.OperationResult[[]leaguedomain.Pick, error], error)
	SurvivalChartFunc   func(ctx context.Context, leagueID int64, userID string) (results.OperationResult[[]byte, error], error)
}

func NewFakeLeagueService() *FakeLeagueService {
	return &FakeLeagueService{trace: []string{}}
}

func (f *FakeLeagueService) record(step string) {
	f.trace = append(f.trace, step)
}

func (f *FakeLeagueService) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

// --- Service Interface Implementation ---

func (f *FakeLeagueService) CreateLeague(ctx context.Context, creatorID, name string) (results.OperationResult[leaguedomain.League, error], error) {
	f.record("CreateLeague")
	if f.CreateLeagueFunc != nil {
		return f.CreateLeagueFunc(ctx, creatorID, name)
	}
	return results.SuccessResult[leaguedomain.League, error](leaguedomain.League{ID: 1, Name: name, CreatorID: creatorID}), nil
}

func (f *FakeLeagueService) JoinLeague(ctx context.Context, userID, joinCode string) (results.OperationResult[leaguedomain.Membership, error], error) {
	f.record("JoinLeague")
	if f.JoinLeagueFunc != nil {
		return f.JoinLeagueFunc(ctx, userID, joinCode)
	}
	return results.SuccessResult[leaguedomain.Membership, error](leaguedomain.Membership{LeagueID: 1, UserID: userID, CanPick: true}), nil
}

func (f *FakeLeagueService) ActivateLeague(ctx context.Context, leagueID int64, requesterID string) (results.OperationResult[leaguedomain.League, error], error) {
	f.record("ActivateLeague")
	if f.ActivateLeagueFunc != nil {
		return f.ActivateLeagueFunc(ctx, leagueID, requesterID)
	}
	return results.SuccessResult[leaguedomain.League, error](leaguedomain.League{ID: leagueID, Active: true}), nil
}

func (f *FakeLeagueService) SubmitPick(ctx context.Context, req leagueservice.SubmitPickRequest) (results.OperationResult[leaguedomain.Pick, error], error) {
	f.record("SubmitPick")
	if f.SubmitPickFunc != nil {
		return f.SubmitPickFunc(ctx, req)
	}
	return results.SuccessResult[leaguedomain.Pick, error](leaguedomain.Pick{LeagueID: req.LeagueID, UserID: req.UserID, Team: req.Team}), nil
}

func (f *FakeLeagueService) GetLeague(ctx context.Context, leagueID int64, userID string) (results.OperationResult[leagueservice.LeagueDetail, error], error) {
	f.record("GetLeague")
	if f.GetLeagueFunc != nil {
		return f.GetLeagueFunc(ctx, leagueID, userID)
	}
	return results.SuccessResult[leagueservice.LeagueDetail, error](leagueservice.LeagueDetail{League: leaguedomain.League{ID: leagueID}}), nil
}

func (f *FakeLeagueService) ListUserLeagues(ctx context.Context, userID string) (results.OperationResult[[]leagueservice.UserLeague, error], error) {
	f.record("ListUserLeagues")
	if f.ListUserLeaguesFunc != nil {
		return f.ListUserLeaguesFunc(ctx, userID)
	}
	return results.SuccessResult[[]leagueservice.UserLeague, error]([]leagueservice.UserLeague{}), nil
}

func (f *FakeLeagueService) GetUserPicks(ctx context.Context, leagueID int64, userID string) (results.OperationResult[[]leaguedomain.Pick, error], error) {
	f.record("GetUserPicks")
	if f.GetUserPicksFunc != nil {
		return f.GetUserPicksFunc(ctx, leagueID, userID)
	}
	return results.SuccessResult[[]leaguedomain.Pick, error]([]leaguedomain.Pick{}), nil
}

func (f *FakeLeagueService) SurvivalChart(ctx context.Context, leagueID int64, userID string) (results.OperationResult[[]byte, error], error) {
	f.record("SurvivalChart")
	if f.SurvivalChartFunc != nil {
		return f.SurvivalChartFunc(ctx, leagueID, userID)
	}
	return results.SuccessResult[[]byte, error]([]byte("\x89PNG")), nil
}

var _ leagueservice.Service = (*FakeLeagueService)(nil)
