package leagueservice

import (
	"context"
	"time"

	fixturedomain "github.com/Black-And-White-Club/last-man-standing/app/modules/fixture/domain"
	gameweekdomain "github.com/Black-And-White-Club/last-man-standing/app/modules/gameweek/domain"
	leaguedomain "github.com/Black-And-White-Club/last-man-standing/app/modules/league/domain"
	"github.com/Black-And-White-Club/last-man-standing/app/shared/results"
	"github.com/uptrace/bun"
)

// Service defines the player-facing league operations.
type Service interface {
	// CreateLeague creates a league with a fresh join code. The creator joins it.
	CreateLeague(ctx context.Context, creatorID, name string) (results.OperationResult[leaguedomain.League, error], error)

	// JoinLeague adds userID to the league with the given join code.
	JoinLeague(ctx context.Context, userID, joinCode string) (results.OperationResult[leaguedomain.Membership, error], error)

	// ActivateLeague starts a league. Only the creator may do it, and never
	// during the pick-lock period.
	ActivateLeague(ctx context.Context, leagueID int64, requesterID string) (results.OperationResult[leaguedomain.League, error], error)

	// SubmitPick records a member's pick for the coming gameweek.
	SubmitPick(ctx context.Context, req SubmitPickRequest) (results.OperationResult[leaguedomain.Pick, error], error)

	// GetLeague returns a league and its standings to one of its members.
	GetLeague(ctx context.Context, leagueID int64, userID string) (results.OperationResult[LeagueDetail, error], error)

	// ListUserLeagues lists the leagues userID belongs to.
	ListUserLeagues(ctx context.Context, userID string) (results.OperationResult[[]UserLeague, error], error)

	// GetUserPicks lists userID's picks in a league.
	GetUserPicks(ctx context.Context, leagueID int64, userID string) (results.OperationResult[[]leaguedomain.Pick, error], error)

	// SurvivalChart renders the survivor count of a league over time as a PNG.
	SurvivalChart(ctx context.Context, leagueID int64, userID string) (results.OperationResult[[]byte, error], error)
}

// SubmitPickRequest is a pick as entered by a player. Date is either a
// kickoff date-time or a calendar date in the gameweek time zone.
type SubmitPickRequest struct {
	LeagueID int64
	UserID   string
	Team     string
	Date     string
}

// LeagueDetail is a league with its table.
type LeagueDetail struct {
	League    leaguedomain.League     `json:"league"`
	Members   int                     `json:"members"`
	Survivors int                     `json:"survivors"`
	Standings []leaguedomain.Standing `json:"standings"`
}

// UserLeague is one of a user's leagues with their state in it.
type UserLeague struct {
	League leaguedomain.League `json:"league"`
	State  string              `json:"state"`
}

// FixtureFinder locates the fixture a pick names.
type FixtureFinder interface {
	FindFixture(ctx context.Context, db bun.IDB, team string, from, to time.Time) (fixturedomain.Fixture, error)
}

// GameweekStatus is the part of the gameweek service picks and activation need.
type GameweekStatus interface {
	Calculator() gameweekdomain.Calculator
	Status(ctx context.Context, db bun.IDB, at time.Time) (gameweekdomain.Status, error)
}
