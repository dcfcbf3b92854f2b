package leaguedomain

import "time"

const (
	TopicLeagueActivatedV1  = "league.activated.v1"
	TopicPickSubmittedV1    = "league.pick.submitted.v1"
	TopicMemberEliminatedV1 = "league.member.eliminated.v1"
	TopicMemberReopenedV1   = "league.member.reopened.v1"
	TopicWinnerDeclaredV1   = "league.winner.declared.v1"
	TopicLeagueWashedV1     = "league.washed.v1"
)

type LeagueActivatedPayloadV1 struct {
	LeagueID    int64     `json:"league_id"`
	ActivatedBy string    `json:"activated_by"`
	ActivatedAt time.Time `json:"activated_at"`
}

type PickSubmittedPayloadV1 struct {
	LeagueID  int64     `json:"league_id"`
	UserID    string    `json:"user_id"`
	FixtureID int64     `json:"fixture_id"`
	Team      string    `json:"team"`
	KickoffAt time.Time `json:"kickoff_at"`
}

type MemberEliminatedPayloadV1 struct {
	LeagueID     int64             `json:"league_id"`
	UserID       string            `json:"user_id"`
	Reason       EliminationReason `json:"reason"`
	FixtureKey   string            `json:"fixture_key,omitempty"`
	EliminatedAt time.Time         `json:"eliminated_at"`
}

type MemberReopenedPayloadV1 struct {
	LeagueID   int64  `json:"league_id"`
	UserID     string `json:"user_id"`
	FixtureKey string `json:"fixture_key,omitempty"`
}

type WinnerDeclaredPayloadV1 struct {
	LeagueID   int64     `json:"league_id"`
	UserID     string    `json:"user_id"`
	FinishedAt time.Time `json:"finished_at"`
}

type LeagueWashedPayloadV1 struct {
	LeagueID   int64     `json:"league_id"`
	FinishedAt time.Time `json:"finished_at"`
}
