package leaguedb

import (
	"time"

	fixturedomain "github.com/Black-And-White-Club/last-man-standing/app/modules/fixture/domain"
	leaguedomain "github.com/Black-And-White-Club/last-man-standing/app/modules/league/domain"
	"github.com/uptrace/bun"
)

// League is the stored league row.
type League struct {
	bun.BaseModel `bun:"table:leagues,alias:l"`

	ID           int64      `bun:"id,pk,autoincrement"`
	Name         string     `bun:"name,notnull"`
	JoinCode     string     `bun:"join_code,notnull,unique"`
	CreatorID    string     `bun:"creator_id,notnull"`
	Active       bool       `bun:"active,notnull,default:false"`
	ActivatedAt  *time.Time `bun:"activated_at"`
	FinishedAt   *time.Time `bun:"finished_at"`
	WinnerUserID *string    `bun:"winner_user_id"`
	Washed       bool       `bun:"washed,notnull,default:false"`
	CreatedAt    time.Time  `bun:"created_at,notnull,default:current_timestamp"`
}

func (l *League) ToDomain() leaguedomain.League {
	return leaguedomain.League{
		ID:           l.ID,
		Name:         l.Name,
		JoinCode:     l.JoinCode,
		CreatorID:    l.CreatorID,
		Active:       l.Active,
		ActivatedAt:  l.ActivatedAt,
		FinishedAt:   l.FinishedAt,
		WinnerUserID: l.WinnerUserID,
		Washed:       l.Washed,
		CreatedAt:    l.CreatedAt,
	}
}

func LeagueFromDomain(d leaguedomain.League) *League {
	return &League{
		ID:           d.ID,
		Name:         d.Name,
		JoinCode:     d.JoinCode,
		CreatorID:    d.CreatorID,
		Active:       d.Active,
		ActivatedAt:  d.ActivatedAt,
		FinishedAt:   d.FinishedAt,
		WinnerUserID: d.WinnerUserID,
		Washed:       d.Washed,
		CreatedAt:    d.CreatedAt,
	}
}

// Membership is the stored membership row. Version guards concurrent writers.
type Membership struct {
	bun.BaseModel `bun:"table:league_memberships,alias:m"`

	ID                int64                          `bun:"id,pk,autoincrement"`
	LeagueID          int64                          `bun:"league_id,notnull"`
	UserID            string                         `bun:"user_id,notnull"`
	IsEliminated      bool                           `bun:"is_eliminated,notnull,default:false"`
	CanPick           bool                           `bun:"can_pick,notnull,default:true"`
	Winner            bool                           `bun:"winner,notnull,default:false"`
	EliminatedAt      *time.Time                     `bun:"eliminated_at"`
	EliminationReason leaguedomain.EliminationReason `bun:"elimination_reason,nullzero"`
	Version           int64                          `bun:"version,notnull,default:1"`
	JoinedAt          time.Time                      `bun:"joined_at,notnull,default:current_timestamp"`
}

func (m *Membership) ToDomain() leaguedomain.Membership {
	return leaguedomain.Membership{
		ID:                m.ID,
		LeagueID:          m.LeagueID,
		UserID:            m.UserID,
		IsEliminated:      m.IsEliminated,
		CanPick:           m.CanPick,
		Winner:            m.Winner,
		EliminatedAt:      m.EliminatedAt,
		EliminationReason: m.EliminationReason,
		Version:           m.Version,
		JoinedAt:          m.JoinedAt,
	}
}

func MembershipFromDomain(d leaguedomain.Membership) *Membership {
	return &Membership{
		ID:                d.ID,
		LeagueID:          d.LeagueID,
		UserID:            d.UserID,
		IsEliminated:      d.IsEliminated,
		CanPick:           d.CanPick,
		Winner:            d.Winner,
		EliminatedAt:      d.EliminatedAt,
		EliminationReason: d.EliminationReason,
		Version:           d.Version,
		JoinedAt:          d.JoinedAt,
	}
}

// Pick is the stored pick row.
type Pick struct {
	bun.BaseModel `bun:"table:picks,alias:p"`

	ID        int64                 `bun:"id,pk,autoincrement"`
	LeagueID  int64                 `bun:"league_id,notnull"`
	UserID    string                `bun:"user_id,notnull"`
	FixtureID int64                 `bun:"fixture_id,notnull"`
	Team      string                `bun:"team,notnull"`
	KickoffAt time.Time             `bun:"kickoff_at,notnull"`
	Outcome   fixturedomain.Outcome `bun:"outcome,notnull,default:'unknown'"`
	CreatedAt time.Time             `bun:"created_at,notnull,default:current_timestamp"`
}

func (p *Pick) ToDomain() leaguedomain.Pick {
	return leaguedomain.Pick{
		ID:        p.ID,
		LeagueID:  p.LeagueID,
		UserID:    p.UserID,
		FixtureID: p.FixtureID,
		Team:      p.Team,
		KickoffAt: p.KickoffAt.UTC(),
		Outcome:   p.Outcome,
		CreatedAt: p.CreatedAt,
	}
}

func PickFromDomain(d leaguedomain.Pick) *Pick {
	return &Pick{
		ID:        d.ID,
		LeagueID:  d.LeagueID,
		UserID:    d.UserID,
		FixtureID: d.FixtureID,
		Team:      d.Team,
		KickoffAt: d.KickoffAt.UTC(),
		Outcome:   d.Outcome,
		CreatedAt: d.CreatedAt,
	}
}

// MembershipsToDomain converts a slice of rows.
func MembershipsToDomain(rows []*Membership) []leaguedomain.Membership {
	out := make([]leaguedomain.Membership, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.ToDomain())
	}
	return out
}

// PicksToDomain converts a slice of rows.
func PicksToDomain(rows []*Pick) []leaguedomain.Pick {
	out := make([]leaguedomain.Pick, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.ToDomain())
	}
	return out
}
