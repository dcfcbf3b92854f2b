package leaguedomain

import (
	"strings"
	"time"

	fixturedomain "github.com/Black-And-White-Club/last-man-standing/app/modules/fixture/domain"
)

// Pick is a member's choice of a team to win one fixture.
type Pick struct {
	ID        int64                 `json:"id"`
	LeagueID  int64                 `json:"league_id"`
	UserID    string                `json:"user_id"`
	FixtureID int64                 `json:"fixture_id"`
	Team      string                `json:"team"`
	KickoffAt time.Time             `json:"kickoff_at"`
	Outcome   fixturedomain.Outcome `json:"outcome"`
	CreatedAt time.Time             `json:"created_at"`
}

// HasPickedTeam reports whether team already appears in picks.
func HasPickedTeam(picks []Pick, team string) bool {
	team = fixturedomain.NormalizeTeam(team)
	for _, p := range picks {
		if strings.EqualFold(fixturedomain.NormalizeTeam(p.Team), team) {
			return true
		}
	}
	return false
}

// AllResolved reports whether every pick has a known outcome.
func AllResolved(picks []Pick) bool {
	for _, p := range picks {
		if !p.Outcome.IsResolved() {
			return false
		}
	}
	return true
}

// PicksByUser groups picks by user id.
func PicksByUser(picks []Pick) map[string][]Pick {
	out := make(map[string][]Pick)
	for _, p := range picks {
		out[p.UserID] = append(out[p.UserID], p)
	}
	return out
}
