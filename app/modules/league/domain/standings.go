package leaguedomain

import (
	"sort"
	"time"

	fixturedomain "github.com/Black-And-White-Club/last-man-standing/app/modules/fixture/domain"
)

// Standing is one row of a league table.
type Standing struct {
	UserID            string            `json:"user_id"`
	State             string            `json:"state"`
	Picks             int               `json:"picks"`
	Wins              int               `json:"wins"`
	EliminatedAt      *time.Time        `json:"eliminated_at,omitempty"`
	EliminationReason EliminationReason `json:"elimination_reason,omitempty"`
}

// BuildStandings ranks the winner first, then survivors by wins, then the
// eliminated by how long they lasted.
func BuildStandings(members []Membership, picks []Pick) []Standing {
	byUser := PicksByUser(picks)
	rows := make([]Standing, 0, len(members))
	rank := make(map[string]Membership, len(members))
	for _, m := range members {
		s := Standing{
			UserID:            m.UserID,
			State:             m.State().String(),
			EliminatedAt:      m.EliminatedAt,
			EliminationReason: m.EliminationReason,
		}
		for _, p := range byUser[m.UserID] {
			s.Picks++
			if p.Outcome == fixturedomain.OutcomeWin {
				s.Wins++
			}
		}
		rows = append(rows, s)
		rank[m.UserID] = m
	}

	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rank[rows[i].UserID], rank[rows[j].UserID]
		if a.Winner != b.Winner {
			return a.Winner
		}
		if a.IsEliminated != b.IsEliminated {
			return !a.IsEliminated
		}
		if a.IsEliminated && a.EliminatedAt != nil && b.EliminatedAt != nil && !a.EliminatedAt.Equal(*b.EliminatedAt) {
			return a.EliminatedAt.After(*b.EliminatedAt)
		}
		if rows[i].Wins != rows[j].Wins {
			return rows[i].Wins > rows[j].Wins
		}
		return rows[i].UserID < rows[j].UserID
	})
	return rows
}

// SurvivalPoint is the number of survivors from At onwards.
type SurvivalPoint struct {
	At        time.Time
	Remaining int
}

// SurvivalCurve returns the survivor count starting at start and stepping
// down at each elimination.
func SurvivalCurve(members []Membership, start time.Time) []SurvivalPoint {
	var eliminations []time.Time
	for _, m := range members {
		if m.IsEliminated && m.EliminatedAt != nil {
			eliminations = append(eliminations, *m.EliminatedAt)
		}
	}
	sort.Slice(eliminations, func(i, j int) bool { return eliminations[i].Before(eliminations[j]) })

	remaining := len(members)
	points := []SurvivalPoint{{At: start, Remaining: remaining}}
	for _, at := range eliminations {
		remaining--
		if last := &points[len(points)-1]; last.At.Equal(at) {
			last.Remaining = remaining
			continue
		}
		points = append(points, SurvivalPoint{At: at, Remaining: remaining})
	}
	return points
}
