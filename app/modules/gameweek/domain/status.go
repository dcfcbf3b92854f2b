package gameweekdomain

import "time"

// DefaultMinTeamSides is the number of pickable team sides a window needs to
// count as an active gameweek.
const DefaultMinTeamSides = 8

// Status is the computed state of one gameweek window.
type Status struct {
	Window       Window    `json:"window"`
	FixtureCount int       `json:"fixture_count"`
	TeamSides    int       `json:"team_sides"`
	Active       bool      `json:"active"`
	PickLock     bool      `json:"pick_lock"`
	EvaluatedAt  time.Time `json:"evaluated_at"`
}

// EvaluateStatus decides whether a window with fixtureCount scheduled
// fixtures is an active gameweek. Each fixture offers two team sides.
func EvaluateStatus(c Calculator, now time.Time, fixtureCount, minTeamSides int) Status {
	if minTeamSides <= 0 {
		minTeamSides = DefaultMinTeamSides
	}
	sides := fixtureCount * 2
	return Status{
		Window:       c.Window(now),
		FixtureCount: fixtureCount,
		TeamSides:    sides,
		Active:       sides >= minTeamSides,
		PickLock:     c.IsPickLockPeriod(now),
		EvaluatedAt:  now,
	}
}
