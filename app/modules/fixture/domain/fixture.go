// Package fixturedomain models fixtures as the engine sees them: a stable
// identity, a progress status and per-side outcomes.
package fixturedomain

import (
	"fmt"
	"strings"
	"time"
)

// Progress is the lifecycle status reported by the feed.
type Progress string

const (
	PreEvent  Progress = "PreEvent"
	MidEvent  Progress = "MidEvent"
	PostEvent Progress = "PostEvent"
	Postponed Progress = "Postponed"
	Cancelled Progress = "Cancelled"
)

var progressAliases = map[string]Progress{
	"preevent":   PreEvent,
	"pre-event":  PreEvent,
	"scheduled":  PreEvent,
	"notstarted": PreEvent,
	"midevent":   MidEvent,
	"mid-event":  MidEvent,
	"inprogress": MidEvent,
	"live":       MidEvent,
	"postevent":  PostEvent,
	"post-event": PostEvent,
	"finished":   PostEvent,
	"fulltime":   PostEvent,
	"postponed":  Postponed,
	"cancelled":  Cancelled,
	"canceled":   Cancelled,
	"abandoned":  Cancelled,
}

// ParseProgress accepts the canonical names and the common feed spellings.
func ParseProgress(s string) (Progress, error) {
	key := strings.ToLower(strings.Join(strings.Fields(s), ""))
	if p, ok := progressAliases[key]; ok {
		return p, nil
	}
	return "", fmt.Errorf("unknown event progress %q", s)
}

// IsVoid reports whether the fixture will not be played as scheduled.
func (p Progress) IsVoid() bool {
	return p == Postponed || p == Cancelled
}

// IsPickable reports whether a pick may still name a fixture in this state.
func (p Progress) IsPickable() bool {
	return p == PreEvent
}

// Side is one of the two teams in a fixture.
type Side string

const (
	SideHome Side = "home"
	SideAway Side = "away"
)

// Fixture is a validated fixture. Teams are normalized and KickoffAt is UTC
// truncated to the minute.
type Fixture struct {
	ID          int64
	Key         string
	League      string
	HomeTeam    string
	AwayTeam    string
	KickoffAt   time.Time
	Progress    Progress
	HomeScore   *int
	AwayScore   *int
	HomeOutcome Outcome
	AwayOutcome Outcome
}

// SideOf returns the side team played, comparing normalized names
// case-insensitively.
func (f Fixture) SideOf(team string) (Side, bool) {
	t := NormalizeTeam(team)
	switch {
	case strings.EqualFold(t, f.HomeTeam):
		return SideHome, true
	case strings.EqualFold(t, f.AwayTeam):
		return SideAway, true
	}
	return "", false
}

// Involves reports whether team plays in the fixture.
func (f Fixture) Involves(team string) bool {
	_, ok := f.SideOf(team)
	return ok
}

// OutcomeFor returns the outcome of team's side, or unknown if team did not play.
func (f Fixture) OutcomeFor(team string) Outcome {
	side, ok := f.SideOf(team)
	if !ok {
		return OutcomeUnknown
	}
	if side == SideHome {
		return f.HomeOutcome
	}
	return f.AwayOutcome
}

// NormalizeTeam trims and collapses internal whitespace.
func NormalizeTeam(name string) string {
	return strings.Join(strings.Fields(name), " ")
}

// NormalizeKickoff converts t to UTC with minute precision.
func NormalizeKickoff(t time.Time) time.Time {
	return t.UTC().Truncate(time.Minute)
}

// Key is the stable fixture identity: league, home team, away team and the
// normalized kickoff. A rescheduled fixture gets a new key.
func Key(league, home, away string, kickoff time.Time) string {
	return strings.Join([]string{
		strings.ToLower(NormalizeTeam(league)),
		strings.ToLower(NormalizeTeam(home)),
		strings.ToLower(NormalizeTeam(away)),
		NormalizeKickoff(kickoff).Format("2006-01-02T15:04Z"),
	}, "|")
}
