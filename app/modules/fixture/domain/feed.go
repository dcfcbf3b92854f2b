package fixturedomain

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Black-And-White-Club/last-man-standing/app/shared/apperrors"
)

// FeedRecord is one untrusted match record from the fixture feed.
type FeedRecord struct {
	League    string `json:"league"`
	HomeTeam  string `json:"home_team"`
	AwayTeam  string `json:"away_team"`
	Date      string `json:"date"`
	Status    string `json:"status"`
	HomeScore *int   `json:"home_score,omitempty"`
	AwayScore *int   `json:"away_score,omitempty"`
	Winner    string `json:"winner,omitempty"`
}

// zoneless layouts are read in the caller's location.
var (
	zonedLayouts    = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04Z07:00"}
	zonelessLayouts = []string{"2006-01-02T15:04:05", "2006-01-02T15:04", "2006-01-02 15:04:05", "2006-01-02 15:04"}
)

// ParseKickoff parses an ISO-8601 date-time. Values without an offset are
// interpreted in loc.
func ParseKickoff(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range zonelessLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unparseable date %q", value)
}

// Validate turns the record into a Fixture or rejects it with an invalid
// input error naming every problem found.
func (r FeedRecord) Validate(loc *time.Location) (Fixture, error) {
	var problems []error

	league := NormalizeTeam(r.League)
	home := NormalizeTeam(r.HomeTeam)
	away := NormalizeTeam(r.AwayTeam)
	if league == "" {
		problems = append(problems, errors.New("league is required"))
	}
	if home == "" || away == "" {
		problems = append(problems, errors.New("home and away teams are required"))
	} else if strings.EqualFold(home, away) {
		problems = append(problems, fmt.Errorf("team %q cannot play itself", home))
	}

	kickoff, err := ParseKickoff(r.Date, loc)
	if err != nil {
		problems = append(problems, err)
	}

	progress, err := ParseProgress(r.Status)
	if err != nil {
		problems = append(problems, err)
	}

	winner, err := ParseWinnerSide(r.Winner)
	if err != nil {
		problems = append(problems, err)
	}

	if (r.HomeScore == nil) != (r.AwayScore == nil) {
		problems = append(problems, errors.New("scores must be reported for both sides or neither"))
	}
	if (r.HomeScore != nil && *r.HomeScore < 0) || (r.AwayScore != nil && *r.AwayScore < 0) {
		problems = append(problems, errors.New("scores cannot be negative"))
	}

	if progress == PostEvent && winner == WinnerNone {
		if r.HomeScore == nil || r.AwayScore == nil {
			problems = append(problems, errors.New("finished fixture has neither winner nor score"))
		} else {
			winner = WinnerFromScore(*r.HomeScore, *r.AwayScore)
		}
	}

	if len(problems) > 0 {
		return Fixture{}, apperrors.ErrInvalidInput.
			WithReason("invalid feed record %s v %s: %v", r.HomeTeam, r.AwayTeam, errors.Join(problems...)).
			Wrap(errors.Join(problems...))
	}

	f := Fixture{
		Key:         Key(league, home, away, kickoff),
		League:      league,
		HomeTeam:    home,
		AwayTeam:    away,
		KickoffAt:   NormalizeKickoff(kickoff),
		Progress:    progress,
		HomeScore:   r.HomeScore,
		AwayScore:   r.AwayScore,
		HomeOutcome: OutcomeUnknown,
		AwayOutcome: OutcomeUnknown,
	}
	if progress == PostEvent {
		f.HomeOutcome, f.AwayOutcome = ResolveOutcomes(winner)
	}
	return f, nil
}
