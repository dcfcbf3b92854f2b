// Package gameweektime turns operator time input ("next saturday 3pm",
// "2026-10-17 15:00", RFC 3339) into an instant in the gameweek zone.
package gameweektime

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/Black-And-White-Club/last-man-standing/app/shared/clock"
	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

var layouts = []string{
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"2006-01-02",
}

// "932am" -> "9:32 am"
var compactClock = regexp.MustCompile(`\b(\d{1,2})(\d{2})(am|pm)\b`)

// Parser resolves time input relative to a clock.
type Parser struct {
	loc   *time.Location
	clock clock.Clock
	w     *when.Parser
}

// NewParser returns a Parser that reads wall-clock input in loc.
func NewParser(loc *time.Location, clk clock.Clock) *Parser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return &Parser{loc: loc, clock: clk, w: w}
}

// Parse returns the instant described by input. Empty input means now.
func (p *Parser) Parse(input string) (time.Time, error) {
	now := p.clock.Now().In(p.loc)
	input = strings.TrimSpace(input)
	if input == "" {
		return now, nil
	}

	if t, err := time.Parse(time.RFC3339, input); err == nil {
		return t.In(p.loc), nil
	}
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, input, p.loc); err == nil {
			return t, nil
		}
	}

	normalized := compactClock.ReplaceAllString(strings.ToLower(input), "$1:$2 $3")
	r, err := p.w.Parse(normalized, now)
	if err != nil {
		return time.Time{}, fmt.Errorf("could not parse time %q: %w", input, err)
	}
	if r == nil {
		return time.Time{}, fmt.Errorf("could not recognize time format: %s", input)
	}
	return r.Time.In(p.loc), nil
}
