// Package gameweekdomain computes the Friday-Monday gameweek windows and the
// pick deadline rules derived from them. Everything here is a pure function
// of the instant passed in.
package gameweekdomain

import "time"

// DefaultTimezone is the zone fixtures are scheduled in.
const DefaultTimezone = "Europe/London"

// Window is an inclusive [Start, End] range from Friday 00:00:00.000 to the
// following Monday 23:59:59.999, expressed in the calculator's location.
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t falls inside the window, bounds included.
func (w Window) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}

// Cutoff is the pick deadline: Thursday midnight, i.e. the window start.
func (w Window) Cutoff() time.Time {
	return w.Start
}

// Next returns the window one week later.
func (w Window) Next() Window {
	return windowStartingAt(w.Start.AddDate(0, 0, 7))
}

// Previous returns the window one week earlier.
func (w Window) Previous() Window {
	return windowStartingAt(w.Start.AddDate(0, 0, -7))
}

// Key identifies the window by the calendar date of its Friday.
func (w Window) Key() string {
	return w.Start.Format(time.DateOnly)
}

func (w Window) IsZero() bool {
	return w.Start.IsZero()
}

func windowStartingAt(friday time.Time) Window {
	return Window{
		Start: friday,
		End:   friday.AddDate(0, 0, 4).Add(-time.Millisecond),
	}
}

// Calculator evaluates gameweek rules in a fixed location. Weekdays and
// midnights are those of that location, across DST changes.
type Calculator struct {
	loc *time.Location
}

// NewCalculator returns a Calculator for loc; nil means UTC.
func NewCalculator(loc *time.Location) Calculator {
	if loc == nil {
		loc = time.UTC
	}
	return Calculator{loc: loc}
}

// NewCalculatorForZone loads the named IANA zone.
func NewCalculatorForZone(name string) (Calculator, error) {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return Calculator{}, err
	}
	return NewCalculator(loc), nil
}

func (c Calculator) Location() *time.Location {
	if c.loc == nil {
		return time.UTC
	}
	return c.loc
}

// daysFromFriday maps a weekday to the offset of the Friday that opens the
// window containing or following it.
var daysFromFriday = map[time.Weekday]int{
	time.Friday:    0,
	time.Saturday:  -1,
	time.Sunday:    -2,
	time.Monday:    -3,
	time.Tuesday:   3,
	time.Wednesday: 2,
	time.Thursday:  1,
}

// Window returns the window containing now when now is Friday through Monday,
// otherwise the next window.
func (c Calculator) Window(now time.Time) Window {
	local := now.In(c.Location())
	midnight := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, c.Location())
	return windowStartingAt(midnight.AddDate(0, 0, daysFromFriday[local.Weekday()]))
}

// IsPickLockPeriod reports whether now is a Friday, Saturday, Sunday or Monday.
func (c Calculator) IsPickLockPeriod(now time.Time) bool {
	switch now.In(c.Location()).Weekday() {
	case time.Friday, time.Saturday, time.Sunday, time.Monday:
		return true
	}
	return false
}

// IsBeforeThursdayMidnight reports whether now is still ahead of the pick
// deadline of the gameweek now belongs to. Tuesday to Thursday count as the
// run-up to the coming window; Friday to Monday are past its deadline.
func (c Calculator) IsBeforeThursdayMidnight(now time.Time) bool {
	return now.Before(c.Window(now).Cutoff())
}
