package fixturedomain

import (
	"fmt"
	"strings"
)

type Outcome string

const (
	OutcomeWin     Outcome = "win"
	OutcomeLoss    Outcome = "loss"
	OutcomeDraw    Outcome = "draw"
	OutcomeUnknown Outcome = "unknown"
)

// IsResolved reports whether the outcome is final.
func (o Outcome) IsResolved() bool {
	return o == OutcomeWin || o == OutcomeLoss || o == OutcomeDraw
}

// WinnerSide is the feed's winner indicator. The zero value means no winner
// has been reported yet.
type WinnerSide string

const (
	WinnerNone WinnerSide = ""
	WinnerHome WinnerSide = "home"
	WinnerAway WinnerSide = "away"
	WinnerDraw WinnerSide = "draw"
)

// ParseWinnerSide accepts home/away/draw (any case) and empty for none.
func ParseWinnerSide(s string) (WinnerSide, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return WinnerNone, nil
	case "home":
		return WinnerHome, nil
	case "away":
		return WinnerAway, nil
	case "draw", "tie":
		return WinnerDraw, nil
	}
	return WinnerNone, fmt.Errorf("unknown winner side %q", s)
}

// ResolveOutcomes derives the per-side outcomes from the winner indicator.
func ResolveOutcomes(side WinnerSide) (home, away Outcome) {
	switch side {
	case WinnerHome:
		return OutcomeWin, OutcomeLoss
	case WinnerAway:
		return OutcomeLoss, OutcomeWin
	case WinnerDraw:
		return OutcomeDraw, OutcomeDraw
	}
	return OutcomeUnknown, OutcomeUnknown
}

// WinnerFromScore derives the winner indicator from a final score.
func WinnerFromScore(home, away int) WinnerSide {
	switch {
	case home > away:
		return WinnerHome
	case away > home:
		return WinnerAway
	}
	return WinnerDraw
}
