package fixturedomain

import "testing"

func TestResolveOutcomes(t *testing.T) {
	tests := []struct {
		side WinnerSide
		home Outcome
		away Outcome
	}{
		{WinnerHome, OutcomeWin, OutcomeLoss},
		{WinnerAway, OutcomeLoss, OutcomeWin},
		{WinnerDraw, OutcomeDraw, OutcomeDraw},
		{WinnerNone, OutcomeUnknown, OutcomeUnknown},
	}
	for _, tt := range tests {
		home, away := ResolveOutcomes(tt.side)
		if home != tt.home || away != tt.away {
			t.Fatalf("ResolveOutcomes(%q) = (%s, %s), want (%s, %s)", tt.side, home, away, tt.home, tt.away)
		}
		if tt.side != WinnerNone && tt.side != WinnerDraw && (home == OutcomeWin) == (away == OutcomeWin) {
			t.Fatalf("decisive result must have exactly one winner")
		}
	}
}

func TestWinnerFromScore(t *testing.T) {
	if WinnerFromScore(2, 1) != WinnerHome || WinnerFromScore(0, 3) != WinnerAway || WinnerFromScore(1, 1) != WinnerDraw {
		t.Fatalf("unexpected winner from score")
	}
}

func TestParseWinnerSide(t *testing.T) {
	for in, want := range map[string]WinnerSide{"": WinnerNone, "HOME": WinnerHome, " away ": WinnerAway, "tie": WinnerDraw} {
		got, err := ParseWinnerSide(in)
		if err != nil || got != want {
			t.Fatalf("ParseWinnerSide(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseWinnerSide("visitors"); err == nil {
		t.Fatalf("expected error for unknown side")
	}
}

func TestOutcomeIsResolved(t *testing.T) {
	if OutcomeUnknown.IsResolved() || !OutcomeDraw.IsResolved() || !OutcomeLoss.IsResolved() {
		t.Fatalf("unexpected IsResolved")
	}
}
