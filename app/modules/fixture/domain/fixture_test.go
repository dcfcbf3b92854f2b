package fixturedomain

import (
	"testing"
	"time"
)

func TestKey_IsStableAcrossFormatting(t *testing.T) {
	bst := time.FixedZone("BST", 3600)
	a := Key("Premier League", "Man City", "Arsenal", time.Date(2024, 8, 17, 15, 0, 0, 0, bst))
	b := Key(" premier  league", "man city ", "ARSENAL", time.Date(2024, 8, 17, 14, 0, 42, 500, time.UTC))

	if a != b {
		t.Fatalf("keys differ: %q vs %q", a, b)
	}
	if a != "premier league|man city|arsenal|2024-08-17T14:00Z" {
		t.Fatalf("unexpected key %q", a)
	}
}

func TestKey_RescheduleIsNewIdentity(t *testing.T) {
	at := time.Date(2024, 8, 17, 14, 0, 0, 0, time.UTC)
	if Key("PL", "A", "B", at) == Key("PL", "A", "B", at.Add(24*time.Hour)) {
		t.Fatalf("rescheduled fixture must get a new key")
	}
	if Key("PL", "A", "B", at) == Key("PL", "B", "A", at) {
		t.Fatalf("home and away are ordered")
	}
}

func TestFixtureSides(t *testing.T) {
	f := Fixture{HomeTeam: "Aston Villa", AwayTeam: "Everton", HomeOutcome: OutcomeDraw, AwayOutcome: OutcomeDraw}

	if side, ok := f.SideOf("aston  villa"); !ok || side != SideHome {
		t.Fatalf("SideOf home = %q, %v", side, ok)
	}
	if side, ok := f.SideOf("Everton"); !ok || side != SideAway {
		t.Fatalf("SideOf away = %q, %v", side, ok)
	}
	if f.Involves("Fulham") {
		t.Fatalf("Fulham does not play")
	}
	if f.OutcomeFor("Everton") != OutcomeDraw || f.OutcomeFor("Fulham") != OutcomeUnknown {
		t.Fatalf("unexpected OutcomeFor")
	}
}

func TestParseProgress(t *testing.T) {
	cases := map[string]Progress{
		"PreEvent":   PreEvent,
		"post-event": PostEvent,
		"Full Time":  PostEvent,
		"LIVE":       MidEvent,
		"Postponed":  Postponed,
		"abandoned":  Cancelled,
	}
	for in, want := range cases {
		got, err := ParseProgress(in)
		if err != nil || got != want {
			t.Fatalf("ParseProgress(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParseProgress("halftime-ish"); err == nil {
		t.Fatalf("expected error for unknown progress")
	}
	if !Postponed.IsVoid() || !Cancelled.IsVoid() || PostEvent.IsVoid() {
		t.Fatalf("unexpected IsVoid")
	}
	if !PreEvent.IsPickable() || MidEvent.IsPickable() {
		t.Fatalf("unexpected IsPickable")
	}
}
