package fixturedomain

import (
	"errors"
	"testing"
	"time"

	"github.com/Black-And-White-Club/last-man-standing/app/shared/apperrors"
)

func intPtr(i int) *int { return &i }

func TestFeedRecordValidate(t *testing.T) {
	london, err := time.LoadLocation("Europe/London")
	if err != nil {
		t.Fatalf("load location: %v", err)
	}

	t.Run("finished fixture with winner", func(t *testing.T) {
		f, err := FeedRecord{
			League: "Premier League", HomeTeam: "Chelsea", AwayTeam: "Wolves",
			Date: "2024-08-17T14:00:00Z", Status: "PostEvent", Winner: "away",
			HomeScore: intPtr(0), AwayScore: intPtr(1),
		}.Validate(london)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if f.HomeOutcome != OutcomeLoss || f.AwayOutcome != OutcomeWin {
			t.Fatalf("outcomes = %s/%s", f.HomeOutcome, f.AwayOutcome)
		}
		if f.Key != "premier league|chelsea|wolves|2024-08-17T14:00Z" {
			t.Fatalf("key = %q", f.Key)
		}
	})

	t.Run("finished fixture falls back to score", func(t *testing.T) {
		f, err := FeedRecord{
			League: "PL", HomeTeam: "Spurs", AwayTeam: "Leeds", Date: "2024-08-17T15:00:00+01:00",
			Status: "finished", HomeScore: intPtr(2), AwayScore: intPtr(2),
		}.Validate(london)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if f.HomeOutcome != OutcomeDraw || f.AwayOutcome != OutcomeDraw {
			t.Fatalf("outcomes = %s/%s", f.HomeOutcome, f.AwayOutcome)
		}
		if !f.KickoffAt.Equal(time.Date(2024, 8, 17, 14, 0, 0, 0, time.UTC)) {
			t.Fatalf("kickoff = %s", f.KickoffAt)
		}
	})

	t.Run("winner is ignored before the final whistle", func(t *testing.T) {
		f, err := FeedRecord{
			League: "PL", HomeTeam: "Spurs", AwayTeam: "Leeds", Date: "2024-08-17 15:00",
			Status: "live", Winner: "home",
		}.Validate(london)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if f.HomeOutcome != OutcomeUnknown {
			t.Fatalf("mid-event outcome must stay unknown")
		}
		// Zoneless dates are read in London time.
		if !f.KickoffAt.Equal(time.Date(2024, 8, 17, 14, 0, 0, 0, time.UTC)) {
			t.Fatalf("kickoff = %s", f.KickoffAt)
		}
	})

	rejects := []struct {
		name string
		rec  FeedRecord
	}{
		{"missing teams", FeedRecord{League: "PL", Date: "2024-08-17T14:00:00Z", Status: "PreEvent"}},
		{"missing league", FeedRecord{HomeTeam: "A", AwayTeam: "B", Date: "2024-08-17T14:00:00Z", Status: "PreEvent"}},
		{"same team twice", FeedRecord{League: "PL", HomeTeam: "A", AwayTeam: " a", Date: "2024-08-17T14:00:00Z", Status: "PreEvent"}},
		{"bad date", FeedRecord{League: "PL", HomeTeam: "A", AwayTeam: "B", Date: "Saturday", Status: "PreEvent"}},
		{"bad status", FeedRecord{League: "PL", HomeTeam: "A", AwayTeam: "B", Date: "2024-08-17T14:00:00Z", Status: "??"}},
		{"finished without result", FeedRecord{League: "PL", HomeTeam: "A", AwayTeam: "B", Date: "2024-08-17T14:00:00Z", Status: "PostEvent"}},
		{"one-sided score", FeedRecord{League: "PL", HomeTeam: "A", AwayTeam: "B", Date: "2024-08-17T14:00:00Z", Status: "PreEvent", HomeScore: intPtr(1)}},
		{"negative score", FeedRecord{League: "PL", HomeTeam: "A", AwayTeam: "B", Date: "2024-08-17T14:00:00Z", Status: "PostEvent", HomeScore: intPtr(-1), AwayScore: intPtr(0)}},
		{"bad winner", FeedRecord{League: "PL", HomeTeam: "A", AwayTeam: "B", Date: "2024-08-17T14:00:00Z", Status: "PostEvent", Winner: "both"}},
	}
	for _, tt := range rejects {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.rec.Validate(london)
			if !errors.Is(err, apperrors.ErrInvalidInput) {
				t.Fatalf("expected invalid input, got %v", err)
			}
		})
	}
}
