package gameweektime

import (
	"testing"
	"time"

	"github.com/Black-And-White-Club/last-man-standing/app/shared/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParser_Parse(t *testing.T) {
	loc, err := time.LoadLocation("Europe/London")
	require.NoError(t, err)
	now := time.Date(2026, 10, 14, 12, 0, 0, 0, loc) // Wednesday
	p := NewParser(loc, clock.FixedClock(now))

	tests := []struct {
		name  string
		input string
		want  time.Time
	}{
		{"empty is now", "", now},
		{"rfc3339 converted to zone", "2026-10-17T14:00:00Z", time.Date(2026, 10, 17, 15, 0, 0, 0, loc)},
		{"date only", "2026-10-17", time.Date(2026, 10, 17, 0, 0, 0, 0, loc)},
		{"date and time", "2026-10-17 15:00", time.Date(2026, 10, 17, 15, 0, 0, 0, loc)},
		{"date and time with T", "2026-10-19T23:59", time.Date(2026, 10, 19, 23, 59, 0, 0, loc)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.Parse(tt.input)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "got %s, want %s", got, tt.want)
			assert.Equal(t, loc, got.Location())
		})
	}
}

func TestParser_ParseNaturalLanguage(t *testing.T) {
	loc, err := time.LoadLocation("Europe/London")
	require.NoError(t, err)
	now := time.Date(2026, 10, 14, 12, 0, 0, 0, loc)
	p := NewParser(loc, clock.FixedClock(now))

	got, err := p.Parse("next saturday")
	require.NoError(t, err)
	assert.Equal(t, time.Saturday, got.Weekday())
	assert.True(t, got.After(now))
}

func TestParser_ParseRejectsGibberish(t *testing.T) {
	p := NewParser(time.UTC, clock.FixedClock(time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)))

	_, err := p.Parse("zzz qqq")
	assert.Error(t, err)
}
