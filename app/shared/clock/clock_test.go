package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAnchorClock(t *testing.T) {
	loc := time.FixedZone("BST", 3600)
	anchor := time.Date(2024, 8, 17, 15, 0, 0, 0, loc)

	c := NewAnchorClock(anchor)
	assert.True(t, c.Now().Equal(anchor))
	assert.Equal(t, time.UTC, c.NowUTC().Location())
	assert.Equal(t, 14, c.NowUTC().Hour())
}

func TestAnchorClock_ZeroUsesCurrentTime(t *testing.T) {
	before := time.Now().UTC()
	c := NewAnchorClock(time.Time{})
	assert.False(t, c.Now().Before(before))
}

func TestFakeClock(t *testing.T) {
	at := time.Date(2024, 8, 16, 0, 0, 0, 0, time.UTC)
	c := FixedClock(at)
	assert.Equal(t, at, c.Now())
	assert.Equal(t, at, c.NowUTC())

	var empty FakeClock
	assert.WithinDuration(t, time.Now(), empty.Now(), time.Second)
}
