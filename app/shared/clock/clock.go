package clock

import "time"

// Clock supplies the current time to services that apply time-dependent rules.
type Clock interface {
	Now() time.Time
	NowUTC() time.Time
}

// RealClock reads the system clock.
type RealClock struct{}

func (RealClock) Now() time.Time    { return time.Now() }
func (RealClock) NowUTC() time.Time { return time.Now().UTC() }

// AnchorClock always reports the anchor time. Sweeps triggered for a specific
// instant (operator CLI, replayed jobs) evaluate every rule against it.
type AnchorClock struct {
	anchor time.Time
}

// NewAnchorClock creates an AnchorClock. A zero t anchors to the current time.
func NewAnchorClock(t time.Time) AnchorClock {
	if t.IsZero() {
		return AnchorClock{anchor: time.Now().UTC()}
	}
	return AnchorClock{anchor: t}
}

func (c AnchorClock) Now() time.Time    { return c.anchor }
func (c AnchorClock) NowUTC() time.Time { return c.anchor.UTC() }
