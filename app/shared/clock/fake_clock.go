package clock

import "time"

// FakeClock is a test Clock whose reads can be overridden.
type FakeClock struct {
	NowFn func() time.Time
}

// FixedClock returns a FakeClock frozen at t.
func FixedClock(t time.Time) *FakeClock {
	return &FakeClock{NowFn: func() time.Time { return t }}
}

func (f *FakeClock) Now() time.Time {
	if f.NowFn != nil {
		return f.NowFn()
	}
	return time.Now()
}

func (f *FakeClock) NowUTC() time.Time {
	return f.Now().UTC()
}
