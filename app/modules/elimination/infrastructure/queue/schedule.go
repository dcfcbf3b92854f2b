package eliminationqueue

import "time"

// WeeklySchedule fires once a week at a local weekday and time. It satisfies
// river.PeriodicSchedule.
type WeeklySchedule struct {
	Weekday  time.Weekday
	Hour     int
	Minute   int
	Location *time.Location
}

// Next returns the first firing strictly after current. Wall-clock times are
// kept across daylight saving changes.
func (s WeeklySchedule) Next(current time.Time) time.Time {
	loc := s.Location
	if loc == nil {
		loc = time.UTC
	}
	local := current.In(loc)
	days := (int(s.Weekday) - int(local.Weekday()) + 7) % 7
	next := time.Date(local.Year(), local.Month(), local.Day()+days, s.Hour, s.Minute, 0, 0, loc)
	if !next.After(current) {
		next = time.Date(local.Year(), local.Month(), local.Day()+days+7, s.Hour, s.Minute, 0, 0, loc)
	}
	return next
}
