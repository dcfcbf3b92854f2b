package eliminationqueue

import (
	"time"

	"github.com/riverqueue/river"
)

// QueueSweeps is the River queue the sweep jobs run on.
const QueueSweeps = "sweeps"

// SweepArgs runs one named sweep.
type SweepArgs struct {
	Sweep string `json:"sweep"`
}

// Kind returns the job type identifier for River
func (SweepArgs) Kind() string { return "sweep" }

// InsertOpts keeps a sweep from being queued twice in the same minute, so a
// periodic run and an operator trigger do not pile up.
func (SweepArgs) InsertOpts() river.InsertOpts {
	return river.InsertOpts{
		Queue:       QueueSweeps,
		MaxAttempts: 3,
		UniqueOpts: river.UniqueOpts{
			ByArgs:   true,
			ByPeriod: time.Minute,
		},
	}
}
