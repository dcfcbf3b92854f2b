// Package eliminationdomain decides how fixture results, postponements,
// deadlines and rollovers move league members through the elimination state
// machine. Nothing here touches storage.
package eliminationdomain

import (
	"time"

	fixturedomain "github.com/Black-And-White-Club/last-man-standing/app/modules/fixture/domain"
	gameweekdomain "github.com/Black-And-White-Club/last-man-standing/app/modules/gameweek/domain"
	leaguedomain "github.com/Black-And-White-Club/last-man-standing/app/modules/league/domain"
)

// ResultDecision is what a resolved fixture means for one pick.
type ResultDecision struct {
	Outcome   fixturedomain.Outcome
	Eliminate bool
}

// DecideResult grades a pick on a resolved fixture. Anything but a win
// eliminates; an unknown outcome leaves the member alone.
func DecideResult(team string, f fixturedomain.Fixture) ResultDecision {
	outcome := f.OutcomeFor(team)
	return ResultDecision{
		Outcome:   outcome,
		Eliminate: outcome == fixturedomain.OutcomeLoss || outcome == fixturedomain.OutcomeDraw,
	}
}

// PostponementDecision is what a voided fixture means for one pick.
type PostponementDecision int

const (
	// PostponeReopen deletes the pick and lets the member pick again.
	PostponeReopen PostponementDecision = iota
	// PostponeEliminate deletes the pick and eliminates the member.
	PostponeEliminate
)

func (d PostponementDecision) String() string {
	if d == PostponeEliminate {
		return "eliminate"
	}
	return "reopen"
}

// DecidePostponement reopens the pick while picks can still be made, and
// eliminates once the Thursday-midnight cutoff has passed.
func DecidePostponement(c gameweekdomain.Calculator, detectedAt time.Time) PostponementDecision {
	if c.IsBeforeThursdayMidnight(detectedAt) {
		return PostponeReopen
	}
	return PostponeEliminate
}

// Verdict is the result of a winner evaluation.
type Verdict int

const (
	VerdictNone Verdict = iota
	VerdictWinner
	VerdictWash
)

func (v Verdict) String() string {
	switch v {
	case VerdictWinner:
		return "winner"
	case VerdictWash:
		return "wash"
	}
	return "none"
}

// WinnerEvaluation is the verdict for one league.
type WinnerEvaluation struct {
	Verdict      Verdict
	WinnerUserID string
}

// EvaluateWinner decides whether a league is over. A single survivor wins
// once their current pick is locked in and every pick they made is resolved.
// No survivors at all is a wash.
func EvaluateWinner(members []leaguedomain.Membership, picks []leaguedomain.Pick) WinnerEvaluation {
	if len(members) == 0 {
		return WinnerEvaluation{}
	}

	var survivors []leaguedomain.Membership
	for _, m := range members {
		if m.Survivor() {
			survivors = append(survivors, m)
		}
	}

	switch len(survivors) {
	case 0:
		return WinnerEvaluation{Verdict: VerdictWash}
	case 1:
		s := survivors[0]
		if s.CanPick {
			return WinnerEvaluation{}
		}
		if !leaguedomain.AllResolved(leaguedomain.PicksByUser(picks)[s.UserID]) {
			return WinnerEvaluation{}
		}
		return WinnerEvaluation{Verdict: VerdictWinner, WinnerUserID: s.UserID}
	}
	return WinnerEvaluation{}
}

// DeadlineApplies reports whether members of league who have not picked must
// be eliminated under status. Leagues activated during the window are spared
// until the next one.
func DeadlineApplies(status gameweekdomain.Status, league leaguedomain.League) bool {
	return status.Active && status.PickLock && league.ActivatedBefore(status.Window.Start)
}

// MissedDeadline reports whether m still had a pick to make.
func MissedDeadline(m leaguedomain.Membership) bool {
	return m.State() == leaguedomain.StateActiveCanPick
}

// ShouldReopen reports whether a locked survivor has nothing pending and may
// pick for the next gameweek.
func ShouldReopen(m leaguedomain.Membership, picks []leaguedomain.Pick) bool {
	return m.State() == leaguedomain.StateActiveLocked && leaguedomain.AllResolved(picks)
}
