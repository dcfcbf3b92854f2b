package fixturedomain

// Transition is the edge a fixture crosses when a new record is stored.
type Transition int

const (
	TransitionNone Transition = iota
	// TransitionResolved fires once, when a fixture first reaches PostEvent.
	TransitionResolved
	// TransitionVoided fires once, when a fixture first becomes postponed or
	// cancelled.
	TransitionVoided
)

func (t Transition) String() string {
	switch t {
	case TransitionResolved:
		return "resolved"
	case TransitionVoided:
		return "voided"
	}
	return "none"
}

// DetectTransition compares the stored fixture (nil when first seen) with the
// incoming one. Only edges fire, so replaying a record is a no-op.
func DetectTransition(prev *Fixture, next Fixture) Transition {
	switch {
	case next.Progress == PostEvent && (prev == nil || prev.Progress != PostEvent):
		return TransitionResolved
	case next.Progress.IsVoid() && (prev == nil || !prev.Progress.IsVoid()):
		return TransitionVoided
	}
	return TransitionNone
}

// Merge returns the fixture to store given the stored one. A resolved fixture
// keeps its outcomes: once PostEvent has fired, later records cannot reopen it.
func Merge(prev *Fixture, next Fixture) Fixture {
	if prev == nil {
		return next
	}
	next.ID = prev.ID
	if prev.Progress == PostEvent && next.Progress != PostEvent {
		next.Progress = PostEvent
		next.HomeOutcome, next.AwayOutcome = prev.HomeOutcome, prev.AwayOutcome
		if next.HomeScore == nil {
			next.HomeScore, next.AwayScore = prev.HomeScore, prev.AwayScore
		}
	}
	if prev.Progress == PostEvent && next.Progress == PostEvent {
		next.HomeOutcome, next.AwayOutcome = prev.HomeOutcome, prev.AwayOutcome
	}
	return next
}
