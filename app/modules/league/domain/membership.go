package leaguedomain

import (
	"time"

	"github.com/Black-And-White-Club/last-man-standing/app/shared/apperrors"
)

// EliminationReason records why a member was knocked out.
type EliminationReason string

const (
	ReasonResult               EliminationReason = "result"
	ReasonPostponedAfterCutoff EliminationReason = "postponed_after_cutoff"
	ReasonNoPick               EliminationReason = "no_pick"
)

// MemberState is the position of a member in the elimination state machine.
type MemberState int

const (
	StateActiveCanPick MemberState = iota
	StateActiveLocked
	StateEliminated
	StateWinner
)

func (s MemberState) String() string {
	switch s {
	case StateActiveCanPick:
		return "active_can_pick"
	case StateActiveLocked:
		return "active_locked"
	case StateEliminated:
		return "eliminated"
	case StateWinner:
		return "winner"
	}
	return "unknown"
}

// Membership is one user's standing in one league.
type Membership struct {
	ID                int64             `json:"id"`
	LeagueID          int64             `json:"league_id"`
	UserID            string            `json:"user_id"`
	IsEliminated      bool              `json:"is_eliminated"`
	CanPick           bool              `json:"can_pick"`
	Winner            bool              `json:"winner"`
	EliminatedAt      *time.Time        `json:"eliminated_at,omitempty"`
	EliminationReason EliminationReason `json:"elimination_reason,omitempty"`
	Version           int64             `json:"version"`
	JoinedAt          time.Time         `json:"joined_at"`
}

// NewMembership returns the initial membership of a user joining a league.
func NewMembership(leagueID int64, userID string, now time.Time) Membership {
	return Membership{
		LeagueID: leagueID,
		UserID:   userID,
		CanPick:  true,
		JoinedAt: now.UTC(),
	}
}

func (m Membership) State() MemberState {
	switch {
	case m.IsEliminated:
		return StateEliminated
	case m.Winner:
		return StateWinner
	case m.CanPick:
		return StateActiveCanPick
	}
	return StateActiveLocked
}

// Survivor reports whether the member is still in the game.
func (m Membership) Survivor() bool {
	return !m.IsEliminated
}

// Validate rejects flag combinations the state machine can never produce.
func (m Membership) Validate() error {
	if m.IsEliminated && m.CanPick {
		return apperrors.ErrDataInconsistency.WithReason("member %s of league %d is eliminated but can pick", m.UserID, m.LeagueID)
	}
	if m.IsEliminated && m.Winner {
		return apperrors.ErrDataInconsistency.WithReason("member %s of league %d is eliminated and winner", m.UserID, m.LeagueID)
	}
	if m.Winner && m.CanPick {
		return apperrors.ErrDataInconsistency.WithReason("member %s of league %d is winner but can pick", m.UserID, m.LeagueID)
	}
	return nil
}

// LockForPick moves an ActiveCanPick member to ActiveLocked.
func (m Membership) LockForPick() (Membership, error) {
	if m.State() != StateActiveCanPick {
		return m, apperrors.ErrNotPickable
	}
	m.CanPick = false
	return m, m.Validate()
}

// Eliminate knocks the member out. It reports false when the member was
// already eliminated, leaving the original reason in place.
func (m Membership) Eliminate(reason EliminationReason, now time.Time) (Membership, bool) {
	if m.IsEliminated {
		return m, false
	}
	at := now.UTC()
	m.IsEliminated = true
	m.CanPick = false
	m.Winner = false
	m.EliminatedAt = &at
	m.EliminationReason = reason
	return m, true
}

// Reopen lets a locked survivor pick again. It reports false when nothing
// changed.
func (m Membership) Reopen() (Membership, bool) {
	if m.State() != StateActiveLocked {
		return m, false
	}
	m.CanPick = true
	return m, true
}

// DeclareWinner marks the last survivor as winner.
func (m Membership) DeclareWinner() (Membership, error) {
	if m.IsEliminated {
		return m, apperrors.ErrDataInconsistency.WithReason("eliminated member %s cannot win league %d", m.UserID, m.LeagueID)
	}
	m.Winner = true
	m.CanPick = false
	return m, m.Validate()
}
