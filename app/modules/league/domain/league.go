// Package leaguedomain holds the league, membership and pick rules.
package leaguedomain

import (
	"strings"
	"time"
	"unicode/utf8"

	"github.com/Black-And-White-Club/last-man-standing/app/shared/apperrors"
)

const maxNameLength = 64

// League is a competition. It is joinable until activated and finishes on a
// winner or a wash.
type League struct {
	ID           int64      `json:"id"`
	Name         string     `json:"name"`
	JoinCode     string     `json:"join_code"`
	CreatorID    string     `json:"creator_id"`
	Active       bool       `json:"active"`
	ActivatedAt  *time.Time `json:"activated_at,omitempty"`
	FinishedAt   *time.Time `json:"finished_at,omitempty"`
	WinnerUserID *string    `json:"winner_user_id,omitempty"`
	Washed       bool       `json:"washed"`
	CreatedAt    time.Time  `json:"created_at"`
}

// NewLeague validates the inputs of a league creation.
func NewLeague(name, creatorID, joinCode string, now time.Time) (League, error) {
	name = strings.Join(strings.Fields(name), " ")
	if name == "" || utf8.RuneCountInString(name) > maxNameLength {
		return League{}, apperrors.ErrInvalidInput.WithReason("league name must be 1 to %d characters", maxNameLength)
	}
	if strings.TrimSpace(creatorID) == "" {
		return League{}, apperrors.ErrUnauthorized
	}
	return League{
		Name:      name,
		JoinCode:  joinCode,
		CreatorID: creatorID,
		CreatedAt: now.UTC(),
	}, nil
}

func (l League) IsFinished() bool {
	return l.FinishedAt != nil
}

// CanJoin reports why a new member may not join, if they may not.
func (l League) CanJoin() error {
	switch {
	case l.IsFinished():
		return apperrors.ErrLeagueFinished
	case l.Active:
		return apperrors.ErrLeagueActive
	}
	return nil
}

// CanActivate applies the creator and state checks of activation. The
// pick-lock check happens before the league is loaded.
func (l League) CanActivate(requesterID string) error {
	if l.CreatorID != requesterID {
		return apperrors.ErrPermissionDenied
	}
	if l.IsFinished() {
		return apperrors.ErrLeagueFinished
	}
	if l.Active {
		return apperrors.ErrLeagueActive
	}
	return nil
}

// Activate marks the league started.
func (l League) Activate(now time.Time) League {
	at := now.UTC()
	l.Active = true
	l.ActivatedAt = &at
	return l
}

// ActivatedBefore reports whether the league was running before t.
func (l League) ActivatedBefore(t time.Time) bool {
	return l.Active && l.ActivatedAt != nil && l.ActivatedAt.Before(t)
}

// FinishWithWinner closes the league with a single winner.
func (l League) FinishWithWinner(userID string, now time.Time) League {
	at := now.UTC()
	l.Active = false
	l.FinishedAt = &at
	l.WinnerUserID = &userID
	l.Washed = false
	return l
}

// FinishWashed closes the league with nobody left standing.
func (l League) FinishWashed(now time.Time) League {
	at := now.UTC()
	l.Active = false
	l.FinishedAt = &at
	l.WinnerUserID = nil
	l.Washed = true
	return l
}
