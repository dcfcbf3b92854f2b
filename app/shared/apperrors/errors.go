// Package apperrors is the error taxonomy shared by the league, fixture and
// elimination modules. Every user-facing failure carries a Kind, which decides
// how it is surfaced and whether it is retried, and a Reason shown to the caller.
package apperrors

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindValidation        Kind = "validation"
	KindUnauthorized      Kind = "unauthorized"
	KindAuthorization     Kind = "authorization"
	KindStateConflict     Kind = "state_conflict"
	KindNotFound          Kind = "not_found"
	KindUpstream          Kind = "upstream"
	KindDataInconsistency Kind = "data_inconsistency"
	KindInternal          Kind = "internal"
)

// Error is a classified failure. Errors with the same Kind and Code compare
// equal under errors.Is, so callers can match the package sentinels.
type Error struct {
	Kind   Kind
	Code   string
	Reason string
	Err    error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Reason)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Code == t.Code
}

// Retryable reports whether a batch may retry the failed unit later.
func (e *Error) Retryable() bool {
	return e.Kind == KindUpstream
}

// WithReason returns a copy of e with a more specific reason.
func (e *Error) WithReason(format string, args ...any) *Error {
	c := *e
	c.Reason = fmt.Sprintf(format, args...)
	return &c
}

// Wrap returns a copy of e carrying cause.
func (e *Error) Wrap(cause error) *Error {
	c := *e
	c.Err = cause
	return &c
}

func newErr(kind Kind, code, reason string) *Error {
	return &Error{Kind: kind, Code: code, Reason: reason}
}

var (
	ErrUnauthorized      = newErr(KindUnauthorized, "unauthorized", "authentication required")
	ErrInvalidInput      = newErr(KindValidation, "invalid_input", "missing or malformed input")
	ErrAlreadyPicked     = newErr(KindStateConflict, "already_picked", "you have already picked this team")
	ErrNotPickable       = newErr(KindStateConflict, "not_pickable", "you cannot make a pick at this time")
	ErrInvalidFixture    = newErr(KindValidation, "invalid_fixture", "no matching game for that team and date")
	ErrPermissionDenied  = newErr(KindAuthorization, "permission_denied", "only the league creator can do that")
	ErrPickLockActive    = newErr(KindStateConflict, "invalid_state", "the gameweek pick-lock period is active")
	ErrLeagueActive      = newErr(KindStateConflict, "league_active", "the league has already started")
	ErrLeagueFinished    = newErr(KindStateConflict, "league_finished", "the league has finished")
	ErrAlreadyMember     = newErr(KindStateConflict, "already_member", "you are already a member of this league")
	ErrNotFound          = newErr(KindNotFound, "not_found", "not found")
	ErrUpstream          = newErr(KindUpstream, "upstream", "a dependency is unavailable")
	ErrDataInconsistency = newErr(KindDataInconsistency, "data_inconsistency", "stored data is inconsistent")
	ErrInternal          = newErr(KindInternal, "internal", "internal error")
)

// KindOf classifies err. Unclassified errors are internal.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// As returns the classified error inside err, if any.
func As(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}
