package leaguedb

import (
	"errors"

	"github.com/uptrace/bun/driver/pgdriver"
)

// Sentinel errors for the league repository layer. The service layer maps
// them to user-facing errors.
var (
	ErrNotFound = errors.New("league record not found")

	// ErrNoRowsAffected indicates an UPDATE/DELETE matched no rows.
	ErrNoRowsAffected = errors.New("no rows affected")

	// ErrConcurrentUpdate indicates a membership changed since it was read.
	ErrConcurrentUpdate = errors.New("membership was modified concurrently")

	// ErrDuplicate indicates a unique constraint rejected the write.
	ErrDuplicate = errors.New("duplicate record")
)

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pgErr pgdriver.Error
	return errors.As(err, &pgErr) && pgErr.Field('C') == uniqueViolation
}
