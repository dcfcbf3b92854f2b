package gameweekdb

import (
	"context"
	"time"

	"github.com/uptrace/bun"
)

// Repository defines the contract for the gameweek status cache.
type Repository interface {
	// GetState returns the cached state for the window starting at windowStart.
	GetState(ctx context.Context, db bun.IDB, windowStart time.Time) (*GameweekState, error)

	// UpsertState writes the cached state for a window.
	UpsertState(ctx context.Context, db bun.IDB, state *GameweekState) error
}
