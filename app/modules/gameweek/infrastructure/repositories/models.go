package gameweekdb

import (
	"time"

	"github.com/uptrace/bun"
)

// GameweekState caches the last computed status of a window. It is written
// only by the gameweek check and never consulted to decide pick eligibility.
type GameweekState struct {
	bun.BaseModel `bun:"table:gameweek_states,alias:gs"`

	WindowStart  time.Time `bun:"window_start,pk"`
	WindowEnd    time.Time `bun:"window_end,notnull"`
	FixtureCount int       `bun:"fixture_count,notnull"`
	Active       bool      `bun:"active,notnull"`
	CheckedAt    time.Time `bun:"checked_at,notnull"`
}
