package gameweekdomain

import "time"

// TopicStatusChangedV1 is published when a window flips between active and
// inactive.
const TopicStatusChangedV1 = "gameweek.status.changed.v1"

type StatusChangedPayloadV1 struct {
	WindowStart  time.Time `json:"window_start"`
	WindowEnd    time.Time `json:"window_end"`
	FixtureCount int       `json:"fixture_count"`
	Active       bool      `json:"active"`
}
