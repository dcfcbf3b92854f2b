package fixturehandlers

import (
	"context"

	fixturedomain "github.com/Black-And-White-Club/last-man-standing/app/modules/fixture/domain"
	"github.com/Black-And-White-Club/last-man-standing/app/shared/handlerwrapper"
)

// Handlers defines the interface for fixture event handlers.
type Handlers interface {
	// HandleFeedBatch ingests a fixture feed batch received from the bus.
	HandleFeedBatch(ctx context.Context, payload *fixturedomain.FeedBatchPayloadV1) ([]handlerwrapper.Result, error)
}
