package fixtureservice

import (
	"context"

	fixturedomain "github.com/Black-And-White-Club/last-man-standing/app/modules/fixture/domain"
	"github.com/Black-And-White-Club/last-man-standing/app/shared/handlerwrapper"
	"github.com/Black-And-White-Club/last-man-standing/app/shared/results"
	"github.com/uptrace/bun"
)

// Service ingests the fixture feed and answers fixture queries.
type Service interface {
	// IngestFeed validates, deduplicates and stores a feed batch. Each record
	// is stored in its own transaction together with the eliminations its
	// transition causes. Bad records are counted and skipped.
	IngestFeed(ctx context.Context, batch fixturedomain.FeedBatchPayloadV1) (results.OperationResult[IngestSummary, error], error)

	// ImportSeason ingests the fixtures listed in an XLSX workbook.
	ImportSeason(ctx context.Context, data []byte, defaultLeague string) (results.OperationResult[IngestSummary, error], error)

	// ListPickable lists fixtures of the upcoming window that can still be picked.
	ListPickable(ctx context.Context) ([]fixturedomain.Fixture, error)
}

// TransitionApplier applies the elimination consequences of a fixture
// transition inside the ingestion transaction.
type TransitionApplier interface {
	ApplyTransition(ctx context.Context, db bun.IDB, fixture fixturedomain.Fixture, transition fixturedomain.Transition) ([]handlerwrapper.Result, error)
}

// IngestSummary reports what one batch did.
type IngestSummary struct {
	Source   string        `json:"source"`
	Received int           `json:"received"`
	Stored   int           `json:"stored"`
	Resolved int           `json:"resolved"`
	Voided   int           `json:"voided"`
	Rejected int           `json:"rejected"`
	Failed   int           `json:"failed"`
	Problems []RecordIssue `json:"problems,omitempty"`
}

// RecordIssue describes one record that was not stored.
type RecordIssue struct {
	Index  int    `json:"index"`
	Key    string `json:"key,omitempty"`
	Reason string `json:"reason"`
}
