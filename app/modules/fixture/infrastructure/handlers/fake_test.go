package fixturehandlers

import (
	"context"

	fixtureservice "github.com/Black-And-White-Club/last-man-standing/app/modules/fixture/application"
	fixturedomain "github.com/Black-And-White-Club/last-man-standing/app/modules/fixture/domain"
	"github.com/Black-And-White-Club/last-man-standing/app/shared/results"
)

// ------------------------
// Fake Fixture Service
// ------------------------

type FakeFixtureService struct {
	trace []string

	IngestFeedFunc   func(ctx context.Context, batch fixturedomain.FeedBatchPayloadV1) (results.OperationResult[fixtureservice.IngestSummary, error], error)
	ImportSeasonFunc func(ctx context.Context, data []byte, defaultLeague string) (results.OperationResult[fixtureservice.IngestSummary, error], error)
	ListPickableFunc func(ctx context.Context) ([]fixturedomain.Fixture, error)
}

func NewFakeFixtureService() *FakeFixtureService {
	return &FakeFixtureService{
		trace: []string{},
	}
}

func (f *FakeFixtureService) record(step string) {
	f.trace = append(f.trace, step)
}

// --- Service Interface Implementation ---

func (f *FakeFixtureService) IngestFeed(ctx context.Context, batch fixturedomain.FeedBatchPayloadV1) (results.OperationResult[fixtureservice.IngestSummary, error], error) {
	f.record("IngestFeed")
	if f.IngestFeedFunc != nil {
		return f.IngestFeedFunc(ctx, batch)
	}
	return results.SuccessResult[fixtureservice.IngestSummary, error](fixtureservice.IngestSummary{Source: batch.Source, Received: len(batch.Records)}), nil
}

func (f *FakeFixtureService) ImportSeason(ctx context.Context, data []byte, defaultLeague string) (results.OperationResult[fixtureservice.IngestSummary, error], error) {
	f.record("ImportSeason")
	if f.ImportSeasonFunc != nil {
		return f.ImportSeasonFunc(ctx, data, defaultLeague)
	}
	return results.SuccessResult[fixtureservice.IngestSummary, error](fixtureservice.IngestSummary{Source: "xlsx-import"}), nil
}

func (f *FakeFixtureService) ListPickable(ctx context.Context) ([]fixturedomain.Fixture, error) {
	f.record("ListPickable")
	if f.ListPickableFunc != nil {
		return f.ListPickableFunc(ctx)
	}
	return nil, nil
}

// --- Accessors for assertions ---

func (f *FakeFixtureService) Trace() []string {
	out := make([]string, len(f.trace))
	copy(out, f.trace)
	return out
}

// Ensure the fake actually satisfies the interface
var _ fixtureservice.Service = (*FakeFixtureService)(nil)
