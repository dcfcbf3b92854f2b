package fixtureservice

import (
	"context"
	"errors"
	"fmt"

	fixturedomain "github.com/Black-And-White-Club/last-man-standing/app/modules/fixture/domain"
	fixturedb "github.com/Black-And-White-Club/last-man-standing/app/modules/fixture/infrastructure/repositories"
	"github.com/Black-And-White-Club/last-man-standing/app/modules/fixture/infrastructure/parsers"
	"github.com/Black-And-White-Club/last-man-standing/app/shared/apperrors"
	"github.com/Black-And-White-Club/last-man-standing/app/shared/handlerwrapper"
	"github.com/Black-And-White-Club/last-man-standing/app/shared/observability/attr"
	"github.com/Black-And-White-Club/last-man-standing/app/shared/results"
	"github.com/uptrace/bun"
)

const sourceXLSX = "xlsx-import"

type storedRecord struct {
	transition fixturedomain.Transition
	events     []handlerwrapper.Result
}

func (s *FixtureService) IngestFeed(ctx context.Context, batch fixturedomain.FeedBatchPayloadV1) (results.OperationResult[IngestSummary, error], error) {
	return withTelemetry(s, ctx, "IngestFeed", batch.Source, func(ctx context.Context) (results.OperationResult[IngestSummary, error], error) {
		return results.SuccessResult[IngestSummary, error](s.ingest(ctx, batch)), nil
	})
}

func (s *FixtureService) ImportSeason(ctx context.Context, data []byte, defaultLeague string) (results.OperationResult[IngestSummary, error], error) {
	return withTelemetry(s, ctx, "ImportSeason", defaultLeague, func(ctx context.Context) (results.OperationResult[IngestSummary, error], error) {
		rows, err := parsers.ParseSeasonXLSX(data, defaultLeague, s.calc.Location())
		if err != nil {
			return results.FailureResult[IngestSummary, error](apperrors.ErrInvalidInput.WithReason("%v", err).Wrap(err)), nil
		}
		batch := fixturedomain.FeedBatchPayloadV1{Source: sourceXLSX}
		for _, r := range rows {
			batch.Records = append(batch.Records, r.Record)
		}
		return results.SuccessResult[IngestSummary, error](s.ingest(ctx, batch)), nil
	})
}

// ingest never fails as a whole: every record succeeds or is counted.
func (s *FixtureService) ingest(ctx context.Context, batch fixturedomain.FeedBatchPayloadV1) IngestSummary {
	summary := IngestSummary{Source: batch.Source, Received: len(batch.Records)}

	// Later records for the same key win.
	order := make([]string, 0, len(batch.Records))
	latest := make(map[string]fixturedomain.Fixture, len(batch.Records))
	index := make(map[string]int, len(batch.Records))
	for i, record := range batch.Records {
		f, err := record.Validate(s.calc.Location())
		if err != nil {
			summary.Rejected++
			summary.Problems = append(summary.Problems, RecordIssue{Index: i, Reason: err.Error()})
			s.recordItem(ctx, "rejected")
			s.logger.WarnContext(ctx, "Rejected feed record",
				attr.ExtractCorrelationID(ctx),
				attr.String("source", batch.Source),
				attr.Int("index", i),
				attr.Error(err),
			)
			continue
		}
		if _, seen := latest[f.Key]; !seen {
			order = append(order, f.Key)
		}
		latest[f.Key] = f
		index[f.Key] = i
	}

	for _, key := range order {
		stored, err := s.storeRecord(ctx, latest[key])
		if err != nil {
			summary.Failed++
			summary.Problems = append(summary.Problems, RecordIssue{Index: index[key], Key: key, Reason: err.Error()})
			s.recordItem(ctx, "failed")
			s.logger.ErrorContext(ctx, "Failed to store feed record",
				attr.ExtractCorrelationID(ctx),
				attr.String("source", batch.Source),
				attr.FixtureKey(key),
				attr.Error(err),
			)
			continue
		}
		summary.Stored++
		switch stored.transition {
		case fixturedomain.TransitionResolved:
			summary.Resolved++
		case fixturedomain.TransitionVoided:
			summary.Voided++
		}
		s.recordItem(ctx, "stored")
		s.publish(ctx, stored.events)
	}
	return summary
}

// storeRecord upserts one fixture and applies its transition in the same
// transaction. Events are returned for publishing after commit.
func (s *FixtureService) storeRecord(ctx context.Context, next fixturedomain.Fixture) (storedRecord, error) {
	result, err := runInTx(s, ctx, func(ctx context.Context, db bun.IDB) (results.OperationResult[storedRecord, error], error) {
		var prev *fixturedomain.Fixture
		row, err := s.repo.GetByKey(ctx, db, next.Key)
		switch {
		case err == nil:
			f := row.ToDomain()
			prev = &f
		case !errors.Is(err, fixturedb.ErrNotFound):
			return results.OperationResult[storedRecord, error]{}, err
		}

		merged := fixturedomain.Merge(prev, next)
		transition := fixturedomain.DetectTransition(prev, merged)

		stored := fixturedb.FromDomain(merged)
		if err := s.repo.Upsert(ctx, db, stored); err != nil {
			return results.OperationResult[storedRecord, error]{}, err
		}
		merged.ID = stored.ID

		var events []handlerwrapper.Result
		if transition != fixturedomain.TransitionNone && s.applier != nil {
			events, err = s.applier.ApplyTransition(ctx, db, merged, transition)
			if err != nil {
				return results.OperationResult[storedRecord, error]{}, fmt.Errorf("failed to apply %s transition: %w", transition, err)
			}
		}
		return results.SuccessResult[storedRecord, error](storedRecord{transition: transition, events: events}), nil
	})
	if err != nil {
		return storedRecord{}, err
	}
	return *result.Success, nil
}

func (s *FixtureService) ListPickable(ctx context.Context) ([]fixturedomain.Fixture, error) {
	now := s.clock.Now()
	window := s.calc.Window(now)
	rows, err := s.repo.ListInRange(ctx, nil, window.Start, window.End)
	if err != nil {
		return nil, fmt.Errorf("failed to list fixtures for window %s: %w", window.Key(), err)
	}
	out := make([]fixturedomain.Fixture, 0, len(rows))
	for _, row := range rows {
		f := row.ToDomain()
		if f.Progress.IsPickable() && f.KickoffAt.After(now) {
			out = append(out, f)
		}
	}
	return out, nil
}
