package fixtureservice

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	fixturedomain "github.com/Black-And-White-Club/last-man-standing/app/modules/fixture/domain"
	fixturedb "github.com/Black-And-White-Club/last-man-standing/app/modules/fixture/infrastructure/repositories"
	gameweekdomain "github.com/Black-And-White-Club/last-man-standing/app/modules/gameweek/domain"
	"github.com/Black-And-White-Club/last-man-standing/app/shared/clock"
	"github.com/Black-And-White-Club/last-man-standing/app/shared/handlerwrapper"
	"github.com/Black-And-White-Club/last-man-standing/app/shared/observability"
	"github.com/brianvoe/gofakeit/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/xuri/excelize/v2"
	"go.opentelemetry.io/otel/trace/noop"
)

// Wednesday before the 2026-10-16 window, in UTC to keep dates readable.
var wednesday = time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)

func newTestService(repo *fixturedb.FakeRepository, applier *FakeApplier, pub *recordingPublisher) *FixtureService {
	return NewFixtureService(
		repo,
		applier,
		gameweekdomain.NewCalculator(time.UTC),
		clock.FixedClock(wednesday),
		pub,
		slog.Default(),
		observability.NoopMetrics{},
		noop.NewTracerProvider().Tracer("test"),
		nil,
	)
}

func intPtr(v int) *int { return &v }

func record(home, away, status string) fixturedomain.FeedRecord {
	return fixturedomain.FeedRecord{
		League:   "EPL",
		HomeTeam: home,
		AwayTeam: away,
		Date:     "2026-10-17T14:00:00Z",
		Status:   status,
	}
}

func TestIngestFeed_TransitionsFireOnce(t *testing.T) {
	repo := fixturedb.NewFakeRepository()
	applier := &FakeApplier{}
	svc := newTestService(repo, applier, &recordingPublisher{})
	ctx := context.Background()

	scheduled := record("Arsenal", "Chelsea", "PreEvent")
	finished := record("Arsenal", "Chelsea", "PostEvent")
	finished.HomeScore, finished.AwayScore = intPtr(2), intPtr(1)

	res, err := svc.IngestFeed(ctx, fixturedomain.FeedBatchPayloadV1{Source: "test", Records: []fixturedomain.FeedRecord{scheduled}})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Success.Stored)
	assert.Empty(t, applier.calls)

	for i := 0; i < 2; i++ {
		res, err = svc.IngestFeed(ctx, fixturedomain.FeedBatchPayloadV1{Source: "test", Records: []fixturedomain.FeedRecord{finished}})
		require.NoError(t, err)
		assert.Equal(t, 1, res.Success.Stored)
	}
	require.Len(t, applier.calls, 1)
	assert.Equal(t, fixturedomain.TransitionResolved, applier.calls[0].Transition)
	assert.NotZero(t, applier.calls[0].FixtureID)

	stored, err := repo.GetByKey(ctx, nil, applier.calls[0].Key)
	require.NoError(t, err)
	assert.Equal(t, fixturedomain.PostEvent, stored.Progress)
	assert.Equal(t, fixturedomain.OutcomeWin, stored.HomeOutcome)
	assert.Equal(t, fixturedomain.OutcomeLoss, stored.AwayOutcome)
}

func TestIngestFeed_LatePostponementDoesNotVoidResult(t *testing.T) {
	repo := fixturedb.NewFakeRepository()
	applier := &FakeApplier{}
	svc := newTestService(repo, applier, nil)

	finished := record("Leeds", "Fulham", "PostEvent")
	finished.Winner = "draw"
	postponed := record("Leeds", "Fulham", "Postponed")

	_, err := svc.IngestFeed(context.Background(), fixturedomain.FeedBatchPayloadV1{Records: []fixturedomain.FeedRecord{finished}})
	require.NoError(t, err)
	_, err = svc.IngestFeed(context.Background(), fixturedomain.FeedBatchPayloadV1{Records: []fixturedomain.FeedRecord{postponed}})
	require.NoError(t, err)

	require.Len(t, applier.calls, 1)
	assert.Equal(t, fixturedomain.TransitionResolved, applier.calls[0].Transition)
}

func TestIngestFeed_IsolatesBadRecords(t *testing.T) {
	repo := fixturedb.NewFakeRepository()
	applier := &FakeApplier{
		ApplyTransitionFunc: func(_ context.Context, _ bun.IDB, f fixturedomain.Fixture, _ fixturedomain.Transition) ([]handlerwrapper.Result, error) {
			if f.HomeTeam == "Spurs" {
				return nil, errors.New("membership version conflict")
			}
			return []handlerwrapper.Result{{Topic: "league.member.eliminated.v1", Payload: f.Key}}, nil
		},
	}
	pub := &recordingPublisher{}
	svc := newTestService(repo, applier, pub)

	invalid := record("Arsenal", "Arsenal", "PreEvent")
	noResult := record("Wolves", "Brentford", "PostEvent")
	failing := record("Spurs", "Everton", "Postponed")
	good := record("Villa", "Newcastle", "Cancelled")

	res, err := svc.IngestFeed(context.Background(), fixturedomain.FeedBatchPayloadV1{
		Source:  "scraper",
		Records: []fixturedomain.FeedRecord{invalid, noResult, failing, good},
	})
	require.NoError(t, err)

	summary := res.Success
	assert.Equal(t, 4, summary.Received)
	assert.Equal(t, 2, summary.Rejected)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, 1, summary.Stored)
	assert.Equal(t, 1, summary.Voided)
	assert.Len(t, summary.Problems, 3)
	assert.Equal(t, []string{"league.member.eliminated.v1"}, pub.topics)
}

func TestIngestFeed_DeduplicatesByKey(t *testing.T) {
	repo := fixturedb.NewFakeRepository()
	svc := newTestService(repo, &FakeApplier{}, nil)

	first := record("Arsenal", "Chelsea", "PreEvent")
	again := record(" arsenal ", "CHELSEA", "MidEvent")
	again.Date = "2026-10-17T14:00:30Z"

	res, err := svc.IngestFeed(context.Background(), fixturedomain.FeedBatchPayloadV1{Records: []fixturedomain.FeedRecord{first, again}})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Success.Stored)

	rows, err := repo.ListInRange(context.Background(), nil, wednesday, wednesday.Add(7*24*time.Hour))
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, fixturedomain.MidEvent, rows[0].Progress)
}

func TestListPickable(t *testing.T) {
	repo := fixturedb.NewFakeRepository()
	svc := newTestService(repo, &FakeApplier{}, nil)
	saturday := time.Date(2026, 10, 17, 14, 0, 0, 0, time.UTC)

	seed := func(progress fixturedomain.Progress, kickoff time.Time) {
		home, away := gofakeit.City()+" FC", gofakeit.City()+" United"
		repo.Seed(fixturedomain.Fixture{
			Key:       fixturedomain.Key("EPL", home, away, kickoff),
			League:    "EPL",
			HomeTeam:  home,
			AwayTeam:  away,
			KickoffAt: kickoff,
			Progress:  progress,
		})
	}
	seed(fixturedomain.PreEvent, saturday)
	seed(fixturedomain.PreEvent, saturday.Add(2*time.Hour))
	seed(fixturedomain.Postponed, saturday)
	seed(fixturedomain.PreEvent, saturday.Add(7*24*time.Hour))

	got, err := svc.ListPickable(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.True(t, got[0].KickoffAt.Before(got[1].KickoffAt))
}

func TestImportSeason(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	rows := [][]interface{}{
		{"Home", "Away", "Date", "Time"},
		{"Arsenal", "Chelsea", "2026-10-17", "15:00"},
		{"Leeds", "Leeds", "2026-10-18", "12:30"},
	}
	for i, row := range rows {
		axis, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, axis, &row))
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	repo := fixturedb.NewFakeRepository()
	svc := newTestService(repo, &FakeApplier{}, nil)

	res, err := svc.ImportSeason(context.Background(), buf.Bytes(), "EPL")
	require.NoError(t, err)
	require.True(t, res.IsSuccess())
	assert.Equal(t, sourceXLSX, res.Success.Source)
	assert.Equal(t, 1, res.Success.Stored)
	assert.Equal(t, 1, res.Success.Rejected)

	bad, err := svc.ImportSeason(context.Background(), []byte("nope"), "EPL")
	require.NoError(t, err)
	assert.True(t, bad.IsFailure())
}
