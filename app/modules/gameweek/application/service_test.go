package gameweekservice

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	gameweekdomain "github.com/Black-And-White-Club/last-man-standing/app/modules/gameweek/domain"
	gameweekdb "github.com/Black-And-White-Club/last-man-standing/app/modules/gameweek/infrastructure/repositories"
	"github.com/Black-And-White-Club/last-man-standing/app/shared/clock"
	"github.com/Black-And-White-Club/last-man-standing/app/shared/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"go.opentelemetry.io/otel/trace/noop"
)

// Wednesday 2024-08-14, ahead of the 2024-08-16 window.
var wednesday = time.Date(2024, 8, 14, 10, 0, 0, 0, time.UTC)

func newTestService(repo *FakeGameweekRepo, counter *FakeFixtureCounter, pub *recordingPublisher) *GameweekService {
	return NewGameweekService(
		repo,
		counter,
		gameweekdomain.NewCalculator(time.UTC),
		gameweekdomain.DefaultMinTeamSides,
		clock.FixedClock(wednesday),
		pub,
		slog.Default(),
		observability.NoopMetrics{},
		noop.NewTracerProvider().Tracer("test"),
		nil,
	)
}

func TestStatus_CountsFixturesInWindow(t *testing.T) {
	var gotFrom, gotTo time.Time
	counter := &FakeFixtureCounter{
		CountScheduledFunc: func(_ context.Context, _ bun.IDB, from, to time.Time) (int, error) {
			gotFrom, gotTo = from, to
			return 5, nil
		},
	}
	svc := newTestService(NewFakeGameweekRepo(), counter, nil)

	status, err := svc.CurrentStatus(context.Background())
	require.NoError(t, err)

	assert.Equal(t, time.Date(2024, 8, 16, 0, 0, 0, 0, time.UTC), gotFrom)
	assert.Equal(t, time.Date(2024, 8, 19, 23, 59, 59, int(999*time.Millisecond), time.UTC), gotTo)
	assert.True(t, status.Active)
	assert.Equal(t, 10, status.TeamSides)
}

func TestCheckGameweek(t *testing.T) {
	tests := []struct {
		name        string
		fixtures    int
		cached      *gameweekdb.GameweekState
		countErr    error
		wantActive  bool
		wantErr     bool
		wantPublish bool
	}{
		{
			name:        "first check publishes",
			fixtures:    4,
			wantActive:  true,
			wantPublish: true,
		},
		{
			name:        "unchanged flag does not publish",
			fixtures:    6,
			cached:      &gameweekdb.GameweekState{Active: true},
			wantActive:  true,
			wantPublish: false,
		},
		{
			name:        "flip to inactive publishes",
			fixtures:    3,
			cached:      &gameweekdb.GameweekState{Active: true},
			wantActive:  false,
			wantPublish: true,
		},
		{
			name:     "counter failure",
			countErr: errors.New("db down"),
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := NewFakeGameweekRepo()
			repo.GetStateFunc = func(context.Context, bun.IDB, time.Time) (*gameweekdb.GameweekState, error) {
				if tt.cached == nil {
					return nil, gameweekdb.ErrNotFound
				}
				return tt.cached, nil
			}
			var written *gameweekdb.GameweekState
			repo.UpsertStateFunc = func(_ context.Context, _ bun.IDB, s *gameweekdb.GameweekState) error {
				written = s
				return nil
			}
			counter := &FakeFixtureCounter{
				CountScheduledFunc: func(context.Context, bun.IDB, time.Time, time.Time) (int, error) {
					return tt.fixtures, tt.countErr
				},
			}
			pub := &recordingPublisher{}

			res, err := newTestService(repo, counter, pub).CheckGameweek(context.Background())
			if tt.wantErr {
				assert.Error(t, err)
				assert.Nil(t, written)
				return
			}
			require.NoError(t, err)
			require.True(t, res.IsSuccess())

			assert.Equal(t, tt.wantActive, res.Success.Active)
			require.NotNil(t, written)
			assert.Equal(t, tt.wantActive, written.Active)
			assert.Equal(t, tt.fixtures, written.FixtureCount)
			assert.Equal(t, []string{"GetState", "UpsertState"}, repo.Trace())

			if tt.wantPublish {
				assert.Equal(t, []string{gameweekdomain.TopicStatusChangedV1}, pub.topics)
			} else {
				assert.Empty(t, pub.topics)
			}
		})
	}
}
