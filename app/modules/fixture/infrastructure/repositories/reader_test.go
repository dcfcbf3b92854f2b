package fixturedb

import (
	"context"
	"testing"
	"time"

	fixturedomain "github.com/Black-And-White-Club/last-man-standing/app/modules/fixture/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReader(t *testing.T) {
	ctx := context.Background()
	kickoff := time.Date(2026, 10, 17, 14, 0, 0, 0, time.UTC)

	repo := NewFakeRepository()
	stored := repo.Seed(fixturedomain.Fixture{
		Key:       fixturedomain.Key("EPL", "Arsenal", "Chelsea", kickoff),
		League:    "EPL",
		HomeTeam:  "Arsenal",
		AwayTeam:  "Chelsea",
		KickoffAt: kickoff,
		Progress:  fixturedomain.PreEvent,
	})
	reader := Reader{Repo: repo}

	t.Run("exact kickoff", func(t *testing.T) {
		f, err := reader.FindFixture(ctx, nil, "chelsea", kickoff, kickoff)
		require.NoError(t, err)
		assert.Equal(t, stored.ID, f.ID)
	})

	t.Run("day range", func(t *testing.T) {
		day := time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC)
		f, err := reader.FindFixture(ctx, nil, "Arsenal", day, day.Add(24*time.Hour-time.Millisecond))
		require.NoError(t, err)
		assert.Equal(t, stored.Key, f.Key)

		_, err = reader.FindFixture(ctx, nil, "Spurs", day, day.Add(24*time.Hour-time.Millisecond))
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("wrong kickoff", func(t *testing.T) {
		_, err := reader.FindFixture(ctx, nil, "Arsenal", kickoff.Add(time.Hour), kickoff.Add(time.Hour))
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("by id", func(t *testing.T) {
		got, err := reader.FixturesByID(ctx, nil, []int64{stored.ID, 999})
		require.NoError(t, err)
		assert.Len(t, got, 1)
		assert.Equal(t, "Chelsea", got[stored.ID].AwayTeam)
	})
}
