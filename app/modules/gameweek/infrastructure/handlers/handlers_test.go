package gameweekhandlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	gameweekdomain "github.com/Black-And-White-Club/last-man-standing/app/modules/gameweek/domain"
	"github.com/Black-And-White-Club/last-man-standing/app/shared/httpx"
	"github.com/Black-And-White-Club/last-man-standing/app/shared/results"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

type fakeGameweekService struct {
	calc   gameweekdomain.Calculator
	status gameweekdomain.Status
	err    error
}

func (f *fakeGameweekService) Calculator() gameweekdomain.Calculator { return f.calc }

func (f *fakeGameweekService) Status(context.Context, bun.IDB, time.Time) (gameweekdomain.Status, error) {
	return f.status, f.err
}

func (f *fakeGameweekService) CurrentStatus(context.Context) (gameweekdomain.Status, error) {
	return f.status, f.err
}

func (f *fakeGameweekService) CheckGameweek(context.Context) (results.OperationResult[gameweekdomain.Status, error], error) {
	return results.SuccessResult[gameweekdomain.Status, error](f.status), f.err
}

func TestStatusHandler(t *testing.T) {
	london, err := time.LoadLocation("Europe/London")
	require.NoError(t, err)
	calc := gameweekdomain.NewCalculator(london)
	wednesday := time.Date(2026, 10, 14, 12, 0, 0, 0, london)

	svc := &fakeGameweekService{calc: calc, status: gameweekdomain.EvaluateStatus(calc, wednesday, 6, gameweekdomain.DefaultMinTeamSides)}
	rec := httptest.NewRecorder()
	StatusHandler(svc, httpx.NewRender(), slog.Default()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/gameweek", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var got StatusView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Equal(t, "2026-10-16", got.Window)
	assert.Equal(t, "2026-10-16T00:00:00+01:00", got.Start)
	assert.Equal(t, "2026-10-16T00:00:00+01:00", got.PickDeadline)
	assert.Equal(t, "2026-10-19T23:59:59+01:00", got.End)
	assert.Equal(t, 12, got.TeamSides)
	assert.True(t, got.Active)
	assert.False(t, got.PickLock)

	svc.err = errors.New("db down")
	rec = httptest.NewRecorder()
	StatusHandler(svc, httpx.NewRender(), slog.Default()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/gameweek", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
