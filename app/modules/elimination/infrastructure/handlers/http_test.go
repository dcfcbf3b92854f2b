package eliminationhandlers

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	eliminationservice "github.com/Black-And-White-Club/last-man-standing/app/modules/elimination/application"
	"github.com/Black-And-White-Club/last-man-standing/app/shared/apperrors"
	"github.com/Black-And-White-Club/last-man-standing/app/shared/httpx"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type FakeRunner struct {
	trace []string
	RunFn func(ctx context.Context, name string) (any, error)
}

func (f *FakeRunner) Run(ctx context.Context, name string) (any, error) {
	f.trace = append(f.trace, "Run:"+name)
	if f.RunFn != nil {
		return f.RunFn(ctx, name)
	}
	return eliminationservice.SweepSummary{Sweep: name, Leagues: 2}, nil
}

type FakeQueue struct {
	trace []string
}

func (f *FakeQueue) Enqueue(_ context.Context, sweep string) (int64, error) {
	f.trace = append(f.trace, "Enqueue:"+sweep)
	return 77, nil
}

func serve(runner Runner, queue Enqueuer, target string) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.Post("/sweeps/{name}", SweepHandler(runner, queue, httpx.NewRender(), slog.Default()))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, target, nil))
	return rec
}

func TestSweepHandler(t *testing.T) {
	t.Run("runs synchronously", func(t *testing.T) {
		runner, queue := &FakeRunner{}, &FakeQueue{}
		rec := serve(runner, queue, "/sweeps/winners")

		require.Equal(t, http.StatusOK, rec.Code)
		var got eliminationservice.SweepSummary
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, "winners", got.Sweep)
		assert.Equal(t, 2, got.Leagues)
		assert.Equal(t, []string{"Run:winners"}, runner.trace)
		assert.Empty(t, queue.trace)
	})

	t.Run("enqueues when async", func(t *testing.T) {
		runner, queue := &FakeRunner{}, &FakeQueue{}
		rec := serve(runner, queue, "/sweeps/rollover?async=true")

		require.Equal(t, http.StatusAccepted, rec.Code)
		var got EnqueuedResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, EnqueuedResponse{Sweep: "rollover", JobID: 77}, got)
		assert.Empty(t, runner.trace)
	})

	t.Run("async without a queue runs inline", func(t *testing.T) {
		runner := &FakeRunner{}
		rec := serve(runner, nil, "/sweeps/deadline?async=true")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, []string{"Run:deadline"}, runner.trace)
	})

	t.Run("unknown sweep", func(t *testing.T) {
		runner := &FakeRunner{RunFn: func(context.Context, string) (any, error) {
			return nil, apperrors.ErrNotFound.WithReason("unknown sweep \"all\"")
		}}
		rec := serve(runner, nil, "/sweeps/all")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("sweep error", func(t *testing.T) {
		runner := &FakeRunner{RunFn: func(context.Context, string) (any, error) {
			return nil, errors.New("list leagues: connection refused")
		}}
		rec := serve(runner, nil, "/sweeps/winners")
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}
