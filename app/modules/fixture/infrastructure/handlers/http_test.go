package fixturehandlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	fixtureservice "github.com/Black-And-White-Club/last-man-standing/app/modules/fixture/application"
	fixturedomain "github.com/Black-And-White-Club/last-man-standing/app/modules/fixture/domain"
	"github.com/Black-And-White-Club/last-man-standing/app/shared/apperrors"
	"github.com/Black-And-White-Club/last-man-standing/app/shared/httpx"
	"github.com/Black-And-White-Club/last-man-standing/app/shared/results"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPickableHandler(t *testing.T) {
	kickoff := time.Date(2026, 10, 17, 14, 0, 0, 0, time.UTC)
	svc := NewFakeFixtureService()
	svc.ListPickableFunc = func(ctx context.Context) ([]fixturedomain.Fixture, error) {
		return []fixturedomain.Fixture{{
			ID: 4, Key: fixturedomain.Key("EPL", "Arsenal", "Chelsea", kickoff),
			League: "EPL", HomeTeam: "Arsenal", AwayTeam: "Chelsea", KickoffAt: kickoff,
			Progress: fixturedomain.PreEvent, HomeOutcome: fixturedomain.OutcomeUnknown, AwayOutcome: fixturedomain.OutcomeUnknown,
		}}, nil
	}

	rec := httptest.NewRecorder()
	PickableHandler(svc, httpx.NewRender(), slog.Default()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/fixtures/pickable", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var got []FixtureView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "Arsenal", got[0].HomeTeam)
	assert.Equal(t, "2026-10-17T14:00:00Z", got[0].KickoffAt)

	svc.ListPickableFunc = func(ctx context.Context) ([]fixturedomain.Fixture, error) {
		return nil, errors.New("db down")
	}
	rec = httptest.NewRecorder()
	PickableHandler(svc, httpx.NewRender(), slog.Default()).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/fixtures/pickable", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestFeedHandler(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		setup      func(*FakeFixtureService)
		wantStatus int
		wantSource string
	}{
		{
			name:       "stores the batch",
			body:       `{"records":[{"league":"EPL","home_team":"Arsenal","away_team":"Chelsea","date":"2026-10-17T14:00:00Z","status":"PreEvent"}]}`,
			setup:      func(f *FakeFixtureService) {},
			wantStatus: http.StatusOK,
			wantSource: "http",
		},
		{
			name:       "malformed body",
			body:       `{"records":`,
			setup:      func(f *FakeFixtureService) {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name: "service failure",
			body: `{"source":"cron","records":[]}`,
			setup: func(f *FakeFixtureService) {
				f.IngestFeedFunc = func(ctx context.Context, batch fixturedomain.FeedBatchPayloadV1) (results.OperationResult[fixtureservice.IngestSummary, error], error) {
					return results.FailureResult[fixtureservice.IngestSummary, error](apperrors.ErrInvalidInput), nil
				}
			},
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewFakeFixtureService()
			tt.setup(svc)

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/admin/fixtures/feed", strings.NewReader(tt.body))
			FeedHandler(svc, httpx.NewRender(), slog.Default()).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantSource != "" {
				var summary fixtureservice.IngestSummary
				require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &summary))
				assert.Equal(t, tt.wantSource, summary.Source)
				assert.Equal(t, 1, summary.Received)
			}
		})
	}
}

func TestImportHandler(t *testing.T) {
	var gotData []byte
	var gotLeague string
	svc := NewFakeFixtureService()
	svc.ImportSeasonFunc = func(ctx context.Context, data []byte, defaultLeague string) (results.OperationResult[fixtureservice.IngestSummary, error], error) {
		gotData, gotLeague = data, defaultLeague
		return results.SuccessResult[fixtureservice.IngestSummary, error](fixtureservice.IngestSummary{Source: "xlsx-import", Stored: 3}), nil
	}
	h := ImportHandler(svc, httpx.NewRender(), slog.Default())

	t.Run("multipart upload", func(t *testing.T) {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		part, err := mw.CreateFormFile("file", "season.xlsx")
		require.NoError(t, err)
		_, _ = part.Write([]byte("workbook-bytes"))
		require.NoError(t, mw.Close())

		req := httptest.NewRequest(http.MethodPost, "/api/admin/fixtures/import?league=EPL", &buf)
		req.Header.Set("Content-Type", mw.FormDataContentType())
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "workbook-bytes", string(gotData))
		assert.Equal(t, "EPL", gotLeague)
	})

	t.Run("raw body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/admin/fixtures/import", strings.NewReader("raw-bytes"))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "raw-bytes", string(gotData))
	})

	t.Run("empty body", func(t *testing.T) {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/admin/fixtures/import", strings.NewReader("")))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
