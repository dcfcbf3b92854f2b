package httpx

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Black-And-White-Club/last-man-standing/app/shared/apperrors"
	"github.com/Black-And-White-Club/last-man-standing/app/shared/observability/attr"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteError(t *testing.T) {
	rnd := NewRender()

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"validation", apperrors.ErrInvalidInput, http.StatusBadRequest, "invalid_input"},
		{"unauthorized", apperrors.ErrUnauthorized, http.StatusUnauthorized, "unauthorized"},
		{"permission", apperrors.ErrPermissionDenied, http.StatusForbidden, "permission_denied"},
		{"conflict", apperrors.ErrAlreadyPicked, http.StatusConflict, "already_picked"},
		{"upstream", apperrors.ErrUpstream, http.StatusServiceUnavailable, "upstream"},
		{"unclassified", errors.New("pq: broken"), http.StatusInternalServerError, "internal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/x", nil)
			WriteError(rec, req, rnd, slog.Default(), tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			var body ErrorBody
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantCode, body.Code)
			assert.NotContains(t, body.Error, "pq:")
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	var v struct {
		Team string `json:"team"`
	}

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"team":"Arsenal"}`))
	require.NoError(t, DecodeJSON(req, &v))
	assert.Equal(t, "Arsenal", v.Team)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(``))
	assert.ErrorIs(t, DecodeJSON(req, &v), apperrors.ErrInvalidInput)

	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"bogus":1}`))
	assert.ErrorIs(t, DecodeJSON(req, &v), apperrors.ErrInvalidInput)
}

func TestCorrelationID(t *testing.T) {
	var got string
	h := middleware.RequestID(CorrelationID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = attr.CorrelationID(r.Context())
	})))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(middleware.RequestIDHeader, "abc-123")
	h.ServeHTTP(httptest.NewRecorder(), req)

	assert.Equal(t, "abc-123", got)
}
