// Package httpx holds the JSON plumbing shared by the module HTTP handlers.
package httpx

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/Black-And-White-Club/last-man-standing/app/shared/apperrors"
	"github.com/Black-And-White-Club/last-man-standing/app/shared/observability/attr"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/unrolled/render"
)

const maxBodyBytes = 1 << 20

// ErrorBody is the JSON error envelope.
type ErrorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// NewRender returns the JSON renderer used by every handler.
func NewRender() *render.Render {
	return render.New(render.Options{
		UnEscapeHTML:  true,
		IndentJSON:    false,
		StreamingJSON: false,
	})
}

// StatusFor maps an error kind onto an HTTP status.
func StatusFor(kind apperrors.Kind) int {
	switch kind {
	case apperrors.KindValidation:
		return http.StatusBadRequest
	case apperrors.KindUnauthorized:
		return http.StatusUnauthorized
	case apperrors.KindAuthorization:
		return http.StatusForbidden
	case apperrors.KindNotFound:
		return http.StatusNotFound
	case apperrors.KindStateConflict:
		return http.StatusConflict
	case apperrors.KindUpstream:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// WriteError renders err. Unclassified errors are logged and hidden behind a
// generic internal error.
func WriteError(w http.ResponseWriter, r *http.Request, rnd *render.Render, logger *slog.Logger, err error) {
	e, ok := apperrors.As(err)
	if !ok || e.Kind == apperrors.KindInternal || e.Kind == apperrors.KindDataInconsistency {
		logger.ErrorContext(r.Context(), "Request failed",
			attr.ExtractCorrelationID(r.Context()),
			attr.String("path", r.URL.Path),
			attr.Error(err),
		)
		if !ok {
			e = apperrors.ErrInternal
		}
	}
	_ = rnd.JSON(w, StatusFor(e.Kind), ErrorBody{Error: e.Reason, Code: e.Code})
}

// DecodeJSON reads a JSON body into v. Malformed bodies are invalid input.
func DecodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return apperrors.ErrInvalidInput.WithReason("request body is empty")
		}
		return apperrors.ErrInvalidInput.WithReason("malformed request body: %v", err)
	}
	return nil
}

// CorrelationID copies chi's request id into the logging context.
func CorrelationID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := attr.WithCorrelationID(r.Context(), middleware.GetReqID(r.Context()))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
