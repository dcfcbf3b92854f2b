package fixturehandlers

import (
	"io"
	"log/slog"
	"net/http"
	"strings"

	fixtureservice "github.com/Black-And-White-Club/last-man-standing/app/modules/fixture/application"
	fixturedomain "github.com/Black-And-White-Club/last-man-standing/app/modules/fixture/domain"
	"github.com/Black-And-White-Club/last-man-standing/app/shared/apperrors"
	"github.com/Black-And-White-Club/last-man-standing/app/shared/httpx"
	"github.com/unrolled/render"
)

const maxWorkbookBytes = 10 << 20

// FixtureView is the API shape of a fixture.
type FixtureView struct {
	ID          int64  `json:"id"`
	Key         string `json:"key"`
	League      string `json:"league"`
	HomeTeam    string `json:"home_team"`
	AwayTeam    string `json:"away_team"`
	KickoffAt   string `json:"kickoff_at"`
	Progress    string `json:"progress"`
	HomeScore   *int   `json:"home_score,omitempty"`
	AwayScore   *int   `json:"away_score,omitempty"`
	HomeOutcome string `json:"home_outcome"`
	AwayOutcome string `json:"away_outcome"`
}

func toView(f fixturedomain.Fixture) FixtureView {
	return FixtureView{
		ID:          f.ID,
		Key:         f.Key,
		League:      f.League,
		HomeTeam:    f.HomeTeam,
		AwayTeam:    f.AwayTeam,
		KickoffAt:   f.KickoffAt.UTC().Format("2006-01-02T15:04:05Z"),
		Progress:    string(f.Progress),
		HomeScore:   f.HomeScore,
		AwayScore:   f.AwayScore,
		HomeOutcome: string(f.HomeOutcome),
		AwayOutcome: string(f.AwayOutcome),
	}
}

// PickableHandler lists the fixtures players can still pick this gameweek.
func PickableHandler(svc fixtureservice.Service, rnd *render.Render, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		fixtures, err := svc.ListPickable(r.Context())
		if err != nil {
			httpx.WriteError(w, r, rnd, logger, err)
			return
		}
		out := make([]FixtureView, 0, len(fixtures))
		for _, f := range fixtures {
			out = append(out, toView(f))
		}
		_ = rnd.JSON(w, http.StatusOK, out)
	}
}

// FeedHandler ingests a feed batch posted by an operator or scraper.
func FeedHandler(svc fixtureservice.Service, rnd *render.Render, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var batch fixturedomain.FeedBatchPayloadV1
		if err := httpx.DecodeJSON(r, &batch); err != nil {
			httpx.WriteError(w, r, rnd, logger, err)
			return
		}
		if batch.Source == "" {
			batch.Source = "http"
		}

		result, err := svc.IngestFeed(r.Context(), batch)
		if err != nil {
			httpx.WriteError(w, r, rnd, logger, err)
			return
		}
		if result.Failure != nil {
			httpx.WriteError(w, r, rnd, logger, *result.Failure)
			return
		}
		_ = rnd.JSON(w, http.StatusOK, result.Success)
	}
}

// ImportHandler imports a season workbook sent either as the "file" part of
// a multipart form or as the raw request body.
func ImportHandler(svc fixtureservice.Service, rnd *render.Render, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := readWorkbook(r)
		if err != nil {
			httpx.WriteError(w, r, rnd, logger, err)
			return
		}

		result, err := svc.ImportSeason(r.Context(), data, r.URL.Query().Get("league"))
		if err != nil {
			httpx.WriteError(w, r, rnd, logger, err)
			return
		}
		if result.Failure != nil {
			httpx.WriteError(w, r, rnd, logger, *result.Failure)
			return
		}
		_ = rnd.JSON(w, http.StatusOK, result.Success)
	}
}

func readWorkbook(r *http.Request) ([]byte, error) {
	var src io.Reader = r.Body
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(maxWorkbookBytes); err != nil {
			return nil, apperrors.ErrInvalidInput.WithReason("malformed upload: %v", err)
		}
		file, _, err := r.FormFile("file")
		if err != nil {
			return nil, apperrors.ErrInvalidInput.WithReason("upload has no file part")
		}
		defer file.Close()
		src = file
	}

	data, err := io.ReadAll(io.LimitReader(src, maxWorkbookBytes+1))
	if err != nil {
		return nil, apperrors.ErrInvalidInput.WithReason("failed to read upload: %v", err)
	}
	if len(data) == 0 {
		return nil, apperrors.ErrInvalidInput.WithReason("workbook is empty")
	}
	if len(data) > maxWorkbookBytes {
		return nil, apperrors.ErrInvalidInput.WithReason("workbook exceeds %d bytes", maxWorkbookBytes)
	}
	return data, nil
}
