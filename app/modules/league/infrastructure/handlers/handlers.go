// Package leaguehandlers exposes league operations over HTTP.
package leaguehandlers

import (
	"log/slog"
	"net/http"
	"strconv"

	authhandlers "github.com/Black-And-White-Club/last-man-standing/app/modules/auth/infrastructure/handlers"
	leagueservice "github.com/Black-And-White-Club/last-man-standing/app/modules/league/application"
	"github.com/Black-And-White-Club/last-man-standing/app/shared/apperrors"
	"github.com/Black-And-White-Club/last-man-standing/app/shared/httpx"
	"github.com/Black-And-White-Club/last-man-standing/app/shared/results"
	"github.com/go-chi/chi/v5"
	"github.com/unrolled/render"
)

// CreateLeagueRequest is the body of POST /leagues.
type CreateLeagueRequest struct {
	Name string `json:"name"`
}

// JoinLeagueRequest is the body of POST /leagues/join.
type JoinLeagueRequest struct {
	Code string `json:"code"`
}

// SubmitPickRequest is the body of POST /leagues/{leagueID}/picks. Date is a
// calendar date or a kickoff date-time.
type SubmitPickRequest struct {
	Team string `json:"team"`
	Date string `json:"date"`
}

// LeagueHandlers serves the player-facing league endpoints.
type LeagueHandlers struct {
	service leagueservice.Service
	render  *render.Render
	logger  *slog.Logger
}

func NewLeagueHandlers(service leagueservice.Service, rnd *render.Render, logger *slog.Logger) *LeagueHandlers {
	return &LeagueHandlers{service: service, render: rnd, logger: logger}
}

// Routes registers the handlers on r. The caller must already be
// authenticated.
func (h *LeagueHandlers) Routes(r chi.Router) {
	r.Route("/leagues", func(r chi.Router) {
		r.Post("/", h.CreateLeague)
		r.Get("/", h.ListLeagues)
		r.Post("/join", h.JoinLeague)
		r.Route("/{leagueID}", func(r chi.Router) {
			r.Get("/", h.GetLeague)
			r.Post("/activate", h.ActivateLeague)
			r.Post("/picks", h.SubmitPick)
			r.Get("/picks", h.ListPicks)
			r.Get("/survival.png", h.SurvivalChart)
		})
	})
}

func (h *LeagueHandlers) CreateLeague(w http.ResponseWriter, r *http.Request) {
	var req CreateLeagueRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, r, h.render, h.logger, err)
		return
	}
	result, err := h.service.CreateLeague(r.Context(), authhandlers.UserIDFrom(r.Context()), req.Name)
	writeResult(h, w, r, http.StatusCreated, result, err)
}

func (h *LeagueHandlers) JoinLeague(w http.ResponseWriter, r *http.Request) {
	var req JoinLeagueRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, r, h.render, h.logger, err)
		return
	}
	result, err := h.service.JoinLeague(r.Context(), authhandlers.UserIDFrom(r.Context()), req.Code)
	writeResult(h, w, r, http.StatusCreated, result, err)
}

func (h *LeagueHandlers) ListLeagues(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.ListUserLeagues(r.Context(), authhandlers.UserIDFrom(r.Context()))
	writeResult(h, w, r, http.StatusOK, result, err)
}

func (h *LeagueHandlers) GetLeague(w http.ResponseWriter, r *http.Request) {
	leagueID, ok := h.leagueID(w, r)
	if !ok {
		return
	}
	result, err := h.service.GetLeague(r.Context(), leagueID, authhandlers.UserIDFrom(r.Context()))
	writeResult(h, w, r, http.StatusOK, result, err)
}

func (h *LeagueHandlers) ActivateLeague(w http.ResponseWriter, r *http.Request) {
	leagueID, ok := h.leagueID(w, r)
	if !ok {
		return
	}
	result, err := h.service.ActivateLeague(r.Context(), leagueID, authhandlers.UserIDFrom(r.Context()))
	writeResult(h, w, r, http.StatusOK, result, err)
}

func (h *LeagueHandlers) SubmitPick(w http.ResponseWriter, r *http.Request) {
	leagueID, ok := h.leagueID(w, r)
	if !ok {
		return
	}
	var req SubmitPickRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.WriteError(w, r, h.render, h.logger, err)
		return
	}
	result, err := h.service.SubmitPick(r.Context(), leagueservice.SubmitPickRequest{
		LeagueID: leagueID,
		UserID:   authhandlers.UserIDFrom(r.Context()),
		Team:     req.Team,
		Date:     req.Date,
	})
	writeResult(h, w, r, http.StatusCreated, result, err)
}

func (h *LeagueHandlers) ListPicks(w http.ResponseWriter, r *http.Request) {
	leagueID, ok := h.leagueID(w, r)
	if !ok {
		return
	}
	result, err := h.service.GetUserPicks(r.Context(), leagueID, authhandlers.UserIDFrom(r.Context()))
	writeResult(h, w, r, http.StatusOK, result, err)
}

func (h *LeagueHandlers) SurvivalChart(w http.ResponseWriter, r *http.Request) {
	leagueID, ok := h.leagueID(w, r)
	if !ok {
		return
	}
	result, err := h.service.SurvivalChart(r.Context(), leagueID, authhandlers.UserIDFrom(r.Context()))
	if err != nil {
		httpx.WriteError(w, r, h.render, h.logger, err)
		return
	}
	if result.Failure != nil {
		httpx.WriteError(w, r, h.render, h.logger, *result.Failure)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	_ = h.render.Data(w, http.StatusOK, *result.Success)
}

func (h *LeagueHandlers) leagueID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "leagueID"), 10, 64)
	if err != nil || id <= 0 {
		httpx.WriteError(w, r, h.render, h.logger, apperrors.ErrInvalidInput.WithReason("league id must be a positive integer"))
		return 0, false
	}
	return id, true
}

func writeResult[S any](h *LeagueHandlers, w http.ResponseWriter, r *http.Request, status int, result results.OperationResult[S, error], err error) {
	if err != nil {
		httpx.WriteError(w, r, h.render, h.logger, err)
		return
	}
	if result.Failure != nil {
		httpx.WriteError(w, r, h.render, h.logger, *result.Failure)
		return
	}
	_ = h.render.JSON(w, status, result.Success)
}
