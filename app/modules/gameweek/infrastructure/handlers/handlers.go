// Package gameweekhandlers serves the computed gameweek status.
package gameweekhandlers

import (
	"log/slog"
	"net/http"
	"time"

	gameweekservice "github.com/Black-And-White-Club/last-man-standing/app/modules/gameweek/application"
	gameweekdomain "github.com/Black-And-White-Club/last-man-standing/app/modules/gameweek/domain"
	"github.com/Black-And-White-Club/last-man-standing/app/shared/httpx"
	"github.com/unrolled/render"
)

// StatusView is the API shape of a gameweek status. Times are in the
// gameweek time zone.
type StatusView struct {
	Window       string `json:"window"`
	Start        string `json:"start"`
	End          string `json:"end"`
	PickDeadline string `json:"pick_deadline"`
	FixtureCount int    `json:"fixture_count"`
	TeamSides    int    `json:"team_sides"`
	Active       bool   `json:"active"`
	PickLock     bool   `json:"pick_lock"`
	EvaluatedAt  string `json:"evaluated_at"`
}

// ToView renders s with times in loc.
func ToView(s gameweekdomain.Status, loc *time.Location) StatusView {
	return StatusView{
		Window:       s.Window.Key(),
		Start:        s.Window.Start.In(loc).Format(time.RFC3339),
		End:          s.Window.End.In(loc).Format(time.RFC3339),
		PickDeadline: s.Window.Cutoff().In(loc).Format(time.RFC3339),
		FixtureCount: s.FixtureCount,
		TeamSides:    s.TeamSides,
		Active:       s.Active,
		PickLock:     s.PickLock,
		EvaluatedAt:  s.EvaluatedAt.In(loc).Format(time.RFC3339),
	}
}

// StatusHandler reports the status of the current or coming gameweek.
func StatusHandler(svc gameweekservice.Service, rnd *render.Render, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status, err := svc.CurrentStatus(r.Context())
		if err != nil {
			httpx.WriteError(w, r, rnd, logger, err)
			return
		}
		_ = rnd.JSON(w, http.StatusOK, ToView(status, svc.Calculator().Location()))
	}
}
