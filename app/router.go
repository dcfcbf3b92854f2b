package app

import (
	"context"
	"net/http"
	"time"

	"github.com/Black-And-White-Club/last-man-standing/app/shared/httpx"
	"github.com/Black-And-White-Club/last-man-standing/app/shared/observability/attr"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// routes builds the HTTP surface:
//
//	GET  /healthz, /metrics
//	/api        player routes (bearer token)
//	/api/admin  operator routes (admin role)
func (app *App) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(httpx.CorrelationID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(app.Config.HTTP.RequestTimeout))

	r.Get("/healthz", app.healthz)
	r.Handle("/metrics", promhttp.HandlerFor(app.Observability.Registry.Prometheus, promhttp.HandlerOpts{}))

	r.Route("/api", func(r chi.Router) {
		r.Use(app.AuthModule.RateLimit())
		r.Use(app.AuthModule.RequireUser())

		app.GameweekModule.MountRoutes(r)
		app.FixtureModule.MountRoutes(r)
		app.LeagueModule.MountRoutes(r)

		r.Route("/admin", func(r chi.Router) {
			r.Use(app.AuthModule.RequireAdmin())

			app.AuthModule.MountAdminRoutes(r)
			app.FixtureModule.MountAdminRoutes(r)
			app.EliminationModule.MountAdminRoutes(r)
		})
	})
	return r
}

type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
	Queue    string `json:"queue"`
}

func (app *App) healthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := healthResponse{Status: "ok", Database: "ok", Queue: "ok"}
	if err := app.DB.PingContext(ctx); err != nil {
		app.Logger.WarnContext(ctx, "Database health check failed", attr.Error(err))
		resp.Status, resp.Database = "degraded", "unreachable"
	}
	if err := app.EliminationModule.HealthCheck(ctx); err != nil {
		app.Logger.WarnContext(ctx, "Sweep queue health check failed", attr.Error(err))
		resp.Status, resp.Queue = "degraded", "unreachable"
	}

	status := http.StatusOK
	if resp.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	_ = app.Render.JSON(w, status, resp)
}
