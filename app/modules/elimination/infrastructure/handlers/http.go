// Package eliminationhandlers lets operators trigger sweeps over HTTP.
package eliminationhandlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/Black-And-White-Club/last-man-standing/app/shared/httpx"
	"github.com/go-chi/chi/v5"
	"github.com/unrolled/render"
)

// Runner runs a sweep by name.
type Runner interface {
	Run(ctx context.Context, name string) (any, error)
}

// Enqueuer queues a sweep for a background worker.
type Enqueuer interface {
	Enqueue(ctx context.Context, sweep string) (int64, error)
}

// EnqueuedResponse is returned for ?async=true triggers.
type EnqueuedResponse struct {
	Sweep string `json:"sweep"`
	JobID int64  `json:"job_id"`
}

// SweepHandler runs the sweep named in the path and returns its summary.
// With ?async=true and a queue configured it only enqueues the sweep.
func SweepHandler(runner Runner, queue Enqueuer, rnd *render.Render, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "name")

		if queue != nil && r.URL.Query().Get("async") == "true" {
			id, err := queue.Enqueue(r.Context(), name)
			if err != nil {
				httpx.WriteError(w, r, rnd, logger, err)
				return
			}
			_ = rnd.JSON(w, http.StatusAccepted, EnqueuedResponse{Sweep: name, JobID: id})
			return
		}

		summary, err := runner.Run(r.Context(), name)
		if err != nil {
			httpx.WriteError(w, r, rnd, logger, err)
			return
		}
		_ = rnd.JSON(w, http.StatusOK, summary)
	}
}
