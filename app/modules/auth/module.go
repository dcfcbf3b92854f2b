package auth

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	authhandlers "github.com/Black-And-White-Club/last-man-standing/app/modules/auth/infrastructure/handlers"
	authjwt "github.com/Black-And-White-Club/last-man-standing/app/modules/auth/infrastructure/jwt"
	"github.com/Black-And-White-Club/last-man-standing/app/shared/observability"
	"github.com/Black-And-White-Club/last-man-standing/config"
	"github.com/go-chi/chi/v5"
	"github.com/unrolled/render"
	"golang.org/x/time/rate"
)

// Module wires bearer-token authentication for the HTTP surface.
type Module struct {
	Provider   authjwt.Provider
	limiter    *authhandlers.IPRateLimiter
	defaultTTL time.Duration
	render     *render.Render
	logger     *slog.Logger
}

// NewModule creates a new auth module.
func NewModule(ctx context.Context, cfg *config.Config, obs observability.Observability, rnd *render.Render) *Module {
	logger := obs.Provider.Logger
	logger.InfoContext(ctx, "Initializing auth module")

	return &Module{
		Provider:   authjwt.NewProvider(cfg.JWT.Secret, cfg.JWT.Issuer),
		limiter:    authhandlers.NewIPRateLimiter(rate.Limit(cfg.HTTP.RatePerSecond), cfg.HTTP.RateBurst),
		defaultTTL: cfg.JWT.DefaultTTL,
		render:     rnd,
		logger:     logger,
	}
}

// RequireUser authenticates the request.
func (m *Module) RequireUser() func(http.Handler) http.Handler {
	return authhandlers.RequireUser(m.Provider, m.render, m.logger)
}

// RequireAdmin restricts a route group to operators. Mount after RequireUser.
func (m *Module) RequireAdmin() func(http.Handler) http.Handler {
	return authhandlers.RequireAdmin(m.render, m.logger)
}

// RateLimit throttles requests per client address.
func (m *Module) RateLimit() func(http.Handler) http.Handler {
	return authhandlers.RateLimitMiddleware(m.limiter, m.render)
}

// MountAdminRoutes registers operator endpoints on an admin-only router.
func (m *Module) MountAdminRoutes(r chi.Router) {
	r.Post("/tokens", authhandlers.IssueTokenHandler(m.Provider, m.defaultTTL, m.render, m.logger))
}
