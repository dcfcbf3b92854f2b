package authhandlers

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	authdomain "github.com/Black-And-White-Club/last-man-standing/app/modules/auth/domain"
	authjwt "github.com/Black-And-White-Club/last-man-standing/app/modules/auth/infrastructure/jwt"
	"github.com/Black-And-White-Club/last-man-standing/app/shared/apperrors"
	"github.com/Black-And-White-Club/last-man-standing/app/shared/httpx"
	"github.com/Black-And-White-Club/last-man-standing/app/shared/observability/attr"
	"github.com/unrolled/render"
	"golang.org/x/time/rate"
)

const (
	// cleanupThreshold is the minimum map size before a cleanup pass runs.
	cleanupThreshold = 500
	// maxIdleAge is the duration after which an idle IP entry is eligible for cleanup.
	maxIdleAge = 10 * time.Minute
)

type ipEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// IPRateLimiter is an IP-based rate limiter that prunes stale entries inline.
type IPRateLimiter struct {
	ips map[string]*ipEntry
	mu  sync.Mutex
	r   rate.Limit
	b   int
}

// NewIPRateLimiter creates a new IPRateLimiter.
func NewIPRateLimiter(r rate.Limit, b int) *IPRateLimiter {
	return &IPRateLimiter{
		ips: make(map[string]*ipEntry),
		r:   r,
		b:   b,
	}
}

// GetLimiter returns a rate.Limiter for the given IP, pruning stale entries when the
// map exceeds cleanupThreshold.
func (i *IPRateLimiter) GetLimiter(ip string) *rate.Limiter {
	i.mu.Lock()
	defer i.mu.Unlock()

	if len(i.ips) > cleanupThreshold {
		cutoff := time.Now().Add(-maxIdleAge)
		for k, e := range i.ips {
			if e.lastSeen.Before(cutoff) {
				delete(i.ips, k)
			}
		}
	}

	e, exists := i.ips[ip]
	if !exists {
		e = &ipEntry{limiter: rate.NewLimiter(i.r, i.b)}
		i.ips[ip] = e
	}
	e.lastSeen = time.Now()

	return e.limiter
}

// RateLimitMiddleware returns a middleware that rate limits requests based on IP.
func RateLimitMiddleware(limiter *IPRateLimiter, rnd *render.Render) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				ip = r.RemoteAddr
			}

			if !limiter.GetLimiter(ip).Allow() {
				_ = rnd.JSON(w, http.StatusTooManyRequests, httpx.ErrorBody{
					Error: "too many requests, slow down",
					Code:  "rate_limited",
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

type claimsKey struct{}

// WithClaims returns ctx carrying the authenticated claims.
func WithClaims(ctx context.Context, claims *authdomain.Claims) context.Context {
	return context.WithValue(ctx, claimsKey{}, claims)
}

// ClaimsFrom returns the claims placed on ctx by RequireUser.
func ClaimsFrom(ctx context.Context) (*authdomain.Claims, bool) {
	c, ok := ctx.Value(claimsKey{}).(*authdomain.Claims)
	return c, ok && c != nil
}

// UserIDFrom returns the authenticated user id, or "" for anonymous requests.
func UserIDFrom(ctx context.Context) string {
	if c, ok := ClaimsFrom(ctx); ok {
		return c.UserID
	}
	return ""
}

// RequireUser rejects requests without a valid bearer token and stores the
// token's claims on the request context.
func RequireUser(provider authjwt.Provider, rnd *render.Render, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				httpx.WriteError(w, r, rnd, logger, apperrors.ErrUnauthorized)
				return
			}

			claims, err := provider.ValidateToken(token)
			if err != nil {
				logger.DebugContext(r.Context(), "Rejected bearer token",
					attr.ExtractCorrelationID(r.Context()),
					attr.Error(err),
				)
				httpx.WriteError(w, r, rnd, logger, apperrors.ErrUnauthorized.WithReason("invalid or expired token"))
				return
			}

			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

// RequireAdmin allows only admin claims through. It must run after RequireUser.
func RequireAdmin(rnd *render.Render, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFrom(r.Context())
			if !ok {
				httpx.WriteError(w, r, rnd, logger, apperrors.ErrUnauthorized)
				return
			}
			if !claims.IsAdmin() {
				httpx.WriteError(w, r, rnd, logger, apperrors.ErrPermissionDenied.WithReason("administrator role required"))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
