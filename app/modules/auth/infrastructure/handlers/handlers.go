package authhandlers

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	authdomain "github.com/Black-And-White-Club/last-man-standing/app/modules/auth/domain"
	authjwt "github.com/Black-And-White-Club/last-man-standing/app/modules/auth/infrastructure/jwt"
	"github.com/Black-And-White-Club/last-man-standing/app/shared/apperrors"
	"github.com/Black-And-White-Club/last-man-standing/app/shared/httpx"
	"github.com/unrolled/render"
)

// IssueTokenRequest asks for a token on behalf of a user.
type IssueTokenRequest struct {
	UserID string `json:"user_id"`
	Role   string `json:"role,omitempty"`
	TTL    string `json:"ttl,omitempty"`
}

// IssueTokenResponse carries a freshly signed token.
type IssueTokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

// IssueTokenHandler lets an operator mint tokens for players.
func IssueTokenHandler(provider authjwt.Provider, defaultTTL time.Duration, rnd *render.Render, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req IssueTokenRequest
		if err := httpx.DecodeJSON(r, &req); err != nil {
			httpx.WriteError(w, r, rnd, logger, err)
			return
		}

		role := authdomain.RolePlayer
		if req.Role != "" {
			role = authdomain.Role(req.Role)
			if !role.IsValid() {
				httpx.WriteError(w, r, rnd, logger, apperrors.ErrInvalidInput.WithReason("unknown role %q", req.Role))
				return
			}
		}

		ttl := defaultTTL
		if req.TTL != "" {
			d, err := time.ParseDuration(req.TTL)
			if err != nil || d <= 0 {
				httpx.WriteError(w, r, rnd, logger, apperrors.ErrInvalidInput.WithReason("invalid ttl %q", req.TTL))
				return
			}
			ttl = d
		}

		token, err := provider.GenerateToken(req.UserID, role, ttl)
		if err != nil {
			if errors.Is(err, authjwt.ErrMissingSubject) {
				err = apperrors.ErrInvalidInput.WithReason("user_id is required")
			}
			httpx.WriteError(w, r, rnd, logger, err)
			return
		}

		_ = rnd.JSON(w, http.StatusCreated, IssueTokenResponse{
			Token:     token,
			ExpiresAt: time.Now().Add(ttl).UTC(),
		})
	}
}
