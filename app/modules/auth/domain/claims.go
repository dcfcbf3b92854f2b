package authdomain

import (
	"time"
)

// Claims represents the domain model for authentication claims. UserID is
// the opaque identity used as the league member key.
type Claims struct {
	TokenID   string
	UserID    string
	Role      Role
	ExpiresAt time.Time
	IssuedAt  time.Time
}

// IsExpired checks if the claims have expired at now.
func (c *Claims) IsExpired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && !now.Before(c.ExpiresAt)
}

// IsAdmin reports whether the bearer may run operator actions.
func (c *Claims) IsAdmin() bool {
	return c.Role == RoleAdmin
}
