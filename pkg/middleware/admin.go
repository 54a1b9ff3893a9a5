package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// ErrUnauthorized is returned when a write request carries no valid admin secret.
var ErrUnauthorized = errors.New("unauthorized")

// AdminContextKey holds the authenticated principal ("password" or a session subject).
const AdminContextKey = "admin"

// SessionChecker validates session tokens issued by the login endpoint and
// returns the session subject.
type SessionChecker interface {
	Check(ctx context.Context, raw string) (string, error)
}

// AdminSecret extracts the shared secret from X-Admin-Pass or
// "Authorization: Bearer <secret>".
func AdminSecret(r *http.Request) string {
	if v := strings.TrimSpace(r.Header.Get("X-Admin-Pass")); v != "" {
		return v
	}
	auth := r.Header.Get("Authorization")
	if len(auth) > 7 && strings.EqualFold(auth[:7], "bearer ") {
		return strings.TrimSpace(auth[7:])
	}
	return ""
}

// AdminMiddleware gates write routes. The secret must equal the configured
// password, or be a session token accepted by sessions (may be nil).
func AdminMiddleware(password string, sessions SessionChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		secret := AdminSecret(c.Request)
		if secret == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		if secret == password {
			c.Set(AdminContextKey, "password")
			c.Next()
			return
		}
		if sessions != nil {
			if sub, err := sessions.Check(c.Request.Context(), secret); err == nil {
				c.Set(AdminContextKey, sub)
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
	}
}
