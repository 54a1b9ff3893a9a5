package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

type fakeSessions struct{}

func (fakeSessions) Check(ctx context.Context, raw string) (string, error) {
	if raw == "good-session" {
		return "admin-session", nil
	}
	return "", errors.New("invalid session")
}

func adminRouter() *gin.Engine {
	g := gin.New()
	g.POST("/w", AdminMiddleware("s3cret", fakeSessions{}), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(AdminContextKey))
	})
	return g
}

func TestAdminMiddleware_MissingSecret(t *testing.T) {
	rw := httptest.NewRecorder()
	adminRouter().ServeHTTP(rw, httptest.NewRequest(http.MethodPost, "/w", nil))
	require.Equal(t, http.StatusUnauthorized, rw.Code)
}

func TestAdminMiddleware_WrongSecret(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/w", nil)
	req.Header.Set("X-Admin-Pass", "nope")
	rw := httptest.NewRecorder()
	adminRouter().ServeHTTP(rw, req)
	require.Equal(t, http.StatusUnauthorized, rw.Code)
}

func TestAdminMiddleware_HeaderAndBearer(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/w", nil)
	req.Header.Set("X-Admin-Pass", "s3cret")
	rw := httptest.NewRecorder()
	adminRouter().ServeHTTP(rw, req)
	require.Equal(t, http.StatusOK, rw.Code)
	require.Equal(t, "password", rw.Body.String())

	req = httptest.NewRequest(http.MethodPost, "/w", nil)
	req.Header.Set("Authorization", "Bearer s3cret")
	rw = httptest.NewRecorder()
	adminRouter().ServeHTTP(rw, req)
	require.Equal(t, http.StatusOK, rw.Code)
}

func TestAdminMiddleware_SessionToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/w", nil)
	req.Header.Set("Authorization", "Bearer good-session")
	rw := httptest.NewRecorder()
	adminRouter().ServeHTTP(rw, req)
	require.Equal(t, http.StatusOK, rw.Code)
	require.Equal(t, "admin-session", rw.Body.String())
}

func TestAdminSecret_PrefersHeader(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Admin-Pass", "a")
	req.Header.Set("Authorization", "Bearer b")
	require.Equal(t, "a", AdminSecret(req))
}
