package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nbportfolio/site/internal/sessions"
	"github.com/nbportfolio/site/pkg/logger"
	"github.com/nbportfolio/site/pkg/middleware"
)

// LoginRequest carries the shared admin password.
type LoginRequest struct {
	Password string `json:"password" binding:"required"`
}

// AuthHandler issues and revokes admin session tokens.
type AuthHandler struct {
	sessionsSvc *sessions.Service
}

func NewAuthHandler(s *sessions.Service) *AuthHandler {
	return &AuthHandler{sessionsSvc: s}
}

// Register routes under /api
func (h *AuthHandler) Register(rg gin.IRouter) {
	a := rg.Group("/api")
	a.POST("/login", h.Login)
	a.POST("/logout", h.Logout)
}

// Login exchanges the admin password for a bearer token usable in place of
// the password on write routes.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	tok, exp, err := h.sessionsSvc.Login(c.Request.Context(), req.Password)
	if errors.Is(err, sessions.ErrBadPassword) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	if err != nil {
		logger.Errorf("login: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create session"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": tok, "expiresAt": exp.UTC().Format(time.RFC3339), "expiresIn": int(time.Until(exp).Seconds())})
}

// Logout revokes the bearer token for the rest of its lifetime.
func (h *AuthHandler) Logout(c *gin.Context) {
	raw := middleware.AdminSecret(c.Request)
	if raw == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing token"})
		return
	}
	if err := h.sessionsSvc.Logout(c.Request.Context(), raw); err != nil {
		logger.Debugf("logout rejected: %v", err)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
