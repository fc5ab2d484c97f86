package handlers

import (
	"errors"
	"net/http"

	"project-hub/backend/internal/config"
	"project-hub/backend/internal/services"
	"project-hub/backend/internal/session"
	"project-hub/backend/pkg/logger"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type AuthHandler struct {
	db          *gorm.DB
	authService services.AuthService
	sessions    *session.Store
	cookie      config.SessionConfig
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func NewAuthHandler(db *gorm.DB, authService services.AuthService, sessions *session.Store, cookie config.SessionConfig) *AuthHandler {
	return &AuthHandler{db: db, authService: authService, sessions: sessions, cookie: cookie}
}

// Login verifies the credentials and establishes a server-side session.
// The session holds {id, username, email} only; the digest never leaves
// the users table.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
		return
	}

	user, err := h.authService.LoginUser(h.db, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": services.ErrInvalidCredentials.Error()})
			return
		}
		lg := logger.Get()
		lg.Error().Err(err).Msg("login failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	token, err := h.sessions.Create(c.Request.Context(), user.Identity())
	if err != nil {
		lg := logger.Get()
		lg.Error().Err(err).Msg("session creation failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
		return
	}

	c.SetCookie(h.cookie.CookieName, token, int(h.cookie.TTL.Seconds()), "/", "", h.cookie.Secure, true)
	c.JSON(http.StatusOK, user.Identity())
}

// Logout tears down the active session. A request with no session (or a
// stale token) still succeeds: logout is idempotent.
func (h *AuthHandler) Logout(c *gin.Context) {
	token, err := c.Cookie(h.cookie.CookieName)
	if err == nil && token != "" {
		if err := h.sessions.Destroy(c.Request.Context(), token); err != nil {
			lg := logger.Get()
			lg.Error().Err(err).Msg("session teardown failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}
	}

	c.SetCookie(h.cookie.CookieName, "", -1, "/", "", h.cookie.Secure, true)
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}
