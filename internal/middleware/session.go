package middleware

import (
	"errors"
	"net/http"

	"project-hub/backend/internal/session"

	"github.com/gin-gonic/gin"
)

// Context keys set by RequireSession for downstream handlers.
const (
	ContextUserID   = "user_id"
	ContextUsername = "username"
	ContextEmail    = "email"
)

// RequireSession gates a route group on an active session. The cookie
// token is resolved against the store; on success the caller's identity
// is injected into the gin context and the session TTL is refreshed.
// Every failure mode is the same 401 so clients learn nothing about
// which part of the check failed.
func RequireSession(store *session.Store, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(cookieName)
		if err != nil || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"error": "authentication required",
			})
			return
		}

		identity, err := store.Get(c.Request.Context(), token)
		if err != nil {
			status := http.StatusUnauthorized
			if !errors.Is(err, session.ErrNotFound) {
				status = http.StatusInternalServerError
			}
			c.AbortWithStatusJSON(status, gin.H{
				"error": "authentication required",
			})
			return
		}

		_ = store.Touch(c.Request.Context(), token)

		c.Set(ContextUserID, identity.ID.String())
		c.Set(ContextUsername, identity.Username)
		c.Set(ContextEmail, identity.Email)

		c.Next()
	}
}
