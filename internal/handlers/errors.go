package handlers

import (
	"errors"
	"net/http"

	"project-hub/backend/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/gofrs/uuid"
	"gorm.io/gorm"

	"project-hub/backend/pkg/logger"
)

// currentUserID pulls the authenticated caller's id out of the gin
// context. RequireSession guarantees it is present on guarded routes.
func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	raw, exists := c.Get(middleware.ContextUserID)
	if !exists {
		return uuid.Nil, false
	}
	str, ok := raw.(string)
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.FromString(str)
	if err != nil {
		return uuid.Nil, false
	}
	return id, true
}

func abortUnauthenticated(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
}

// handleStoreError maps a persistence failure onto the wire taxonomy:
// a missing (or not-owned) record is 404, anything else is a 500 whose
// detail goes to the log, never to the client.
func handleStoreError(c *gin.Context, err error, notFoundMsg string) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": notFoundMsg})
		return
	}
	lg := logger.Get()
	lg.Error().
		Err(err).
		Str("method", c.Request.Method).
		Str("path", c.FullPath()).
		Msg("store operation failed")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}
