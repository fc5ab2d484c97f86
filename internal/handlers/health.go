package handlers

import (
	"net/http"

	"project-hub/backend/internal/session"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type HealthHandler struct {
	db       *gorm.DB
	sessions *session.Store
}

func NewHealthHandler(db *gorm.DB, sessions *session.Store) *HealthHandler {
	return &HealthHandler{db: db, sessions: sessions}
}

func (h *HealthHandler) Health(c *gin.Context) {
	status := http.StatusOK
	checks := gin.H{"database": "ok", "redis": "ok"}

	if h.db != nil {
		if sqlDB, err := h.db.DB(); err != nil || sqlDB.Ping() != nil {
			checks["database"] = "unreachable"
			status = http.StatusServiceUnavailable
		}
	}
	if h.sessions != nil {
		if err := h.sessions.Ping(c.Request.Context()); err != nil {
			checks["redis"] = "unreachable"
			status = http.StatusServiceUnavailable
		}
	}

	c.JSON(status, checks)
}
