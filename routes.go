package main

import (
	"project-hub/backend/internal/config"
	"project-hub/backend/internal/handlers"
	"project-hub/backend/internal/middleware"
	"project-hub/backend/internal/session"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// NewRouter registers every route. Session-guarded resources live under
// /api behind RequireSession; register/login/logout stay public.
func NewRouter(
	cfg *config.Config,
	sessions *session.Store,
	registerHandler *handlers.RegisterHandler,
	authHandler *handlers.AuthHandler,
	projectHandler *handlers.ProjectHandler,
	taskHandler *handlers.TaskHandler,
	healthHandler *handlers.HealthHandler,
) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowCredentials = false
	if cfg.IsProduction() {
		corsConfig.AllowAllOrigins = false
		corsConfig.AllowOrigins = []string{"https://" + cfg.Server.Host}
		corsConfig.AllowCredentials = true
	}
	router.Use(cors.New(corsConfig))

	if cfg.RateLimit.Enabled {
		router.Use(middleware.RateLimit(cfg.RateLimit.RequestsPerMin, cfg.RateLimit.BurstSize))
	}

	router.GET("/healthz", healthHandler.Health)

	api := router.Group("/api")
	{
		api.POST("/register", registerHandler.Register)
		api.POST("/login", authHandler.Login)
		api.POST("/logout", authHandler.Logout)
	}

	guarded := api.Group("")
	guarded.Use(middleware.RequireSession(sessions, cfg.Session.CookieName))
	{
		guarded.GET("/projects", projectHandler.ListProjects)
		guarded.GET("/projects/:id", projectHandler.GetProject)
		guarded.POST("/projects", projectHandler.CreateProject)
		guarded.PUT("/projects/:id", projectHandler.UpdateProject)
		guarded.DELETE("/projects/:id", projectHandler.DeleteProject)

		guarded.GET("/tasks", taskHandler.ListTasks)
		guarded.GET("/tasks/:id", taskHandler.GetTask)
		guarded.POST("/tasks", taskHandler.CreateTask)
		guarded.PUT("/tasks/:id", taskHandler.UpdateTask)
		guarded.DELETE("/tasks/:id", taskHandler.DeleteTask)
	}

	return router
}
