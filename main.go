package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"project-hub/backend/internal/config"
	"project-hub/backend/internal/database"
	"project-hub/backend/internal/handlers"
	"project-hub/backend/internal/services"
	"project-hub/backend/internal/session"
	"project-hub/backend/internal/worker"
	"project-hub/backend/pkg/logger"

	gormlogger "gorm.io/gorm/logger"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Init(logger.Options{})
		lg := logger.Get()
		lg.Fatal().Err(err).Msg("invalid configuration")
	}

	log := logger.Init(logger.Options{
		Level:  cfg.Server.LogLevel,
		Pretty: !cfg.IsProduction(),
	})

	gormLevel := gormlogger.Warn
	if cfg.IsProduction() {
		gormLevel = gormlogger.Error
	}
	db, err := database.NewDatabasePool(&database.PoolConfig{
		DSN:             cfg.GetDatabaseDSN(),
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
		ConnMaxIdleTime: cfg.Database.ConnMaxIdleTime,
		LogLevel:        gormLevel,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("database connection failed")
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("database migration failed")
	}

	redisClient := session.NewRedisClient(session.ClientConfig{
		Addr:         cfg.GetRedisAddr(),
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})
	sessions := session.NewStore(redisClient, cfg.Session.TTL)

	reminderQueue := worker.NewQueue(redisClient, cfg.Worker.Queue)
	reminderWorker := worker.NewWorker(reminderQueue, log, cfg.Worker.PollInterval)
	reminderWorker.Start(cfg.Worker.Concurrency)
	defer reminderWorker.Stop()

	registerHandler := handlers.NewRegisterHandler(db, services.NewRegisterService(cfg.Auth.BCryptCost))
	authHandler := handlers.NewAuthHandler(db, services.NewAuthService(), sessions, cfg.Session)
	projectHandler := handlers.NewProjectHandler(db, services.NewProjectService())
	taskHandler := handlers.NewTaskHandler(db, services.NewTaskService(), reminderQueue)
	healthHandler := handlers.NewHealthHandler(db, sessions)

	router := NewRouter(cfg, sessions, registerHandler, authHandler, projectHandler, taskHandler, healthHandler)

	srv := &http.Server{
		Addr:         cfg.GetServerAddr(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
	}
}
