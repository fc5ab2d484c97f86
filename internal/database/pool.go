package database

import (
	"fmt"
	"time"

	"project-hub/backend/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type PoolConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	LogLevel        logger.LogLevel
}

func DefaultPoolConfig() *PoolConfig {
	return &PoolConfig{
		MaxOpenConns:    25,
		MaxIdleConns:    10,
		ConnMaxLifetime: time.Hour,
		ConnMaxIdleTime: 30 * time.Minute,
		LogLevel:        logger.Info,
	}
}

// NewDatabasePool opens a postgres-backed gorm handle with explicit
// connection-pool limits applied to the underlying sql.DB.
func NewDatabasePool(config *PoolConfig) (*gorm.DB, error) {
	if config == nil {
		config = DefaultPoolConfig()
	}
	if config.DSN == "" {
		return nil, fmt.Errorf("database: DSN is required")
	}

	db, err := gorm.Open(postgres.Open(config.DSN), &gorm.Config{
		Logger: logger.Default.LogMode(config.LogLevel),
	})
	if err != nil {
		return nil, fmt.Errorf("database: open: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("database: sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(config.MaxOpenConns)
	sqlDB.SetMaxIdleConns(config.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(config.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(config.ConnMaxIdleTime)

	return db, nil
}

// Migrate creates or updates the users, projects and tasks tables.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(&models.User{}, &models.Project{}, &models.Task{})
}
