package config

import (
	"os"
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("Expected default port 8080, got %s", cfg.Server.Port)
	}
	if cfg.Database.Name != "project_hub" {
		t.Errorf("Expected default db name project_hub, got %s", cfg.Database.Name)
	}
	if cfg.Session.CookieName != "phub_session" {
		t.Errorf("Expected default cookie name phub_session, got %s", cfg.Session.CookieName)
	}
	if cfg.Session.TTL != 24*time.Hour {
		t.Errorf("Expected default session TTL 24h, got %v", cfg.Session.TTL)
	}
	if cfg.Auth.BCryptCost != 10 {
		t.Errorf("Expected default bcrypt cost 10, got %d", cfg.Auth.BCryptCost)
	}
}

func TestLoadConfigEnvOverrides(t *testing.T) {
	os.Setenv("PORT", "9090")
	os.Setenv("SESSION_TTL", "1h")
	os.Setenv("DB_MAX_OPEN_CONNS", "50")
	defer func() {
		os.Unsetenv("PORT")
		os.Unsetenv("SESSION_TTL")
		os.Unsetenv("DB_MAX_OPEN_CONNS")
	}()

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.Server.Port != "9090" {
		t.Errorf("Expected port 9090, got %s", cfg.Server.Port)
	}
	if cfg.Session.TTL != time.Hour {
		t.Errorf("Expected session TTL 1h, got %v", cfg.Session.TTL)
	}
	if cfg.Database.MaxOpenConns != 50 {
		t.Errorf("Expected 50 max open conns, got %d", cfg.Database.MaxOpenConns)
	}
}

func TestLoadConfigProductionGuards(t *testing.T) {
	os.Setenv("ENVIRONMENT", "production")
	defer os.Unsetenv("ENVIRONMENT")

	if _, err := LoadConfig(); err == nil {
		t.Error("Expected error for production without db password")
	}

	os.Setenv("DB_PASSWORD", "secret")
	defer os.Unsetenv("DB_PASSWORD")

	if _, err := LoadConfig(); err == nil {
		t.Error("Expected error for production with insecure session cookies")
	}

	os.Setenv("SESSION_COOKIE_SECURE", "true")
	defer os.Unsetenv("SESSION_COOKIE_SECURE")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if !cfg.IsProduction() {
		t.Error("Expected IsProduction to be true")
	}
}

func TestGetDatabaseDSN(t *testing.T) {
	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	dsn := cfg.GetDatabaseDSN()
	expected := "host=localhost port=5432 user=postgres password= dbname=project_hub sslmode=disable"
	if dsn != expected {
		t.Errorf("Expected DSN %q, got %q", expected, dsn)
	}
}
