package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.APIPort != "8080" {
		t.Errorf("APIPort = %q, want 8080", cfg.APIPort)
	}
	if cfg.AccessTokenExp != 24*time.Hour {
		t.Errorf("AccessTokenExp = %v, want 24h", cfg.AccessTokenExp)
	}
	if cfg.RefreshTokenExp != 7*24*time.Hour {
		t.Errorf("RefreshTokenExp = %v, want 168h", cfg.RefreshTokenExp)
	}
	if cfg.UsersTable != "users" {
		t.Errorf("UsersTable = %q, want users", cfg.UsersTable)
	}
	if cfg.IsProduction() {
		t.Error("default environment should not be production")
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("API_PORT", "9090")
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_EXPIRATION_HOURS", "1")
	t.Setenv("AUTH_RATE_LIMIT", "5")
	t.Setenv("MINIO_USE_SSL", "true")

	cfg := Load()

	if cfg.APIPort != "9090" {
		t.Errorf("APIPort = %q, want 9090", cfg.APIPort)
	}
	if !cfg.IsProduction() {
		t.Error("IsProduction should be true for APP_ENV=production")
	}
	if cfg.AccessTokenExp != time.Hour {
		t.Errorf("AccessTokenExp = %v, want 1h", cfg.AccessTokenExp)
	}
	if cfg.AuthRateLimit != 5 {
		t.Errorf("AuthRateLimit = %d, want 5", cfg.AuthRateLimit)
	}
	if !cfg.MinioUseSSL {
		t.Error("MinioUseSSL should be true")
	}
}

func TestLoadIgnoresMalformedInt(t *testing.T) {
	t.Setenv("JWT_EXPIRATION_HOURS", "not-a-number")

	cfg := Load()
	if cfg.AccessTokenExp != 24*time.Hour {
		t.Errorf("AccessTokenExp = %v, want the 24h default", cfg.AccessTokenExp)
	}
}
