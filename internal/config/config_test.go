package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("ENV", "")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("CORS_ALLOWED_ORIGINS", "")
	cfg := Load()
	if cfg.Port != "8080" {
		t.Fatalf("expected default port, got %s", cfg.Port)
	}
	if cfg.Env != "development" {
		t.Fatalf("expected default env, got %s", cfg.Env)
	}
	if cfg.IsProduction() {
		t.Fatal("expected non-production by default")
	}
	if cfg.SessionTokenTTL != 7*24*time.Hour {
		t.Fatalf("expected default session ttl, got %s", cfg.SessionTokenTTL)
	}
	if cfg.RateLimitPerSecond != 0 {
		t.Fatalf("expected rate limiting disabled by default, got %f", cfg.RateLimitPerSecond)
	}
	if cfg.CORSAllowedOrigins != nil {
		t.Fatalf("expected no CORS origins, got %v", cfg.CORSAllowedOrigins)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("ENV", "production")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("DATABASE_URL", "postgres://user@host/db")
	t.Setenv("JWT_SECRET", "super-secret")
	t.Setenv("SESSION_TOKEN_TTL", "24h")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://glow.example.com, https://admin.glow.example.com")
	t.Setenv("RATE_LIMIT_PER_SECOND", "25")
	cfg := Load()
	if cfg.Port != "9090" {
		t.Fatalf("expected override port, got %s", cfg.Port)
	}
	if !cfg.IsProduction() {
		t.Fatal("expected production env")
	}
	if cfg.DatabaseURL != "postgres://user@host/db" {
		t.Fatalf("expected db override, got %s", cfg.DatabaseURL)
	}
	if cfg.JWTSecret != "super-secret" {
		t.Fatalf("expected jwt secret override, got %s", cfg.JWTSecret)
	}
	if cfg.SessionTokenTTL != 24*time.Hour {
		t.Fatalf("expected session ttl override, got %s", cfg.SessionTokenTTL)
	}
	if len(cfg.CORSAllowedOrigins) != 2 || cfg.CORSAllowedOrigins[1] != "https://admin.glow.example.com" {
		t.Fatalf("expected CORS origins override, got %v", cfg.CORSAllowedOrigins)
	}
	if cfg.RateLimitPerSecond != 25 {
		t.Fatalf("expected rate limit override, got %f", cfg.RateLimitPerSecond)
	}
}
