package config

import (
	"testing"
	"time"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	if cfg.Server.Port != ":8080" {
		t.Errorf("default port = %v, want :8080", cfg.Server.Port)
	}
	if cfg.Geo.CacheCodeLength != 6 {
		t.Errorf("default cache code length = %d, want 6", cfg.Geo.CacheCodeLength)
	}
	if cfg.Cache.Backend != "memory" {
		t.Errorf("default cache backend = %v, want memory", cfg.Cache.Backend)
	}
	if cfg.Cache.TTL != 15*time.Minute {
		t.Errorf("default cache TTL = %v, want 15m", cfg.Cache.TTL)
	}
	if cfg.API.AuthToken != "" {
		t.Error("default auth token should be empty (auth disabled)")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", ":9999")
	t.Setenv("GEO_CACHE_CODE_LENGTH", "7")
	t.Setenv("CACHE_BACKEND", "redis")
	t.Setenv("CACHE_TTL_SECONDS", "60")
	t.Setenv("API_RATE_LIMIT_PER_SEC", "12.5")

	cfg := Load()
	if cfg.Server.Port != ":9999" {
		t.Errorf("port = %v, want :9999", cfg.Server.Port)
	}
	if cfg.Geo.CacheCodeLength != 7 {
		t.Errorf("cache code length = %d, want 7", cfg.Geo.CacheCodeLength)
	}
	if cfg.Cache.Backend != "redis" {
		t.Errorf("cache backend = %v, want redis", cfg.Cache.Backend)
	}
	if cfg.Cache.TTL != time.Minute {
		t.Errorf("cache TTL = %v, want 1m", cfg.Cache.TTL)
	}
	if cfg.API.RateLimitPerSec != 12.5 {
		t.Errorf("rate limit = %v, want 12.5", cfg.API.RateLimitPerSec)
	}
}

func TestLoadIgnoresUnparseable(t *testing.T) {
	t.Setenv("GEO_CACHE_CODE_LENGTH", "not-a-number")

	cfg := Load()
	if cfg.Geo.CacheCodeLength != 6 {
		t.Errorf("cache code length = %d, want default 6", cfg.Geo.CacheCodeLength)
	}
}
