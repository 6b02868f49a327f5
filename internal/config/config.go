// Package config centralizes application configuration into typed structs.
// Defaults are code-level; a .env file (loaded via godotenv) and process
// environment variables override them.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config is the top-level configuration container.
type Config struct {
	Server ServerConfig
	Geo    GeoConfig
	Cache  CacheConfig
	Redis  RedisConfig
	API    APIConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// GeoConfig controls the geohash length used for cache cells. Length 6 is
// ~1.2 km cells; higher lengths mean smaller cells and more of them per
// region covering.
type GeoConfig struct {
	CacheCodeLength int
}

// CacheConfig selects the cache store backend and the redis entry TTL
// (ignored by the memory backend, which holds items until dropped).
type CacheConfig struct {
	Backend string // "memory" or "redis"
	TTL     time.Duration
}

// RedisConfig holds connection settings for the redis cache store.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// APIConfig holds auth and rate-limit settings for the HTTP layer. An empty
// AuthToken disables auth.
type APIConfig struct {
	AuthToken       string
	RateLimitPerSec float64
	RateLimitBurst  int
}

// NewDefaultConfig returns a Config populated with sensible defaults.
func NewDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         ":8080",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		Geo: GeoConfig{
			CacheCodeLength: 6,
		},
		Cache: CacheConfig{
			Backend: "memory",
			TTL:     15 * time.Minute,
		},
		Redis: RedisConfig{
			Addr: "127.0.0.1:6379",
		},
		API: APIConfig{
			RateLimitPerSec: 50,
			RateLimitBurst:  100,
		},
	}
}

// Load builds the config from defaults, a .env file if present, and the
// process environment. Unparseable values fall back to the default silently.
func Load() *Config {
	_ = godotenv.Load()

	cfg := NewDefaultConfig()
	if v := os.Getenv("SERVER_PORT"); v != "" {
		cfg.Server.Port = v
	}
	if n, ok := envInt("GEO_CACHE_CODE_LENGTH"); ok {
		cfg.Geo.CacheCodeLength = n
	}
	if v := os.Getenv("CACHE_BACKEND"); v != "" {
		cfg.Cache.Backend = v
	}
	if n, ok := envInt("CACHE_TTL_SECONDS"); ok {
		cfg.Cache.TTL = time.Duration(n) * time.Second
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if n, ok := envInt("REDIS_DB"); ok {
		cfg.Redis.DB = n
	}
	if v := os.Getenv("API_AUTH_TOKEN"); v != "" {
		cfg.API.AuthToken = v
	}
	if f, ok := envFloat("API_RATE_LIMIT_PER_SEC"); ok {
		cfg.API.RateLimitPerSec = f
	}
	if n, ok := envInt("API_RATE_LIMIT_BURST"); ok {
		cfg.API.RateLimitBurst = n
	}
	return cfg
}

func envInt(key string) (int, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

func envFloat(key string) (float64, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
