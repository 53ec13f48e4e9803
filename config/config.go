// Package config provides configuration management for the application.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"goregion/internal/cache"
	"goregion/internal/race"
	"goregion/internal/sources"
)

// CacheBackend selects the durable cache implementation.
type CacheBackend string

const (
	BackendFile   CacheBackend = "file"
	BackendSQLite CacheBackend = "sqlite"
	BackendRedis  CacheBackend = "redis"
)

// Config holds the application configuration.
type Config struct {
	// Port is the HTTP listen port.
	Port string

	// MasterKey guards the mutating admin routes. Empty leaves them open.
	MasterKey string

	// MetricsEnabled exposes Prometheus metrics on /metrics.
	MetricsEnabled bool

	// CacheBackend is one of file, sqlite or redis.
	CacheBackend CacheBackend
	// CachePath is the file or sqlite database path.
	CachePath string
	// RedisURL is the redis connection URL for the redis backend.
	RedisURL string
	// CacheTTL is how long a cached lookup stays fresh.
	CacheTTL time.Duration

	// RaceDeadline bounds one whole resolution race.
	RaceDeadline time.Duration

	// MirrorBaseURL overrides the primary mirror endpoint at startup. A
	// persisted administrator override, if any, takes precedence.
	MirrorBaseURL string
	// CanonicalBaseURL overrides the canonical government endpoint shared
	// by the direct source and the relays.
	CanonicalBaseURL string
	// ProxyBaseURL and ProxyToken configure the authenticated proxy
	// source. The source is only registered when both are set.
	ProxyBaseURL string
	ProxyToken   string
	// RelayPrefixes are the relay URL prefixes, comma-separated in the
	// environment. Empty keeps the built-in defaults.
	RelayPrefixes []string
}

// Load reads configuration from a .env file (optional) and the environment.
func Load() (*Config, error) {
	_ = godotenv.Load() // .env is optional

	cfg := &Config{
		Port:             getEnv("GOREGION_PORT", "8080"),
		MasterKey:        os.Getenv("GOREGION_MASTER_KEY"),
		MetricsEnabled:   getEnvBool("GOREGION_METRICS_ENABLED", true),
		CacheBackend:     CacheBackend(getEnv("GOREGION_CACHE_BACKEND", string(BackendFile))),
		CachePath:        getEnv("GOREGION_CACHE_PATH", "regions-cache.json"),
		RedisURL:         os.Getenv("GOREGION_REDIS_URL"),
		CacheTTL:         getEnvDuration("GOREGION_CACHE_TTL", cache.DefaultTTL),
		RaceDeadline:     getEnvDuration("GOREGION_RACE_DEADLINE", race.DefaultDeadline),
		MirrorBaseURL:    os.Getenv("GOREGION_MIRROR_BASE_URL"),
		CanonicalBaseURL: getEnv("GOREGION_CANONICAL_BASE_URL", sources.DefaultCanonicalBaseURL),
		ProxyBaseURL:     os.Getenv("GOREGION_PROXY_BASE_URL"),
		ProxyToken:       os.Getenv("GOREGION_PROXY_TOKEN"),
		RelayPrefixes:    getEnvList("GOREGION_RELAY_PREFIXES"),
	}

	switch cfg.CacheBackend {
	case BackendFile, BackendSQLite, BackendRedis:
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.CacheBackend)
	}
	if cfg.CacheBackend == BackendRedis && cfg.RedisURL == "" {
		return nil, fmt.Errorf("GOREGION_REDIS_URL is required for the redis cache backend")
	}

	return cfg, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	b, err := strconv.ParseBool(val)
	if err != nil {
		return defaultVal
	}
	return b
}

// getEnvDuration reads a duration from an environment variable, returning the
// default if not set or invalid. Accepts either plain integers (interpreted
// as seconds) or Go duration strings (e.g., "10m", "1h30m").
func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	if secs, err := strconv.Atoi(val); err == nil {
		return time.Duration(secs) * time.Second
	}
	if d, err := time.ParseDuration(val); err == nil {
		return d
	}
	return defaultVal
}

func getEnvList(key string) []string {
	val := os.Getenv(key)
	if val == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
