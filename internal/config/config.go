package config

import (
	"errors"
	"fmt"
	"log"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/vytor/bggcollect/internal/logger"
)

const (
	CacheSQLite = "sqlite"
	CacheMemory = "memory"
	CacheNone   = "none"
)

type Config struct {
	Addr               string
	DBPath             string
	LogLevel           string
	BGGBaseURL         string
	BGGTimeout         time.Duration
	BGGRetries         int
	BGGRetryDelay      time.Duration
	FetchConcurrency   int
	CacheBackend       string
	CacheTTL           time.Duration
	CachePurgeInterval time.Duration
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:               envOr("ADDR", ":8080"),
		DBPath:             envOr("DB_PATH", "file:bggcollect.db"),
		LogLevel:           envOr("LOG_LEVEL", "INFO"),
		BGGBaseURL:         envOr("BGG_BASE_URL", "https://boardgamegeek.com/xmlapi2"),
		BGGTimeout:         envDurationOr("BGG_TIMEOUT", 15*time.Second),
		BGGRetries:         envIntOr("BGG_RETRIES", 5),
		BGGRetryDelay:      envDurationOr("BGG_RETRY_DELAY", 2*time.Second),
		FetchConcurrency:   envIntOr("FETCH_CONCURRENCY", 2),
		CacheBackend:       strings.ToLower(envOr("CACHE_BACKEND", CacheSQLite)),
		CacheTTL:           envDurationOr("CACHE_TTL", time.Hour),
		CachePurgeInterval: envDurationOr("CACHE_PURGE_INTERVAL", 10*time.Minute),
	}
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error

	if c.Addr == "" {
		errs = append(errs, errors.New("ADDR cannot be empty"))
	}
	if c.CacheBackend == CacheSQLite && c.DBPath == "" {
		errs = append(errs, errors.New("DB_PATH cannot be empty when CACHE_BACKEND=sqlite"))
	}
	if !logger.ValidLevel(c.LogLevel) {
		errs = append(errs, fmt.Errorf("LOG_LEVEL must be one of DEBUG, INFO, WARN, ERROR, got %q", c.LogLevel))
	}
	if u, err := url.Parse(c.BGGBaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, fmt.Errorf("BGG_BASE_URL must be an absolute URL, got %q", c.BGGBaseURL))
	}
	if c.BGGTimeout <= 0 {
		errs = append(errs, fmt.Errorf("BGG_TIMEOUT must be positive, got %v", c.BGGTimeout))
	}
	if c.BGGRetries < 0 || c.BGGRetries > 20 {
		errs = append(errs, fmt.Errorf("BGG_RETRIES must be between 0 and 20, got %d", c.BGGRetries))
	}
	if c.BGGRetryDelay <= 0 {
		errs = append(errs, fmt.Errorf("BGG_RETRY_DELAY must be positive, got %v", c.BGGRetryDelay))
	}
	if c.FetchConcurrency < 1 {
		errs = append(errs, fmt.Errorf("FETCH_CONCURRENCY must be at least 1, got %d", c.FetchConcurrency))
	}
	switch c.CacheBackend {
	case CacheSQLite, CacheMemory, CacheNone:
	default:
		errs = append(errs, fmt.Errorf("CACHE_BACKEND must be one of sqlite, memory, none, got %q", c.CacheBackend))
	}
	if c.CacheTTL < 0 {
		errs = append(errs, fmt.Errorf("CACHE_TTL cannot be negative, got %v", c.CacheTTL))
	}
	if c.CacheBackend == CacheSQLite && c.CachePurgeInterval <= 0 {
		errs = append(errs, fmt.Errorf("CACHE_PURGE_INTERVAL must be positive, got %v", c.CachePurgeInterval))
	}

	return errors.Join(errs...)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}

func envDurationOr(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		log.Printf("invalid value for %s=%q, using default %v", key, v, def)
	}
	return def
}
