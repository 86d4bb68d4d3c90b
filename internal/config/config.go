package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// StorageBackend selects the site system of record.
type StorageBackend string

const (
	StorageHTTP     StorageBackend = "http"
	StoragePostgres StorageBackend = "postgres"
	StorageMemory   StorageBackend = "memory"
)

// PolicyBackend selects where the treatment policy is persisted.
type PolicyBackend string

const (
	PolicyPostgres PolicyBackend = "postgres"
	PolicyRedis    PolicyBackend = "redis"
	PolicyMemory   PolicyBackend = "memory"
)

const DefaultOSRMBaseURL = "https://router.project-osrm.org"

var (
	ErrMissingStorageURL  = errors.New("STORAGE_URL is required for the http storage backend")
	ErrMissingDatabaseURL = errors.New("DATABASE_URL is required for the postgres backends")
	ErrMissingRedisAddr   = errors.New("REDIS_ADDR is required for the redis policy backend")
	ErrUnknownBackend     = errors.New("unknown backend")
	ErrInvalidSetting     = errors.New("invalid setting")
)

// Config holds the runtime settings of the service.
type Config struct {
	Port string

	Storage    StorageBackend
	StorageURL string

	DatabaseURL string

	Policy        PolicyBackend
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	OSRMBaseURL string
	OSRMProfile string
	// Outbound routing requests per second; zero disables limiting.
	OSRMRate float64

	TickInterval    time.Duration
	MatchEpsilon    float64
	BulkConcurrency int

	// Optional YAML file overriding the built-in site catalog.
	CatalogPath string
	SeedPath    string
}

// Get returns the environment value for key, or fallback when unset or empty.
func Get(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// Load reads configuration from environment variables.
//
// Environment variables:
//   - PORT (default 8080)
//   - STORAGE_BACKEND: http, postgres or memory (default http)
//   - STORAGE_URL: base URL of the site REST service
//   - DATABASE_URL: postgres connection string
//   - POLICY_BACKEND: postgres, redis or memory (default memory)
//   - REDIS_ADDR, REDIS_PASSWORD, REDIS_DB
//   - OSRM_BASE_URL, OSRM_PROFILE (default driving), OSRM_RATE (default 1)
//   - TICK_INTERVAL (default 1s), MATCH_EPSILON (default 1e-5)
//   - BULK_CONCURRENCY (default 8)
//   - CATALOG_PATH, SEED_PATH
func Load() (Config, error) {
	var errs []error

	getInt := func(key string, fallback int) int {
		raw := Get(key, "")
		if raw == "" {
			return fallback
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			errs = append(errs, fmt.Errorf("%w: %s=%q: %v", ErrInvalidSetting, key, raw, err))
			return fallback
		}
		return v
	}
	getFloat := func(key string, fallback float64) float64 {
		raw := Get(key, "")
		if raw == "" {
			return fallback
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("%w: %s=%q: %v", ErrInvalidSetting, key, raw, err))
			return fallback
		}
		return v
	}
	getDuration := func(key string, fallback time.Duration) time.Duration {
		raw := Get(key, "")
		if raw == "" {
			return fallback
		}
		v, err := time.ParseDuration(raw)
		if err != nil {
			errs = append(errs, fmt.Errorf("%w: %s=%q: %v", ErrInvalidSetting, key, raw, err))
			return fallback
		}
		return v
	}

	cfg := Config{
		Port:            Get("PORT", "8080"),
		Storage:         StorageBackend(strings.ToLower(Get("STORAGE_BACKEND", string(StorageHTTP)))),
		StorageURL:      strings.TrimRight(Get("STORAGE_URL", ""), "/"),
		DatabaseURL:     Get("DATABASE_URL", ""),
		Policy:          PolicyBackend(strings.ToLower(Get("POLICY_BACKEND", string(PolicyMemory)))),
		RedisAddr:       Get("REDIS_ADDR", ""),
		RedisPassword:   os.Getenv("REDIS_PASSWORD"),
		RedisDB:         getInt("REDIS_DB", 0),
		OSRMBaseURL:     strings.TrimRight(Get("OSRM_BASE_URL", DefaultOSRMBaseURL), "/"),
		OSRMProfile:     Get("OSRM_PROFILE", "driving"),
		OSRMRate:        getFloat("OSRM_RATE", 1),
		TickInterval:    getDuration("TICK_INTERVAL", time.Second),
		MatchEpsilon:    getFloat("MATCH_EPSILON", 1e-5),
		BulkConcurrency: getInt("BULK_CONCURRENCY", 8),
		CatalogPath:     Get("CATALOG_PATH", ""),
		SeedPath:        Get("SEED_PATH", "data/seeds/sites.json"),
	}

	if len(errs) > 0 {
		return Config{}, errors.Join(errs...)
	}
	return cfg, nil
}

// Validate checks that the configuration is usable for the selected backends.
func (c Config) Validate() error {
	switch c.Storage {
	case StorageHTTP:
		if c.StorageURL == "" {
			return ErrMissingStorageURL
		}
	case StoragePostgres:
		if c.DatabaseURL == "" {
			return ErrMissingDatabaseURL
		}
	case StorageMemory:
	default:
		return fmt.Errorf("%w: STORAGE_BACKEND=%q", ErrUnknownBackend, c.Storage)
	}

	switch c.Policy {
	case PolicyPostgres:
		if c.DatabaseURL == "" {
			return ErrMissingDatabaseURL
		}
	case PolicyRedis:
		if c.RedisAddr == "" {
			return ErrMissingRedisAddr
		}
	case PolicyMemory:
	default:
		return fmt.Errorf("%w: POLICY_BACKEND=%q", ErrUnknownBackend, c.Policy)
	}

	if c.TickInterval <= 0 {
		return fmt.Errorf("%w: TICK_INTERVAL must be positive", ErrInvalidSetting)
	}
	if c.MatchEpsilon <= 0 {
		return fmt.Errorf("%w: MATCH_EPSILON must be positive", ErrInvalidSetting)
	}
	if c.BulkConcurrency < 1 {
		return fmt.Errorf("%w: BULK_CONCURRENCY must be at least 1", ErrInvalidSetting)
	}
	if c.OSRMRate < 0 {
		return fmt.Errorf("%w: OSRM_RATE must not be negative", ErrInvalidSetting)
	}
	return nil
}

// NeedsDatabase reports whether any backend uses postgres.
func (c Config) NeedsDatabase() bool {
	return c.Storage == StoragePostgres || c.Policy == PolicyPostgres
}
