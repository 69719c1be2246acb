package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Store drivers
const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
)

// Cache drivers
const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
)

// Trigger transports. Exactly one trigger source runs per deployment.
const (
	TriggerLocal = "local"
	TriggerNATS  = "nats"
)

// AppConfig holds runtime settings, all injectable through the environment
type AppConfig struct {
	HTTPAddr string
	LogLevel string

	StoreDriver string
	DBPath      string

	CacheDriver string
	RedisAddr   string
	RedisDB     int

	TriggerTransport string
	NATSURL          string
	NATSQueue        string

	// SchedulerEnabled controls whether this process produces triggers.
	// Workers consuming from NATS still handle them when it is off.
	SchedulerEnabled bool
	SweepInterval    time.Duration
	SnapshotGrace    time.Duration
	CacheRepopulate  bool

	SeedDemo        bool
	ShutdownTimeout time.Duration
}

// Load reads and validates configuration, falling back to defaults
func Load() (AppConfig, error) {
	cfg := AppConfig{
		HTTPAddr:         getEnv("HTTP_ADDR", portAddr()),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		StoreDriver:      strings.ToLower(getEnv("STORE_DRIVER", StoreMemory)),
		DBPath:           getEnv("DB_PATH", "live_auction.db"),
		CacheDriver:      strings.ToLower(getEnv("CACHE_DRIVER", CacheMemory)),
		RedisAddr:        getEnv("REDIS_ADDR", "localhost:6379"),
		TriggerTransport: strings.ToLower(getEnv("TRIGGER_TRANSPORT", TriggerLocal)),
		NATSURL:          getEnv("NATS_URL", "nats://localhost:4222"),
		NATSQueue:        getEnv("NATS_QUEUE", "auction-sweepers"),
	}

	var err error
	if cfg.RedisDB, err = getEnvInt("REDIS_DB", 0); err != nil {
		return AppConfig{}, fmt.Errorf("invalid REDIS_DB: %w", err)
	}
	if cfg.SchedulerEnabled, err = getEnvBool("SCHEDULER_ENABLED", true); err != nil {
		return AppConfig{}, fmt.Errorf("invalid SCHEDULER_ENABLED: %w", err)
	}
	if cfg.CacheRepopulate, err = getEnvBool("CACHE_REPOPULATE", true); err != nil {
		return AppConfig{}, fmt.Errorf("invalid CACHE_REPOPULATE: %w", err)
	}
	if cfg.SeedDemo, err = getEnvBool("SEED_DEMO", false); err != nil {
		return AppConfig{}, fmt.Errorf("invalid SEED_DEMO: %w", err)
	}
	if cfg.SweepInterval, err = getEnvDuration("SWEEP_INTERVAL", time.Second); err != nil {
		return AppConfig{}, fmt.Errorf("invalid SWEEP_INTERVAL: %w", err)
	}
	if cfg.SnapshotGrace, err = getEnvDuration("SNAPSHOT_GRACE", 5*time.Minute); err != nil {
		return AppConfig{}, fmt.Errorf("invalid SNAPSHOT_GRACE: %w", err)
	}
	if cfg.ShutdownTimeout, err = getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second); err != nil {
		return AppConfig{}, fmt.Errorf("invalid SHUTDOWN_TIMEOUT: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return AppConfig{}, err
	}
	return cfg, nil
}

func (c AppConfig) validate() error {
	switch c.StoreDriver {
	case StoreMemory:
	case StoreSQLite:
		if c.DBPath == "" {
			return fmt.Errorf("DB_PATH must not be empty for the sqlite store")
		}
	default:
		return fmt.Errorf("STORE_DRIVER must be %q or %q, got %q", StoreMemory, StoreSQLite, c.StoreDriver)
	}

	switch c.CacheDriver {
	case CacheMemory, CacheRedis:
	default:
		return fmt.Errorf("CACHE_DRIVER must be %q or %q, got %q", CacheMemory, CacheRedis, c.CacheDriver)
	}

	switch c.TriggerTransport {
	case TriggerLocal:
	case TriggerNATS:
		if c.NATSURL == "" {
			return fmt.Errorf("NATS_URL must not be empty for the nats transport")
		}
	default:
		return fmt.Errorf("TRIGGER_TRANSPORT must be %q or %q, got %q", TriggerLocal, TriggerNATS, c.TriggerTransport)
	}

	if c.SweepInterval <= 0 {
		return fmt.Errorf("SWEEP_INTERVAL must be > 0")
	}
	if c.SnapshotGrace <= 0 {
		return fmt.Errorf("SNAPSHOT_GRACE must be > 0")
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be > 0")
	}
	return nil
}

// portAddr keeps the PORT variable working as a shorthand for HTTP_ADDR
func portAddr() string {
	if p := strings.TrimSpace(os.Getenv("PORT")); p != "" {
		return ":" + p
	}
	return ":8080"
}

func getEnv(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

func getEnvInt(key string, fallback int) (int, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	return strconv.Atoi(v)
}

func getEnvBool(key string, fallback bool) (bool, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	return strconv.ParseBool(v)
}

// getEnvDuration accepts Go durations ("1500ms", "2s")
func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback, nil
	}
	return time.ParseDuration(v)
}
