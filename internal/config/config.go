package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Storage modes. Cloud keeps the canonical records in Postgres and mirrors
// them into memory through a watch subscription; local keeps them in memory
// and snapshots to an on-disk SQLite blob after every change.
const (
	ModeCloud = "cloud"
	ModeLocal = "local"
)

type Config struct {
	HTTPPort          string
	StorageMode       string
	PostgresDSN       string
	LocalDBPath       string
	GeminiAPIKey      string
	GeminiModel       string
	WatchPollInterval time.Duration
}

// Load reads the configuration from environment variables. GEMINI_API_KEY is
// deliberately optional: a missing key disables the analysis feature instead
// of preventing the tracker from starting.
func Load() (*Config, error) {
	cfg := &Config{
		HTTPPort:          getEnv("HTTP_PORT", "8080"),
		StorageMode:       getEnv("STORAGE_MODE", ModeLocal),
		PostgresDSN:       getEnv("DATABASE_URL", ""),
		LocalDBPath:       getEnv("LOCAL_DB_PATH", "jobtracker.sqlite"),
		GeminiAPIKey:      getEnv("GEMINI_API_KEY", ""),
		GeminiModel:       getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		WatchPollInterval: getDuration("WATCH_POLL_INTERVAL", time.Minute),
	}

	switch cfg.StorageMode {
	case ModeCloud:
		if cfg.PostgresDSN == "" {
			return nil, fmt.Errorf("DATABASE_URL is required when STORAGE_MODE=%s", ModeCloud)
		}
	case ModeLocal:
	default:
		return nil, fmt.Errorf("unknown STORAGE_MODE %q", cfg.StorageMode)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
		if secs, err := strconv.Atoi(v); err == nil {
			return time.Duration(secs) * time.Second
		}
	}
	return fallback
}
