/*
Package configs is responsible for loading and parsing the application's configuration settings.

It configures server parameters by reading operating system environment
variables, including the running environment, port, CORS allowed origins,
database DSN, and the session reaper tuning.
*/
package configs

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// AppConfig contains all configuration parameters required for the application to run.
// All configuration values are loaded from environment variables.
type AppConfig struct {
	// General Server Settings
	Environment string
	Port        int

	// Security Settings
	AllowedOrigins []string

	// Database Settings. Empty means the in-memory store.
	DatabaseDSN string

	// Session Reaper Settings
	ReapInterval   time.Duration
	StaleThreshold time.Duration
}

// LoadConfig reads and parses the application configuration from environment variables.
// It provides default values for each configuration item and performs necessary
// type conversions and validation.
func LoadConfig() (*AppConfig, error) {
	cfg := &AppConfig{}

	// --- General Server Settings ---
	// Environment
	cfg.Environment = os.Getenv("ENVIRONMENT")
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}

	// Port
	portStr := os.Getenv("PORT")
	if portStr == "" {
		portStr = "5000"
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT environment variable: %w", err)
	}
	cfg.Port = port

	if cfg.Port < 1024 || cfg.Port > 65535 {
		return nil, fmt.Errorf("port number %d is outside the recommended range (%d-%d) to avoid privileged ports", cfg.Port, 1024, 65535)
	}

	// --- Security Settings ---
	// AllowedOrigins
	originsStr := os.Getenv("ALLOWED_ORIGINS")
	if originsStr != "" {
		origins := strings.Split(originsStr, ",")
		for _, origin := range origins {
			trimmed := strings.TrimSpace(origin)
			if trimmed != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, trimmed)
			}
		}
	} else {
		cfg.AllowedOrigins = []string{}
	}

	// --- Database Settings ---
	// Optional: an empty DATABASE_URL selects the in-memory store, which is
	// the development default. Production deployments should set a DSN.
	cfg.DatabaseDSN = os.Getenv("DATABASE_URL")

	// --- Session Reaper Settings ---
	reapInterval, err := durationFromEnv("REAP_INTERVAL", 15*time.Second)
	if err != nil {
		return nil, err
	}
	cfg.ReapInterval = reapInterval

	staleThreshold, err := durationFromEnv("STALE_THRESHOLD", 10*time.Second)
	if err != nil {
		return nil, err
	}
	cfg.StaleThreshold = staleThreshold

	return cfg, nil
}

// durationFromEnv parses the named environment variable as a time.Duration,
// falling back to def when it is unset.
func durationFromEnv(name string, def time.Duration) (time.Duration, error) {
	raw := os.Getenv(name)
	if raw == "" {
		return def, nil
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s environment variable: %w", name, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %s", name, d)
	}

	return d, nil
}
