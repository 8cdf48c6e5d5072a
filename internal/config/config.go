package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
)

// Config captures runtime configuration sourced from environment variables.
type Config struct {
	Environment      string
	HTTPPort         string
	DatabasePath     string
	LogDir           string
	JWTSecret        string
	SchedulerEnabled bool
}

// Load reads env vars and falls back to defaults so the server can boot
// with zero configuration in development. A JWT secret must be provided
// outside development.
func Load() (Config, error) {
	cfg := Config{
		Environment:      getEnv("CEDRUS_ENV", "development"),
		HTTPPort:         getEnv("CEDRUS_HTTP_PORT", "8080"),
		DatabasePath:     getEnv("CEDRUS_DB_PATH", filepath.Join("data", "cedrus.db")),
		LogDir:           getEnv("CEDRUS_LOG_DIR", filepath.Join("data", "logs")),
		JWTSecret:        os.Getenv("CEDRUS_JWT_SECRET"),
		SchedulerEnabled: getEnvBool("CEDRUS_SCHEDULER_ENABLED", true),
	}

	if cfg.JWTSecret == "" {
		if cfg.Environment != "development" {
			return Config{}, fmt.Errorf("CEDRUS_JWT_SECRET is required outside development")
		}
		cfg.JWTSecret = "cedrus-dev-secret"
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DatabasePath), 0o755); err != nil {
		return Config{}, fmt.Errorf("ensure data directory: %w", err)
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}

	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
