// Package config loads and validates application configuration from
// environment variables. A .env file in the working directory is read first
// (godotenv), so local development doesn't need exported variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration values for the API server.
// Values are populated by Load from environment variables.
type Config struct {
	// Port is the TCP port the HTTP server listens on. Defaults to "8080".
	Port string

	// DatabaseURL is the Postgres connection string. Required.
	DatabaseURL string

	// LogLevel controls the minimum log level. Defaults to "info".
	// Valid values: debug, info, warn, error.
	LogLevel string

	// CORSOrigins is the list of allowed cross-origin request origins.
	// Defaults to ["http://localhost:5173"] (Vite dev server).
	// Set CORS_ORIGINS to a comma-separated list to override.
	CORSOrigins []string

	// ReportingTZ is the IANA name of the fixed reporting timezone all
	// periods and day buckets are anchored to. Defaults to
	// "Asia/Ulaanbaatar" — never the machine's local zone, so the numbers
	// don't shift when the server moves hosts.
	ReportingTZ string

	// RedisAddr is the host:port of the statistics cache. Empty (the
	// default) disables caching entirely.
	RedisAddr string

	// StatsCacheTTL is how long cached statistics responses live.
	// Defaults to 30 seconds, which comfortably covers dashboard polling.
	StatsCacheTTL time.Duration

	// RollupSchedule is the cron expression for the visitor-stats
	// reconciliation job. Empty disables the job.
	// Default: "0 3 * * *" (daily at 03:00 server time).
	RollupSchedule string

	// RollupLookbackDays is how many trailing days each rollup run rebuilds.
	RollupLookbackDays int
}

// Load reads configuration from environment variables and returns a Config.
// Returns an error listing any required variables that are not set.
func Load() (Config, error) {
	// Missing .env is the normal case outside local dev.
	_ = godotenv.Load()

	cfg := Config{
		Port:           getEnv("PORT", "8080"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		CORSOrigins:    splitCSV(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		ReportingTZ:    getEnv("REPORTING_TZ", "Asia/Ulaanbaatar"),
		RedisAddr:      os.Getenv("REDIS_ADDR"),
		RollupSchedule: getEnv("ROLLUP_SCHEDULE", "0 3 * * *"),
	}

	var missing []string

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		missing = append(missing, "DATABASE_URL")
	}

	ttl, err := strconv.Atoi(getEnv("STATS_CACHE_TTL_SECONDS", "30"))
	if err != nil || ttl < 1 {
		ttl = 30
	}
	cfg.StatsCacheTTL = time.Duration(ttl) * time.Second

	lookback, err := strconv.Atoi(getEnv("ROLLUP_LOOKBACK_DAYS", "7"))
	if err != nil || lookback < 1 {
		lookback = 7
	}
	cfg.RollupLookbackDays = lookback

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables not set: %s", strings.Join(missing, ", "))
	}

	return cfg, nil
}

// Location resolves the reporting timezone. An unknown name is a
// configuration error, not a silent fallback.
func (c Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.ReportingTZ)
	if err != nil {
		return nil, fmt.Errorf("config: invalid REPORTING_TZ %q: %w", c.ReportingTZ, err)
	}
	return loc, nil
}

// getEnv returns the value of the environment variable named by key,
// or fallback if the variable is not set or is empty.
func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// splitCSV splits a comma-separated string into a trimmed slice, ignoring empty entries.
func splitCSV(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}
