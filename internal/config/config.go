// Package config provides application configuration.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultAPIURL points at a locally running prediction backend.
const DefaultAPIURL = "http://localhost:8000"

// Config holds all application configuration.
type Config struct {
	APIURL         string
	ListenAddr     string
	SessionPath    string
	ManifestPath   string
	ExportDir      string
	RequestTimeout time.Duration
	LogLevel       string
	ChartCacheTTL  time.Duration
}

// Load reads configuration from the environment. A .env file next to the
// binary is honored when present but never required.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		APIURL:         getEnv("API_URL", DefaultAPIURL),
		ListenAddr:     getEnv("LISTEN_ADDR", ":9876"),
		SessionPath:    getEnv("SESSION_PATH", defaultSessionPath()),
		ManifestPath:   getEnv("MANIFEST_PATH", ""),
		ExportDir:      getEnv("EXPORT_DIR", "."),
		RequestTimeout: getEnvDuration("REQUEST_TIMEOUT", 15*time.Second),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		ChartCacheTTL:  getEnvDuration("CHART_CACHE_TTL", 5*time.Minute),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate checks that required fields carry usable values.
func (c *Config) Validate() error {
	if c.APIURL == "" {
		return fmt.Errorf("API_URL must not be empty")
	}
	if !strings.HasPrefix(c.APIURL, "http://") && !strings.HasPrefix(c.APIURL, "https://") {
		return fmt.Errorf("API_URL must be an http(s) URL, got %q", c.APIURL)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT must be positive")
	}
	return nil
}

func defaultSessionPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".bidash-session.json"
	}
	return dir + "/bidash/session.json"
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback
	}
	if d, err := time.ParseDuration(value); err == nil {
		return d
	}
	if secs, err := strconv.Atoi(value); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return fallback
}
