package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("API_URL", "")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIURL != DefaultAPIURL {
		t.Fatalf("expected default API URL, got %s", cfg.APIURL)
	}
	if cfg.RequestTimeout != 15*time.Second {
		t.Fatalf("expected default timeout, got %s", cfg.RequestTimeout)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("API_URL", "https://predict.example.com")
	t.Setenv("REQUEST_TIMEOUT", "30s")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.APIURL != "https://predict.example.com" {
		t.Fatalf("expected override, got %s", cfg.APIURL)
	}
	if cfg.RequestTimeout != 30*time.Second {
		t.Fatalf("expected 30s timeout, got %s", cfg.RequestTimeout)
	}
}

func TestValidateRejectsBadURL(t *testing.T) {
	cfg := &Config{APIURL: "not-a-url", RequestTimeout: time.Second}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error for bad URL")
	}
}

func TestGetEnvDurationSeconds(t *testing.T) {
	t.Setenv("REQUEST_TIMEOUT", "45")
	if got := getEnvDuration("REQUEST_TIMEOUT", time.Second); got != 45*time.Second {
		t.Fatalf("expected 45s, got %s", got)
	}
}
