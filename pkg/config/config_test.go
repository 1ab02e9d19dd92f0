package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	// Check defaults
	if cfg.Port != "8090" {
		t.Errorf("Expected Port to be 8090, got %s", cfg.Port)
	}

	if cfg.Env != "development" {
		t.Errorf("Expected Env to be development, got %s", cfg.Env)
	}

	if cfg.Database.MaxConns != 10 {
		t.Errorf("Expected DB MaxConns to be 10, got %d", cfg.Database.MaxConns)
	}

	if cfg.Yahoo.CacheTTL != 24*time.Hour {
		t.Errorf("Expected Yahoo CacheTTL to be 24h, got %v", cfg.Yahoo.CacheTTL)
	}

	// Base URLs must be host roots; the client appends the API paths
	if cfg.Yahoo.ChartBaseURL != "https://query1.finance.yahoo.com" {
		t.Errorf("Expected chart base to be a host root, got %s", cfg.Yahoo.ChartBaseURL)
	}
	if cfg.Yahoo.QuoteBaseURL != "https://finance.yahoo.com" {
		t.Errorf("Expected quote base to be a host root, got %s", cfg.Yahoo.QuoteBaseURL)
	}
}

func TestLoadWithCustomValues(t *testing.T) {
	os.Setenv("PORT", "9000")
	os.Setenv("ENV", "production")
	os.Setenv("DB_MAX_CONNS", "50")
	os.Setenv("LOG_LEVEL", "warn")
	os.Setenv("YAHOO_RATE_PER_SEC", "2")

	defer func() {
		os.Unsetenv("PORT")
		os.Unsetenv("ENV")
		os.Unsetenv("DB_MAX_CONNS")
		os.Unsetenv("LOG_LEVEL")
		os.Unsetenv("YAHOO_RATE_PER_SEC")
	}()

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Port != "9000" {
		t.Errorf("Expected Port to be 9000, got %s", cfg.Port)
	}

	if cfg.Env != "production" {
		t.Errorf("Expected Env to be production, got %s", cfg.Env)
	}

	if cfg.Database.MaxConns != 50 {
		t.Errorf("Expected DB MaxConns to be 50, got %d", cfg.Database.MaxConns)
	}

	if cfg.LogLevel != "warn" {
		t.Errorf("Expected LogLevel to be warn, got %s", cfg.LogLevel)
	}

	if cfg.Yahoo.RatePerSec != 2 {
		t.Errorf("Expected Yahoo RatePerSec to be 2, got %d", cfg.Yahoo.RatePerSec)
	}
}

func TestLoadInvalidEnv(t *testing.T) {
	os.Setenv("ENV", "sandbox")
	defer os.Unsetenv("ENV")

	if _, err := Load(); err == nil {
		t.Error("Expected validation error for unknown ENV")
	}
}

func TestGetEnvAsDurationFallback(t *testing.T) {
	os.Setenv("TEST_DURATION", "not-a-duration")
	defer os.Unsetenv("TEST_DURATION")

	if got := getEnvAsDuration("TEST_DURATION", "15m"); got != 15*time.Minute {
		t.Errorf("Expected fallback 15m, got %v", got)
	}
}
