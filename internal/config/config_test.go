package config_test

import (
	"testing"
	"time"

	"github.com/ITKKhan/HorrorWatchBot/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Addr != ":8080" {
		t.Errorf("expected default addr :8080, got %q", cfg.Addr)
	}
	if cfg.DBPath != "watchbot.db" {
		t.Errorf("expected default db path, got %q", cfg.DBPath)
	}
	if cfg.ReplyTimeout != 30*time.Second {
		t.Errorf("expected 30s reply timeout, got %s", cfg.ReplyTimeout)
	}
	if cfg.SessionSize != 5 {
		t.Errorf("expected session size 5, got %d", cfg.SessionSize)
	}
	if cfg.VoteCap != 3 {
		t.Errorf("expected vote cap 3, got %d", cfg.VoteCap)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("expected log level info, got %q", cfg.LogLevel)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("WATCHBOT_ADDR", ":9090")
	t.Setenv("WATCHBOT_REPLY_TIMEOUT", "10s")
	t.Setenv("WATCHBOT_SESSION_SIZE", "3")
	t.Setenv("OMDB_API_KEY", "abc123")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Addr != ":9090" {
		t.Errorf("expected :9090, got %q", cfg.Addr)
	}
	if cfg.ReplyTimeout != 10*time.Second {
		t.Errorf("expected 10s, got %s", cfg.ReplyTimeout)
	}
	if cfg.SessionSize != 3 {
		t.Errorf("expected 3, got %d", cfg.SessionSize)
	}
	if cfg.OMDBAPIKey != "abc123" {
		t.Errorf("expected api key, got %q", cfg.OMDBAPIKey)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		valid  bool
	}{
		{"defaults", func(*config.Config) {}, true},
		{"session size too small", func(c *config.Config) { c.SessionSize = 0 }, false},
		{"session size too large", func(c *config.Config) { c.SessionSize = 6 }, false},
		{"session size lower bound", func(c *config.Config) { c.SessionSize = 1 }, true},
		{"vote cap zero", func(c *config.Config) { c.VoteCap = 0 }, false},
		{"negative timeout", func(c *config.Config) { c.ReplyTimeout = -time.Second }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{
				SessionSize:  5,
				VoteCap:      3,
				ReplyTimeout: 30 * time.Second,
			}
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.valid && err != nil {
				t.Errorf("expected valid config, got %v", err)
			}
			if !tt.valid && err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
