// Package config loads application settings from the environment.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds all runtime settings. Values come from environment
// variables, typically loaded from a .env file by the entrypoint.
type Config struct {
	Addr        string        `env:"WATCHBOT_ADDR" envDefault:":8080"`
	DBPath      string        `env:"WATCHBOT_DB" envDefault:"watchbot.db"`
	PublicURL   string        `env:"WATCHBOT_PUBLIC_URL"`
	AdminToken  string        `env:"WATCHBOT_ADMIN_TOKEN"`
	LogLevel    string        `env:"WATCHBOT_LOG_LEVEL" envDefault:"info"`
	OMDBAPIKey  string        `env:"OMDB_API_KEY"`
	OMDBBaseURL string        `env:"OMDB_BASE_URL" envDefault:"https://www.omdbapi.com/"`

	// ReplyTimeout bounds every selection flow's wait for a reply.
	ReplyTimeout time.Duration `env:"WATCHBOT_REPLY_TIMEOUT" envDefault:"30s"`
	// SessionSize is how many movies a vote session samples from the pool.
	SessionSize int `env:"WATCHBOT_SESSION_SIZE" envDefault:"5"`
	// VoteCap is the maximum distinct votes per user per session.
	VoteCap int `env:"WATCHBOT_VOTE_CAP" envDefault:"3"`
}

// Load parses the environment into a Config and validates it.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks settings that have hard bounds. Session size is capped
// at 5 because vote options map onto the five number-emoji reactions.
func (c *Config) Validate() error {
	if c.SessionSize < 1 || c.SessionSize > 5 {
		return fmt.Errorf("session size must be between 1 and 5, got %d", c.SessionSize)
	}
	if c.VoteCap < 1 {
		return fmt.Errorf("vote cap must be at least 1, got %d", c.VoteCap)
	}
	if c.ReplyTimeout <= 0 {
		return fmt.Errorf("reply timeout must be positive, got %s", c.ReplyTimeout)
	}
	return nil
}
