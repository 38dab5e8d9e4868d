// Package config reads the chatsim runtime configuration from CHATSIM_*
// environment variables. Command line flags override the parsed values.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the process wide configuration shared by every command.
type Config struct {
	// MapsAPIKey signs the static map URL posted by GetLocation buttons.
	MapsAPIKey string `env:"CHATSIM_MAPS_API_KEY"`

	// RedisAddr switches session storage and locking to Redis when set.
	RedisAddr     string `env:"CHATSIM_REDIS_ADDR"`
	RedisPassword string `env:"CHATSIM_REDIS_PASSWORD"`
	RedisDB       int    `env:"CHATSIM_REDIS_DB" envDefault:"0"`

	// SessionDir stores sessions as JSON files when RedisAddr is empty.
	SessionDir string `env:"CHATSIM_SESSION_DIR"`

	LogLevel string `env:"CHATSIM_LOG_LEVEL" envDefault:"info"`

	FetchTimeout time.Duration `env:"CHATSIM_FETCH_TIMEOUT" envDefault:"15s"`

	// Simulated device location.
	Latitude  float64 `env:"CHATSIM_LATITUDE"`
	Longitude float64 `env:"CHATSIM_LONGITUDE"`

	// OTP fixes the passcode printed by PrintOTP sections. Empty generates one.
	OTP string `env:"CHATSIM_OTP"`

	// EncryptionKey is a base64 AES key. Sessions are encrypted at rest when set.
	EncryptionKey string `env:"CHATSIM_ENCRYPTION_KEY"`
	// PIIPatterns lists variable name patterns masked before storage.
	PIIPatterns []string `env:"CHATSIM_PII_PATTERNS" envSeparator:","`

	Timezone  string `env:"CHATSIM_TIMEZONE"`
	EntryNode string `env:"CHATSIM_ENTRY_NODE"`
	HTTPAddr  string `env:"CHATSIM_HTTP_ADDR" envDefault:":8080"`
}

// Load parses the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if cfg.FetchTimeout <= 0 {
		return Config{}, fmt.Errorf("CHATSIM_FETCH_TIMEOUT must be positive, got %s", cfg.FetchTimeout)
	}
	return cfg, nil
}

// Location resolves Timezone, defaulting to the local zone.
func (c Config) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}
