// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/caarlos0/env/v11"
)

// knownWeakSecrets contains default/example secrets that must be rejected.
var knownWeakSecrets = []string{
	"change-me-to-32-byte-secret-key!",
	"REPLACE_WITH_YOUR_OWN_SECRET_KEY!",
}

// Config holds the application configuration loaded from environment variables.
type Config struct {
	APIBaseURL    string `env:"EVENTFLOW_API_URL" envDefault:"http://localhost:3001"`
	SessionSecret string `env:"EVENTFLOW_SESSION_SECRET,required"`
	SessionDBPath string `env:"EVENTFLOW_SESSION_DB_PATH" envDefault:"./data/sessions.db"`
	ServerHost    string `env:"EVENTFLOW_SERVER_HOST" envDefault:"localhost"`
	ServerPort    int    `env:"EVENTFLOW_SERVER_PORT" envDefault:"8080"`
	Env           string `env:"EVENTFLOW_ENV" envDefault:"development"`
	LogLevel      string `env:"EVENTFLOW_LOG_LEVEL" envDefault:"info"`

	// APITimeout is the per-request timeout for backend calls, in seconds.
	APITimeout int `env:"EVENTFLOW_API_TIMEOUT" envDefault:"15"`

	// RedisURL switches session storage from SQLite to Redis when set,
	// for multi-instance deployments behind a load balancer.
	RedisURL string `env:"EVENTFLOW_REDIS_URL"`
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisSessions returns true if Redis session storage is configured.
func (c Config) UseRedisSessions() bool {
	return c.RedisURL != ""
}

// MinSessionSecretLength is the minimum required length for the session secret.
const MinSessionSecretLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if len(cfg.SessionSecret) < MinSessionSecretLength {
		return nil, fmt.Errorf("EVENTFLOW_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(cfg.SessionSecret))
	}

	for _, weak := range knownWeakSecrets {
		if cfg.SessionSecret == weak {
			return nil, fmt.Errorf("EVENTFLOW_SESSION_SECRET is a known default value and must not be used; " +
				"generate a secure secret with: openssl rand -base64 32")
		}
	}

	if !hasMinimumEntropy(cfg.SessionSecret) {
		slog.Warn("EVENTFLOW_SESSION_SECRET has low character diversity; " +
			"consider generating a random secret with: openssl rand -base64 32")
	}

	if !strings.HasPrefix(cfg.APIBaseURL, "http://") && !strings.HasPrefix(cfg.APIBaseURL, "https://") {
		return nil, fmt.Errorf("EVENTFLOW_API_URL must be an http(s) URL, got %q", cfg.APIBaseURL)
	}
	cfg.APIBaseURL = strings.TrimRight(cfg.APIBaseURL, "/")

	if cfg.APITimeout <= 0 {
		return nil, fmt.Errorf("EVENTFLOW_API_TIMEOUT must be positive, got %d", cfg.APITimeout)
	}

	return cfg, nil
}

// hasMinimumEntropy checks that a secret contains at least 3 character classes
// (lowercase, uppercase, digits, special characters).
func hasMinimumEntropy(s string) bool {
	charTypes := 0
	if strings.ContainsAny(s, "abcdefghijklmnopqrstuvwxyz") {
		charTypes++
	}
	if strings.ContainsAny(s, "ABCDEFGHIJKLMNOPQRSTUVWXYZ") {
		charTypes++
	}
	if strings.ContainsAny(s, "0123456789") {
		charTypes++
	}
	if strings.ContainsAny(s, "!@#$%^&*()-_=+[]{}|;:,.<>?/~`'\"\\") {
		charTypes++
	}
	return charTypes >= 3
}
