// Package config provides application configuration management.
// Configuration is loaded from environment variables following 12-factor principles.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
)

// Config holds all application configuration.
// All fields are populated from environment variables once at startup and are
// read-only thereafter; components receive the struct by reference instead of
// reading ambient process state.
type Config struct {
	// Application settings
	AppEnv  string `env:"APP_ENV" envDefault:"development"`
	AppPort int    `env:"APP_PORT" envDefault:"8080"`

	// Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`
	DBMaxConns  int32  `env:"DB_MAX_CONNS" envDefault:"10"`
	DBMinConns  int32  `env:"DB_MIN_CONNS" envDefault:"2"`

	// Cache (Redis)
	RedisURL string `env:"REDIS_URL,required"`

	// Public base URL of the dashboard (e.g. https://app.courtside.gg)
	BaseURL string `env:"BASE_URL" envDefault:"http://localhost:8080"`

	// Session tokens
	SessionSecret string        `env:"SESSION_SECRET,required"`
	SessionTTL    time.Duration `env:"SESSION_TTL" envDefault:"24h"`

	// Admin bootstrap. Holds the SHA-256 hex digest of the admin creation
	// key; the verify-access endpoint refuses to run when empty.
	AdminCreationKeyHash string `env:"ADMIN_CREATION_KEY_HASH" envDefault:""`

	// Identity provider (the OAuth handshake happens upstream; the
	// credentials are carried here for the callback exchange and debug
	// presence checks only).
	OAuthClientID     string `env:"OAUTH_CLIENT_ID" envDefault:""`
	OAuthClientSecret string `env:"OAUTH_CLIENT_SECRET" envDefault:""`

	// Roster sync source (external spreadsheet-style base)
	RosterBaseID      string `env:"ROSTER_BASE_ID" envDefault:""`
	RosterAccessToken string `env:"ROSTER_ACCESS_TOKEN" envDefault:""`

	// Feature toggles. Kept as raw strings: a toggle is on only when the
	// variable is exactly "true", which is stricter than bool parsing.
	EnableMessaging      string `env:"ENABLE_MESSAGING" envDefault:""`
	EnableParentPortal   string `env:"ENABLE_PARENT_PORTAL" envDefault:""`
	EnableLiveScoreboard string `env:"ENABLE_LIVE_SCOREBOARD" envDefault:""`
	EnableSeasonSignup   string `env:"ENABLE_SEASON_SIGNUP" envDefault:""`

	// Logging
	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json"`

	// Server timeouts
	ReadTimeout     time.Duration `env:"READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout    time.Duration `env:"WRITE_TIMEOUT" envDefault:"10s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"30s"`

	// Rate limiting for the credential-bearing endpoints (verify-access,
	// token exchange), applied per client IP.
	RateLimitAuthEnabled bool `env:"RATE_LIMIT_AUTH_ENABLED" envDefault:"true"`
	RateLimitAuthRPS     int  `env:"RATE_LIMIT_AUTH_RPS" envDefault:"5"`
	RateLimitAuthBurst   int  `env:"RATE_LIMIT_AUTH_BURST" envDefault:"10"`

	// CORS configuration
	// Comma-separated list of allowed origins (e.g. "https://app.courtside.gg")
	CORSAllowedOrigins string `env:"CORS_ALLOWED_ORIGINS" envDefault:""`

	// Request body size limit in bytes (default 1MB)
	MaxRequestBodySize int64 `env:"MAX_REQUEST_BODY_SIZE" envDefault:"1048576"`
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// GetCORSAllowedOrigins parses the comma-separated origins string into a slice.
func (c *Config) GetCORSAllowedOrigins() []string {
	if c.CORSAllowedOrigins == "" {
		return nil
	}

	origins := strings.Split(c.CORSAllowedOrigins, ",")
	result := make([]string, 0, len(origins))

	for _, origin := range origins {
		trimmed := strings.TrimSpace(origin)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}

// Load parses environment variables and returns a Config.
// Returns an error if required variables are missing.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	return cfg, nil
}
