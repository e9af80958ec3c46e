package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Failure policies for a rejected pool submission
const (
	// FailureStrict skips the clipboard and notification and shows an inline error.
	FailureStrict = "strict"
	// FailureLegacy carries on with reset, clipboard write and notification.
	FailureLegacy = "legacy"
)

// Reset orderings relative to the clipboard write
const (
	ResetAfterClipboard  = "after-clipboard"
	ResetBeforeClipboard = "before-clipboard"
)

// Config holds all application configuration
type Config struct {
	Server  ServerConfig
	API     APIConfig
	Form    FormConfig
	Logging LoggingConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port        string        `env:"PORT" envDefault:"8080"`
	Host        string        `env:"HOST" envDefault:"0.0.0.0"`
	Env         string        `env:"ENV" envDefault:"development"` // "development" or "production"
	SessionTTL  time.Duration `env:"SESSION_TTL" envDefault:"2h"`
	DefaultLang string        `env:"DEFAULT_LANG" envDefault:"pt-BR"`
}

// APIConfig points at the backend that owns pools, guesses and users
type APIConfig struct {
	BaseURL string `env:"API_BASE_URL" envDefault:"http://localhost:3333"`
	// Timeout of zero leaves outbound calls unbounded.
	Timeout time.Duration `env:"API_TIMEOUT" envDefault:"0s"`
}

// FormConfig controls how the pool form reacts to submission outcomes
type FormConfig struct {
	FailurePolicy string `env:"FORM_FAILURE_POLICY" envDefault:"strict"`
	ResetOrder    string `env:"FORM_RESET_ORDER" envDefault:"after-clipboard"`
}

// LoggingConfig holds logging-related configuration
type LoggingConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"text"` // "json" or "text"
}

// Load loads configuration from environment variables with defaults
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values the application does not understand
func (c *Config) Validate() error {
	switch c.Form.FailurePolicy {
	case FailureStrict, FailureLegacy:
	default:
		return fmt.Errorf("invalid FORM_FAILURE_POLICY %q", c.Form.FailurePolicy)
	}
	switch c.Form.ResetOrder {
	case ResetAfterClipboard, ResetBeforeClipboard:
	default:
		return fmt.Errorf("invalid FORM_RESET_ORDER %q", c.Form.ResetOrder)
	}
	if c.API.BaseURL == "" {
		return fmt.Errorf("API_BASE_URL is required")
	}
	if c.API.Timeout < 0 {
		return fmt.Errorf("API_TIMEOUT must not be negative")
	}
	return nil
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// GetAddr returns the server address in host:port format
func (c *Config) GetAddr() string {
	return c.Server.Host + ":" + c.Server.Port
}
