package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

// Environment represents different deployment environments
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvTesting     Environment = "testing"
	EnvProduction  Environment = "production"
)

// Config holds the configuration for the telemetry service.
// Environment variables are parsed from the TASKFLOW_ prefix, e.g.
// TASKFLOW_HTTP_PORT, TASKFLOW_SQLITE_PATH.
type Config struct {
	Environment Environment `envconfig:"ENVIRONMENT" default:"development"`

	// HTTP Configuration
	HTTPPort int `envconfig:"HTTP_PORT" default:"8080"`

	// Event store
	SQLitePath string `envconfig:"SQLITE_PATH" default:"./data/telemetry.db"`

	// TaskFlow CRUD API feeding the aggregation snapshot
	TaskAPIURL   string `envconfig:"TASK_API_URL" default:"http://localhost:8000"`
	TaskAPIToken string `envconfig:"TASK_API_TOKEN" default:""`

	// Ingest limits
	MaxBatchSize int `envconfig:"MAX_BATCH_SIZE" default:"500"`
}

// Validate checks bounds that envconfig cannot express.
func (c *Config) Validate() error {
	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP_PORT: %d", c.HTTPPort)
	}
	if c.MaxBatchSize <= 0 {
		return fmt.Errorf("invalid MAX_BATCH_SIZE: %d", c.MaxBatchSize)
	}
	if c.TaskAPIURL == "" {
		return fmt.Errorf("TASK_API_URL must be set")
	}
	return nil
}

// New creates a new Config by parsing environment variables.
func New() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("TASKFLOW", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment variables: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log.Info().
		Str("environment", string(cfg.Environment)).
		Int("port", cfg.HTTPPort).
		Str("sqlite_path", cfg.SQLitePath).
		Str("task_api_url", cfg.TaskAPIURL).
		Bool("task_api_token_present", cfg.TaskAPIToken != "").
		Int("max_batch_size", cfg.MaxBatchSize).
		Msg("Configuration loaded")

	return &cfg, nil
}

// NewForTesting creates a config specifically for testing.
func NewForTesting() *Config {
	return &Config{
		Environment:  EnvTesting,
		HTTPPort:     8080,
		SQLitePath:   ":memory:",
		TaskAPIURL:   "http://localhost:8000",
		MaxBatchSize: 500,
	}
}

// IsTesting returns true if the environment is set to testing
func (c *Config) IsTesting() bool {
	return c.Environment == EnvTesting
}

// IsProduction returns true if the environment is set to production
func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

// GetHTTPAddr returns the HTTP server address
func (c *Config) GetHTTPAddr() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}
