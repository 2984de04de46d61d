package config

import (
	"fmt"
	"net/url"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all configuration for sakenavi-engine.
// Configuration can come from YAML file (config.yaml) or environment variables.
// Environment variables always override YAML values for fields that support both.
// Secrets (passwords) must only come from environment variables.
type Config struct {
	// Server configuration
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"127.0.0.1"`
	Port     string `yaml:"port" env:"PORT" env-default:"3000"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	BaseURL  string `yaml:"base_url" env:"BASE_URL" env-default:""` // Auto-derived from Port if empty
	Version  string `yaml:"-"`                                      // Set at load time, not from config

	// Database configuration (PostgreSQL)
	Database DatabaseConfig `yaml:"database"`

	// Sakenowa catalog API configuration
	Sakenowa SakenowaConfig `yaml:"sakenowa"`
}

// DatabaseConfig holds PostgreSQL database configuration.
type DatabaseConfig struct {
	Host           string `yaml:"host" env:"PGHOST" env-default:"localhost"`
	Port           int    `yaml:"port" env:"PGPORT" env-default:"5432"`
	User           string `yaml:"user" env:"PGUSER" env-default:"sakenavi"`
	Password       string `yaml:"-" env:"PGPASSWORD"` // Secret - not in YAML
	Database       string `yaml:"database" env:"PGDATABASE" env-default:"sakenavi"`
	MaxConnections int32  `yaml:"max_connections" env:"PGMAX_CONNECTIONS" env-default:"25"`
	SSLMode        string `yaml:"ssl_mode" env:"PGSSLMODE" env-default:"disable"`
	MigrationsPath string `yaml:"migrations_path" env:"PGMIGRATIONS_PATH" env-default:"migrations"`
}

// SakenowaConfig holds settings for the external catalog API and the
// synchronization pipeline that consumes it.
type SakenowaConfig struct {
	// BaseURL is the root of the Sakenowa REST API.
	BaseURL string `yaml:"base_url" env:"SAKENOWA_BASE_URL" env-default:"https://muro.sakenowa.com/api"`

	// TimeoutSeconds bounds each outbound catalog request. A hung upstream
	// must not hang the whole sync run.
	TimeoutSeconds int `yaml:"timeout_seconds" env:"SAKENOWA_TIMEOUT_SECONDS" env-default:"60"`

	// BatchSize is the record interval at which the sync pipeline logs
	// stage progress.
	BatchSize int `yaml:"batch_size" env:"SAKENOWA_BATCH_SIZE" env-default:"100"`

	// FullRefresh clears regions, breweries, brands and flavor tags before
	// importing, instead of only the derived tables (rankings, flavor
	// charts, brand-tag links). The clear happens inside the sync
	// transaction, so a failed run never leaves the store empty.
	FullRefresh bool `yaml:"full_refresh" env:"SAKENOWA_FULL_REFRESH" env-default:"false"`
}

// Timeout returns the per-request timeout as a duration.
func (c *SakenowaConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Load reads configuration from config.yaml with environment variable overrides.
// The version parameter is injected at build time and set on the returned Config.
// Environment variables override YAML values. Secrets (PGPASSWORD) must come
// from environment variables (yaml:"-" fields).
func Load(version string) (*Config, error) {
	cfg := &Config{
		Version: version,
	}

	// Load config from YAML file with environment variable overrides
	if err := cleanenv.ReadConfig("config.yaml", cfg); err != nil {
		return nil, fmt.Errorf("failed to read config.yaml: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	// Auto-derive BaseURL from Port if not explicitly set
	if cfg.BaseURL == "" {
		cfg.BaseURL = (&url.URL{
			Scheme: "http",
			Host:   "localhost:" + cfg.Port,
		}).String()
	}

	return cfg, nil
}

// validate rejects configuration the sync pipeline cannot run with.
func (c *Config) validate() error {
	if c.Sakenowa.BaseURL == "" {
		return fmt.Errorf("sakenowa base_url must not be empty")
	}
	if _, err := url.Parse(c.Sakenowa.BaseURL); err != nil {
		return fmt.Errorf("sakenowa base_url is not a valid URL: %w", err)
	}
	if c.Sakenowa.TimeoutSeconds <= 0 {
		return fmt.Errorf("sakenowa timeout_seconds must be positive, got %d", c.Sakenowa.TimeoutSeconds)
	}
	if c.Sakenowa.BatchSize <= 0 {
		return fmt.Errorf("sakenowa batch_size must be positive, got %d", c.Sakenowa.BatchSize)
	}
	return nil
}

// ConnectionString returns a PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}
