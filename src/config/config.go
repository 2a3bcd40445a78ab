package config

import (
	"fmt"
	"os"

	"apt/src/models"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// -----------------------------------------------------------------------------

// Config wraps models.MConfig and provides business logic methods
type Config struct {
	*models.MConfig
}

// -----------------------------------------------------------------------------

// NewConfig creates a new MConfig instance from a YAML file.
// A .env file (if present) and process environment variables override the
// secret-bearing fields, so credentials never need to live in the YAML.
func NewConfig(configPath string) (*Config, error) {
	// Best effort: a missing .env file is fine
	_ = godotenv.Load()

	// 1. Read the YAML file content
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file '%s': %w", configPath, err)
	}

	// 2. Unmarshal data into the models struct
	var modelConfig models.MConfig
	if err := yaml.Unmarshal(data, &modelConfig); err != nil {
		return nil, fmt.Errorf("failed to parse config from YAML: %w", err)
	}

	config := &Config{MConfig: &modelConfig}

	// 3. Environment overrides
	config.applyEnvOverrides()

	// 4. Validate the loaded configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return config, nil
}

// -----------------------------------------------------------------------------

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("ALERT_WEBHOOK_URL"); v != "" {
		c.Alerts.WebhookURL = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.Storage.DBConnectionString = v
	}
	if v := os.Getenv("APT_DB_PATH"); v != "" {
		c.Storage.DBPath = v
	}
}

// -----------------------------------------------------------------------------

// Validate performs basic configuration validation
func (c *Config) Validate() error {
	// Validate App configuration
	if c.Name == "" {
		return fmt.Errorf("application name cannot be empty")
	}

	// Validate Server configuration
	if c.Host == "" {
		return fmt.Errorf("server host cannot be empty")
	}
	if c.Port <= 1024 || c.Port > 65535 {
		return fmt.Errorf("invalid server port number: %d (must be between 1025 and 65535)", c.Port)
	}

	// Validate Storage configuration
	if c.Storage.DBType == "" {
		return fmt.Errorf("database type cannot be empty")
	}
	if c.Storage.DBType == "sqlite" && c.Storage.DBPath == "" {
		return fmt.Errorf("database path cannot be empty for sqlite")
	}
	if c.Storage.DBType == "postgres" && c.Storage.DBConnectionString == "" {
		return fmt.Errorf("connection string cannot be empty for postgres")
	}

	// Validate Network configuration
	if c.Network.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be greater than 0")
	}
	if c.Network.MaxRetries < 0 {
		return fmt.Errorf("max retries cannot be negative")
	}

	// Validate Market configuration
	if c.Market.BaseURL == "" {
		return fmt.Errorf("market base url cannot be empty")
	}
	if c.Market.FetchIntervalMinutes <= 0 {
		return fmt.Errorf("fetch interval must be greater than 0")
	}
	if c.Market.DetectIntervalMinutes <= 0 {
		return fmt.Errorf("detect interval must be greater than 0")
	}
	if c.Market.RetentionDays <= 0 {
		return fmt.Errorf("data retention days must be greater than 0")
	}
	if c.Market.AlertThreshold <= 0 || c.Market.AlertThreshold >= 1 {
		return fmt.Errorf("alert threshold must be a fraction between 0 and 1")
	}

	return nil
}
