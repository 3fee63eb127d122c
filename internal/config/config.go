package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	SMTP      SMTPConfig      `yaml:"smtp"`
	Log       LogConfig       `yaml:"log"`
	Dispatch  DispatchConfig  `yaml:"dispatch"`
	Scheduler SchedulerConfig `yaml:"scheduler"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// DatabaseConfig contains PostgreSQL connection settings
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"ssl_mode"`
}

// SMTPConfig contains email service settings
type SMTPConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	From     string `yaml:"from"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// DispatchConfig contains seniority and call-out policy settings. The weight
// vector and block order are policy owned by the program office, tuned per
// jurisdiction, so they live in configuration rather than code.
type DispatchConfig struct {
	OfferWindowHours     int        `yaml:"offer_window_hours"`
	SeniorityWeights     [4]float64 `yaml:"seniority_weights"` // most recent fiscal year first
	BlockCallOutOrder    []string   `yaml:"block_call_out_order"`
	RotationCacheSeconds int        `yaml:"rotation_cache_seconds"`
	RateLimitPerSecond   float64    `yaml:"rate_limit_per_second"`
	RateLimitBurst       int        `yaml:"rate_limit_burst"`
}

// SchedulerConfig contains cron schedule settings
type SchedulerConfig struct {
	ExpireOverdueOffers string `yaml:"expire_overdue_offers"`
	FiscalYearRollover  string `yaml:"fiscal_year_rollover"`
}

// Load reads configuration from a YAML file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Override with environment variables if present
	cfg.overrideWithEnv()

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// overrideWithEnv overrides config values with environment variables
func (c *Config) overrideWithEnv() {
	// Database
	if val := os.Getenv("DB_HOST"); val != "" {
		c.Database.Host = val
	}
	if val := os.Getenv("DB_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Database.Port)
	}
	if val := os.Getenv("DB_USER"); val != "" {
		c.Database.User = val
	}
	if val := os.Getenv("DB_PASSWORD"); val != "" {
		c.Database.Password = val
	}
	if val := os.Getenv("DB_NAME"); val != "" {
		c.Database.Database = val
	}
	if val := os.Getenv("DB_SSL_MODE"); val != "" {
		c.Database.SSLMode = val
	}

	// SMTP
	if val := os.Getenv("SMTP_HOST"); val != "" {
		c.SMTP.Host = val
	}
	if val := os.Getenv("SMTP_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.SMTP.Port)
	}
	if val := os.Getenv("SMTP_USER"); val != "" {
		c.SMTP.User = val
	}
	if val := os.Getenv("SMTP_PASSWORD"); val != "" {
		c.SMTP.Password = val
	}
	if val := os.Getenv("SMTP_FROM"); val != "" {
		c.SMTP.From = val
	}

	// Server
	if val := os.Getenv("SERVER_HOST"); val != "" {
		c.Server.Host = val
	}
	if val := os.Getenv("SERVER_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Server.Port)
	}

	// Log
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Log.Level = val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.Log.Format = val
	}

	// Dispatch
	if val := os.Getenv("OFFER_WINDOW_HOURS"); val != "" {
		fmt.Sscanf(val, "%d", &c.Dispatch.OfferWindowHours)
	}

	// Set defaults for log if not configured
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	// Server validation
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	// Database validation
	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}
	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}
	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}

	// SMTP validation
	if c.SMTP.Host == "" {
		return fmt.Errorf("SMTP host is required")
	}
	if c.SMTP.Port <= 0 || c.SMTP.Port > 65535 {
		return fmt.Errorf("invalid SMTP port: %d", c.SMTP.Port)
	}

	// Dispatch defaults
	if c.Dispatch.OfferWindowHours <= 0 {
		c.Dispatch.OfferWindowHours = 48
	}
	zeroWeights := true
	for _, w := range c.Dispatch.SeniorityWeights {
		if w < 0 {
			return fmt.Errorf("seniority weights must not be negative")
		}
		if w != 0 {
			zeroWeights = false
		}
	}
	if zeroWeights {
		// Most recent fiscal year weighted highest, decaying per year back.
		c.Dispatch.SeniorityWeights = [4]float64{1.5, 1.0, 0.5, 0.25}
	}
	if len(c.Dispatch.BlockCallOutOrder) == 0 {
		c.Dispatch.BlockCallOutOrder = []string{"1", "2", "Open"}
	}
	if c.Dispatch.RotationCacheSeconds <= 0 {
		c.Dispatch.RotationCacheSeconds = 30
	}
	if c.Dispatch.RateLimitPerSecond <= 0 {
		c.Dispatch.RateLimitPerSecond = 20
	}
	if c.Dispatch.RateLimitBurst <= 0 {
		c.Dispatch.RateLimitBurst = 40
	}

	// Scheduler defaults
	if c.Scheduler.ExpireOverdueOffers == "" {
		c.Scheduler.ExpireOverdueOffers = "0 */15 * * * *" // every 15 minutes
	}
	if c.Scheduler.FiscalYearRollover == "" {
		c.Scheduler.FiscalYearRollover = "0 0 5 1 4 *" // April 1 at 5 AM UTC
	}

	return nil
}

// GetDatabaseConnectionString returns a PostgreSQL connection string
func (c *Config) GetDatabaseConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Database,
		c.Database.SSLMode,
	)
}

// GetServerAddress returns the HTTP server address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
