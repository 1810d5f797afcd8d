package config

import (
	"fmt"
	"time"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Simplify SimplifyConfig `mapstructure:"simplify"`
	Storage  StorageConfig  `mapstructure:"storage"`
	Events   EventsConfig   `mapstructure:"events"`
	Auth     AuthConfig     `mapstructure:"auth"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// AuthConfig represents authentication configuration
type AuthConfig struct {
	Enabled bool     `mapstructure:"enabled"`  // Enable/disable API key authentication
	APIKeys []string `mapstructure:"api_keys"` // List of valid API keys
}

// ServerConfig represents server configuration
type ServerConfig struct {
	Host        string `mapstructure:"host"`          // Bind address (e.g., 0.0.0.0 for all interfaces)
	HTTPPort    int    `mapstructure:"http_port"`     // HTTP server port
	BodyLimitMB int    `mapstructure:"body_limit_mb"` // Largest accepted request body, uploads included
}

// SimplifyConfig controls the simplification pipeline
type SimplifyConfig struct {
	EpsilonFactor   float64 `mapstructure:"epsilon_factor"`   // Auto epsilon = factor * std of all coordinates
	MaxPoints       int     `mapstructure:"max_points"`       // Largest accepted series (rows with a value)
	ParallelWorkers int     `mapstructure:"parallel_workers"` // 0 means one per CPU
	ConfidenceLevel float64 `mapstructure:"confidence_level"` // Default level for margins of error
}

// StorageConfig represents artifact storage configuration
type StorageConfig struct {
	Backend     string        `mapstructure:"backend"`     // memory (default), badger, redis
	DataDir     string        `mapstructure:"data_dir"`    // Badger directory
	TTL         time.Duration `mapstructure:"ttl"`         // How long simplified files can be downloaded
	Compression string        `mapstructure:"compression"` // none, snappy, zstd
	RedisURL    string        `mapstructure:"redis_url"`
	RedisDB     int           `mapstructure:"redis_db"`
	KeyPrefix   string        `mapstructure:"key_prefix"` // Redis key prefix (default: "rdplines")
}

// EventsConfig represents the event publisher configuration
type EventsConfig struct {
	Type     string `mapstructure:"type"`     // none (default), memory, nats, redis, kafka
	URL      string `mapstructure:"url"`      // Broker URL (e.g., nats://localhost:4222, redis://localhost:6379)
	Subject  string `mapstructure:"subject"`  // Subject/topic for completed simplifications
	Password string `mapstructure:"password"` // Optional authentication

	// Redis-specific options
	RedisDB     int    `mapstructure:"redis_db"`
	RedisStream string `mapstructure:"redis_stream"` // Stream prefix (default: "rdplines")

	// Kafka-specific options
	KafkaBrokers []string `mapstructure:"kafka_brokers"`
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level      string `mapstructure:"level"`       // debug, info, warn, error
	Format     string `mapstructure:"format"`      // json, console
	OutputPath string `mapstructure:"output_path"` // stdout, stderr, file path
	TimeFormat string `mapstructure:"time_format"` // RFC3339, Unix, UnixMs, etc
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := c.Server.Validate(); err != nil {
		return fmt.Errorf("server config: %w", err)
	}

	if err := c.Simplify.Validate(); err != nil {
		return fmt.Errorf("simplify config: %w", err)
	}

	if err := c.Storage.Validate(); err != nil {
		return fmt.Errorf("storage config: %w", err)
	}

	if err := c.Events.Validate(); err != nil {
		return fmt.Errorf("events config: %w", err)
	}

	if err := c.Auth.Validate(); err != nil {
		return fmt.Errorf("auth config: %w", err)
	}

	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("logging config: %w", err)
	}

	return nil
}

// Validate validates server configuration
func (c *ServerConfig) Validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid http_port: %d", c.HTTPPort)
	}

	if c.BodyLimitMB < 1 {
		return fmt.Errorf("body_limit_mb must be positive")
	}

	return nil
}

// Validate validates simplification settings
func (c *SimplifyConfig) Validate() error {
	if !(c.EpsilonFactor > 0) {
		return fmt.Errorf("simplify.epsilon_factor must be positive")
	}

	if c.MaxPoints < 2 {
		return fmt.Errorf("simplify.max_points must be at least 2")
	}

	if c.ParallelWorkers < 0 {
		return fmt.Errorf("simplify.parallel_workers cannot be negative")
	}

	if !(c.ConfidenceLevel > 0 && c.ConfidenceLevel < 1) {
		return fmt.Errorf("simplify.confidence_level must be in (0, 1)")
	}

	return nil
}

// Validate validates storage configuration
func (c *StorageConfig) Validate() error {
	switch c.Backend {
	case "", "memory":
	case "badger":
		if c.DataDir == "" {
			return fmt.Errorf("storage.data_dir is required for the badger backend")
		}
	case "redis":
		if c.RedisURL == "" {
			return fmt.Errorf("storage.redis_url is required for the redis backend")
		}
	default:
		return fmt.Errorf("storage.backend must be one of: memory, badger, redis")
	}

	if c.TTL <= 0 {
		return fmt.Errorf("storage.ttl must be positive")
	}

	switch c.Compression {
	case "", "none", "snappy", "zstd":
	default:
		return fmt.Errorf("storage.compression must be one of: none, snappy, zstd")
	}

	return nil
}

// Validate validates event publisher configuration
func (c *EventsConfig) Validate() error {
	switch c.Type {
	case "", "none", "memory":
		return nil
	case "nats", "redis":
		if c.URL == "" {
			return fmt.Errorf("events.url is required for %s", c.Type)
		}
	case "kafka":
		if len(c.KafkaBrokers) == 0 {
			return fmt.Errorf("events.kafka_brokers is required for kafka")
		}
	default:
		return fmt.Errorf("events.type must be one of: none, memory, nats, redis, kafka")
	}

	if c.Subject == "" {
		return fmt.Errorf("events.subject is required")
	}

	return nil
}

// Validate validates authentication configuration
func (c *AuthConfig) Validate() error {
	if c.Enabled && len(c.APIKeys) == 0 {
		return fmt.Errorf("auth.api_keys is required when auth is enabled")
	}
	return nil
}

// Validate validates logging configuration
func (c *LoggingConfig) Validate() error {
	validLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLevels[c.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}

	validFormats := map[string]bool{
		"json":    true,
		"console": true,
	}

	if !validFormats[c.Format] {
		return fmt.Errorf("logging.format must be 'json' or 'console'")
	}

	return nil
}
