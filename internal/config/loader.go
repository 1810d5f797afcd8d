package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. RDPLINES_SERVER_HTTP_PORT.
const EnvPrefix = "RDPLINES"

// Load loads configuration from file
func Load(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./configs")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/rdplines")
	}

	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Config file not found; use defaults
			return parseConfig(v)
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	return parseConfig(v)
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()

	v.SetDefault("server.host", d.Server.Host)
	v.SetDefault("server.http_port", d.Server.HTTPPort)
	v.SetDefault("server.body_limit_mb", d.Server.BodyLimitMB)

	v.SetDefault("simplify.epsilon_factor", d.Simplify.EpsilonFactor)
	v.SetDefault("simplify.max_points", d.Simplify.MaxPoints)
	v.SetDefault("simplify.parallel_workers", d.Simplify.ParallelWorkers)
	v.SetDefault("simplify.confidence_level", d.Simplify.ConfidenceLevel)

	v.SetDefault("storage.backend", d.Storage.Backend)
	v.SetDefault("storage.data_dir", d.Storage.DataDir)
	v.SetDefault("storage.ttl", d.Storage.TTL.String())
	v.SetDefault("storage.compression", d.Storage.Compression)
	v.SetDefault("storage.redis_url", d.Storage.RedisURL)
	v.SetDefault("storage.redis_db", d.Storage.RedisDB)
	v.SetDefault("storage.key_prefix", d.Storage.KeyPrefix)

	v.SetDefault("events.type", d.Events.Type)
	v.SetDefault("events.url", d.Events.URL)
	v.SetDefault("events.subject", d.Events.Subject)
	v.SetDefault("events.password", "")
	v.SetDefault("events.redis_db", d.Events.RedisDB)
	v.SetDefault("events.redis_stream", d.Events.RedisStream)
	v.SetDefault("events.kafka_brokers", d.Events.KafkaBrokers)

	v.SetDefault("auth.enabled", d.Auth.Enabled)
	v.SetDefault("auth.api_keys", d.Auth.APIKeys)

	v.SetDefault("logging.level", d.Logging.Level)
	v.SetDefault("logging.format", d.Logging.Format)
	v.SetDefault("logging.output_path", d.Logging.OutputPath)
	v.SetDefault("logging.time_format", d.Logging.TimeFormat)
}

// parseConfig parses viper config into Config struct
func parseConfig(v *viper.Viper) (*Config, error) {
	var cfg Config

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// LoadOrDefault loads configuration from file or returns default config
func LoadOrDefault(configPath string) *Config {
	cfg, err := Load(configPath)
	if err != nil {
		return DefaultConfig()
	}
	return cfg
}

// DefaultConfig returns default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:        "0.0.0.0",
			HTTPPort:    5000,
			BodyLimitMB: 32,
		},
		Simplify: SimplifyConfig{
			EpsilonFactor:   0.05,
			MaxPoints:       5_000_000,
			ParallelWorkers: 0,
			ConfidenceLevel: 0.95,
		},
		Storage: StorageConfig{
			Backend:     "memory",
			DataDir:     "./data",
			TTL:         time.Hour,
			Compression: "snappy",
			RedisURL:    "redis://localhost:6379",
			KeyPrefix:   "rdplines",
		},
		Events: EventsConfig{
			Type:         "none",
			URL:          "nats://localhost:4222",
			Subject:      "rdplines.simplified",
			RedisStream:  "rdplines",
			KafkaBrokers: []string{},
		},
		Auth: AuthConfig{
			APIKeys: []string{},
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "json",
			OutputPath: "stdout",
			TimeFormat: "RFC3339",
		},
	}
}
