package config

import (
	"fmt"
	"net"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
)

// EnsureDirectories ensures all required directories exist
func (c *Config) EnsureDirectories() error {
	if c.Storage.Backend != "badger" {
		return nil
	}
	return os.MkdirAll(c.Storage.DataDir, 0755)
}

// GetDataPath returns the full path for a data file
func (c *Config) GetDataPath(filename string) string {
	return filepath.Join(c.Storage.DataDir, filename)
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Logging.Level == "debug" && c.Logging.Format == "console"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Logging.Level == "info" && c.Logging.Format == "json"
}

// GetServerAddress returns the HTTP listen address
func (c *Config) GetServerAddress() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.HTTPPort))
}

// BodyLimitBytes returns the request body limit in bytes
func (c *ServerConfig) BodyLimitBytes() int {
	return c.BodyLimitMB << 20
}

// Workers returns the number of goroutines used for parallel simplification
func (c *SimplifyConfig) Workers() int {
	if c.ParallelWorkers > 0 {
		return c.ParallelWorkers
	}
	return runtime.NumCPU()
}

// String describes the storage backend for startup logs
func (c *StorageConfig) String() string {
	switch c.Backend {
	case "badger":
		return fmt.Sprintf("badger(%s)", c.DataDir)
	case "redis":
		return fmt.Sprintf("redis(db=%d)", c.RedisDB)
	default:
		return "memory"
	}
}
