// Package config provides configuration loading and management for the
// development potential service.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the complete service configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Cache      CacheConfig      `yaml:"cache"`
	NATS       NATSConfig       `yaml:"nats"`
	Provisions ProvisionsConfig `yaml:"provisions"`
	Log        LogConfig        `yaml:"log"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	// Addr is the listen address (default: ":8080")
	Addr string `yaml:"addr"`
	// ReadTimeout is the maximum duration for reading a request
	ReadTimeout time.Duration `yaml:"read_timeout"`
	// WriteTimeout is the maximum duration for writing a response
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// CacheConfig configures the optional Redis result cache.
type CacheConfig struct {
	// Enabled turns the evaluation result cache on
	Enabled bool `yaml:"enabled"`
	// Addr is the Redis server address (default: "localhost:6379")
	Addr string `yaml:"addr"`
	// Password is the Redis password (empty = no auth)
	Password string `yaml:"password"`
	// DB is the Redis database number
	DB int `yaml:"db"`
	// TTL is how long cached results live
	TTL time.Duration `yaml:"ttl"`
}

// NATSConfig configures the batch evaluation worker.
type NATSConfig struct {
	// URL is the NATS server URL (empty = worker disabled)
	URL string `yaml:"url"`
	// Subject is the request subject the worker subscribes on
	Subject string `yaml:"subject"`
	// Queue is the queue group name for load balancing
	Queue string `yaml:"queue"`
}

// ProvisionsConfig configures special provision overrides.
type ProvisionsConfig struct {
	// Path is the provisions YAML file (empty = no overrides)
	Path string `yaml:"path"`
	// Watch reloads the file on change
	Watch bool `yaml:"watch"`
}

// LogConfig configures structured logging.
type LogConfig struct {
	// Level is one of debug, info, warn, error
	Level string `yaml:"level"`
	// Format is "text" or "json"
	Format string `yaml:"format"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		Cache: CacheConfig{
			Enabled: false,
			Addr:    "localhost:6379",
			TTL:     time.Hour,
		},
		NATS: NATSConfig{
			URL:     "",
			Subject: "bylaw.evaluate",
			Queue:   "bylaw-workers",
		},
		Provisions: ProvisionsConfig{
			Path:  "",
			Watch: false,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if c.Cache.Enabled && c.Cache.Addr == "" {
		return fmt.Errorf("cache.addr is required when the cache is enabled")
	}
	if c.Cache.TTL < 0 {
		return fmt.Errorf("cache.ttl must not be negative")
	}
	if c.NATS.URL != "" && c.NATS.Subject == "" {
		return fmt.Errorf("nats.subject is required when nats.url is set")
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be debug, info, warn, or error")
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json")
	}
	return nil
}

// LoadFromFile loads configuration from a YAML file.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveToFile saves configuration to a YAML file.
func (c *Config) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Merge merges another config into this one (other takes precedence for
// non-zero values).
func (c *Config) Merge(other *Config) {
	if other == nil {
		return
	}

	if other.Server.Addr != "" {
		c.Server.Addr = other.Server.Addr
	}
	if other.Server.ReadTimeout != 0 {
		c.Server.ReadTimeout = other.Server.ReadTimeout
	}
	if other.Server.WriteTimeout != 0 {
		c.Server.WriteTimeout = other.Server.WriteTimeout
	}

	if other.Cache.Enabled {
		c.Cache.Enabled = true
	}
	if other.Cache.Addr != "" {
		c.Cache.Addr = other.Cache.Addr
	}
	if other.Cache.Password != "" {
		c.Cache.Password = other.Cache.Password
	}
	if other.Cache.DB != 0 {
		c.Cache.DB = other.Cache.DB
	}
	if other.Cache.TTL != 0 {
		c.Cache.TTL = other.Cache.TTL
	}

	if other.NATS.URL != "" {
		c.NATS.URL = other.NATS.URL
	}
	if other.NATS.Subject != "" {
		c.NATS.Subject = other.NATS.Subject
	}
	if other.NATS.Queue != "" {
		c.NATS.Queue = other.NATS.Queue
	}

	if other.Provisions.Path != "" {
		c.Provisions.Path = other.Provisions.Path
	}
	if other.Provisions.Watch {
		c.Provisions.Watch = true
	}

	if other.Log.Level != "" {
		c.Log.Level = other.Log.Level
	}
	if other.Log.Format != "" {
		c.Log.Format = other.Log.Format
	}
}
