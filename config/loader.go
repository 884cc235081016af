package config

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

const (
	// ProjectConfigFile is the name of the project-level config file
	ProjectConfigFile = "bylaw.yaml"
	// UserConfigDir is the directory for user-level config
	UserConfigDir = ".config/bylaw"
	// UserConfigFile is the name of the user-level config file
	UserConfigFile = "config.yaml"
)

// Loader handles configuration loading with layered precedence
type Loader struct {
	logger *slog.Logger
}

// NewLoader creates a new configuration loader
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger}
}

// Load loads configuration with layered precedence:
// 1. Default config
// 2. User config (~/.config/bylaw/config.yaml)
// 3. Project config (bylaw.yaml in current or parent directories)
// 4. Environment variables (BYLAW_*)
func (l *Loader) Load() (*Config, error) {
	config := DefaultConfig()

	// Load user config
	userConfigPath := l.userConfigPath()
	if userConfig, err := LoadFromFile(userConfigPath); err == nil {
		l.logger.Debug("Loaded user config", slog.String("path", userConfigPath))
		config.Merge(userConfig)
	} else if !errors.Is(err, os.ErrNotExist) {
		l.logger.Warn("Failed to load user config", slog.String("path", userConfigPath), slog.String("error", err.Error()))
	}

	// Load project config
	projectConfigPath := l.findProjectConfig()
	if projectConfigPath != "" {
		if projectConfig, err := LoadFromFile(projectConfigPath); err == nil {
			l.logger.Debug("Loaded project config", slog.String("path", projectConfigPath))
			config.Merge(projectConfig)
		} else {
			l.logger.Warn("Failed to load project config", slog.String("path", projectConfigPath), slog.String("error", err.Error()))
		}
	} else {
		l.logger.Debug("No project config found")
	}

	l.applyEnv(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// EnsureUserConfig creates the user config file with defaults if it doesn't exist
func (l *Loader) EnsureUserConfig() error {
	userConfigPath := l.userConfigPath()

	if _, err := os.Stat(userConfigPath); err == nil {
		return nil // Already exists
	}

	config := DefaultConfig()
	if err := config.SaveToFile(userConfigPath); err != nil {
		return err
	}

	l.logger.Info("Created default user config", slog.String("path", userConfigPath))
	return nil
}

// userConfigPath returns the path to the user config file
func (l *Loader) userConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, UserConfigDir, UserConfigFile)
}

// findProjectConfig searches for bylaw.yaml in current and parent directories
func (l *Loader) findProjectConfig() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}

	dir := cwd
	for {
		configPath := filepath.Join(dir, ProjectConfigFile)
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root
			break
		}
		dir = parent
	}

	return ""
}

// applyEnv overlays BYLAW_* environment variables. Variables may come
// from the process environment or a .env file loaded at startup.
func (l *Loader) applyEnv(config *Config) {
	if v := os.Getenv("BYLAW_SERVER_ADDR"); v != "" {
		config.Server.Addr = v
	}
	if v := os.Getenv("BYLAW_REDIS_ADDR"); v != "" {
		config.Cache.Addr = v
		config.Cache.Enabled = true
	}
	if v := os.Getenv("BYLAW_REDIS_PASSWORD"); v != "" {
		config.Cache.Password = v
	}
	if v := os.Getenv("BYLAW_REDIS_DB"); v != "" {
		if db, err := strconv.Atoi(v); err == nil {
			config.Cache.DB = db
		} else {
			l.logger.Warn("Invalid BYLAW_REDIS_DB value", slog.String("value", v))
		}
	}
	if v := os.Getenv("BYLAW_CACHE_TTL"); v != "" {
		if ttl, err := time.ParseDuration(v); err == nil {
			config.Cache.TTL = ttl
		} else {
			l.logger.Warn("Invalid BYLAW_CACHE_TTL value", slog.String("value", v))
		}
	}
	if v := os.Getenv("BYLAW_NATS_URL"); v != "" {
		config.NATS.URL = v
	}
	if v := os.Getenv("BYLAW_PROVISIONS_PATH"); v != "" {
		config.Provisions.Path = v
	}
	if v := os.Getenv("BYLAW_LOG_LEVEL"); v != "" {
		config.Log.Level = v
	}
	if v := os.Getenv("BYLAW_LOG_FORMAT"); v != "" {
		config.Log.Format = v
	}
}
