package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the path checked for YAML configuration.
const DefaultConfigFile = "taskweave.yaml"

// Load returns a Config using the hierarchy: defaults < YAML < ENV.
// An empty path means DefaultConfigFile. A missing file is not an error.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigFile
	}
	cfg := Defaults()

	if err := loadYAML(&cfg, path); err != nil {
		return nil, fmt.Errorf("config yaml: %w", err)
	}

	loadEnv(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validate: %w", err)
	}
	return &cfg, nil
}

func loadYAML(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

// loadEnv overlays non-empty environment variables onto cfg.
func loadEnv(cfg *Config) {
	setString(&cfg.Store.Driver, "TASKWEAVE_STORE_DRIVER")
	setString(&cfg.Store.Path, "TASKWEAVE_STORE_PATH")
	setBool(&cfg.Store.SyncWrites, "TASKWEAVE_STORE_SYNC_WRITES")
	setString(&cfg.Server.Addr, "TASKWEAVE_ADDR")
	setDuration(&cfg.Server.ReadTimeout, "TASKWEAVE_READ_TIMEOUT")
	setDuration(&cfg.Server.WriteTimeout, "TASKWEAVE_WRITE_TIMEOUT")
	setString(&cfg.Logging.Level, "TASKWEAVE_LOG_LEVEL")
	setString(&cfg.Logging.Format, "TASKWEAVE_LOG_FORMAT")
	setString(&cfg.Logging.Service, "TASKWEAVE_LOG_SERVICE")
	setString(&cfg.Claude.Model, "TASKWEAVE_CLAUDE_MODEL")
	setInt(&cfg.Claude.MaxTokens, "TASKWEAVE_CLAUDE_MAX_TOKENS")
	setString(&cfg.Claude.APIKey, "ANTHROPIC_API_KEY")
}

// Validate checks field values after all layers are applied.
func (c *Config) Validate() error {
	switch c.Store.Driver {
	case "badger", "json":
		if c.Store.Path == "" {
			return fmt.Errorf("store.path is required for driver %s", c.Store.Driver)
		}
	case "memory":
	default:
		return fmt.Errorf("store.driver must be badger, json, or memory, got %q", c.Store.Driver)
	}
	if c.Server.Addr == "" {
		return errors.New("server.addr is required")
	}
	if c.Server.ReadTimeout <= 0 || c.Server.WriteTimeout <= 0 {
		return errors.New("server timeouts must be positive")
	}
	switch c.Logging.Format {
	case "json", "text":
	default:
		return fmt.Errorf("logging.format must be json or text, got %q", c.Logging.Format)
	}
	if c.Claude.MaxTokens < 1 {
		return errors.New("claude.max_tokens must be >= 1")
	}
	return nil
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func setDuration(dst *time.Duration, key string) {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			*dst = d
		}
	}
}
