// Package config loads taskweave settings: defaults, then an optional YAML
// file, then environment variables.
package config

import "time"

// Config is the root configuration.
type Config struct {
	Store   Store   `yaml:"store"`
	Server  Server  `yaml:"server"`
	Logging Logging `yaml:"logging"`
	Claude  Claude  `yaml:"claude"`
}

// Store selects the task store.
type Store struct {
	Driver     string `yaml:"driver"` // badger, json, or memory
	Path       string `yaml:"path"`
	SyncWrites bool   `yaml:"sync_writes"`
}

// Server configures the HTTP API.
type Server struct {
	Addr         string        `yaml:"addr"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// Logging configures slog output.
type Logging struct {
	Level   string `yaml:"level"`
	Format  string `yaml:"format"` // json or text
	Service string `yaml:"service"`
}

// Claude configures dependency inference.
type Claude struct {
	Model     string `yaml:"model"`
	MaxTokens int    `yaml:"max_tokens"`
	APIKey    string `yaml:"-"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		Store: Store{
			Driver:     "badger",
			Path:       ".taskweave/data",
			SyncWrites: true,
		},
		Server: Server{
			Addr:         ":8080",
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		Logging: Logging{
			Level:   "info",
			Format:  "json",
			Service: "taskweave",
		},
		Claude: Claude{
			Model:     "claude-sonnet-4-5",
			MaxTokens: 16384,
		},
	}
}
