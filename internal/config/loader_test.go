package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeYAML(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "taskweave.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaults(t *testing.T) {
	cfg := Defaults()

	assert.Equal(t, "badger", cfg.Store.Driver)
	assert.Equal(t, ":8080", cfg.Server.Addr)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Defaults().Store, cfg.Store)
}

func TestLoad_YAMLOverride(t *testing.T) {
	path := writeYAML(t, `
store:
  driver: json
  path: /tmp/tasks.json
server:
  addr: ":9090"
  read_timeout: 5s
logging:
  level: debug
  format: text
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "json", cfg.Store.Driver)
	assert.Equal(t, "/tmp/tasks.json", cfg.Store.Path)
	assert.Equal(t, ":9090", cfg.Server.Addr)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, "text", cfg.Logging.Format)
	// Unchanged fields keep defaults
	assert.Equal(t, 30*time.Second, cfg.Server.WriteTimeout)
	assert.Equal(t, "taskweave", cfg.Logging.Service)
}

func TestLoad_EnvBeatsYAML(t *testing.T) {
	path := writeYAML(t, "server:\n  addr: \":9090\"\n")
	t.Setenv("TASKWEAVE_ADDR", ":7070")
	t.Setenv("TASKWEAVE_STORE_DRIVER", "memory")
	t.Setenv("TASKWEAVE_CLAUDE_MAX_TOKENS", "not-a-number")
	t.Setenv("ANTHROPIC_API_KEY", "sk-test")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":7070", cfg.Server.Addr)
	assert.Equal(t, "memory", cfg.Store.Driver)
	assert.Equal(t, 16384, cfg.Claude.MaxTokens, "unparseable env values are ignored")
	assert.Equal(t, "sk-test", cfg.Claude.APIKey)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeYAML(t, "store: [unclosed")
	_, err := Load(path)
	assert.ErrorContains(t, err, "config yaml")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		errMsg string
	}{
		{"unknown driver", func(c *Config) { c.Store.Driver = "sqlite" }, "store.driver"},
		{"badger without path", func(c *Config) { c.Store.Path = "" }, "store.path"},
		{"memory without path", func(c *Config) { c.Store.Driver = "memory"; c.Store.Path = "" }, ""},
		{"empty addr", func(c *Config) { c.Server.Addr = "" }, "server.addr"},
		{"zero timeout", func(c *Config) { c.Server.ReadTimeout = 0 }, "timeouts"},
		{"bad log format", func(c *Config) { c.Logging.Format = "xml" }, "logging.format"},
		{"zero max tokens", func(c *Config) { c.Claude.MaxTokens = 0 }, "max_tokens"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.errMsg == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorContains(t, err, tt.errMsg)
		})
	}
}
