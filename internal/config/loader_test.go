package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("KBFLOW_KB_BASE_URL", "https://kb.example.com/api/v1/kb/abc")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout.Duration())
	assert.Equal(t, 60*time.Second, cfg.KB.Timeout.Duration())
	assert.Equal(t, ".pdf", cfg.Ingest.Extension)
	assert.Equal(t, 2*time.Second, cfg.Ingest.PollInterval.Duration())
	assert.Equal(t, 15*time.Minute, cfg.Ingest.PollTimeout.Duration())
	assert.Equal(t, 5, cfg.Search.PageSize)
	assert.Equal(t, 20, cfg.Search.CacheCapacity)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_FromYAML(t *testing.T) {
	path := writeConfigFile(t, `
server:
  port: 9999
kb:
  base_url: https://kb.example.com/api/v1/kb/abc
  token: tok-123
  timeout: 30s
ingest:
  data_dir: /srv/docs
  extension: .md
  poll_timeout: 5m
search:
  page_size: 7
logging:
  level: debug
  format: console
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9999, cfg.Server.Port)
	assert.Equal(t, "https://kb.example.com/api/v1/kb/abc", cfg.KB.BaseURL)
	assert.Equal(t, "tok-123", cfg.KB.Token.Value())
	assert.Equal(t, 30*time.Second, cfg.KB.Timeout.Duration())
	assert.Equal(t, "/srv/docs", cfg.Ingest.DataDir)
	assert.Equal(t, ".md", cfg.Ingest.Extension)
	assert.Equal(t, 5*time.Minute, cfg.Ingest.PollTimeout.Duration())
	assert.Equal(t, 7, cfg.Search.PageSize)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeConfigFile(t, `
server:
  port: 9999
kb:
  base_url: https://file.example.com
`)
	t.Setenv("KBFLOW_SERVER_PORT", "7070")
	t.Setenv("KBFLOW_KB_BASE_URL", "https://env.example.com")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "https://env.example.com", cfg.KB.BaseURL)
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	t.Setenv("KBFLOW_KB_BASE_URL", "https://kb.example.com")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestLoad_RequiresBaseURL(t *testing.T) {
	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "kb.base_url is required")
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := writeConfigFile(t, "server: [not a mapping")

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoad_RejectsNegativeDuration(t *testing.T) {
	path := writeConfigFile(t, `
kb:
  base_url: https://kb.example.com
  timeout: -5s
`)

	_, err := Load(path)
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg := &Config{}
		applyDefaults(cfg)
		cfg.KB.BaseURL = "https://kb.example.com"
		return cfg
	}

	cfg := base()
	require.NoError(t, cfg.Validate())

	cfg = base()
	cfg.Server.Port = 70000
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Search.PageSize = 0
	assert.Error(t, cfg.Validate())

	cfg = base()
	cfg.Logging.Level = "shouty"
	assert.Error(t, cfg.Validate())
}

func TestSecret_Redaction(t *testing.T) {
	s := Secret("hunter2")

	assert.Equal(t, "[REDACTED]", s.String())
	assert.Equal(t, "hunter2", s.Value())
	assert.True(t, s.IsSet())

	text, err := s.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "[REDACTED]", string(text))

	assert.Empty(t, Secret("").String())
	assert.False(t, Secret("").IsSet())
}
