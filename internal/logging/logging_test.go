package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	assert.Equal(t, "info", cfg.Level)
	assert.Equal(t, "json", cfg.Format)
	require.NoError(t, cfg.Validate())
}

func TestConfigValidate_RejectsUnknownFormat(t *testing.T) {
	cfg := Config{Level: "info", Format: "xml"}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "format must be")
}

func TestConfigValidate_RejectsUnknownLevel(t *testing.T) {
	cfg := Config{Level: "verbose", Format: "json"}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid level")
}

func TestNew(t *testing.T) {
	logger, err := New(Config{Level: "debug", Format: "console"})
	require.NoError(t, err)
	require.NotNil(t, logger)

	logger.Debug("debug enabled")
}

func TestNew_InvalidConfig(t *testing.T) {
	_, err := New(Config{Level: "info", Format: "yaml"})
	require.Error(t, err)
}
