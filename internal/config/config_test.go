package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	assert.Equal(t, 800.0, cfg.Render.ViewportWidth)
	assert.Equal(t, 800, cfg.Render.CanvasWidth)
	assert.Equal(t, 600, cfg.Render.CanvasHeight)
	assert.Equal(t, 512, cfg.Render.MaxDepth)
	assert.Equal(t, 4, cfg.Render.Workers)
	assert.False(t, cfg.Render.DebugOutlines)
	assert.Empty(t, cfg.Render.ThemeFile)
	assert.Equal(t, 30*time.Second, cfg.Fetch.Timeout)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "console", cfg.Logger.Format)
	require.NoError(t, cfg.Validate())
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"viewport", func(c *Config) { c.Render.ViewportWidth = 0 }, "render.viewport_width"},
		{"canvas width", func(c *Config) { c.Render.CanvasWidth = -1 }, "render.canvas_width"},
		{"canvas height", func(c *Config) { c.Render.CanvasHeight = 0 }, "render.canvas_height"},
		{"canvas too wide", func(c *Config) { c.Render.CanvasWidth = 100000 }, "must not exceed 16384"},
		{"canvas too tall", func(c *Config) { c.Render.CanvasHeight = 16385 }, "render.canvas_height"},
		{"max depth", func(c *Config) { c.Render.MaxDepth = 0 }, "render.max_depth"},
		{"workers", func(c *Config) { c.Render.Workers = 0 }, "render.workers"},
		{"timeout", func(c *Config) { c.Fetch.Timeout = -time.Second }, "fetch.timeout"},
		{"format", func(c *Config) { c.Logger.Format = "xml" }, "logger.format"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "blockrender.yaml")
	content := `
render:
  viewport_width: 320
  canvas_height: 240
  debug_outlines: true
logger:
  level: debug
  format: json
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	v, err := Load(path)
	require.NoError(t, err)
	cfg, err := NewConfigFromViper(v)
	require.NoError(t, err)

	assert.Equal(t, 320.0, cfg.Render.ViewportWidth)
	assert.Equal(t, 240, cfg.Render.CanvasHeight)
	assert.Equal(t, 800, cfg.Render.CanvasWidth, "unset keys keep defaults")
	assert.True(t, cfg.Render.DebugOutlines)
	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.Equal(t, "json", cfg.Logger.Format)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadWithoutFile(t *testing.T) {
	t.Chdir(t.TempDir())
	v, err := Load("")
	require.NoError(t, err)
	cfg, err := NewConfigFromViper(v)
	require.NoError(t, err)
	assert.Equal(t, 600, cfg.Render.CanvasHeight)
}

func TestEnvironmentOverride(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("BLOCKRENDER_RENDER_CANVAS_WIDTH", "1024")
	t.Setenv("BLOCKRENDER_FETCH_TIMEOUT", "5s")

	v, err := Load("")
	require.NoError(t, err)
	cfg, err := NewConfigFromViper(v)
	require.NoError(t, err)
	assert.Equal(t, 1024, cfg.Render.CanvasWidth)
	assert.Equal(t, 5*time.Second, cfg.Fetch.Timeout)
}

func TestNewConfigFromViperRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("render:\n  max_depth: 0\n"), 0o644))
	v, err := Load(path)
	require.NoError(t, err)
	_, err = NewConfigFromViper(v)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid configuration")
}
