package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"blockrender/pkg/render"
)

// EnvPrefix is prepended to every environment override, e.g.
// BLOCKRENDER_RENDER_VIEWPORT_WIDTH.
const EnvPrefix = "BLOCKRENDER"

// Config holds the entire application configuration.
type Config struct {
	Render RenderConfig `mapstructure:"render" yaml:"render"`
	Fetch  FetchConfig  `mapstructure:"fetch" yaml:"fetch"`
	Logger LoggerConfig `mapstructure:"logger" yaml:"logger"`
}

// RenderConfig controls the pipeline and the painter.
type RenderConfig struct {
	ViewportWidth float64 `mapstructure:"viewport_width" yaml:"viewport_width"`
	CanvasWidth   int     `mapstructure:"canvas_width" yaml:"canvas_width"`
	CanvasHeight  int     `mapstructure:"canvas_height" yaml:"canvas_height"`
	MaxDepth      int     `mapstructure:"max_depth" yaml:"max_depth"`
	// ThemeFile replaces the compiled-in default stylesheet when set.
	ThemeFile     string `mapstructure:"theme_file" yaml:"theme_file"`
	DebugOutlines bool   `mapstructure:"debug_outlines" yaml:"debug_outlines"`
	Workers       int    `mapstructure:"workers" yaml:"workers"`
}

// FetchConfig controls how remote documents and stylesheets are retrieved.
type FetchConfig struct {
	Timeout   time.Duration `mapstructure:"timeout" yaml:"timeout"`
	UserAgent string        `mapstructure:"user_agent" yaml:"user_agent"`
	MaxBytes  int64         `mapstructure:"max_bytes" yaml:"max_bytes"`
}

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string `mapstructure:"level" yaml:"level"`
	Format      string `mapstructure:"format" yaml:"format"`
	AddSource   bool   `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int    `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int    `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int    `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool   `mapstructure:"compress" yaml:"compress"`
}

// SetDefaults initializes default values for every configuration key.
func SetDefaults(v *viper.Viper) {
	// -- Render --
	v.SetDefault("render.viewport_width", 800.0)
	v.SetDefault("render.canvas_width", 800)
	v.SetDefault("render.canvas_height", 600)
	v.SetDefault("render.max_depth", 512)
	v.SetDefault("render.theme_file", "")
	v.SetDefault("render.debug_outlines", false)
	v.SetDefault("render.workers", 4)

	// -- Fetch --
	v.SetDefault("fetch.timeout", "30s")
	v.SetDefault("fetch.user_agent", "blockrender/1.0 (compatible; Go)")
	v.SetDefault("fetch.max_bytes", 32<<20)

	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "blockrender")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 5)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)
}

// NewDefaultConfig returns a Config populated only from defaults.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// Load builds a viper instance from defaults, the optional config file and
// BLOCKRENDER_* environment variables. A missing file at the default
// location is not an error; a missing explicit file is.
func Load(path string) (*viper.Viper, error) {
	v := viper.New()
	SetDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("blockrender")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}
	return v, nil
}

// NewConfigFromViper unmarshals and validates a configuration.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// Validate checks the configuration for sane values.
func (c *Config) Validate() error {
	if c.Render.ViewportWidth <= 0 {
		return fmt.Errorf("render.viewport_width must be positive")
	}
	if c.Render.CanvasWidth <= 0 || c.Render.CanvasHeight <= 0 {
		return fmt.Errorf("render.canvas_width and render.canvas_height must be positive")
	}
	if c.Render.CanvasWidth > render.MaxCanvasDimension || c.Render.CanvasHeight > render.MaxCanvasDimension {
		return fmt.Errorf("render.canvas_width and render.canvas_height must not exceed %d, got %dx%d",
			render.MaxCanvasDimension, c.Render.CanvasWidth, c.Render.CanvasHeight)
	}
	if c.Render.MaxDepth <= 0 {
		return fmt.Errorf("render.max_depth must be a positive integer")
	}
	if c.Render.Workers <= 0 {
		return fmt.Errorf("render.workers must be a positive integer")
	}
	if c.Fetch.Timeout < 0 {
		return fmt.Errorf("fetch.timeout must not be negative")
	}
	switch c.Logger.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("logger.format must be console or json, got %q", c.Logger.Format)
	}
	return nil
}
