package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"blockrender/internal/config"
	"blockrender/internal/observability"
	"blockrender/pkg/css"
	"blockrender/pkg/fetch"
	"blockrender/pkg/pipeline"
)

// Version is overridden at build time with -ldflags.
var Version = "dev"

// app carries the state shared by every subcommand of one invocation.
type app struct {
	cfgFile string
	cfg     *config.Config
	logger  *zap.Logger
}

// persistentBindings maps root flags to configuration keys. A flag given on
// the command line wins over the config file and the environment.
var persistentBindings = map[string]string{
	"viewport-width": "render.viewport_width",
	"width":          "render.canvas_width",
	"height":         "render.canvas_height",
	"max-depth":      "render.max_depth",
	"theme":          "render.theme_file",
	"debug-outlines": "render.debug_outlines",
	"timeout":        "fetch.timeout",
	"user-agent":     "fetch.user_agent",
	"log-level":      "logger.level",
	"log-format":     "logger.format",
	"log-file":       "logger.log_file",
}

// NewRootCommand builds a fresh command tree, so flags from one execution
// never leak into the next.
func NewRootCommand() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:           "blockrender",
		Short:         "Render HTML and CSS documents with block layout to PPM, PNG or BMP.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.initialize(cmd)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return observability.Sync(a.logger)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&a.cfgFile, "config", "c", "", "config file (default is ./blockrender.yaml)")
	flags.Float64("viewport-width", pipeline.DefaultViewportWidth, "layout viewport width in pixels")
	flags.Int("width", pipeline.DefaultCanvasWidth, "canvas width in pixels")
	flags.Int("height", pipeline.DefaultCanvasHeight, "canvas height in pixels")
	flags.Int("max-depth", 512, "maximum nesting depth accepted by every stage")
	flags.String("theme", "", "stylesheet file or URL replacing the built-in default theme")
	flags.Bool("debug-outlines", false, "outline every box's border box")
	flags.Duration("timeout", fetch.DefaultTimeout, "timeout for fetching remote resources")
	flags.String("user-agent", fetch.DefaultUserAgent, "User-Agent header for remote resources")
	flags.String("log-level", "info", "log level (debug, info, warn, error)")
	flags.String("log-format", "console", "log format (console or json)")
	flags.String("log-file", "", "also write JSON logs to this rotated file")
	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	rootCmd.AddCommand(newRenderCommand(a), newBatchCommand(a), newDumpCommand(a))
	return rootCmd
}

// Execute runs the command line and logs any failure.
func Execute(ctx context.Context) error {
	rootCmd := NewRootCommand()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

func (a *app) initialize(cmd *cobra.Command) error {
	v, err := config.Load(a.cfgFile)
	if err != nil {
		return err
	}
	for name, key := range persistentBindings {
		if f := cmd.Flags().Lookup(name); f != nil {
			if err := v.BindPFlag(key, f); err != nil {
				return fmt.Errorf("binding flag %s: %w", name, err)
			}
		}
	}
	if f := cmd.Flags().Lookup("workers"); f != nil {
		if err := v.BindPFlag("render.workers", f); err != nil {
			return fmt.Errorf("binding flag workers: %w", err)
		}
	}

	cfg, err := config.NewConfigFromViper(v)
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = observability.NewStderrLogger(cfg.Logger)
	a.logger.Debug("configuration loaded",
		zap.String("config_file", v.ConfigFileUsed()),
		zap.Float64("viewport_width", cfg.Render.ViewportWidth),
		zap.Int("max_depth", cfg.Render.MaxDepth))
	return nil
}

func (a *app) fetcher() fetch.Fetcher {
	return fetch.NewHTTPFetcher(fetch.Options{
		Timeout:   a.cfg.Fetch.Timeout,
		UserAgent: a.cfg.Fetch.UserAgent,
		MaxBytes:  a.cfg.Fetch.MaxBytes,
	})
}

// newPipeline builds a pipeline from the loaded configuration. The theme
// file, when configured, replaces the built-in default stylesheet; authorCSS
// names an extra stylesheet applied after the document's own.
func (a *app) newPipeline(ctx context.Context, authorCSS string) (*pipeline.Pipeline, error) {
	f := a.fetcher()

	theme := css.DefaultTheme
	if a.cfg.Render.ThemeFile != "" {
		text, err := loadStylesheet(ctx, f, a.cfg.Render.ThemeFile)
		if err != nil {
			return nil, fmt.Errorf("loading theme: %w", err)
		}
		theme = text
	}

	var author string
	if authorCSS != "" {
		text, err := loadStylesheet(ctx, f, authorCSS)
		if err != nil {
			return nil, fmt.Errorf("loading stylesheet: %w", err)
		}
		author = text
	}

	return pipeline.New(pipeline.Options{
		ViewportWidth:     a.cfg.Render.ViewportWidth,
		CanvasWidth:       a.cfg.Render.CanvasWidth,
		CanvasHeight:      a.cfg.Render.CanvasHeight,
		MaxDepth:          a.cfg.Render.MaxDepth,
		DefaultStylesheet: theme,
		AuthorCSS:         author,
		DebugOutlines:     a.cfg.Render.DebugOutlines,
		Logger:            a.logger,
	}), nil
}

func loadStylesheet(ctx context.Context, f fetch.Fetcher, target string) (string, error) {
	if fetch.IsNetworkURL(target) {
		return fetch.FetchCSS(ctx, f, target)
	}
	body, _, err := fetch.ReadSource(ctx, f, target)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// renderSource reads a document from a file or URL and runs the pipeline.
func (a *app) renderSource(ctx context.Context, p *pipeline.Pipeline, target string) (*pipeline.Result, error) {
	raw, contentType, err := fetch.ReadSource(ctx, a.fetcher(), target)
	if err != nil {
		return nil, err
	}
	a.logger.Debug("read document",
		zap.String("source", target),
		zap.Int("bytes", len(raw)),
		zap.String("content_type", contentType))
	return p.Render(raw, contentType)
}
