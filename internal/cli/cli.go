// Package cli implements the latticeviz command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/latticeviz/pkg/buildinfo"
	"github.com/matzehuels/latticeviz/pkg/cache"
	"github.com/matzehuels/latticeviz/pkg/observability"
	"github.com/matzehuels/latticeviz/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = "latticeviz"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Persistent flags
	configPath string
	redisAddr  string
	noCache    bool
	verbose    bool

	// out receives command output; nil means stdout.
	out io.Writer
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// SetOutput redirects command output, for tests.
func (c *CLI) SetOutput(w io.Writer) {
	c.out = w
}

func (c *CLI) stdout() io.Writer {
	if c.out != nil {
		return c.out
	}
	return os.Stdout
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Latticeviz analyzes and lays out formal concept lattices",
		Long:         `Latticeviz reads a concept lattice exported as JSON, lays it out as a layered Hasse diagram, and derives metrics and the canonical base of attribute implications.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.verbose {
				c.SetLogLevel(LogDebug)
				hooks := observability.NewLogHooks(c.Logger)
				observability.SetPipelineHooks(hooks)
				observability.SetCacheHooks(hooks)
				observability.SetHTTPHooks(hooks)
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	flags := root.PersistentFlags()
	flags.StringVar(&c.configPath, "config", "", "TOML config file")
	flags.StringVar(&c.redisAddr, "redis", "", "Redis address for the result cache (overrides the file cache)")
	flags.BoolVar(&c.noCache, "no-cache", false, "disable the result cache")
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")

	// Register all subcommands
	root.AddCommand(c.analyzeCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.metricsCommand())
	root.AddCommand(c.implicationsCommand())
	root.AddCommand(c.pathCommand())
	root.AddCommand(c.filterCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Config and Runner Factory
// =============================================================================

// loadConfig reads the --config file and applies flag overrides.
func (c *CLI) loadConfig() (pipeline.Config, error) {
	cfg, err := pipeline.LoadConfig(c.configPath)
	if err != nil {
		return cfg, err
	}
	if c.redisAddr != "" {
		cfg.Cache.RedisAddr = c.redisAddr
	}
	if c.noCache {
		cfg.Cache.Disabled = true
	}
	return cfg, nil
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, cfg pipeline.CacheConfig) (*pipeline.Runner, error) {
	cc, err := newCache(ctx, cfg, c.Logger)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cc, nil, c.Logger), nil
}

// newCache selects the cache backend: disabled, Redis, or the local file
// cache. A file cache that cannot be created degrades to no caching.
func newCache(ctx context.Context, cfg pipeline.CacheConfig, logger *log.Logger) (cache.Cache, error) {
	if cfg.Disabled {
		return cache.NewNullCache(), nil
	}
	if cfg.RedisAddr != "" {
		rc, err := cache.NewRedisCache(ctx, cache.RedisOptions{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   appName + ":",
		})
		if err != nil {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		return rc, nil
	}
	dir := cfg.Dir
	if dir == "" {
		d, err := cacheDir()
		if err != nil {
			logger.Warn("no cache directory, caching disabled", "err", err)
			return cache.NewNullCache(), nil
		}
		dir = d
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/latticeviz/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// analysisFlags are the flags shared by every command that runs the pipeline.
type analysisFlags struct {
	width, height, padding float64
	minSpacing, maxSpacing float64
	skipImplications       bool
	skipMinimize           bool
	refresh                bool
}

func (f *analysisFlags) register(cmd *cobra.Command) {
	fs := cmd.Flags()
	fs.Float64Var(&f.width, "width", 0, "canvas width (default 800)")
	fs.Float64Var(&f.height, "height", 0, "minimum canvas height (default 600)")
	fs.Float64Var(&f.padding, "padding", 0, "canvas padding (default 50)")
	fs.Float64Var(&f.minSpacing, "min-spacing", 0, "spacing below narrow layers (default 80)")
	fs.Float64Var(&f.maxSpacing, "max-spacing", 0, "spacing below the widest layer (default 150)")
	fs.BoolVar(&f.skipImplications, "no-implications", false, "skip the canonical base")
	fs.BoolVar(&f.skipMinimize, "no-minimize", false, "keep implication premises unminimized")
	fs.BoolVar(&f.refresh, "refresh", false, "ignore cached results")
}

// apply overlays flags that were set on the config file options.
func (f *analysisFlags) apply(cmd *cobra.Command, opts *pipeline.Options) {
	fs := cmd.Flags()
	floats := []struct {
		name string
		src  float64
		dst  *float64
	}{
		{"width", f.width, &opts.Width},
		{"height", f.height, &opts.Height},
		{"padding", f.padding, &opts.Padding},
		{"min-spacing", f.minSpacing, &opts.MinSpacing},
		{"max-spacing", f.maxSpacing, &opts.MaxSpacing},
	}
	for _, fl := range floats {
		if fs.Changed(fl.name) {
			*fl.dst = fl.src
		}
	}
	if fs.Changed("no-implications") {
		opts.SkipImplications = f.skipImplications
	}
	if fs.Changed("no-minimize") {
		opts.SkipMinimize = f.skipMinimize
	}
	opts.Refresh = f.refresh
}

// analyze loads the config, builds a runner and runs the pipeline on input.
func (c *CLI) analyze(cmd *cobra.Command, input string, flags *analysisFlags, mutate func(*pipeline.Options)) (*pipeline.Result, error) {
	ctx := cmd.Context()
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	opts := cfg.Analysis
	flags.apply(cmd, &opts)
	if mutate != nil {
		mutate(&opts)
	}

	runner, err := c.newRunner(ctx, cfg.Cache)
	if err != nil {
		return nil, err
	}
	defer runner.Close()

	prog := newProgress(loggerFromContext(ctx))
	res, err := runner.ExecuteFile(ctx, input, opts)
	if err != nil {
		return nil, err
	}
	prog.done(fmt.Sprintf("Analyzed %d concepts", len(res.Concepts)))
	return res, nil
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	return strings.Split(s, ",")
}

// splitTokens splits a comma-separated token list, dropping blanks.
func splitTokens(s string) []string {
	var out []string
	for _, t := range strings.Split(s, ",") {
		if t = strings.TrimSpace(t); t != "" {
			out = append(out, t)
		}
	}
	return out
}
