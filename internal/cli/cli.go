package cli

import (
	"context"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/wordmosaic/internal/config"
	"github.com/matzehuels/wordmosaic/pkg/buildinfo"
	"github.com/matzehuels/wordmosaic/pkg/cache"
	"github.com/matzehuels/wordmosaic/pkg/pipeline"
	"github.com/matzehuels/wordmosaic/pkg/store"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "wordmosaic"

	// redisPrefix namespaces cache keys in a shared Redis.
	redisPrefix = appName + ":"
)

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

	configPath string
	cfg        *config.Config
	cfgPath    string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Wordmosaic turns documents into word clouds",
		Long:         `Wordmosaic counts the words of a text, PDF or DOCX document, sizes them by frequency and packs them into a word cloud rendered as SVG, PNG, JPEG, PDF or JSON.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/wordmosaic/config.toml)")

	root.AddCommand(c.generateCommand())
	root.AddCommand(c.countCommand())
	root.AddCommand(c.stopwordsCommand())
	root.AddCommand(c.palettesCommand())
	root.AddCommand(c.historyCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Configuration
// =============================================================================

// loadConfig loads the configuration file once per process.
func (c *CLI) loadConfig() (*config.Config, error) {
	if c.cfg != nil {
		return c.cfg, nil
	}
	cfg, path, exists, err := config.Load(c.configPath)
	if err != nil {
		return nil, err
	}
	if exists {
		c.Logger.Debug("loaded config", "path", path)
	} else {
		c.Logger.Debug("no config file, using defaults", "path", path)
	}
	c.cfg, c.cfgPath = cfg, path
	return cfg, nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// runnerOpts selects which backends a command needs.
type runnerOpts struct {
	noCache   bool
	noHistory bool
}

// newRunner creates a pipeline runner with the configured cache and store.
func (c *CLI) newRunner(ctx context.Context, cfg *config.Config, ro runnerOpts) (*pipeline.Runner, error) {
	ch, err := c.newCache(ctx, cfg, ro.noCache)
	if err != nil {
		return nil, err
	}
	var st store.Store
	if !ro.noHistory {
		if st, err = openStore(ctx, cfg); err != nil {
			ch.Close()
			return nil, err
		}
	}
	return pipeline.NewRunner(ch, nil, st, c.Logger), nil
}

func (c *CLI) newCache(ctx context.Context, cfg *config.Config, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	switch cfg.Cache.Backend {
	case config.BackendNone:
		return cache.NewNullCache(), nil
	case config.BackendRedis:
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			Addr:     cfg.Cache.RedisAddr,
			Password: cfg.Cache.RedisPassword,
			DB:       cfg.Cache.RedisDB,
			Prefix:   redisPrefix,
		})
		if err != nil {
			return nil, err
		}
		return rc, nil
	}
	dir, err := cacheDir(cfg)
	if err != nil {
		c.Logger.Warn("cache disabled", "error", err)
		return cache.NewNullCache(), nil
	}
	fc, err := cache.NewFileCache(dir)
	if err != nil {
		return nil, err
	}
	return fc, nil
}

// openStore opens the configured table store. It returns a nil Store when
// history is disabled.
func openStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	switch cfg.Store.Backend {
	case config.BackendNone:
		return nil, nil
	case config.BackendMongo:
		ms, err := store.OpenMongo(ctx, store.MongoConfig{
			URI:        cfg.Store.MongoURI,
			Database:   cfg.Store.MongoDatabase,
			Collection: cfg.Store.MongoCollection,
		})
		if err != nil {
			return nil, err
		}
		return ms, nil
	}
	path := cfg.Store.Path
	if path == "" {
		var err error
		if path, err = store.DefaultSQLitePath(); err != nil {
			return nil, err
		}
	}
	ss, err := store.OpenSQLite(ctx, path)
	if err != nil {
		return nil, err
	}
	return ss, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the configured cache directory, or the XDG default
// (~/.cache/wordmosaic/).
func cacheDir(cfg *config.Config) (string, error) {
	if cfg != nil && cfg.Cache.Dir != "" {
		return cfg.Cache.Dir, nil
	}
	return cache.DefaultDir()
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.ToLower(strings.TrimSpace(f)); f != "" {
			out = append(out, f)
		}
	}
	return out
}
