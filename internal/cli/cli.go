// Package cli implements the relocator command-line interface.
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

	"github.com/matzehuels/relocator/internal/config"
	"github.com/matzehuels/relocator/pkg/bay"
	"github.com/matzehuels/relocator/pkg/buildinfo"
	"github.com/matzehuels/relocator/pkg/cache"
	instio "github.com/matzehuels/relocator/pkg/io"
	"github.com/matzehuels/relocator/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "relocator"
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
	Config config.Config

	configPath string
}

// New creates a new CLI instance with a default logger and configuration.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// verbose reports whether debug logging is on.
func (c *CLI) verbose() bool {
	return c.Logger.GetLevel() <= log.DebugLevel
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Relocator solves the Block Relocation Problem to optimality",
		Long:         `Relocator computes minimum-length relocation sequences that retrieve every block of a container bay in priority order, using an iterative-deepening branch-and-bound search.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(c.configPath)
			if err != nil {
				return err
			}
			c.Config = cfg
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default $XDG_CONFIG_HOME/relocator/config.toml)")

	// Register all subcommands
	root.AddCommand(c.solveCommand())
	root.AddCommand(c.verifyCommand())
	root.AddCommand(c.replayCommand())
	root.AddCommand(c.benchCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner backed by the configured cache.
// The caller closes runner.Cache.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	var store cache.Cache = cache.NewNullCache()
	if !noCache && !c.Config.Cache.Disabled {
		var err error
		if store, err = c.openCache(ctx); err != nil {
			return nil, err
		}
	}

	keyer := cache.NewDefaultKeyer()
	if c.Config.Cache.Prefix != "" {
		keyer = cache.NewScopedKeyer(keyer, c.Config.Cache.Prefix)
	}
	runner := pipeline.NewRunner(store, keyer, c.Logger)
	if ttl := c.Config.TTL(); ttl > 0 {
		runner.TTL = ttl
	}
	return runner, nil
}

// openCache opens the backend named in the configuration.
func (c *CLI) openCache(ctx context.Context) (cache.Cache, error) {
	cc := c.Config.Cache
	switch cc.Backend {
	case config.BackendRedis:
		return cache.NewRedisCache(ctx, cache.RedisOptions{
			Addr:     cc.RedisAddr,
			Password: cc.RedisPassword,
			DB:       cc.RedisDB,
		})
	case config.BackendBadger:
		dir, err := c.backendDir()
		if err != nil {
			return nil, fmt.Errorf("get cache dir: %w", err)
		}
		return cache.NewBadgerCache(cache.BadgerOptions{Dir: dir})
	default:
		dir, err := c.backendDir()
		if err != nil {
			return nil, fmt.Errorf("get cache dir: %w", err)
		}
		return cache.NewFileCache(dir)
	}
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the configured cache directory, or the XDG default.
func (c *CLI) cacheDir() (string, error) {
	if c.Config.Cache.Dir != "" {
		return config.ExpandHome(c.Config.Cache.Dir), nil
	}
	return cacheDir()
}

// backendDir returns the directory of the configured local backend.
func (c *CLI) backendDir() (string, error) {
	dir, err := c.cacheDir()
	if err != nil {
		return "", err
	}
	if c.Config.Cache.Backend == config.BackendBadger {
		return filepath.Join(dir, "badger"), nil
	}
	return filepath.Join(dir, "reports"), nil
}

// cacheDir returns the cache directory using XDG standard (~/.cache/relocator/).
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
// Instance Files
// =============================================================================

// loadInstance reads an instance file. Files ending in .json use the JSON
// codec, "-" reads the text format from stdin, anything else is text.
func loadInstance(path string) (*bay.Instance, error) {
	switch {
	case path == "-":
		return instio.ReadText(os.Stdin)
	case strings.EqualFold(filepath.Ext(path), ".json"):
		return instio.ImportJSON(path)
	default:
		return instio.ImportText(path)
	}
}

// instanceName is the display name of an instance file.
func instanceName(path string) string {
	if path == "-" {
		return "stdin"
	}
	return filepath.Base(path)
}
