// Package cli implements the fabgen command-line interface.
//
// The commands read a technology description, a tile library and a fabric
// configuration and turn them into physical design views:
//   - generate: build the fabric and write DEF, LEF, JSON and SVG outputs
//   - validate: run every check and print the diagnostics, writing nothing
//   - convert: rewrite a fabric configuration as JSON, TOML or HCL
//   - serve: expose generation over HTTP
//   - cache: inspect or clear the artifact cache
//
// # Logging
//
// All commands log through a charmbracelet/log logger held by [CLI].
// --verbose (-v) switches to debug output and --quiet limits it to errors.
//
// # Example
//
//	c := cli.New(os.Stderr, cli.LogInfo)
//	if err := c.RootCommand().ExecuteContext(ctx); err != nil {
//	    os.Exit(1)
//	}
package cli

import (
	"context"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/structasic/fabgen/pkg/buildinfo"
	"github.com/structasic/fabgen/pkg/cache"
	"github.com/structasic/fabgen/pkg/pipeline"
)

// appName is the application name used for directories and display.
const appName = "fabgen"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
	LogError = log.ErrorLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	verbose bool
	quiet   bool
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
		Short:        "fabgen generates structured ASIC fabrics",
		Long:         `fabgen tiles a library of pre-characterised cell templates into a regular fabric, surrounds it with edge cells and an I/O pin ring, and writes the result as DEF, LEF, JSON and SVG.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().BoolVarP(&c.quiet, "quiet", "q", false, "suppress non-error output")
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		c.SetLogLevel(logLevel(c.verbose, c.quiet))
		return nil
	}

	root.AddCommand(c.generateCommand())
	root.AddCommand(c.validateCommand())
	root.AddCommand(c.convertCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// cacheFlags selects the artifact cache of a command.
type cacheFlags struct {
	noCache bool
	url     string // redis:// URL; empty means the file cache
}

func (f *cacheFlags) register(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().StringVar(&f.url, "cache-url", "", "use a Redis cache at this redis:// URL instead of the file cache")
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, flags cacheFlags) (*pipeline.Runner, error) {
	store, err := c.newCache(ctx, flags)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(store, nil, c.Logger), nil
}

func (c *CLI) newCache(ctx context.Context, flags cacheFlags) (cache.Cache, error) {
	switch {
	case flags.noCache:
		return cache.NewNullCache(), nil
	case flags.url != "":
		return cache.NewRedisCache(ctx, flags.url)
	}
	dir, err := cache.DefaultDir()
	if err != nil {
		c.Logger.Debug("no cache directory, caching disabled", "err", err)
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}
