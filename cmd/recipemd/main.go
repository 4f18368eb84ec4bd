package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-recipemd"
)

// globalOptions are the persistent flags shared by every subcommand.
type globalOptions struct {
	driver     string
	dsn        string
	cache      bool
	cacheTTL   time.Duration
	extensions []string
	locales    []string
	logLevel   string
	logFormat  string
	timeout    time.Duration
}

var moduleBuilder = buildModule

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:          "recipemd",
		Short:        "Parse, check and catalog RecipeMD documents",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			cmd.SetContext(recipemd.ContextWithLogFields(cmd.Context(), map[string]any{
				"cli_command": cmd.Name(),
			}))
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.driver, "driver", recipemd.DriverMemory, "catalog storage driver (memory, sqlite, postgres)")
	flags.StringVar(&opts.dsn, "dsn", "", "catalog data source name for sql drivers")
	flags.BoolVar(&opts.cache, "cache", false, "enable the read-through catalog cache")
	flags.DurationVar(&opts.cacheTTL, "cache-ttl", time.Minute, "catalog cache ttl")
	flags.StringSliceVar(&opts.extensions, "ext", nil, "goldmark extensions to enable (table, strikethrough, ...)")
	flags.StringSliceVar(&opts.locales, "locales", nil, "first-level directories that select a locale")
	flags.StringVar(&opts.logLevel, "log-level", "", "enable go-logger output at this level")
	flags.StringVar(&opts.logFormat, "log-format", "console", "go-logger output format (console, json, pretty)")
	flags.DurationVar(&opts.timeout, "timeout", 30*time.Second, "command timeout")

	rootCmd.AddCommand(newParseCmd(opts))
	rootCmd.AddCommand(newCheckCmd(opts))
	rootCmd.AddCommand(newImportCmd(opts))
	rootCmd.AddCommand(newListCmd(opts))
	rootCmd.AddCommand(newShowCmd(opts))

	return rootCmd
}

// config maps the persistent flags onto a module configuration rooted at dir.
func (o *globalOptions) config(dir string) recipemd.Config {
	cfg := recipemd.DefaultConfig()
	cfg.Library.Dir = dir
	cfg.Library.Locales = o.locales
	cfg.Parser.Extensions = o.extensions
	cfg.Storage.Driver = o.driver
	cfg.Storage.DSN = o.dsn
	cfg.Storage.Cache.Enabled = o.cache
	cfg.Storage.Cache.TTL = o.cacheTTL
	cfg.Commands.Timeout = o.timeout
	if level := strings.TrimSpace(o.logLevel); level != "" {
		cfg.Logging.Provider = "gologger"
		cfg.Logging.Level = level
		cfg.Logging.Format = o.logFormat
	}
	return cfg
}

func buildModule(ctx context.Context, cfg recipemd.Config) (*recipemd.Module, error) {
	module, err := recipemd.New(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("bootstrap module: %w", err)
	}
	return module, nil
}
