package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/LaborStats/internal/application"
	"github.com/JonMunkholm/LaborStats/internal/cache"
	"github.com/JonMunkholm/LaborStats/internal/config"
	"github.com/JonMunkholm/LaborStats/internal/core"
	"github.com/JonMunkholm/LaborStats/internal/logging"
)

// cli holds the flag values shared by all subcommands.
type cli struct {
	envFile string

	sourcePath string
	sheet      string
	skipRows   int
	format     string
	profile    string

	cacheDriver string
	cachePath   string
	cacheTable  string

	logLevel string

	cfg *config.Config
}

func newRootCmd() *cobra.Command {
	c := &cli{}

	root := &cobra.Command{
		Use:   "labordash",
		Short: "Build and query labor-market indicator snapshots",
		Long: `labordash loads the indicator workbook, classifies each row by continent
and answers country or continent queries against the result.

Settings default to the server's environment variables (SOURCE_PATH,
SOURCE_SHEET, CACHE_DRIVER, ...). A .env file in the working directory is
read if present; flags take precedence over both.`,
		SilenceUsage:      true,
		PersistentPreRunE: c.setup,
	}

	f := root.PersistentFlags()
	f.StringVar(&c.envFile, "env-file", ".env", "dotenv file to read before the environment")
	f.StringVar(&c.sourcePath, "source", "", "workbook path (SOURCE_PATH)")
	f.StringVar(&c.sheet, "sheet", "", "worksheet name (SOURCE_SHEET)")
	f.IntVar(&c.skipRows, "skip-rows", 0, "preamble rows above the header (SOURCE_SKIP_ROWS)")
	f.StringVar(&c.format, "format", "", "source format: auto, xlsx, xls or csv (SOURCE_FORMAT)")
	f.StringVar(&c.profile, "profile", "", "dataset profile (DATASET_PROFILE)")
	f.StringVar(&c.cacheDriver, "cache-driver", "", "sqlite, postgres or none (CACHE_DRIVER)")
	f.StringVar(&c.cachePath, "cache-path", "", "SQLite cache file (CACHE_PATH)")
	f.StringVar(&c.cacheTable, "cache-table", "", "cache table name (CACHE_TABLE)")
	f.StringVar(&c.logLevel, "log-level", "", "debug, info, warn or error (LOG_LEVEL)")

	root.AddCommand(
		c.newLoadCmd(),
		c.newQueryCmd(),
		c.newStatsCmd(),
		c.newOptionsCmd(),
		c.newRunsCmd(),
		c.newResetCmd(),
		c.newProfilesCmd(),
	)
	return root
}

// setup loads configuration, applies flag overrides and sends logs to stderr
// so stdout carries only command output.
func (c *cli) setup(cmd *cobra.Command, _ []string) error {
	// A missing dotenv file is fine; Load does not overwrite the environment
	_ = godotenv.Load(c.envFile)

	cfg, err := config.Load()
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("source") {
		cfg.Source.Path = c.sourcePath
	}
	if flags.Changed("sheet") {
		cfg.Source.Sheet = c.sheet
	}
	if flags.Changed("skip-rows") {
		cfg.Source.SkipRows = c.skipRows
	}
	if flags.Changed("format") {
		cfg.Source.Format = c.format
	}
	if flags.Changed("profile") {
		cfg.Dataset.Profile = c.profile
	}
	if flags.Changed("cache-driver") {
		cfg.Cache.Driver = c.cacheDriver
	}
	if flags.Changed("cache-path") {
		cfg.Cache.Path = c.cachePath
	}
	if flags.Changed("cache-table") {
		cfg.Cache.Table = c.cacheTable
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = c.logLevel
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}

	logging.SetupWriter(cmd.ErrOrStderr(), cfg.Logging.Level, cfg.Logging.Format)
	c.cfg = cfg
	return nil
}

// open wires the pipeline. Read-only commands pass withCache=false so a
// query never rewrites the cache table.
func (c *cli) open(ctx context.Context, withCache bool) (*application.App, error) {
	cfg := *c.cfg
	if !withCache {
		cfg.Cache.Driver = cache.DriverNone
	}
	return application.New(ctx, &cfg)
}

// build opens the pipeline and builds one snapshot.
func (c *cli) build(ctx context.Context, withCache bool) (*application.App, *core.RefreshResult, error) {
	app, err := c.open(ctx, withCache)
	if err != nil {
		return nil, nil, err
	}

	result, err := app.Service.Refresh(core.ContextWithTrigger(ctx, core.TriggerCLI))
	if err != nil {
		app.Close()
		return nil, nil, fmt.Errorf("%s: %w", core.MapError(err).Message, err)
	}
	return app, result, nil
}

// parseNames drops blank arguments. Names are not split on commas since
// World Bank country names contain them ("Korea, Rep.").
func parseNames(args []string) []string {
	var names []string
	for _, arg := range args {
		if n := strings.TrimSpace(arg); n != "" {
			names = append(names, n)
		}
	}
	return names
}
