package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/IshaanNene/eu4achievements/internal/config"
	"github.com/IshaanNene/eu4achievements/internal/engine"
	"github.com/IshaanNene/eu4achievements/internal/fetcher"
	"github.com/IshaanNene/eu4achievements/internal/observability"
	"github.com/IshaanNene/eu4achievements/internal/render"
	"github.com/IshaanNene/eu4achievements/internal/storage"
	"github.com/IshaanNene/eu4achievements/internal/types"
)

var (
	cfgFile      string
	verbose      bool
	user         string
	filterTokens []string
	random       bool
	withLink     bool
	quiet        bool
	outputFormat string
	outputPath   string
	summary      bool
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

// newRootCmd builds the command tree and binds every flag.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "eu4achievements -u <user> [flags]",
		Short: "Europa Universalis IV achievement progress with wiki difficulty ratings",
		Long: `eu4achievements reads a Steam user's EU4 achievement page, joins every
achievement with its difficulty rating from the EU4 wiki and prints the result.

Filters (repeatable, comma separated, combined with AND):
  ` + types.FilterUsage,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		RunE:          runReport,
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	flags := rootCmd.Flags()
	flags.StringVarP(&user, "user", "u", "", "Steam profile id or vanity name")
	flags.StringSliceVarP(&filterTokens, "filter", "f", nil, "filter tokens: "+types.FilterUsage)
	flags.BoolVarP(&random, "random", "r", false, "print a single random achievement")
	flags.BoolVarP(&withLink, "link", "l", false, "include a link to the wiki entry")
	flags.BoolVarP(&quiet, "quiet", "q", false, "suppress report output")
	flags.StringVar(&outputFormat, "format", "", "report format: text, table")
	flags.StringVarP(&outputPath, "output", "o", "", "export selected records to a .json, .jsonl or .csv file")
	flags.BoolVarP(&summary, "summary", "s", false, "print per-tier progress after the report")
	_ = rootCmd.MarkFlagRequired("user")

	rootCmd.AddCommand(versionCmd())
	rootCmd.AddCommand(configCmd())
	rootCmd.AddCommand(difficultyCmd())

	return rootCmd
}

// runReport executes the default command.
func runReport(cmd *cobra.Command, _ []string) error {
	// Unknown filters are rejected before any network I/O
	filters, err := types.ParseFilterTokens(filterTokens)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger := setupLogger(cfg.Logging)
	stats := observability.NewStats(logger)
	defer stats.Log()

	logger.Info("starting report",
		"user", user,
		"filters", filters,
		"format", cfg.Output.Format,
	)

	eng, err := newEngine(cfg, logger, stats)
	if err != nil {
		return err
	}
	defer func() {
		if err := eng.Close(); err != nil {
			logger.Warn("fetcher close error", "error", err)
		}
	}()

	ctx := cmd.Context()
	result, err := eng.Run(ctx, user, filters)
	if err != nil {
		return err
	}
	logger.Info("report ready",
		"profile_url", result.ProfileURL,
		"achievements", len(result.Records),
		"selected", len(result.Selected),
	)

	report := render.NewReport(cmd.OutOrStdout(), render.ReportOptions{
		Format: cfg.Output.Format,
		Random: random,
		Quiet:  quiet,
	}, render.New(cfg.Source.WikiURL, withLink), stats, logger)

	if result.Empty() {
		return report.NoAchievements(user)
	}

	picked, err := report.Write(result.Selected)
	if err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	if picked != nil {
		logger.Debug("random pick", "title", picked.Title)
	}

	if summary && !quiet {
		if err := render.TierSummary(cmd.OutOrStdout(), result.Records); err != nil {
			return fmt.Errorf("write summary: %w", err)
		}
	}

	return export(ctx, cfg, result.Selected, stats, logger)
}

// newEngine creates the engine with the configured fetcher.
func newEngine(cfg *config.Config, logger *slog.Logger, stats *observability.Stats) (*engine.Engine, error) {
	f, err := fetcher.New(cfg, logger, stats)
	if err != nil {
		return nil, fmt.Errorf("create fetcher: %w", err)
	}

	logger.Debug("fetcher ready", "type", f.Type())

	eng := engine.New(cfg, logger, stats)
	eng.SetFetcher(f)
	return eng, nil
}

// export writes records to the configured storage backend, if any.
func export(ctx context.Context, cfg *config.Config, records []*types.Record, stats *observability.Stats, logger *slog.Logger) error {
	store, err := storage.New(ctx, cfg, user, logger)
	if err != nil {
		return fmt.Errorf("create storage: %w", err)
	}
	if store == nil {
		return nil
	}

	if err := store.Store(records); err != nil {
		_ = store.Close()
		return fmt.Errorf("export records: %w", err)
	}
	if err := store.Close(); err != nil {
		return fmt.Errorf("close storage: %w", err)
	}

	stats.RecordsStored.Add(int64(len(records)))
	logger.Info("records exported", "backend", store.Name(), "count", len(records))
	return nil
}

// loadConfig loads, overrides and validates the configuration.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	if err := applyCLIOverrides(cfg); err != nil {
		return nil, err
	}

	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// applyCLIOverrides applies command-line flag values to the config.
func applyCLIOverrides(cfg *config.Config) error {
	if verbose {
		cfg.Logging.Level = "debug"
	}
	if outputFormat != "" {
		cfg.Output.Format = strings.ToLower(outputFormat)
	}
	if outputPath != "" {
		typ, err := storage.TypeFromPath(outputPath)
		if err != nil {
			return err
		}
		cfg.Storage.Type = typ
		cfg.Storage.OutputPath = outputPath
	}
	return nil
}

// setupLogger creates a structured logger on stderr.
func setupLogger(cfg config.LoggingConfig) *slog.Logger {
	level := slog.LevelWarn
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{
		Level: level,
	}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	return slog.New(handler)
}
