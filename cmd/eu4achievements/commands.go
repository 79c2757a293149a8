package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/IshaanNene/eu4achievements/internal/config"
	"github.com/IshaanNene/eu4achievements/internal/observability"
	"github.com/IshaanNene/eu4achievements/internal/render"
	"github.com/IshaanNene/eu4achievements/internal/types"
)

// versionCmd creates the "version" subcommand.
func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "eu4achievements %s\n", config.Version)
		},
	}
}

// configCmd creates the "config" subcommand for inspecting configuration.
func configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Source:\n")
			fmt.Fprintf(w, "  App ID:            %s\n", cfg.Source.AppID)
			fmt.Fprintf(w, "  Profile URL:       %s\n", cfg.Source.ProfileURL)
			fmt.Fprintf(w, "  Fallback URL:      %s\n", cfg.Source.ProfileFallbackURL)
			fmt.Fprintf(w, "  Wiki URL:          %s\n", cfg.Source.WikiURL)
			fmt.Fprintf(w, "  Achievement Row:   %s\n", cfg.Source.Selectors.AchievementRow)
			fmt.Fprintf(w, "  Difficulty Rows:   %s\n", cfg.Source.Selectors.DifficultyRows)
			fmt.Fprintf(w, "\nFetcher:\n")
			fmt.Fprintf(w, "  Type:              %s\n", cfg.Fetcher.Type)
			fmt.Fprintf(w, "  Request Timeout:   %s\n", cfg.Fetcher.RequestTimeout)
			fmt.Fprintf(w, "  Follow Redirects:  %v\n", cfg.Fetcher.FollowRedirects)
			fmt.Fprintf(w, "  Max Body Size:     %d bytes\n", cfg.Fetcher.MaxBodySize)
			fmt.Fprintf(w, "  Stealth:           %v\n", cfg.Fetcher.Stealth)
			fmt.Fprintf(w, "\nOutput:\n")
			fmt.Fprintf(w, "  Format:            %s\n", cfg.Output.Format)
			fmt.Fprintf(w, "\nStorage:\n")
			fmt.Fprintf(w, "  Type:              %s\n", cfg.Storage.Type)
			fmt.Fprintf(w, "  Output Path:       %s\n", cfg.Storage.OutputPath)
			fmt.Fprintf(w, "  Mongo Database:    %s\n", cfg.Storage.Mongo.Database)
			fmt.Fprintf(w, "\nLogging:\n")
			fmt.Fprintf(w, "  Level:             %s\n", cfg.Logging.Level)
			fmt.Fprintf(w, "  Format:            %s\n", cfg.Logging.Format)
			return nil
		},
	}
	return cmd
}

// difficultyCmd creates the "difficulty" subcommand listing the wiki table.
func difficultyCmd() *cobra.Command {
	var (
		tiers []string
		links bool
	)

	cmd := &cobra.Command{
		Use:   "difficulty",
		Short: "List the wiki difficulty table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			selected, err := parseTierFilter(tiers)
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

			eng, err := newEngine(cfg, logger, stats)
			if err != nil {
				return err
			}
			defer eng.Close()

			difficulties, err := eng.FetchDifficulties(cmd.Context())
			if err != nil {
				return err
			}

			if len(selected) > 0 {
				kept := difficulties[:0]
				for _, d := range difficulties {
					if selected[d.Tier] {
						kept = append(kept, d)
					}
				}
				difficulties = kept
			}

			return render.New(cfg.Source.WikiURL, links).DifficultyTable(cmd.OutOrStdout(), difficulties)
		},
	}

	cmd.Flags().StringSliceVarP(&tiers, "tier", "t", nil, "difficulty filter tokens (ve, e, m, h, vh, i, uc)")
	cmd.Flags().BoolVarP(&links, "link", "l", false, "include links to the wiki entries")
	return cmd
}

// parseTierFilter resolves difficulty filter tokens to a tier set.
func parseTierFilter(raw []string) (map[types.Tier]bool, error) {
	tokens, err := types.ParseFilterTokens(raw)
	if err != nil {
		return nil, err
	}

	set := make(map[types.Tier]bool, len(tokens))
	for _, tok := range tokens {
		tier, ok := tok.Tier()
		if !ok {
			return nil, fmt.Errorf("%w: %q is not a difficulty filter", types.ErrUnknownFilter, tok)
		}
		set[tier] = true
	}
	return set, nil
}
