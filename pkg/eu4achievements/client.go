// Package eu4achievements provides a public API for embedding the achievement
// report as a library.
//
// Example usage:
//
//	client, err := eu4achievements.NewClient(
//	    eu4achievements.WithTimeout(30 * time.Second),
//	)
//	if err != nil {
//	    return err
//	}
//	defer client.Close()
//
//	records, err := client.Report(ctx, "76561197960287930", "nc", "vh")
package eu4achievements

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/IshaanNene/eu4achievements/internal/config"
	"github.com/IshaanNene/eu4achievements/internal/engine"
	"github.com/IshaanNene/eu4achievements/internal/fetcher"
	"github.com/IshaanNene/eu4achievements/internal/observability"
	"github.com/IshaanNene/eu4achievements/internal/types"
)

// Re-exported domain types.
type (
	Record      = types.Record
	Achievement = types.Achievement
	Difficulty  = types.Difficulty
	Tier        = types.Tier
)

// Client fetches and merges achievement data.
type Client struct {
	cfg    *config.Config
	engine *engine.Engine
	stats  *observability.Stats
	logger *slog.Logger
}

// Option configures a Client.
type Option func(*config.Config)

// WithTimeout sets the per-request timeout. Zero means no timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *config.Config) { c.Fetcher.RequestTimeout = d }
}

// WithUserAgent sets a custom User-Agent.
func WithUserAgent(ua string) Option {
	return func(c *config.Config) { c.Fetcher.UserAgent = ua }
}

// WithBrowser fetches pages with a headless browser instead of plain HTTP.
func WithBrowser(stealth bool) Option {
	return func(c *config.Config) {
		c.Fetcher.Type = "browser"
		c.Fetcher.Stealth = stealth
	}
}

// WithSources overrides the profile URL templates and the wiki URL.
// Templates use the {user} and {app} placeholders.
func WithSources(profileURL, fallbackURL, wikiURL string) Option {
	return func(c *config.Config) {
		c.Source.ProfileURL = profileURL
		c.Source.ProfileFallbackURL = fallbackURL
		c.Source.WikiURL = wikiURL
	}
}

// WithAppID sets the Steam application id.
func WithAppID(id string) Option {
	return func(c *config.Config) { c.Source.AppID = id }
}

// WithVerbose enables debug-level logging.
func WithVerbose() Option {
	return func(c *config.Config) { c.Logging.Level = "debug" }
}

// NewClient creates a new Client with the given options.
func NewClient(opts ...Option) (*Client, error) {
	cfg := config.DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	level := slog.LevelWarn
	if cfg.Logging.Level == "debug" {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	stats := observability.NewStats(logger)

	f, err := fetcher.New(cfg, logger, stats)
	if err != nil {
		return nil, fmt.Errorf("create fetcher: %w", err)
	}

	eng := engine.New(cfg, logger, stats)
	eng.SetFetcher(f)

	return &Client{
		cfg:    cfg,
		engine: eng,
		stats:  stats,
		logger: logger,
	}, nil
}

// Report returns the user's achievements merged with their difficulty and
// narrowed by the given filter tokens ("c", "not-completed", "vh", ...).
// It returns an empty slice when the profile has no achievements.
func (c *Client) Report(ctx context.Context, user string, filters ...string) ([]*Record, error) {
	tokens, err := types.ParseFilterTokens(filters)
	if err != nil {
		return nil, err
	}

	result, err := c.engine.Run(ctx, user, tokens)
	if err != nil {
		return nil, err
	}
	return result.Selected, nil
}

// Difficulties returns the wiki difficulty table.
func (c *Client) Difficulties(ctx context.Context) ([]Difficulty, error) {
	return c.engine.FetchDifficulties(ctx)
}

// Stats returns the client's counters accumulated over all calls.
func (c *Client) Stats() map[string]int64 {
	return c.stats.Snapshot()
}

// Close releases the underlying fetcher.
func (c *Client) Close() error {
	return c.engine.Close()
}
