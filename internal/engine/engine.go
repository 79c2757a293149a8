package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/IshaanNene/eu4achievements/internal/config"
	"github.com/IshaanNene/eu4achievements/internal/observability"
	"github.com/IshaanNene/eu4achievements/internal/parser"
	"github.com/IshaanNene/eu4achievements/internal/pipeline"
	"github.com/IshaanNene/eu4achievements/internal/types"
)

// Request tags, one per page the engine fetches.
const (
	TagProfile         = "profile"
	TagProfileFallback = "profile-fallback"
	TagWiki            = "wiki"
)

// Fetcher is the interface for all fetcher implementations.
type Fetcher interface {
	Fetch(ctx context.Context, req *types.Request) (*types.Response, error)
	Close() error
}

// Result is the outcome of a single report run.
type Result struct {
	// User is the profile identifier the run was started for.
	User string

	// ProfileURL is the profile page the achievements came from. Empty when
	// neither profile URL yielded any achievements.
	ProfileURL string

	// Records holds every achievement merged with its difficulty.
	Records []*types.Record

	// Selected holds the records that passed the filters.
	Selected []*types.Record

	// Suggestions lists near-miss wiki titles for records without a difficulty.
	Suggestions []pipeline.Suggestion
}

// Empty reports whether the profile yielded no achievements at all.
func (r *Result) Empty() bool {
	return len(r.Records) == 0
}

// Engine runs the fetch, extract, merge and filter steps of a report.
type Engine struct {
	cfg          *config.Config
	base         *slog.Logger
	logger       *slog.Logger
	stats        *observability.Stats
	fetcher      Fetcher
	achievements *parser.AchievementExtractor
	difficulties *parser.DifficultyExtractor

	mu sync.RWMutex
}

// New creates a new Engine with the given configuration.
func New(cfg *config.Config, logger *slog.Logger, stats *observability.Stats) *Engine {
	return &Engine{
		cfg:          cfg,
		base:         logger,
		logger:       logger.With("component", "engine"),
		stats:        stats,
		achievements: parser.NewAchievementExtractor(cfg.Source.Selectors, logger),
		difficulties: parser.NewDifficultyExtractor(cfg.Source.Selectors, logger),
	}
}

// SetFetcher sets the fetcher used for every page.
func (e *Engine) SetFetcher(f Fetcher) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.fetcher = f
}

// Run produces the merged and filtered records for user. When neither
// profile URL yields any achievements the result is empty and the wiki is
// not fetched.
func (e *Engine) Run(ctx context.Context, user string, filters []types.FilterToken) (*Result, error) {
	result := &Result{User: user}

	achievements, profileURL, err := e.FetchAchievements(ctx, user)
	if err != nil {
		return nil, err
	}
	if len(achievements) == 0 {
		e.logger.Info("no achievements found", "user", user)
		return result, nil
	}
	result.ProfileURL = profileURL

	difficulties, err := e.FetchDifficulties(ctx)
	if err != nil {
		return nil, err
	}

	result.Records = pipeline.Merge(achievements, difficulties)
	for _, rec := range result.Records {
		if rec.HasDifficulty() {
			e.stats.RecordsMatched.Add(1)
		}
	}

	result.Suggestions = pipeline.SuggestTitles(result.Records, difficulties)
	for _, s := range result.Suggestions {
		e.logger.Debug("achievement missing from wiki table",
			"title", s.Title,
			"closest", s.Closest,
			"score", fmt.Sprintf("%.3f", s.Score),
		)
	}

	p := pipeline.NewFilterPipeline(filters, e.base)
	result.Selected = p.Run(result.Records)
	e.logger.Debug("filters applied", "stages", p.Len(), "in", len(result.Records), "out", len(result.Selected))
	e.stats.RecordsFiltered.Add(int64(len(result.Records) - len(result.Selected)))

	e.logger.Info("run complete",
		"user", user,
		"profile_url", result.ProfileURL,
		"achievements", len(result.Records),
		"selected", len(result.Selected),
	)
	return result, nil
}

// FetchAchievements extracts the user's achievements from the primary profile
// URL, falling back to the vanity URL only when the primary yields none.
// It returns the URL of the page the achievements came from.
func (e *Engine) FetchAchievements(ctx context.Context, user string) ([]types.Achievement, string, error) {
	src := e.cfg.Source
	primary := config.ExpandProfileURL(src.ProfileURL, user, src.AppID)

	achievements, err := e.fetchAchievements(ctx, primary, TagProfile)
	if err != nil {
		return nil, "", err
	}
	if len(achievements) > 0 {
		return achievements, primary, nil
	}

	if src.ProfileFallbackURL == "" {
		return nil, "", nil
	}

	fallback := config.ExpandProfileURL(src.ProfileFallbackURL, user, src.AppID)
	e.logger.Debug("primary profile empty, trying fallback", "primary", primary, "fallback", fallback)
	e.stats.FallbackUsed.Add(1)

	achievements, err = e.fetchAchievements(ctx, fallback, TagProfileFallback)
	if err != nil {
		return nil, "", err
	}
	if len(achievements) == 0 {
		return nil, "", nil
	}
	return achievements, fallback, nil
}

// FetchDifficulties extracts the wiki difficulty table.
func (e *Engine) FetchDifficulties(ctx context.Context) ([]types.Difficulty, error) {
	resp, err := e.fetch(ctx, e.cfg.Source.WikiURL, TagWiki)
	if err != nil {
		return nil, err
	}

	difficulties, err := e.difficulties.Extract(resp)
	if err != nil {
		return nil, fmt.Errorf("extract difficulties: %w", err)
	}
	e.stats.DifficultiesExtracted.Add(int64(len(difficulties)))
	return difficulties, nil
}

// Close releases the fetcher.
func (e *Engine) Close() error {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.fetcher == nil {
		return nil
	}
	return e.fetcher.Close()
}

func (e *Engine) fetchAchievements(ctx context.Context, rawURL, tag string) ([]types.Achievement, error) {
	resp, err := e.fetch(ctx, rawURL, tag)
	if errors.Is(err, types.ErrEmptyResponse) {
		// A profile page that loads with no content has zero achievements.
		e.logger.Debug("empty profile page", "tag", tag, "url", rawURL)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	achievements, err := e.achievements.Extract(resp)
	if err != nil {
		return nil, fmt.Errorf("extract achievements: %w", err)
	}
	e.stats.AchievementsExtracted.Add(int64(len(achievements)))
	e.logger.Debug("achievements extracted", "tag", tag, "count", len(achievements))
	return achievements, nil
}

func (e *Engine) fetch(ctx context.Context, rawURL, tag string) (*types.Response, error) {
	e.mu.RLock()
	f := e.fetcher
	e.mu.RUnlock()
	if f == nil {
		return nil, fmt.Errorf("no fetcher configured")
	}

	req, err := types.NewRequest(rawURL)
	if err != nil {
		return nil, err
	}
	req.Tag = tag

	resp, err := f.Fetch(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("fetch %s page: %w", tag, err)
	}
	return resp, nil
}
