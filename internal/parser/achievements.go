package parser

import (
	"log/slog"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/IshaanNene/eu4achievements/internal/config"
	"github.com/IshaanNene/eu4achievements/internal/types"
)

// AchievementExtractor reads achievement containers from a Steam profile
// stats page using CSS selectors via goquery.
type AchievementExtractor struct {
	sel    config.SelectorsConfig
	logger *slog.Logger
}

// NewAchievementExtractor creates a new achievement extractor.
func NewAchievementExtractor(sel config.SelectorsConfig, logger *slog.Logger) *AchievementExtractor {
	return &AchievementExtractor{
		sel:    sel,
		logger: logger.With("component", "achievement_extractor"),
	}
}

// Extract returns the achievements on the page in document order.
func (p *AchievementExtractor) Extract(resp *types.Response) ([]types.Achievement, error) {
	doc, err := resp.Document()
	if err != nil {
		return nil, &types.ParseError{URL: resp.URL(), Index: -1, Err: err}
	}

	var achievements []types.Achievement
	var extractErr error

	doc.Find(p.sel.AchievementRow).EachWithBreak(func(i int, row *goquery.Selection) bool {
		title := row.Find(p.sel.Title).First()
		if title.Length() == 0 {
			extractErr = malformed(resp, p.sel.Title, i, "achievement container has no title element")
			return false
		}
		desc := row.Find(p.sel.Description).First()
		if desc.Length() == 0 {
			extractErr = malformed(resp, p.sel.Description, i, "achievement container has no description element")
			return false
		}

		achievements = append(achievements, types.Achievement{
			Title:       NormalizeTitle(title.Text()),
			Description: strings.TrimSpace(desc.Text()),
			Unlocked:    row.Find(p.sel.UnlockTime).Length() > 0,
		})
		return true
	})
	if extractErr != nil {
		return nil, extractErr
	}

	p.logger.Debug("achievements extracted", "url", resp.URL(), "count", len(achievements))
	return achievements, nil
}
