package parser

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"

	"github.com/antchfx/htmlquery"
	"golang.org/x/net/html"

	"github.com/IshaanNene/eu4achievements/internal/config"
	"github.com/IshaanNene/eu4achievements/internal/types"
)

// DifficultyExtractor reads the wiki difficulty table using XPath expressions.
type DifficultyExtractor struct {
	sel    config.SelectorsConfig
	logger *slog.Logger
}

// NewDifficultyExtractor creates a new difficulty extractor.
func NewDifficultyExtractor(sel config.SelectorsConfig, logger *slog.Logger) *DifficultyExtractor {
	return &DifficultyExtractor{
		sel:    sel,
		logger: logger.With("component", "difficulty_extractor"),
	}
}

// Extract returns one Difficulty per table row, skipping the header row.
func (p *DifficultyExtractor) Extract(resp *types.Response) ([]types.Difficulty, error) {
	doc, err := htmlquery.Parse(bytes.NewReader(resp.Body))
	if err != nil {
		return nil, &types.ParseError{URL: resp.URL(), Index: -1, Err: err}
	}

	rows, err := htmlquery.QueryAll(doc, p.sel.DifficultyRows)
	if err != nil {
		return nil, &types.ParseError{URL: resp.URL(), Selector: p.sel.DifficultyRows, Index: -1, Err: err}
	}

	var difficulties []types.Difficulty
	for i, row := range rows {
		if i == 0 {
			continue // header
		}

		anchors, err := htmlquery.QueryAll(row, p.sel.DifficultyTitle)
		if err != nil {
			return nil, &types.ParseError{URL: resp.URL(), Selector: p.sel.DifficultyTitle, Index: i, Err: err}
		}
		if len(anchors) != 1 {
			return nil, malformed(resp, p.sel.DifficultyTitle, i, "expected one anchor element per row, found %d", len(anchors))
		}
		id := strings.TrimSpace(htmlquery.SelectAttr(anchors[0], "id"))
		if id == "" {
			return nil, malformed(resp, p.sel.DifficultyTitle, i, "anchor element has an empty id")
		}

		line := lastLine(rowText(row))
		tier, err := types.ParseTier(line)
		if err != nil {
			return nil, &types.ParseError{
				URL:      resp.URL(),
				Selector: p.sel.DifficultyRows,
				Index:    i,
				Err:      fmt.Errorf("%w: %w", types.ErrMalformedDocument, err),
			}
		}

		difficulties = append(difficulties, types.Difficulty{
			Title: NormalizeTitle(strings.ReplaceAll(id, "_", " ")),
			Tier:  tier,
		})
	}

	p.logger.Debug("difficulties extracted", "url", resp.URL(), "rows", len(rows), "count", len(difficulties))
	return difficulties, nil
}

// rowText returns the full text of a table row with a line break after every
// cell, so cells written without whitespace between them still split into lines.
func rowText(row *html.Node) string {
	var b strings.Builder
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			b.WriteString(n.Data)
			return
		case html.ElementNode:
			if n.Data == "br" {
				b.WriteByte('\n')
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
		if n.Type == html.ElementNode && (n.Data == "td" || n.Data == "th") {
			b.WriteByte('\n')
		}
	}
	walk(row)
	return b.String()
}

// lastLine returns the last non-empty line of s, trimmed.
func lastLine(s string) string {
	lines := strings.Split(s, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if l := strings.TrimSpace(lines[i]); l != "" {
			return l
		}
	}
	return ""
}
