// Package render formats merged achievement records for the terminal.
package render

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/IshaanNene/eu4achievements/internal/types"
)

// Renderer formats single records as text blocks.
type Renderer struct {
	wikiURL  string
	withLink bool
}

// New creates a Renderer. wikiURL is the page the deep links point into.
func New(wikiURL string, withLink bool) *Renderer {
	return &Renderer{wikiURL: wikiURL, withLink: withLink}
}

// Record formats rec as
//
//	[<tier>] <title>:
//	|> <description>
//
// followed by a "|> <link>" line when links are enabled. A record without a
// tier yields types.ErrMissingDifficulty.
func (r *Renderer) Record(rec *types.Record) (string, error) {
	tier, ok := rec.Tier()
	if !ok {
		return "", fmt.Errorf("render %q: %w", rec.Title, types.ErrMissingDifficulty)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s:\n|> %s", tier, rec.Title, rec.Description)
	if r.withLink {
		fmt.Fprintf(&b, "\n|> %s", r.Link(rec.Title))
	}
	return b.String(), nil
}

// Link returns the wiki deep link for a title: the wiki URL with the title,
// spaces replaced by underscores, as its fragment.
func (r *Renderer) Link(title string) string {
	anchor := strings.ReplaceAll(title, " ", "_")
	u, err := url.Parse(r.wikiURL)
	if err != nil {
		return r.wikiURL + "#" + anchor
	}
	u.Fragment = anchor
	u.RawFragment = ""
	return u.String()
}
