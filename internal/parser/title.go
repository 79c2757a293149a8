package parser

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

var punctuation = strings.NewReplacer(
	"…", "...", // horizontal ellipsis
	"’", "'", // right single quotation mark
)

// titleCorrections holds exact-match fixes for titles that differ between the
// Steam page and the wiki in ways generic normalization cannot express.
var titleCorrections = map[string]string{
	"Brentry": "Brentry!",
}

// NormalizeTitle returns the join key for an achievement title. It is applied
// identically to Steam and wiki titles and is idempotent.
func NormalizeTitle(s string) string {
	s = norm.NFC.String(s)
	s = punctuation.Replace(s)
	s = strings.TrimSpace(s)
	if fixed, ok := titleCorrections[s]; ok {
		return fixed
	}
	return s
}
