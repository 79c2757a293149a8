package types

import (
	"fmt"
	"strings"
)

// FilterToken is the canonical form of a filter selected on the command line.
type FilterToken string

const (
	FilterCompleted     FilterToken = "completed"
	FilterNotCompleted  FilterToken = "not-completed"
	FilterVeryEasy      FilterToken = "very-easy"
	FilterEasy          FilterToken = "easy"
	FilterMedium        FilterToken = "medium"
	FilterHard          FilterToken = "hard"
	FilterVeryHard      FilterToken = "very-hard"
	FilterInsane        FilterToken = "insane"
	FilterUncategorized FilterToken = "uncategorized"
)

// filterAliases maps every accepted spelling to its canonical token.
var filterAliases = map[string]FilterToken{
	"completed":     FilterCompleted,
	"c":             FilterCompleted,
	"not-completed": FilterNotCompleted,
	"nc":            FilterNotCompleted,
	"very-easy":     FilterVeryEasy,
	"ve":            FilterVeryEasy,
	"easy":          FilterEasy,
	"e":             FilterEasy,
	"medium":        FilterMedium,
	"m":             FilterMedium,
	"hard":          FilterHard,
	"h":             FilterHard,
	"very-hard":     FilterVeryHard,
	"vh":            FilterVeryHard,
	"insane":        FilterInsane,
	"i":             FilterInsane,
	"uncategorized": FilterUncategorized,
	"uc":            FilterUncategorized,
}

var filterTiers = map[FilterToken]Tier{
	FilterVeryEasy:      TierVeryEasy,
	FilterEasy:          TierEasy,
	FilterMedium:        TierMedium,
	FilterHard:          TierHard,
	FilterVeryHard:      TierVeryHard,
	FilterInsane:        TierInsane,
	FilterUncategorized: TierUncategorized,
}

// FilterUsage is the accepted vocabulary in "long|short" form, for help text.
const FilterUsage = "completed|c, not-completed|nc, very-easy|ve, easy|e, medium|m, hard|h, very-hard|vh, insane|i, uncategorized|uc"

// ParseFilterToken resolves a long or short alias to its canonical token.
func ParseFilterToken(s string) (FilterToken, error) {
	tok, ok := filterAliases[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return "", fmt.Errorf("%w: %q (valid: %s)", ErrUnknownFilter, s, FilterUsage)
	}
	return tok, nil
}

// ParseFilterTokens resolves every alias in raw, dropping duplicates while
// keeping first-seen order.
func ParseFilterTokens(raw []string) ([]FilterToken, error) {
	seen := make(map[FilterToken]bool, len(raw))
	var tokens []FilterToken
	for _, s := range raw {
		tok, err := ParseFilterToken(s)
		if err != nil {
			return nil, err
		}
		if seen[tok] {
			continue
		}
		seen[tok] = true
		tokens = append(tokens, tok)
	}
	return tokens, nil
}

// Tier returns the difficulty tier a token selects, if it is a difficulty token.
func (f FilterToken) Tier() (Tier, bool) {
	t, ok := filterTiers[f]
	return t, ok
}

func (f FilterToken) String() string { return string(f) }
