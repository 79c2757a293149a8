package pipeline

import (
	"log/slog"
	"strings"

	"github.com/IshaanNene/eu4achievements/internal/types"
)

// CompletionFilter keeps records by unlock state. Selecting both flags drops
// every record.
type CompletionFilter struct {
	Completed    bool
	NotCompleted bool
}

func (m *CompletionFilter) Name() string { return "completion_filter" }

func (m *CompletionFilter) Process(rec *types.Record) *types.Record {
	if m.Completed && !rec.Unlocked {
		return nil
	}
	if m.NotCompleted && rec.Unlocked {
		return nil
	}
	return rec
}

// Active reports whether the filter drops anything.
func (m *CompletionFilter) Active() bool {
	return m.Completed || m.NotCompleted
}

// DifficultyFilter keeps records whose tier is one of Tiers. Records without
// a tier never match. An empty set keeps everything.
type DifficultyFilter struct {
	Tiers map[types.Tier]bool
}

func (m *DifficultyFilter) Name() string {
	if len(m.Tiers) == 0 {
		return "difficulty_filter"
	}
	tiers := make([]string, 0, len(m.Tiers))
	for _, t := range types.AllTiers {
		if m.Tiers[t] {
			tiers = append(tiers, string(t))
		}
	}
	return "difficulty_filter[" + strings.Join(tiers, ",") + "]"
}

func (m *DifficultyFilter) Process(rec *types.Record) *types.Record {
	if len(m.Tiers) == 0 {
		return rec
	}
	tier, ok := rec.Tier()
	if !ok || !m.Tiers[tier] {
		return nil
	}
	return rec
}

// Active reports whether the filter drops anything.
func (m *DifficultyFilter) Active() bool {
	return len(m.Tiers) > 0
}

// NewFilters builds the completion and difficulty filters for the given tokens.
func NewFilters(tokens []types.FilterToken) (*CompletionFilter, *DifficultyFilter) {
	completion := &CompletionFilter{}
	difficulty := &DifficultyFilter{Tiers: make(map[types.Tier]bool)}

	for _, tok := range tokens {
		switch tok {
		case types.FilterCompleted:
			completion.Completed = true
		case types.FilterNotCompleted:
			completion.NotCompleted = true
		default:
			if tier, ok := tok.Tier(); ok {
				difficulty.Tiers[tier] = true
			}
		}
	}
	return completion, difficulty
}

// NewFilterPipeline returns a pipeline that applies the completion filter and
// then the difficulty filter. Inactive filters are left out; with no tokens the
// pipeline is the identity.
func NewFilterPipeline(tokens []types.FilterToken, logger *slog.Logger) *Pipeline {
	p := New(logger)
	completion, difficulty := NewFilters(tokens)
	if completion.Active() {
		p.Use(completion)
	}
	if difficulty.Active() {
		p.Use(difficulty)
	}
	return p
}
