package pipeline

import (
	"github.com/antzucaro/matchr"

	"github.com/IshaanNene/eu4achievements/internal/types"
)

// Merge left-joins achievements with difficulty ratings by exact title.
// The result has one record per achievement, in achievement order. When
// several difficulty rows share a title, the first one wins.
func Merge(achievements []types.Achievement, difficulties []types.Difficulty) []*types.Record {
	index := make(map[string]types.Tier, len(difficulties))
	for _, d := range difficulties {
		if _, ok := index[d.Title]; !ok {
			index[d.Title] = d.Tier
		}
	}

	records := make([]*types.Record, 0, len(achievements))
	for _, a := range achievements {
		rec := types.NewRecord(a)
		if tier, ok := index[a.Title]; ok {
			rec.SetTier(tier)
		}
		records = append(records, rec)
	}
	return records
}

// Suggestion pairs an unmatched achievement title with the closest wiki title.
type Suggestion struct {
	Title   string
	Closest string
	Score   float64
}

// SuggestTitles finds, for every record without a difficulty, the most similar
// wiki title that no achievement matched exactly. It is a diagnostic for title
// normalization gaps and never changes the join.
func SuggestTitles(records []*types.Record, difficulties []types.Difficulty) []Suggestion {
	matched := make(map[string]bool, len(records))
	for _, rec := range records {
		if rec.HasDifficulty() {
			matched[rec.Title] = true
		}
	}

	var candidates []string
	seen := make(map[string]bool, len(difficulties))
	for _, d := range difficulties {
		if matched[d.Title] || seen[d.Title] {
			continue
		}
		seen[d.Title] = true
		candidates = append(candidates, d.Title)
	}

	var suggestions []Suggestion
	for _, rec := range records {
		if rec.HasDifficulty() {
			continue
		}

		var best Suggestion
		for _, c := range candidates {
			score := matchr.JaroWinkler(rec.Title, c, false)
			if score > best.Score {
				best = Suggestion{Title: rec.Title, Closest: c, Score: score}
			}
		}
		if best.Score > 0 {
			suggestions = append(suggestions, best)
		}
	}
	return suggestions
}
