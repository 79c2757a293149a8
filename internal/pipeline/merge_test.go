package pipeline

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IshaanNene/eu4achievements/internal/types"
)

func tierPtr(t types.Tier) *types.Tier { return &t }

func TestMerge(t *testing.T) {
	achievements := []types.Achievement{
		{Title: "Brentry!", Description: "Own the British Isles.", Unlocked: true},
		{Title: "Not On The Wiki", Description: "Mystery.", Unlocked: false},
		{Title: "It's All Greek To Me", Description: "Form Byzantium as Greece.", Unlocked: false},
	}
	difficulties := []types.Difficulty{
		{Title: "It's All Greek To Me", Tier: types.TierVeryHard},
		{Title: "Brentry!", Tier: types.TierMedium},
		{Title: "Brentry!", Tier: types.TierInsane},
		{Title: "Only On The Wiki", Tier: types.TierEasy},
	}

	got := Merge(achievements, difficulties)
	expected := []*types.Record{
		{Achievement: achievements[0], Difficulty: tierPtr(types.TierMedium)},
		{Achievement: achievements[1]},
		{Achievement: achievements[2], Difficulty: tierPtr(types.TierVeryHard)},
	}

	if diff := cmp.Diff(expected, got); diff != "" {
		t.Errorf("Merge mismatch (-want +got):\n%s", diff)
	}
}

func TestMergeIsLeftJoin(t *testing.T) {
	cases := []struct {
		name         string
		achievements []types.Achievement
		difficulties []types.Difficulty
	}{
		{"empty", nil, nil},
		{"no difficulties", []types.Achievement{{Title: "A"}, {Title: "B"}}, nil},
		{"no achievements", nil, []types.Difficulty{{Title: "A", Tier: types.TierEasy}}},
		{"case differs", []types.Achievement{{Title: "brentry!"}}, []types.Difficulty{{Title: "Brentry!", Tier: types.TierEasy}}},
		{"full", []types.Achievement{{Title: "A"}, {Title: "B"}}, []types.Difficulty{{Title: "B", Tier: types.TierHard}, {Title: "A", Tier: types.TierEasy}}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Merge(tc.achievements, tc.difficulties)
			require.Len(t, got, len(tc.achievements))

			wiki := make(map[string]bool)
			for _, d := range tc.difficulties {
				wiki[d.Title] = true
			}
			for i, r := range got {
				assert.Equal(t, tc.achievements[i], r.Achievement)
				assert.Equal(t, wiki[r.Title], r.HasDifficulty(), "title %q", r.Title)
			}
		})
	}
}

func TestMergeDoesNotShareTierPointers(t *testing.T) {
	achievements := []types.Achievement{{Title: "A"}, {Title: "A"}}
	got := Merge(achievements, []types.Difficulty{{Title: "A", Tier: types.TierEasy}})
	require.Len(t, got, 2)

	got[0].SetTier(types.TierInsane)
	tier, ok := got[1].Tier()
	require.True(t, ok)
	assert.Equal(t, types.TierEasy, tier)
}

func TestSuggestTitles(t *testing.T) {
	records := Merge(
		[]types.Achievement{{Title: "Brentry"}, {Title: "Tall Order"}, {Title: "Zzz"}},
		[]types.Difficulty{
			{Title: "Brentry!", Tier: types.TierMedium},
			{Title: "Tall Order", Tier: types.TierHard},
			{Title: "Tall Ordure", Tier: types.TierEasy},
		},
	)

	got := SuggestTitles(records, []types.Difficulty{
		{Title: "Brentry!", Tier: types.TierMedium},
		{Title: "Tall Order", Tier: types.TierHard},
		{Title: "Tall Ordure", Tier: types.TierEasy},
	})

	require.NotEmpty(t, got)
	assert.Equal(t, "Brentry", got[0].Title)
	assert.Equal(t, "Brentry!", got[0].Closest)
	assert.Greater(t, got[0].Score, 0.9)

	for _, s := range got {
		assert.NotEqual(t, "Tall Order", s.Closest, "exactly matched wiki titles are not suggested")
	}
	// Merge itself stays exact.
	assert.False(t, records[0].HasDifficulty())
}
