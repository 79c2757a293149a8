package types

import (
	"fmt"
	"strings"
)

// Tier is a difficulty classification from the wiki achievement table.
type Tier string

const (
	TierVeryEasy      Tier = "VE"
	TierEasy          Tier = "E"
	TierMedium        Tier = "M"
	TierHard          Tier = "H"
	TierVeryHard      Tier = "VH"
	TierInsane        Tier = "I"
	TierUncategorized Tier = "UC"
)

// AllTiers lists every tier from easiest to hardest, uncategorized last.
var AllTiers = []Tier{
	TierVeryEasy,
	TierEasy,
	TierMedium,
	TierHard,
	TierVeryHard,
	TierInsane,
	TierUncategorized,
}

var tierLabels = map[Tier]string{
	TierVeryEasy:      "Very easy",
	TierEasy:          "Easy",
	TierMedium:        "Medium",
	TierHard:          "Hard",
	TierVeryHard:      "Very hard",
	TierInsane:        "Insane",
	TierUncategorized: "Uncategorized",
}

// ParseTier maps a tier code such as "VH" to its Tier. Surrounding
// whitespace and letter case are ignored.
func ParseTier(s string) (Tier, error) {
	t := Tier(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := tierLabels[t]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownTier, s)
	}
	return t, nil
}

// Valid reports whether t is one of the known tier codes.
func (t Tier) Valid() bool {
	_, ok := tierLabels[t]
	return ok
}

// Label returns the human-readable tier name.
func (t Tier) Label() string {
	if l, ok := tierLabels[t]; ok {
		return l
	}
	return string(t)
}

func (t Tier) String() string { return string(t) }
