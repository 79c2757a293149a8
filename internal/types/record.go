package types

import "strconv"

// Achievement is one entry from the Steam profile stats page.
type Achievement struct {
	Title       string `json:"title"       bson:"title"`
	Description string `json:"description" bson:"description"`
	Unlocked    bool   `json:"unlocked"    bson:"unlocked"`
}

// Difficulty is one row of the wiki difficulty table.
type Difficulty struct {
	Title string `json:"title" bson:"title"`
	Tier  Tier   `json:"tier"  bson:"tier"`
}

// Record is an Achievement joined with its wiki difficulty.
// Difficulty is nil when no wiki row shares the achievement's title.
type Record struct {
	Achievement `bson:",inline"`

	Difficulty *Tier `json:"difficulty,omitempty" bson:"difficulty,omitempty"`
}

// NewRecord creates a Record without difficulty information.
func NewRecord(a Achievement) *Record {
	return &Record{Achievement: a}
}

// SetTier attaches a difficulty tier.
func (r *Record) SetTier(t Tier) {
	r.Difficulty = &t
}

// Tier returns the record's tier and whether one is present.
func (r *Record) Tier() (Tier, bool) {
	if r.Difficulty == nil {
		return "", false
	}
	return *r.Difficulty, true
}

// HasDifficulty reports whether a tier is attached.
func (r *Record) HasDifficulty() bool {
	return r.Difficulty != nil
}

// ToFlatMap returns a flat map suitable for CSV export.
func (r *Record) ToFlatMap() map[string]string {
	tier := ""
	if t, ok := r.Tier(); ok {
		tier = string(t)
	}
	return map[string]string{
		"title":       r.Title,
		"description": r.Description,
		"unlocked":    strconv.FormatBool(r.Unlocked),
		"difficulty":  tier,
	}
}
