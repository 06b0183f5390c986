// Package rank orders candidate categories by distance score.
package rank

import (
	"encoding/json"
	"sort"
)

// Score is the distance of one candidate category from the unknown text.
// Lower means more similar.
type Score struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Ranking is an ordered list of scores, ascending by value
type Ranking []Score

// New sorts scores ascending by value. Ties keep the input order.
// The input slice is not modified.
func New(scores []Score) Ranking {
	r := make(Ranking, len(scores))
	copy(r, scores)
	sort.SliceStable(r, func(i, j int) bool {
		return r[i].Value < r[j].Value
	})
	return r
}

// Best returns the closest candidate
func (r Ranking) Best() (Score, bool) {
	if len(r) == 0 {
		return Score{}, false
	}
	return r[0], true
}

// Get returns the score for label
func (r Ranking) Get(label string) (float64, bool) {
	for _, s := range r {
		if s.Label == label {
			return s.Value, true
		}
	}
	return 0, false
}

// Labels returns the labels in ranked order
func (r Ranking) Labels() []string {
	out := make([]string, len(r))
	for i, s := range r {
		out[i] = s.Label
	}
	return out
}

// Map returns the scores keyed by label
func (r Ranking) Map() map[string]float64 {
	out := make(map[string]float64, len(r))
	for _, s := range r {
		out[s.Label] = s.Value
	}
	return out
}

// MarshalJSON encodes the ranking as an ordered array
func (r Ranking) MarshalJSON() ([]byte, error) {
	return json.Marshal([]Score(r))
}
