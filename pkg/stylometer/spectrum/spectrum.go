// Package spectrum computes Mendenhall's characteristic curve of composition:
// the distribution of word lengths in a text.
package spectrum

import (
	"sort"
	"unicode/utf8"

	"github.com/cognicore/stylometer/pkg/stylometer/freq"
)

// DefaultTop is the number of most common lengths reported by default
const DefaultTop = 15

// Bucket is the number of words of one length
type Bucket struct {
	Length int `json:"length"`
	Count  int `json:"count"`
}

// Spectrum is the word-length distribution of a token sequence
type Spectrum struct {
	table *freq.Table[int]
}

// Compute counts word lengths, in characters, over tokens
func Compute(tokens []string) Spectrum {
	lengths := make([]int, len(tokens))
	for i, tok := range tokens {
		lengths[i] = utf8.RuneCountInString(tok)
	}
	return Spectrum{table: freq.New(lengths)}
}

// Total returns the number of words counted
func (s Spectrum) Total() int {
	if s.table == nil {
		return 0
	}
	return s.table.Total()
}

// Top returns the n most common lengths, most common first.
// Ties keep the order in which lengths first appeared.
func (s Spectrum) Top(n int) []Bucket {
	if s.table == nil {
		return nil
	}
	return toBuckets(s.table.Top(n))
}

// ByLength returns every length bucket sorted by ascending length
func (s Spectrum) ByLength() []Bucket {
	if s.table == nil {
		return nil
	}
	out := toBuckets(s.table.Entries())
	sort.Slice(out, func(i, j int) bool {
		return out[i].Length < out[j].Length
	})
	return out
}

// Proportions returns the share of words at each length, keyed by length
func (s Spectrum) Proportions() map[int]float64 {
	out := make(map[int]float64)
	total := s.Total()
	if total == 0 {
		return out
	}
	for _, b := range s.ByLength() {
		out[b.Length] = float64(b.Count) / float64(total)
	}
	return out
}

func toBuckets(entries []freq.Entry[int]) []Bucket {
	out := make([]Bucket, len(entries))
	for i, e := range entries {
		out[i] = Bucket{Length: e.Key, Count: e.Count}
	}
	return out
}
