// Package delta implements John Burrows' Delta method.
//
// A Model is built from the comparison categories only: the n most frequent
// words of their combined corpus become features, and each feature gets the
// mean and sample standard deviation of its relative frequency across the
// categories. Any other text is then profiled as z-scores against that
// baseline, and Delta is the mean absolute z-score difference.
package delta

import (
	"fmt"
	"math"

	"github.com/cognicore/stylometer/pkg/stylometer/freq"
	"github.com/cognicore/stylometer/pkg/stylometer/internalerr"
	"github.com/cognicore/stylometer/pkg/stylometer/rank"
)

// FeatureStat holds the baseline statistics of one feature
type FeatureStat struct {
	Feature string
	Mean    float64
	Stdev   float64
}

// Model is the comparison baseline. It is immutable once built and safe
// for concurrent use.
type Model struct {
	labels   []string
	features []string
	stats    []FeatureStat
	freqs    map[string][]float64 // label -> relative frequency per feature
	zscores  map[string][]float64 // label -> z-score per feature
}

// NewModel builds the baseline from the comparison categories, in the given order.
func NewModel(n int, categories map[string][]string, comparison []string) (*Model, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: %d", internalerr.ErrInvalidFeatureCount, n)
	}
	if len(comparison) < 2 {
		return nil, fmt.Errorf("%w: need at least 2 comparison categories, got %d",
			internalerr.ErrDegenerateStatistics, len(comparison))
	}

	seen := make(map[string]struct{}, len(comparison))
	var combined []string
	for _, label := range comparison {
		if _, dup := seen[label]; dup {
			return nil, fmt.Errorf("%w: %q listed twice", internalerr.ErrCategoryOverlap, label)
		}
		seen[label] = struct{}{}

		tokens, ok := categories[label]
		if !ok {
			return nil, fmt.Errorf("%w: %q", internalerr.ErrUnknownCategory, label)
		}
		if len(tokens) == 0 {
			return nil, fmt.Errorf("%w: category %q", internalerr.ErrEmptyCorpus, label)
		}
		combined = append(combined, tokens...)
	}

	top, err := freq.TopOccurrences(n, combined)
	if err != nil {
		return nil, err
	}
	if len(top) == 0 {
		return nil, fmt.Errorf("%w: no features selected", internalerr.ErrDegenerateStatistics)
	}

	m := &Model{
		labels:   append([]string(nil), comparison...),
		features: freq.Words(top),
		freqs:    make(map[string][]float64, len(comparison)),
		zscores:  make(map[string][]float64, len(comparison)),
	}

	for _, label := range m.labels {
		m.freqs[label] = relativeFrequencies(m.features, categories[label])
	}

	m.stats = make([]FeatureStat, len(m.features))
	values := make([]float64, len(m.labels))
	for i, feature := range m.features {
		for j, label := range m.labels {
			values[j] = m.freqs[label][i]
		}
		mean, stdev := meanStdev(values)
		if stdev == 0 || allEqual(values) {
			return nil, fmt.Errorf("%w: feature %q has zero standard deviation",
				internalerr.ErrDegenerateStatistics, feature)
		}
		m.stats[i] = FeatureStat{Feature: feature, Mean: mean, Stdev: stdev}
	}

	for _, label := range m.labels {
		m.zscores[label] = m.zscoresOf(m.freqs[label])
	}
	return m, nil
}

// Profile returns the z-score of every feature in corpus against the model baseline.
func (m *Model) Profile(corpus []string) ([]float64, error) {
	if len(corpus) == 0 {
		return nil, fmt.Errorf("%w: cannot profile an empty corpus", internalerr.ErrEmptyCorpus)
	}
	return m.zscoresOf(relativeFrequencies(m.features, corpus)), nil
}

// Score computes the Delta score of every comparison category against the
// special corpus, sorted ascending. The first entry is the closest match.
func (m *Model) Score(special []string) (rank.Ranking, error) {
	profile, err := m.Profile(special)
	if err != nil {
		return nil, err
	}

	scores := make([]rank.Score, len(m.labels))
	for i, label := range m.labels {
		z := m.zscores[label]
		var sum float64
		for f := range m.features {
			sum += math.Abs(profile[f] - z[f])
		}
		scores[i] = rank.Score{Label: label, Value: sum / float64(len(m.features))}
	}
	return rank.New(scores), nil
}

// Labels returns the comparison categories in caller order
func (m *Model) Labels() []string {
	return append([]string(nil), m.labels...)
}

// Features returns the selected feature words, most frequent first
func (m *Model) Features() []string {
	return append([]string(nil), m.features...)
}

// Stats returns the mean and standard deviation of each feature
func (m *Model) Stats() []FeatureStat {
	return append([]FeatureStat(nil), m.stats...)
}

// Frequencies returns the relative feature frequencies of a comparison category
func (m *Model) Frequencies(label string) ([]float64, bool) {
	f, ok := m.freqs[label]
	return append([]float64(nil), f...), ok
}

// ZScores returns the feature z-scores of a comparison category
func (m *Model) ZScores(label string) ([]float64, bool) {
	z, ok := m.zscores[label]
	return append([]float64(nil), z...), ok
}

func (m *Model) zscoresOf(freqs []float64) []float64 {
	out := make([]float64, len(freqs))
	for i, f := range freqs {
		out[i] = (f - m.stats[i].Mean) / m.stats[i].Stdev
	}
	return out
}

// Classify applies the Delta method: the special category is compared with
// every comparison category. special must not appear in comparison.
func Classify(n int, categories map[string][]string, comparison []string, special string) (rank.Ranking, error) {
	for _, label := range comparison {
		if label == special {
			return nil, fmt.Errorf("%w: special category %q is also a comparison category",
				internalerr.ErrCategoryOverlap, special)
		}
	}
	specialTokens, ok := categories[special]
	if !ok {
		return nil, fmt.Errorf("%w: %q", internalerr.ErrUnknownCategory, special)
	}

	m, err := NewModel(n, categories, comparison)
	if err != nil {
		return nil, err
	}
	r, err := m.Score(specialTokens)
	if err != nil {
		return nil, fmt.Errorf("category %q: %w", special, err)
	}
	return r, nil
}

func relativeFrequencies(features, corpus []string) []float64 {
	table := freq.New(corpus)
	total := float64(table.Total())
	out := make([]float64, len(features))
	for i, f := range features {
		out[i] = float64(table.Count(f)) / total
	}
	return out
}

// meanStdev returns the mean and sample standard deviation (n-1)
func meanStdev(values []float64) (mean, stdev float64) {
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))

	var sumSq float64
	for _, v := range values {
		d := v - mean
		sumSq += d * d
	}
	return mean, math.Sqrt(sumSq / float64(len(values)-1))
}

func allEqual(values []float64) bool {
	for _, v := range values[1:] {
		if v != values[0] {
			return false
		}
	}
	return true
}
