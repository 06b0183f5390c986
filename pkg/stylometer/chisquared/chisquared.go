// Package chisquared implements Kilgarriff's chi-squared authorship test.
//
// For the n most frequent words of the joint corpus a ++ b, the observed
// count of each word in a and b is compared with the count expected if both
// texts shared one vocabulary distribution:
//
//	share     = |a| / |a ++ b|
//	expectedA = count * share
//	expectedB = count * (1 - share)
//	chi²      = Σ (obsA - expA)² / expA + (obsB - expB)² / expB
//
// The statistic is not symmetric in its arguments: the joint corpus, and with it
// the tie-break among equally frequent words, follows argument order.
package chisquared

import (
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/cognicore/stylometer/pkg/stylometer/freq"
	"github.com/cognicore/stylometer/pkg/stylometer/internalerr"
	"github.com/cognicore/stylometer/pkg/stylometer/rank"
)

// Term is the contribution of one feature word to the statistic
type Term struct {
	Word      string
	Count     int // occurrences in the joint corpus
	ObservedA int
	ObservedB int
	ExpectedA float64
	ExpectedB float64
	Value     float64
}

// Terms returns the per-feature breakdown of the chi-squared statistic
// between an identified author's corpus a and an unknown corpus b.
func Terms(n int, a, b []string) ([]Term, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: %d", internalerr.ErrInvalidFeatureCount, n)
	}
	joint := make([]string, 0, len(a)+len(b))
	joint = append(joint, a...)
	joint = append(joint, b...)
	if len(joint) == 0 {
		return nil, fmt.Errorf("%w: both corpora are empty", internalerr.ErrEmptyCorpus)
	}

	features, err := freq.TopOccurrences(n, joint)
	if err != nil {
		return nil, err
	}

	share := float64(len(a)) / float64(len(joint))
	tableA, tableB := freq.New(a), freq.New(b)

	terms := make([]Term, 0, len(features))
	for _, f := range features {
		expA := float64(f.Count) * share
		expB := float64(f.Count) * (1 - share)
		if expA == 0 || expB == 0 {
			return nil, fmt.Errorf("%w: word %q (share %.3f)", internalerr.ErrUndefinedExpectedCount, f.Key, share)
		}
		obsA, obsB := tableA.Count(f.Key), tableB.Count(f.Key)
		dA := float64(obsA) - expA
		dB := float64(obsB) - expB
		terms = append(terms, Term{
			Word:      f.Key,
			Count:     f.Count,
			ObservedA: obsA,
			ObservedB: obsB,
			ExpectedA: expA,
			ExpectedB: expB,
			Value:     dA*dA/expA + dB*dB/expB,
		})
	}
	return terms, nil
}

// Distance calculates the chi-squared statistic between corpus a and corpus b
// over the n most common words of both.
func Distance(n int, a, b []string) (float64, error) {
	terms, err := Terms(n, a, b)
	if err != nil {
		return 0, err
	}
	var chi float64
	for _, t := range terms {
		chi += t.Value
	}
	return chi, nil
}

// Classify measures both candidates against the unknown category.
// The lowest score is the most probable author.
func Classify(n int, categories map[string][]string, candidateA, candidateB, unknown string) (rank.Ranking, error) {
	if candidateA == candidateB || candidateA == unknown || candidateB == unknown {
		return nil, fmt.Errorf("%w: candidates %q, %q and unknown %q must differ",
			internalerr.ErrCategoryOverlap, candidateA, candidateB, unknown)
	}
	labels := []string{candidateA, candidateB, unknown}
	for _, label := range labels {
		if _, ok := categories[label]; !ok {
			return nil, fmt.Errorf("%w: %q", internalerr.ErrUnknownCategory, label)
		}
	}

	scores := make([]rank.Score, 2)
	var g errgroup.Group
	for i, label := range labels[:2] {
		g.Go(func() error {
			d, err := Distance(n, categories[label], categories[unknown])
			if err != nil {
				return fmt.Errorf("%s vs %s: %w", label, unknown, err)
			}
			scores[i] = rank.Score{Label: label, Value: d}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return rank.New(scores), nil
}
