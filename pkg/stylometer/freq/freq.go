// Package freq counts occurrences over token sequences.
package freq

import (
	"fmt"
	"sort"

	"github.com/cognicore/stylometer/pkg/stylometer/internalerr"
)

// Entry is a distinct key with its occurrence count
type Entry[K comparable] struct {
	Key   K
	Count int
}

// Table maintains occurrence counts for a sequence, remembering the
// order in which keys were first seen. A Table is never mutated after New.
type Table[K comparable] struct {
	counts map[K]int
	order  []K // first-occurrence order
	total  int
}

// New counts every item of the sequence
func New[K comparable](items []K) *Table[K] {
	t := &Table[K]{
		counts: make(map[K]int),
		total:  len(items),
	}
	for _, it := range items {
		if _, ok := t.counts[it]; !ok {
			t.order = append(t.order, it)
		}
		t.counts[it]++
	}
	return t
}

// Count returns the number of occurrences of key
func (t *Table[K]) Count(key K) int {
	return t.counts[key]
}

// Total returns the length of the counted sequence
func (t *Table[K]) Total() int {
	return t.total
}

// Distinct returns the number of distinct keys
func (t *Table[K]) Distinct() int {
	return len(t.order)
}

// Entries returns every key with its count in first-occurrence order
func (t *Table[K]) Entries() []Entry[K] {
	out := make([]Entry[K], len(t.order))
	for i, k := range t.order {
		out[i] = Entry[K]{Key: k, Count: t.counts[k]}
	}
	return out
}

// Top returns the n most frequent entries in descending count order.
// Ties keep first-occurrence order. A negative or oversized n returns every entry.
func (t *Table[K]) Top(n int) []Entry[K] {
	entries := t.Entries()
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Count > entries[j].Count
	})
	if n >= 0 && n < len(entries) {
		entries = entries[:n]
	}
	return entries
}

// TopOccurrences returns the n most frequent words of corpus with their counts.
func TopOccurrences(n int, corpus []string) ([]Entry[string], error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: %d", internalerr.ErrInvalidFeatureCount, n)
	}
	if n == 0 || len(corpus) == 0 {
		return []Entry[string]{}, nil
	}
	return New(corpus).Top(n), nil
}

// Words extracts the keys of entries, keeping their order
func Words(entries []Entry[string]) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Key
	}
	return out
}
