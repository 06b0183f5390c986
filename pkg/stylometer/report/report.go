package report

import (
	"crypto/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/cognicore/stylometer/pkg/stylometer/rank"
	"github.com/cognicore/stylometer/pkg/stylometer/store"
)

// Builder assembles reports with sortable, unique IDs
type Builder struct {
	mu      sync.Mutex // guards entropy
	entropy *ulid.MonotonicEntropy
	now     func() time.Time
}

// New creates a new report builder
func New() *Builder {
	return &Builder{
		entropy: ulid.Monotonic(rand.Reader, 0),
		now:     time.Now,
	}
}

// Request describes the run a report is built for
type Request struct {
	Method     string
	N          int
	Subject    string
	Candidates []string
}

// Build creates a report from a ranking
func (b *Builder) Build(req Request, ranking rank.Ranking) store.Report {
	now := b.now().UTC()

	b.mu.Lock()
	id := ulid.MustNew(ulid.Timestamp(now), b.entropy).String()
	b.mu.Unlock()

	scores := make([]store.Score, len(ranking))
	for i, s := range ranking {
		scores[i] = store.Score{Label: s.Label, Value: s.Value}
	}

	return store.Report{
		ID:         id,
		Method:     req.Method,
		N:          req.N,
		Subject:    req.Subject,
		Candidates: append([]string(nil), req.Candidates...),
		Scores:     scores,
		CreatedAt:  now,
	}
}

// Ranking converts stored scores back into a ranking
func Ranking(r store.Report) rank.Ranking {
	out := make(rank.Ranking, len(r.Scores))
	for i, s := range r.Scores {
		out[i] = rank.Score{Label: s.Label, Value: s.Value}
	}
	return out
}
