// Package stylometer attributes authorship of disputed texts by comparing
// word-usage statistics with corpora of known authors.
package stylometer

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/cognicore/stylometer/pkg/stylometer/chisquared"
	"github.com/cognicore/stylometer/pkg/stylometer/delta"
	"github.com/cognicore/stylometer/pkg/stylometer/internalerr"
	"github.com/cognicore/stylometer/pkg/stylometer/rank"
	"github.com/cognicore/stylometer/pkg/stylometer/report"
	"github.com/cognicore/stylometer/pkg/stylometer/spectrum"
	"github.com/cognicore/stylometer/pkg/stylometer/store"
)

// Stylometer is the main attribution facade
type Stylometer struct {
	store   store.Store
	reports *report.Builder
	log     zerolog.Logger
}

// Options configures a Stylometer instance
type Options struct {
	// Store persists reports. Nil disables persistence.
	Store  store.Store
	Logger *zerolog.Logger
}

// New creates a Stylometer instance with the given dependencies
func New(opts Options) *Stylometer {
	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	return &Stylometer{
		store:   opts.Store,
		reports: report.New(),
		log:     logger,
	}
}

// Close cleanly shuts down the Stylometer instance
func (s *Stylometer) Close() error {
	if s.store == nil {
		return nil
	}
	return s.store.Close()
}

// Result is a ranking together with the report recorded for it
type Result struct {
	Report  store.Report
	Ranking rank.Ranking
}

// ChiSquaredRequest selects two candidate authors and the unknown text
type ChiSquaredRequest struct {
	N          int
	CandidateA string
	CandidateB string
	Unknown    string
}

// ChiSquared ranks the two candidates by chi-squared distance to the unknown text.
func (s *Stylometer) ChiSquared(ctx context.Context, categories map[string][]string, req ChiSquaredRequest) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	ranking, err := chisquared.Classify(req.N, categories, req.CandidateA, req.CandidateB, req.Unknown)
	if err != nil {
		return Result{}, fmt.Errorf("chi-squared: %w", err)
	}

	return s.record(ctx, report.Request{
		Method:     store.MethodChiSquared,
		N:          req.N,
		Subject:    req.Unknown,
		Candidates: []string{req.CandidateA, req.CandidateB},
	}, ranking)
}

// DeltaRequest selects the comparison categories and the special one
type DeltaRequest struct {
	N          int
	Comparison []string
	Special    string
}

// Delta ranks the comparison categories by Delta score against the special category.
func (s *Stylometer) Delta(ctx context.Context, categories map[string][]string, req DeltaRequest) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	ranking, err := delta.Classify(req.N, categories, req.Comparison, req.Special)
	if err != nil {
		return Result{}, fmt.Errorf("delta: %w", err)
	}

	return s.record(ctx, report.Request{
		Method:     store.MethodDelta,
		N:          req.N,
		Subject:    req.Special,
		Candidates: req.Comparison,
	}, ranking)
}

// CategorySpectrum is the word-length distribution of one category
type CategorySpectrum struct {
	Label      string            `json:"label"`
	Total      int               `json:"total"`
	MeanLength float64           `json:"mean_length"`
	Top        []spectrum.Bucket `json:"top"`
	ByLength   []spectrum.Bucket `json:"by_length"`
}

// Spectrum computes Mendenhall's word-length curves for the given categories.
// The recorded report ranks categories by mean word length.
func (s *Stylometer) Spectrum(ctx context.Context, categories map[string][]string, labels []string, top int) ([]CategorySpectrum, error) {
	out := make([]CategorySpectrum, 0, len(labels))
	means := make([]rank.Score, 0, len(labels))

	for _, label := range labels {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		tokens, ok := categories[label]
		if !ok {
			return nil, fmt.Errorf("spectrum: %w: %q", internalerr.ErrUnknownCategory, label)
		}

		sp := spectrum.Compute(tokens)
		cs := CategorySpectrum{
			Label:    label,
			Total:    sp.Total(),
			Top:      sp.Top(top),
			ByLength: sp.ByLength(),
		}
		if cs.Total > 0 {
			var sum int
			for _, b := range cs.ByLength {
				sum += b.Length * b.Count
			}
			cs.MeanLength = float64(sum) / float64(cs.Total)
		}
		out = append(out, cs)
		means = append(means, rank.Score{Label: label, Value: cs.MeanLength})
	}

	if _, err := s.record(ctx, report.Request{
		Method:     store.MethodSpectrum,
		N:          top,
		Candidates: labels,
	}, rank.New(means)); err != nil {
		return nil, err
	}
	return out, nil
}

// History lists recorded reports, newest first
func (s *Stylometer) History(ctx context.Context, method string, limit int) ([]store.Report, error) {
	if s.store == nil {
		return nil, nil
	}
	return s.store.ListReports(ctx, method, limit)
}

// Report returns a recorded report by ID
func (s *Stylometer) Report(ctx context.Context, id string) (store.Report, error) {
	if s.store == nil {
		return store.Report{}, fmt.Errorf("report %s: %w", id, internalerr.ErrNotFound)
	}
	r, found, err := s.store.GetReport(ctx, id)
	if err != nil {
		return store.Report{}, err
	}
	if !found {
		return store.Report{}, fmt.Errorf("report %s: %w", id, internalerr.ErrNotFound)
	}
	return r, nil
}

func (s *Stylometer) record(ctx context.Context, req report.Request, ranking rank.Ranking) (Result, error) {
	r := s.reports.Build(req, ranking)

	ev := s.log.Info().Str("report", r.ID).Str("method", r.Method).Int("n", r.N)
	if r.Subject != "" {
		ev = ev.Str("subject", r.Subject)
	}
	if best, ok := ranking.Best(); ok {
		ev = ev.Str("closest", best.Label).Float64("score", best.Value)
	}
	ev.Msg("analysis complete")

	if s.store != nil {
		if err := s.store.SaveReport(ctx, r); err != nil {
			return Result{}, fmt.Errorf("save report: %w", err)
		}
	}
	return Result{Report: r, Ranking: ranking}, nil
}
