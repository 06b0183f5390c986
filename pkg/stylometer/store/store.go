package store

import (
	"context"
	"time"
)

// Methods recorded in reports
const (
	MethodSpectrum   = "spectrum"
	MethodChiSquared = "chi_squared"
	MethodDelta      = "delta"
)

// Store persists attribution reports
type Store interface {
	Close() error

	SaveReport(ctx context.Context, r Report) error
	// GetReport returns the report with the given ID; found is false if none exists.
	GetReport(ctx context.Context, id string) (r Report, found bool, err error)
	// ListReports returns the newest reports first. An empty method matches all.
	ListReports(ctx context.Context, method string, limit int) ([]Report, error)
}

// Report is the outcome of one attribution run
type Report struct {
	ID         string
	Method     string
	N          int      // feature count
	Subject    string   // unknown or special category
	Candidates []string // compared categories, in request order
	Scores     []Score  // ascending by value
	CreatedAt  time.Time
}

// Score is a ranked candidate within a report
type Score struct {
	Label string
	Value float64
}
