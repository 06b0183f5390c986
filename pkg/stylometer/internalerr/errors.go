package internalerr

import "errors"

// Sentinel errors for common cases
var (
	ErrInvalidFeatureCount    = errors.New("invalid feature count")
	ErrEmptyCorpus            = errors.New("empty corpus")
	ErrDegenerateStatistics   = errors.New("degenerate statistics")
	ErrUndefinedExpectedCount = errors.New("undefined expected count")
	ErrUnknownCategory        = errors.New("unknown category label")
	ErrCategoryOverlap        = errors.New("overlapping category labels")
	ErrInvalidConfig          = errors.New("invalid configuration")
	ErrNotFound               = errors.New("not found")
	ErrInvalidInput           = errors.New("invalid input")
)
