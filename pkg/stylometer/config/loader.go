package config

import (
	"fmt"

	"github.com/cognicore/stylometer/pkg/stylometer/ingest"
)

// Loader constructs components from a Config
type Loader struct {
	Config *Config
}

// Components holds all loaded configuration components
type Components struct {
	Tokenizer *ingest.Tokenizer
}

// Close releases resources held by the components
func (c *Components) Close() {
	if c.Tokenizer != nil {
		c.Tokenizer.Close()
	}
}

// Load reads the stoplist and returns an initialized tokenizer
func (l *Loader) Load() (*Components, error) {
	if l.Config == nil {
		return nil, fmt.Errorf("loader: nil config")
	}
	cfg := l.Config

	var terms []string
	if cfg.Stoplist != "" {
		stoplist, err := LoadStoplist(cfg.Stoplist)
		if err != nil {
			return nil, fmt.Errorf("load stoplist: %w", err)
		}
		terms = stoplist.Terms
	}

	opts := ingest.Options{
		Stopwords:   terms,
		SkipLeading: cfg.Tokenizer.SkipLeading,
		MinLength:   cfg.Tokenizer.MinLength,
		DropNumeric: cfg.Tokenizer.DropNumeric,
	}
	if cfg.Tokenizer.Stem {
		opts.Stem = cfg.Language
	}

	tokenizer, err := ingest.NewTokenizerWithOptions(opts)
	if err != nil {
		return nil, fmt.Errorf("build tokenizer: %w", err)
	}
	return &Components{Tokenizer: tokenizer}, nil
}
