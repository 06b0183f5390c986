// Package corpus groups tokenized documents by category label.
package corpus

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/cognicore/stylometer/internal/jsonl"
	"github.com/cognicore/stylometer/pkg/stylometer/config"
	"github.com/cognicore/stylometer/pkg/stylometer/ingest"
	"github.com/cognicore/stylometer/pkg/stylometer/internalerr"
)

// Tokenizer turns one document into tokens
type Tokenizer interface {
	Tokenize(text string) []string
}

// Corpus maps category labels to token sequences, remembering label order
type Corpus struct {
	labels []string
	tokens map[string][]string
}

// New creates an empty corpus
func New() *Corpus {
	return &Corpus{tokens: make(map[string][]string)}
}

// Add appends tokens to a category, creating it if needed
func (c *Corpus) Add(label string, tokens []string) {
	if _, ok := c.tokens[label]; !ok {
		c.labels = append(c.labels, label)
		c.tokens[label] = []string{}
	}
	c.tokens[label] = append(c.tokens[label], tokens...)
}

// Labels returns category labels in insertion order
func (c *Corpus) Labels() []string {
	return append([]string(nil), c.labels...)
}

// Tokens returns the token sequence of a category
func (c *Corpus) Tokens(label string) ([]string, error) {
	toks, ok := c.tokens[label]
	if !ok {
		return nil, fmt.Errorf("%w: %q", internalerr.ErrUnknownCategory, label)
	}
	return toks, nil
}

// Map exposes the categories for the classifiers. Callers must not modify it.
func (c *Corpus) Map() map[string][]string {
	return c.tokens
}

// Load reads every configured category and tokenizes its documents.
// Categories are read in parallel; the result keeps configuration order.
func Load(ctx context.Context, cfg *config.Config, tok Tokenizer) (*Corpus, error) {
	if cfg.JSONL != "" {
		return loadJSONL(cfg, tok)
	}

	results := make([][]string, len(cfg.Categories))
	g, ctx := errgroup.WithContext(ctx)
	for i, cat := range cfg.Categories {
		g.Go(func() error {
			var tokens []string
			for _, path := range cfg.Paths(cat) {
				if err := ctx.Err(); err != nil {
					return err
				}
				text, err := readDocument(path)
				if err != nil {
					return fmt.Errorf("category %q: %w", cat.Name, err)
				}
				tokens = append(tokens, tok.Tokenize(text)...)
			}
			results[i] = tokens
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	c := New()
	for i, cat := range cfg.Categories {
		c.Add(cat.Name, results[i])
	}
	return c, nil
}

func readDocument(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	if ingest.IsHTML(path) {
		text, err := ingest.ExtractText(bytes.NewReader(data))
		if err != nil {
			return "", fmt.Errorf("parse html %s: %w", path, err)
		}
		return text, nil
	}
	return string(data), nil
}

// loadJSONL groups documents by their category field. When categories are
// configured only those are kept, in configuration order.
func loadJSONL(cfg *config.Config, tok Tokenizer) (*Corpus, error) {
	items, err := jsonl.LoadFromJSONL(cfg.JSONL)
	if err != nil {
		return nil, err
	}

	all := New()
	for _, item := range items {
		all.Add(item.Category, tok.Tokenize(item.Body))
	}
	if len(cfg.Categories) == 0 {
		return all, nil
	}

	c := New()
	for _, name := range cfg.CategoryNames() {
		toks, err := all.Tokens(name)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", cfg.JSONL, err)
		}
		c.Add(name, toks)
	}
	return c, nil
}
