package ingest

import (
	"fmt"
	"strings"
	"sync"
	"unicode"

	"github.com/tebeka/snowball"
)

// Options configures a Tokenizer
type Options struct {
	Stopwords []string
	// SkipLeading drops the first tokens of every document, e.g. a paper number.
	SkipLeading int
	// MinLength drops tokens shorter than this many characters.
	MinLength int
	// DropNumeric drops tokens made of digits only.
	DropNumeric bool
	// Stem is a Snowball language ("english", "french", ...). Empty disables stemming.
	Stem string
}

// Tokenizer handles text tokenization and normalization
type Tokenizer struct {
	stopwords map[string]struct{}
	opts      Options

	mu      sync.Mutex // guards stemmer
	stemmer *snowball.Stemmer
}

// NewTokenizer creates a new tokenizer with the given stopword list
func NewTokenizer(stopwords []string) *Tokenizer {
	stops := make(map[string]struct{}, len(stopwords))
	for _, w := range stopwords {
		stops[strings.ToLower(w)] = struct{}{}
	}
	return &Tokenizer{stopwords: stops, opts: Options{Stopwords: stopwords}}
}

// NewTokenizerWithOptions creates a tokenizer, loading a stemmer if requested.
// Call Close to release the stemmer.
func NewTokenizerWithOptions(opts Options) (*Tokenizer, error) {
	t := NewTokenizer(opts.Stopwords)
	t.opts = opts
	if opts.Stem != "" {
		stemmer, err := snowball.New(opts.Stem)
		if err != nil {
			return nil, fmt.Errorf("snowball stemmer %q: %w", opts.Stem, err)
		}
		t.stemmer = stemmer
	}
	return t, nil
}

// Close releases the stemmer, if any
func (t *Tokenizer) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stemmer != nil {
		t.stemmer.Close()
		t.stemmer = nil
	}
}

// Tokenize splits one document into lower-cased words with punctuation
// stripped, then drops leading tokens and stopwords.
// Apostrophes and hyphens are removed without splitting the word.
func (t *Tokenizer) Tokenize(text string) []string {
	var words []string
	var current strings.Builder

	flush := func() {
		if current.Len() > 0 {
			words = append(words, current.String())
			current.Reset()
		}
	}

	for _, r := range text {
		switch {
		case unicode.IsLetter(r) || unicode.IsNumber(r):
			current.WriteRune(unicode.ToLower(r))
		case isJoiner(r):
			// stripped in place
		default:
			flush()
		}
	}
	flush()

	if t.opts.SkipLeading > 0 {
		if t.opts.SkipLeading >= len(words) {
			return nil
		}
		words = words[t.opts.SkipLeading:]
	}

	tokens := make([]string, 0, len(words))
	for _, w := range words {
		if tok := t.processToken(w); tok != "" {
			tokens = append(tokens, tok)
		}
	}
	return tokens
}

// processToken applies length and numeric filters, stopword filtering and stemming.
func (t *Tokenizer) processToken(word string) string {
	if t.opts.MinLength > 0 && len([]rune(word)) < t.opts.MinLength {
		return ""
	}
	if t.opts.DropNumeric && isNumericOnly(word) {
		return ""
	}
	if t.isStopword(word) {
		return ""
	}
	return t.stem(word)
}

func (t *Tokenizer) stem(word string) string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stemmer == nil {
		return word
	}
	return t.stemmer.Stem(word)
}

func isJoiner(r rune) bool {
	switch r {
	case '\'', '\u2019', '\u2018', '-', '\u2010', '\u00ad':
		return true
	}
	return false
}

// isNumericOnly returns true if the token contains only digits.
func isNumericOnly(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func (t *Tokenizer) isStopword(word string) bool {
	_, ok := t.stopwords[word]
	return ok
}

// AddStopword adds a word to the stopword list
func (t *Tokenizer) AddStopword(word string) {
	t.stopwords[strings.ToLower(word)] = struct{}{}
}

// RemoveStopword removes a word from the stopword list
func (t *Tokenizer) RemoveStopword(word string) {
	delete(t.stopwords, strings.ToLower(word))
}
