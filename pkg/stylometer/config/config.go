package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/stylometer/pkg/stylometer/internalerr"
	"github.com/cognicore/stylometer/pkg/stylometer/spectrum"
)

// Defaults used by the Federalist Papers study
const (
	DefaultFilePattern = "federalist_%d.txt"
	DefaultLanguage    = "english"
	DefaultChiSquaredN = 500
	DefaultDeltaN      = 30
)

// Config describes a corpus and the analyses to run on it
type Config struct {
	DataDir     string     `yaml:"data_dir"`
	FilePattern string     `yaml:"file_pattern"`
	JSONL       string     `yaml:"jsonl"`
	Language    string     `yaml:"language"`
	Stoplist    string     `yaml:"stoplist"`
	Tokenizer   Tokenizer  `yaml:"tokenizer"`
	Categories  []Category `yaml:"categories"`
	ChiSquared  ChiSquared `yaml:"chi_squared"`
	Delta       Delta      `yaml:"delta"`
	Spectrum    Spectrum   `yaml:"spectrum"`
	Store       Store      `yaml:"store"`
}

// Tokenizer configures text normalization
type Tokenizer struct {
	SkipLeading int  `yaml:"skip_leading"`
	MinLength   int  `yaml:"min_length"`
	DropNumeric bool `yaml:"drop_numeric"`
	Stem        bool `yaml:"stem"`
}

// Category is a named group of documents
type Category struct {
	Name      string   `yaml:"name"`
	Documents []int    `yaml:"documents"`
	Files     []string `yaml:"files"`
}

// ChiSquared configures the chi-squared test
type ChiSquared struct {
	N          int      `yaml:"n"`
	Candidates []string `yaml:"candidates"`
	Unknown    string   `yaml:"unknown"`
}

// Delta configures the Delta method
type Delta struct {
	N          int      `yaml:"n"`
	Special    string   `yaml:"special"`
	Comparison []string `yaml:"comparison"`
}

// Spectrum configures the word-length spectrum
type Spectrum struct {
	Top int `yaml:"top"`
}

// Store configures result persistence
type Store struct {
	Path string `yaml:"path"`
}

// Load reads a YAML configuration file, applies defaults and validates it.
// Relative data_dir, jsonl and stoplist paths are resolved against the file's directory.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	base := filepath.Dir(path)
	cfg.DataDir = resolve(base, cfg.DataDir)
	cfg.JSONL = resolve(base, cfg.JSONL)
	cfg.Stoplist = resolve(base, cfg.Stoplist)

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func resolve(base, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}

// ApplyDefaults fills unset fields.
// Delta defaults to comparing every category except the special one.
func (c *Config) ApplyDefaults() {
	if c.FilePattern == "" {
		c.FilePattern = DefaultFilePattern
	}
	if c.Language == "" {
		c.Language = DefaultLanguage
	}
	if c.ChiSquared.N == 0 {
		c.ChiSquared.N = DefaultChiSquaredN
	}
	if c.Delta.N == 0 {
		c.Delta.N = DefaultDeltaN
	}
	if c.Spectrum.Top == 0 {
		c.Spectrum.Top = spectrum.DefaultTop
	}
	if len(c.Delta.Comparison) == 0 && c.Delta.Special != "" {
		for _, cat := range c.Categories {
			if cat.Name != c.Delta.Special {
				c.Delta.Comparison = append(c.Delta.Comparison, cat.Name)
			}
		}
	}
}

// Validate checks the configuration for consistency
func (c *Config) Validate() error {
	if c.JSONL == "" && len(c.Categories) == 0 {
		return fmt.Errorf("%w: no categories and no jsonl source", internalerr.ErrInvalidConfig)
	}

	names := make(map[string]struct{}, len(c.Categories))
	for _, cat := range c.Categories {
		if strings.TrimSpace(cat.Name) == "" {
			return fmt.Errorf("%w: category without name", internalerr.ErrInvalidConfig)
		}
		if _, dup := names[cat.Name]; dup {
			return fmt.Errorf("%w: duplicate category %q", internalerr.ErrInvalidConfig, cat.Name)
		}
		names[cat.Name] = struct{}{}
		if c.JSONL == "" && len(cat.Documents) == 0 && len(cat.Files) == 0 {
			return fmt.Errorf("%w: category %q has no documents", internalerr.ErrInvalidConfig, cat.Name)
		}
	}
	if c.JSONL == "" && !strings.Contains(c.FilePattern, "%d") {
		return fmt.Errorf("%w: file_pattern %q needs a %%d verb", internalerr.ErrInvalidConfig, c.FilePattern)
	}

	if c.ChiSquared.N < 0 || c.Delta.N < 0 || c.Spectrum.Top < 0 {
		return fmt.Errorf("%w: feature counts must not be negative", internalerr.ErrInvalidConfig)
	}
	if n := len(c.ChiSquared.Candidates); n != 0 && n != 2 {
		return fmt.Errorf("%w: chi_squared needs exactly 2 candidates, got %d", internalerr.ErrInvalidConfig, n)
	}
	for _, label := range c.Delta.Comparison {
		if label == c.Delta.Special {
			return fmt.Errorf("%w: delta special %q is also a comparison category",
				internalerr.ErrInvalidConfig, label)
		}
	}

	if c.Tokenizer.SkipLeading < 0 || c.Tokenizer.MinLength < 0 {
		return fmt.Errorf("%w: tokenizer values must not be negative", internalerr.ErrInvalidConfig)
	}
	return nil
}

// CategoryNames returns the configured category names in order
func (c *Config) CategoryNames() []string {
	out := make([]string, len(c.Categories))
	for i, cat := range c.Categories {
		out[i] = cat.Name
	}
	return out
}

// Paths returns the document files of a category
func (c *Config) Paths(cat Category) []string {
	paths := make([]string, 0, len(cat.Documents)+len(cat.Files))
	for _, idx := range cat.Documents {
		paths = append(paths, filepath.Join(c.DataDir, fmt.Sprintf(c.FilePattern, idx)))
	}
	for _, f := range cat.Files {
		paths = append(paths, resolve(c.DataDir, f))
	}
	return paths
}

// Stoplist represents the stopword list configuration
type Stoplist struct {
	Terms []string `yaml:"terms"`
}

// LoadStoplist loads stopwords from a YAML file
func LoadStoplist(path string) (*Stoplist, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var sl Stoplist
	if err := yaml.Unmarshal(data, &sl); err != nil {
		return nil, err
	}

	return &sl, nil
}
