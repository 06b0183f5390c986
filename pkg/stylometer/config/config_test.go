package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/cognicore/stylometer/pkg/stylometer/internalerr"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadStoplist(t *testing.T) {
	path := writeFile(t, t.TempDir(), "stoplist.yaml", `terms:
  - the
  - a
  - and
`)

	sl, err := LoadStoplist(path)
	if err != nil {
		t.Fatalf("Failed to load stoplist: %v", err)
	}

	if len(sl.Terms) != 3 {
		t.Errorf("Expected 3 terms, got %d", len(sl.Terms))
	}

	expected := map[string]bool{"the": true, "a": true, "and": true}
	for _, term := range sl.Terms {
		if !expected[term] {
			t.Errorf("Unexpected term: %s", term)
		}
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "study.yaml", `
data_dir: data
stoplist: stoplist.yaml
tokenizer:
  skip_leading: 1
categories:
  - name: madison
    documents: [10, 14]
  - name: hamilton
    documents: [1, 6]
  - name: specialcase
    files: [extra/federalist_64.html]
chi_squared:
  candidates: [hamilton, madison]
  unknown: specialcase
delta:
  special: specialcase
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.DataDir != filepath.Join(dir, "data") {
		t.Errorf("data_dir should resolve relative to config, got %q", cfg.DataDir)
	}
	if cfg.Stoplist != filepath.Join(dir, "stoplist.yaml") {
		t.Errorf("stoplist should resolve relative to config, got %q", cfg.Stoplist)
	}
	if cfg.ChiSquared.N != DefaultChiSquaredN || cfg.Delta.N != DefaultDeltaN {
		t.Errorf("defaults not applied: chi=%d delta=%d", cfg.ChiSquared.N, cfg.Delta.N)
	}
	if cfg.FilePattern != DefaultFilePattern || cfg.Language != DefaultLanguage {
		t.Errorf("unexpected defaults: %q %q", cfg.FilePattern, cfg.Language)
	}

	comparison := cfg.Delta.Comparison
	if len(comparison) != 2 || comparison[0] != "madison" || comparison[1] != "hamilton" {
		t.Errorf("delta comparison should default to non-special categories in order, got %v", comparison)
	}

	names := cfg.CategoryNames()
	if len(names) != 3 || names[2] != "specialcase" {
		t.Errorf("unexpected names %v", names)
	}

	paths := cfg.Paths(cfg.Categories[0])
	if len(paths) != 2 || paths[0] != filepath.Join(dir, "data", "federalist_10.txt") {
		t.Errorf("unexpected paths %v", paths)
	}
	extra := cfg.Paths(cfg.Categories[2])
	if len(extra) != 1 || extra[0] != filepath.Join(dir, "data", "extra", "federalist_64.html") {
		t.Errorf("unexpected file paths %v", extra)
	}
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		cfg := Config{
			Categories: []Category{
				{Name: "a", Documents: []int{1}},
				{Name: "b", Documents: []int{2}},
				{Name: "c", Documents: []int{3}},
			},
			Delta: Delta{Special: "c"},
		}
		cfg.ApplyDefaults()
		return cfg
	}

	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"no categories", func(c *Config) { c.Categories = nil }},
		{"unnamed category", func(c *Config) { c.Categories[0].Name = " " }},
		{"duplicate category", func(c *Config) { c.Categories[1].Name = "a" }},
		{"category without documents", func(c *Config) { c.Categories[0].Documents = nil }},
		{"pattern without verb", func(c *Config) { c.FilePattern = "paper.txt" }},
		{"negative n", func(c *Config) { c.Delta.N = -1 }},
		{"three candidates", func(c *Config) { c.ChiSquared.Candidates = []string{"a", "b", "c"} }},
		{"special in comparison", func(c *Config) { c.Delta.Comparison = []string{"a", "c"} }},
		{"negative skip", func(c *Config) { c.Tokenizer.SkipLeading = -2 }},
	}

	base := valid()
	if err := base.Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if !errors.Is(err, internalerr.ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestValidateJSONLSource(t *testing.T) {
	cfg := Config{JSONL: "papers.jsonl", FilePattern: "unused"}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		t.Errorf("jsonl source without categories should be valid: %v", err)
	}
}

func TestLoadNonExistentFile(t *testing.T) {
	if _, err := LoadStoplist("/nonexistent/path.yaml"); err == nil {
		t.Error("Should error on non-existent file")
	}
	if _, err := Load("/nonexistent/study.yaml"); err == nil {
		t.Error("Should error on non-existent file")
	}
}

func TestLoadMalformed(t *testing.T) {
	path := writeFile(t, t.TempDir(), "bad.yaml", "categories: [unclosed\n")
	if _, err := Load(path); err == nil {
		t.Error("Should error on malformed YAML")
	}
}
