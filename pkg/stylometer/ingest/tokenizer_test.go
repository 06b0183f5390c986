package ingest

import (
	"reflect"
	"strings"
	"testing"
)

func TestTokenizerBasic(t *testing.T) {
	stopwords := []string{"the", "a", "and", "of"}
	tokenizer := NewTokenizer(stopwords)

	text := "The quick brown fox jumps over the lazy dog"
	tokens := tokenizer.Tokenize(text)

	expected := []string{"quick", "brown", "fox", "jumps", "over", "lazy", "dog"}
	if !reflect.DeepEqual(tokens, expected) {
		t.Errorf("Expected %v, got %v", expected, tokens)
	}
}

func TestTokenizerStripsPunctuation(t *testing.T) {
	tokenizer := NewTokenizer(nil)

	text := `To the People of the State of New-York: AFTER an unequivocal experience; it's "obvious".`
	tokens := tokenizer.Tokenize(text)

	expected := []string{"to", "the", "people", "of", "the", "state", "of", "newyork",
		"after", "an", "unequivocal", "experience", "its", "obvious"}
	if !reflect.DeepEqual(tokens, expected) {
		t.Errorf("Expected %v, got %v", expected, tokens)
	}
}

func TestTokenizerCaseNormalization(t *testing.T) {
	tokenizer := NewTokenizer([]string{"THE"})

	tokens := tokenizer.Tokenize("The CONSTITUTION Federalist")
	for _, tok := range tokens {
		if tok != strings.ToLower(tok) {
			t.Errorf("Token %s should be lowercased", tok)
		}
		if tok == "the" {
			t.Error("Stopwords should match case-insensitively")
		}
	}
	if len(tokens) != 2 {
		t.Errorf("Expected 2 tokens, got %v", tokens)
	}
}

func TestTokenizerSkipLeading(t *testing.T) {
	tokenizer, err := NewTokenizerWithOptions(Options{SkipLeading: 1})
	if err != nil {
		t.Fatal(err)
	}
	defer tokenizer.Close()

	tokens := tokenizer.Tokenize("10\nThe Same Subject Continued")
	expected := []string{"the", "same", "subject", "continued"}
	if !reflect.DeepEqual(tokens, expected) {
		t.Errorf("Expected %v, got %v", expected, tokens)
	}

	if got := tokenizer.Tokenize("64"); len(got) != 0 {
		t.Errorf("A document with only the leading token should be empty, got %v", got)
	}
}

func TestTokenizerFilters(t *testing.T) {
	tokenizer, err := NewTokenizerWithOptions(Options{
		Stopwords:   []string{"of"},
		MinLength:   2,
		DropNumeric: true,
	})
	if err != nil {
		t.Fatal(err)
	}

	tokens := tokenizer.Tokenize("a union of 13 states in 1787 x2")
	expected := []string{"union", "states", "in", "x2"}
	if !reflect.DeepEqual(tokens, expected) {
		t.Errorf("Expected %v, got %v", expected, tokens)
	}
}

func TestTokenizerStemming(t *testing.T) {
	tokenizer, err := NewTokenizerWithOptions(Options{Stem: "english"})
	if err != nil {
		t.Fatalf("english stemmer: %v", err)
	}
	defer tokenizer.Close()

	tokens := tokenizer.Tokenize("governments running")
	expected := []string{"govern", "run"}
	if !reflect.DeepEqual(tokens, expected) {
		t.Errorf("Expected %v, got %v", expected, tokens)
	}
}

func TestTokenizerUnknownStemmer(t *testing.T) {
	if _, err := NewTokenizerWithOptions(Options{Stem: "klingon"}); err == nil {
		t.Error("Unknown stemmer language should error")
	}
}

func TestTokenizerStopwordEdits(t *testing.T) {
	tokenizer := NewTokenizer(nil)
	tokenizer.AddStopword("Upon")

	if got := tokenizer.Tokenize("upon reflection"); !reflect.DeepEqual(got, []string{"reflection"}) {
		t.Errorf("Added stopword should be removed, got %v", got)
	}

	tokenizer.RemoveStopword("upon")
	if got := tokenizer.Tokenize("upon reflection"); len(got) != 2 {
		t.Errorf("Removed stopword should be kept, got %v", got)
	}
}

func TestTokenizerEmpty(t *testing.T) {
	tokenizer := NewTokenizer(nil)
	if tokens := tokenizer.Tokenize("  ... ;; !! "); len(tokens) != 0 {
		t.Errorf("Expected no tokens, got %v", tokens)
	}
}
