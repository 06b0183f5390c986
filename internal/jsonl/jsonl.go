package jsonl

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
)

// Item is one document of a JSONL corpus
type Item struct {
	Category string `json:"category"`
	Title    string `json:"title"`
	Body     string `json:"text"`
}

// LoadFromJSONL loads items from a JSONL file. Malformed lines and lines
// without a category are skipped with a warning.
func LoadFromJSONL(path string) ([]Item, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file %s: %w", path, err)
	}

	var items []Item
	lines := strings.Split(string(data), "\n")

	for i, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		var item Item
		if err := json.Unmarshal([]byte(line), &item); err != nil {
			log.Warn().Err(err).Str("file", path).Int("line", i+1).Msg("skipping malformed JSON")
			continue
		}
		if strings.TrimSpace(item.Category) == "" {
			log.Warn().Str("file", path).Int("line", i+1).Msg("skipping document without category")
			continue
		}
		items = append(items, item)
	}

	if len(items) == 0 {
		return nil, fmt.Errorf("no valid items found in %s", path)
	}

	return items, nil
}
