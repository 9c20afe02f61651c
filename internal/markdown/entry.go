package markdown

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/adrg/frontmatter"
)

// DefaultBodyField receives the Markdown body of an entry document.
const DefaultBodyField = "body"

// Entry is a content entry read from a Markdown document with frontmatter.
type Entry struct {
	Slug   string
	Values map[string]any
}

// ParseEntry extracts entry values from frontmatter. A "slug" key becomes the
// entry slug instead of a value. A non-blank body is stored under bodyField;
// an empty bodyField drops the body.
func ParseEntry(source []byte, bodyField string) (Entry, error) {
	meta := map[string]any{}
	body, err := frontmatter.Parse(bytes.NewReader(source), &meta)
	if err != nil {
		return Entry{}, fmt.Errorf("parse frontmatter: %w", err)
	}

	entry := Entry{Values: make(map[string]any, len(meta)+1)}
	for key, value := range meta {
		if key == "slug" {
			if slug, ok := value.(string); ok {
				entry.Slug = strings.TrimSpace(slug)
				continue
			}
		}
		entry.Values[key] = normalizeValue(value)
	}

	bodyField = strings.TrimSpace(bodyField)
	if text := strings.TrimSpace(string(body)); text != "" && bodyField != "" {
		if _, exists := entry.Values[bodyField]; !exists {
			entry.Values[bodyField] = text
		}
	}
	return entry, nil
}

// normalizeValue converts the map[any]any values produced by the YAML
// decoder into map[string]any so entries stay JSON encodable.
func normalizeValue(value any) any {
	switch v := value.(type) {
	case map[any]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[fmt.Sprint(key)] = normalizeValue(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[key] = normalizeValue(item)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = normalizeValue(item)
		}
		return out
	default:
		return value
	}
}
