package markdown

import (
	"encoding/json"
	"testing"
)

func TestParseEntryExtractsSlugAndBody(t *testing.T) {
	source := []byte(`---
title: Hello
slug: hello-world
views: 3
---

# Heading

Body text.
`)

	entry, err := ParseEntry(source, DefaultBodyField)
	if err != nil {
		t.Fatalf("ParseEntry: %v", err)
	}
	if entry.Slug != "hello-world" {
		t.Fatalf("expected slug hello-world, got %q", entry.Slug)
	}
	if _, ok := entry.Values["slug"]; ok {
		t.Fatal("expected slug to be removed from values")
	}
	if entry.Values["title"] != "Hello" {
		t.Fatalf("unexpected title %v", entry.Values["title"])
	}
	if entry.Values["body"] != "# Heading\n\nBody text." {
		t.Fatalf("unexpected body %q", entry.Values["body"])
	}
}

func TestParseEntryKeepsExplicitBodyValue(t *testing.T) {
	source := []byte("---\nbody: from frontmatter\n---\nignored\n")

	entry, err := ParseEntry(source, DefaultBodyField)
	if err != nil {
		t.Fatalf("ParseEntry: %v", err)
	}
	if entry.Values["body"] != "from frontmatter" {
		t.Fatalf("expected frontmatter body to win, got %v", entry.Values["body"])
	}
}

func TestParseEntryWithoutBodyField(t *testing.T) {
	entry, err := ParseEntry([]byte("---\ntitle: Hi\n---\ntext\n"), "")
	if err != nil {
		t.Fatalf("ParseEntry: %v", err)
	}
	if len(entry.Values) != 1 {
		t.Fatalf("expected only title, got %v", entry.Values)
	}
}

func TestParseEntryNormalizesNestedMaps(t *testing.T) {
	source := []byte(`---
title: Hello
seo:
  description: Intro
  tags: [a, b]
gallery:
  - {src: one.png, width: 10}
---
`)

	entry, err := ParseEntry(source, DefaultBodyField)
	if err != nil {
		t.Fatalf("ParseEntry: %v", err)
	}
	seo, ok := entry.Values["seo"].(map[string]any)
	if !ok || seo["description"] != "Intro" {
		t.Fatalf("expected seo to be map[string]any, got %T %v", entry.Values["seo"], entry.Values["seo"])
	}
	gallery, ok := entry.Values["gallery"].([]any)
	if !ok || len(gallery) != 1 {
		t.Fatalf("unexpected gallery %v", entry.Values["gallery"])
	}
	if _, ok := gallery[0].(map[string]any); !ok {
		t.Fatalf("expected list items to be map[string]any, got %T", gallery[0])
	}
	if _, err := json.Marshal(entry.Values); err != nil {
		t.Fatalf("expected values to be JSON encodable: %v", err)
	}
}
