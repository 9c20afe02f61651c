package identity

import (
	"testing"

	"github.com/google/uuid"
)

func TestUUIDIsDeterministic(t *testing.T) {
	first := UUID("console:test:key")
	second := UUID("  console:test:key  ")
	if first == uuid.Nil {
		t.Fatal("expected non-nil uuid")
	}
	if first != second {
		t.Fatalf("expected trimmed keys to match, got %s and %s", first, second)
	}
}

func TestUUIDEmptyKey(t *testing.T) {
	if got := UUID("   "); got != uuid.Nil {
		t.Fatalf("expected nil uuid for blank key, got %s", got)
	}
}

func TestContentTypeUUIDScopes(t *testing.T) {
	a := ContentTypeUUID("acme/site", "posts")
	b := ContentTypeUUID("acme/blog", "posts")
	if a == b {
		t.Fatal("expected different scopes to produce different ids")
	}
	if a != ContentTypeUUID("acme/site", "posts") {
		t.Fatal("expected stable id for the same scope and slug")
	}
}
