package content

import (
	"regexp"
	"strings"

	"github.com/goliatone/go-slug"
)

// EntrySlugPattern is the accepted shape of an entry slug.
var EntrySlugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

// NormalizeSlug applies the default slug normalization rules.
func NormalizeSlug(value string) (string, error) {
	return slug.Normalize(value)
}

// IsValidSlug reports whether value is already in normalized form.
func IsValidSlug(value string) bool {
	if strings.TrimSpace(value) == "" {
		return false
	}
	normalized, err := slug.Normalize(value)
	return err == nil && normalized == value
}

// DeriveSlug picks the explicit slug when present, otherwise normalizes the name.
func DeriveSlug(ct ContentType) string {
	if candidate := strings.TrimSpace(ct.Slug); candidate != "" {
		return candidate
	}
	name := strings.TrimSpace(ct.Name)
	if name == "" {
		return ""
	}
	normalized, err := slug.Normalize(name)
	if err != nil {
		return ""
	}
	return normalized
}
