package content

import (
	"slices"

	"github.com/goliatone/go-cms-console/internal/fields"
)

// Repo identifies the repository the console is working on.
type Repo struct {
	Owner string `json:"owner" yaml:"owner"`
	Name  string `json:"repo" yaml:"repo"`
}

// Key returns the owner/repo form used by caches and logs.
func (r Repo) Key() string {
	return r.Owner + "/" + r.Name
}

// ContentType is a named, slugged collection of field declarations.
type ContentType struct {
	ID     string               `json:"id,omitempty" yaml:"id,omitempty"`
	Name   string               `json:"name" yaml:"name"`
	Slug   string               `json:"slug" yaml:"slug"`
	Fields []fields.Declaration `json:"fields" yaml:"fields"`
}

// SiteConfig is the repository config document. It is always replaced whole.
type SiteConfig struct {
	SiteName           string        `json:"site_name" yaml:"site_name"`
	ContentTypes       []ContentType `json:"content_types" yaml:"content_types"`
	InitializationDate string        `json:"initialization_date,omitempty" yaml:"initialization_date,omitempty"`
}

func cloneContentType(src ContentType) ContentType {
	copied := src
	copied.Fields = make([]fields.Declaration, len(src.Fields))
	for i, field := range src.Fields {
		field.Options = slices.Clone(field.Options)
		copied.Fields[i] = field
	}
	return copied
}

func cloneSiteConfig(src SiteConfig) SiteConfig {
	copied := src
	copied.ContentTypes = make([]ContentType, len(src.ContentTypes))
	for i, ct := range src.ContentTypes {
		copied.ContentTypes[i] = cloneContentType(ct)
	}
	return copied
}
