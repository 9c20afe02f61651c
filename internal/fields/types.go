package fields

import (
	"slices"
	"strings"
)

// Built-in field type tags.
const (
	TypeText     = "text"
	TypeTextarea = "textarea"
	TypeNumber   = "number"
	TypeBoolean  = "boolean"
	TypeSelect   = "select"
	TypeMedia    = "media"
)

// UI handler identifiers for the built-in field types.
const (
	HandlerText        = "TextField"
	HandlerTextarea    = "TextareaField"
	HandlerNumber      = "NumberField"
	HandlerBoolean     = "BooleanField"
	HandlerSelect      = "SelectField"
	HandlerMedia       = "MediaField"
	HandlerUnsupported = "UnsupportedField"
)

// OptionMultiple switches media fields into list mode.
const OptionMultiple = "multiple"

// Declaration describes one input slot of a content type as sent by the server.
type Declaration struct {
	Name     string   `json:"field_name" yaml:"field_name"`
	Type     string   `json:"field_type" yaml:"field_type"`
	Required bool     `json:"is_required" yaml:"is_required"`
	Options  []string `json:"options,omitempty" yaml:"options,omitempty"`
}

// HasOption reports whether the declaration lists option.
func (d Declaration) HasOption(option string) bool {
	return slices.Contains(d.Options, option)
}

// Tag returns the canonical type tag used for registry lookups.
func (d Declaration) Tag() string {
	return canonicalTag(d.Type)
}

func canonicalTag(tag string) string {
	return strings.ToLower(strings.TrimSpace(tag))
}
