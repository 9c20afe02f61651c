package fields

import (
	"errors"
	"slices"
	"sync"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

var (
	ErrTypeTagRequired  = errors.New("fields: type tag is required")
	ErrBuilderRequired  = errors.New("fields: validator builder is required")
	ErrUIHandlerMissing = errors.New("fields: ui handler is required")
)

// ValidatorBuilder produces the base validation rule for a declaration.
type ValidatorBuilder func(field Declaration) validation.Rule

// SchemaBuilder describes a declaration as a JSON Schema property.
type SchemaBuilder func(field Declaration) map[string]any

// Registration binds a type tag to its behaviour.
type Registration struct {
	Build     ValidatorBuilder
	UIHandler string
	Describe  SchemaBuilder
}

// Handler is the resolved behaviour for a single declaration.
type Handler struct {
	Field     Declaration
	Rule      Rule
	UIHandler string
	Property  map[string]any
	// Supported is false when the type tag had no registration and the
	// permissive fallback was used.
	Supported bool
}

// Registry maps field type tags to validator builders and UI handler ids.
// Adding a type is a registration; no central switch needs editing.
type Registry struct {
	mu            sync.RWMutex
	registrations map[string]Registration
}

// NewRegistry constructs an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		registrations: make(map[string]Registration),
	}
}

// NewDefaultRegistry constructs a registry with the built-in field types.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	for tag, registration := range builtins() {
		// built-ins are well formed
		_ = r.Register(tag, registration)
	}
	return r
}

// Register binds tag to registration, replacing any previous binding.
func (r *Registry) Register(tag string, registration Registration) error {
	key := canonicalTag(tag)
	if key == "" {
		return ErrTypeTagRequired
	}
	if registration.Build == nil {
		return ErrBuilderRequired
	}
	if registration.UIHandler == "" {
		return ErrUIHandlerMissing
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.registrations == nil {
		r.registrations = make(map[string]Registration)
	}
	r.registrations[key] = registration
	return nil
}

// Resolve returns the registration for tag. The boolean is false when the tag
// is not registered.
func (r *Registry) Resolve(tag string) (Registration, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	registration, ok := r.registrations[canonicalTag(tag)]
	return registration, ok
}

// Tags lists the registered type tags in sorted order.
func (r *Registry) Tags() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tags := make([]string, 0, len(r.registrations))
	for tag := range r.registrations {
		tags = append(tags, tag)
	}
	slices.Sort(tags)
	return tags
}

// Build resolves the declaration's type and composes the final rule. Required
// declarations get RequiredRule ahead of the type rule, so both apply. Unknown
// tags fall back to PermissiveRule with Supported set to false.
func (r *Registry) Build(field Declaration) Handler {
	registration, ok := r.Resolve(field.Type)
	if !ok {
		registration = Registration{
			Build:     PermissiveRule,
			UIHandler: HandlerUnsupported,
		}
	}

	rule := make(Rule, 0, 2)
	if field.Required {
		rule = append(rule, RequiredRule(field.Name))
	}
	rule = append(rule, registration.Build(field))

	property := map[string]any{}
	if registration.Describe != nil {
		if described := registration.Describe(field); described != nil {
			property = described
		}
	}
	property = describePresence(property, field.Required)

	return Handler{
		Field:     field,
		Rule:      rule,
		UIHandler: registration.UIHandler,
		Property:  property,
		Supported: ok,
	}
}

func builtins() map[string]Registration {
	return map[string]Registration{
		TypeText:     {Build: StringRule, UIHandler: HandlerText, Describe: describeString},
		TypeTextarea: {Build: StringRule, UIHandler: HandlerTextarea, Describe: describeString},
		TypeNumber:   {Build: NumberRule, UIHandler: HandlerNumber, Describe: describeType("number")},
		TypeBoolean:  {Build: BooleanRule, UIHandler: HandlerBoolean, Describe: describeType("boolean")},
		TypeSelect:   {Build: SelectRule, UIHandler: HandlerSelect, Describe: describeSelect},
		TypeMedia:    {Build: MediaRule, UIHandler: HandlerMedia, Describe: describeMedia},
	}
}

func describeType(jsonType string) SchemaBuilder {
	return func(Declaration) map[string]any {
		return map[string]any{"type": jsonType}
	}
}

func describeString(field Declaration) map[string]any {
	property := map[string]any{"type": "string"}
	if field.Required {
		property["minLength"] = 1
	}
	return property
}

func describeSelect(field Declaration) map[string]any {
	options := make([]any, 0, len(field.Options))
	for _, option := range field.Options {
		options = append(options, option)
	}
	return map[string]any{"type": "string", "enum": options}
}

func describeMedia(field Declaration) map[string]any {
	if field.HasOption(OptionMultiple) {
		property := map[string]any{
			"type":  "array",
			"items": map[string]any{"type": "string"},
		}
		if field.Required {
			property["minItems"] = 1
		}
		return property
	}
	return describeString(field)
}

// describePresence mirrors RequiredRule and the nil handling of the type
// rules: required properties reject null and "", optional ones accept null.
func describePresence(property map[string]any, required bool) map[string]any {
	if required {
		property["not"] = map[string]any{"enum": []any{nil, ""}}
		return property
	}
	if jsonType, ok := property["type"].(string); ok {
		property["type"] = []any{jsonType, "null"}
	}
	if enum, ok := property["enum"].([]any); ok {
		property["enum"] = append(slices.Clone(enum), nil)
	}
	return property
}
