package forms

import (
	"errors"
	"maps"
	"slices"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-cms-console/internal/fields"
)

// CodeUnknownField is reported for undeclared keys when strict keys are on.
const CodeUnknownField = "console.forms.unknown_field"

// Schema is a compiled, immutable validator for one content type's form.
type Schema struct {
	handlers    []fields.Handler
	index       map[string]int
	unsupported []string
	strict      bool
}

// Fields returns the declarations in declaration order.
func (s *Schema) Fields() []fields.Declaration {
	out := make([]fields.Declaration, 0, len(s.handlers))
	for _, handler := range s.handlers {
		out = append(out, handler.Field)
	}
	return out
}

// UIHandler returns the editing component id for the named field.
func (s *Schema) UIHandler(name string) (string, bool) {
	idx, ok := s.index[name]
	if !ok {
		return "", false
	}
	return s.handlers[idx].UIHandler, true
}

// Unsupported lists fields whose type tag had no registration.
func (s *Schema) Unsupported() []string {
	return slices.Clone(s.unsupported)
}

// Required lists required field names in declaration order.
func (s *Schema) Required() []string {
	var out []string
	for _, handler := range s.handlers {
		if handler.Field.Required {
			out = append(out, handler.Field.Name)
		}
	}
	return out
}

// Validate checks values against every declared field and collects all
// failures. Absent keys are treated as nil.
func (s *Schema) Validate(values map[string]any) Result {
	result := Result{Errors: map[string]FieldError{}}

	for _, handler := range s.handlers {
		name := handler.Field.Name
		if err := handler.Rule.Validate(values[name]); err != nil {
			result.Errors[name] = toFieldError(name, err)
		}
	}

	if s.strict {
		for _, key := range slices.Sorted(maps.Keys(values)) {
			if _, declared := s.index[key]; declared {
				continue
			}
			result.Errors[key] = FieldError{
				Field:   key,
				Code:    CodeUnknownField,
				Message: "is not a declared field",
			}
		}
	}

	return result
}

func toFieldError(name string, err error) FieldError {
	var verr validation.Error
	if errors.As(err, &verr) {
		return FieldError{Field: name, Code: verr.Code(), Message: verr.Error()}
	}
	return FieldError{Field: name, Message: err.Error()}
}

// Result is the outcome of validating a submission.
type Result struct {
	Errors map[string]FieldError
}

// OK reports whether the submission passed.
func (r Result) OK() bool {
	return len(r.Errors) == 0
}

// Messages maps field names to their failure message.
func (r Result) Messages() map[string]string {
	out := make(map[string]string, len(r.Errors))
	for name, fe := range r.Errors {
		out[name] = fe.Message
	}
	return out
}

// Err returns nil when the submission passed, otherwise a validation category
// error wrapping *ValidationError.
func (r Result) Err() error {
	if r.OK() {
		return nil
	}
	return goerrors.Wrap(&ValidationError{Fields: maps.Clone(r.Errors)}, goerrors.CategoryValidation, "form validation failed").
		WithTextCode(textCodeValidationFailed)
}
