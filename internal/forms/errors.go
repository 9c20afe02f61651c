package forms

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

// CategoryConfiguration tags schema build failures caused by bad field
// declarations. These are integrator mistakes, not user input problems.
const CategoryConfiguration = goerrors.Category("configuration")

const (
	textCodeDuplicateField    = "FORM_SCHEMA_DUPLICATE_FIELD"
	textCodeFieldNameRequired = "FORM_SCHEMA_FIELD_NAME_REQUIRED"
	textCodeValidationFailed  = "FORM_VALIDATION_FAILED"
)

var (
	ErrDuplicateField    = errors.New("forms: duplicate field name")
	ErrFieldNameRequired = errors.New("forms: field name is required")
)

// ConfigurationError describes a field declaration list that cannot be
// compiled.
type ConfigurationError struct {
	Field string
	Index int
	Cause error
}

func (e *ConfigurationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%v (index %d)", e.Cause, e.Index)
	}
	return fmt.Sprintf("%v: %q (index %d)", e.Cause, e.Field, e.Index)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Cause
}

func configurationError(field string, index int, cause error, textCode string) error {
	return goerrors.Wrap(&ConfigurationError{Field: field, Index: index, Cause: cause}, CategoryConfiguration, "form schema configuration invalid").
		WithTextCode(textCode)
}

// IsConfigurationError reports whether err came from a schema build failure.
func IsConfigurationError(err error) bool {
	return err != nil && goerrors.IsCategory(err, CategoryConfiguration)
}

// FieldError is a single per-field validation failure.
type FieldError struct {
	Field   string
	Code    string
	Message string
}

// ValidationError carries every field failure of a rejected submission.
type ValidationError struct {
	Fields map[string]FieldError
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	slices.Sort(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %s", name, e.Fields[name].Message))
	}
	return "form validation failed: " + strings.Join(parts, "; ")
}

// FieldErrors extracts per-field failures from an error returned by Result.Err.
func FieldErrors(err error) (map[string]FieldError, bool) {
	var verr *ValidationError
	if !errors.As(err, &verr) || verr == nil {
		return nil, false
	}
	return verr.Fields, true
}
