package fields

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"slices"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Error codes attached to field rule failures.
const (
	CodeRequired      = "console.fields.required"
	CodeString        = "console.fields.string_invalid"
	CodeNumber        = "console.fields.number_invalid"
	CodeBoolean       = "console.fields.boolean_invalid"
	CodeOption        = "console.fields.option_invalid"
	CodeMediaRef      = "console.fields.media_reference_invalid"
	CodeMediaRefsList = "console.fields.media_references_invalid"
)

// Rule is the ordered set of checks applied to a single field value. Rules are
// evaluated in order and the first failure is reported.
type Rule []validation.Rule

// Validate runs the rule against value. Absent values are passed as nil.
func (r Rule) Validate(value any) error {
	return validation.Validate(value, r...)
}

// RequiredRule rejects absent, nil, empty string and empty list values. Zero
// numbers and false are accepted.
func RequiredRule(fieldName string) validation.Rule {
	return validation.By(func(value any) error {
		if isBlank(value) {
			return validation.NewError(CodeRequired, fmt.Sprintf("%s is required", fieldName))
		}
		return nil
	})
}

// StringRule accepts any string value.
func StringRule(Declaration) validation.Rule {
	return optional(func(value any) error {
		if _, ok := value.(string); !ok {
			return validation.NewError(CodeString, "must be a string")
		}
		return nil
	})
}

// NumberRule accepts Go numeric kinds and json.Number. Numeric strings are
// rejected.
func NumberRule(Declaration) validation.Rule {
	return optional(func(value any) error {
		if !isNumeric(value) {
			return validation.NewError(CodeNumber, "must be a number")
		}
		return nil
	})
}

// BooleanRule accepts bool values.
func BooleanRule(Declaration) validation.Rule {
	return optional(func(value any) error {
		if _, ok := value.(bool); !ok {
			return validation.NewError(CodeBoolean, "must be a boolean")
		}
		return nil
	})
}

// SelectRule accepts a string listed in the declaration options.
func SelectRule(field Declaration) validation.Rule {
	allowed := slices.Clone(field.Options)
	message := fmt.Sprintf("must be one of: %s", strings.Join(allowed, ", "))
	return optional(func(value any) error {
		str, ok := value.(string)
		if !ok || !slices.Contains(allowed, str) {
			return validation.NewError(CodeOption, message)
		}
		return nil
	})
}

// MediaRule accepts a media reference string, or a list of reference strings
// when the declaration carries the "multiple" option. References are not
// resolved here.
func MediaRule(field Declaration) validation.Rule {
	if field.HasOption(OptionMultiple) {
		return optional(func(value any) error {
			if _, ok := stringList(value); !ok {
				return validation.NewError(CodeMediaRefsList, "must be a list of media references")
			}
			return nil
		})
	}
	return optional(func(value any) error {
		if _, ok := value.(string); !ok {
			return validation.NewError(CodeMediaRef, "must be a media reference")
		}
		return nil
	})
}

// PermissiveRule accepts any value.
func PermissiveRule(Declaration) validation.Rule {
	return validation.By(func(any) error { return nil })
}

// optional skips the check for nil values so absent optional fields pass;
// required fields are caught earlier by RequiredRule.
func optional(check func(value any) error) validation.Rule {
	return validation.By(func(value any) error {
		if value == nil {
			return nil
		}
		return check(value)
	})
}

func isBlank(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return v == ""
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		return rv.IsNil()
	case reflect.Map, reflect.Slice, reflect.Array:
		return rv.Len() == 0
	}
	return false
}

func isNumeric(value any) bool {
	switch v := value.(type) {
	case json.Number:
		f, err := v.Float64()
		return err == nil && !math.IsNaN(f)
	case float64:
		return !math.IsNaN(v)
	case float32:
		return !math.IsNaN(float64(v))
	}
	switch reflect.ValueOf(value).Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	}
	return false
}

func stringList(value any) ([]string, bool) {
	switch v := value.(type) {
	case []string:
		return v, true
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			str, ok := item.(string)
			if !ok {
				return nil, false
			}
			out = append(out, str)
		}
		return out, true
	}
	return nil, false
}
