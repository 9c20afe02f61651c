package forms

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

const draft2020 = "https://json-schema.org/draft/2020-12/schema"

var ErrDocumentInvalid = errors.New("forms: document does not match schema")

// Issue is a single JSON Schema validation failure.
type Issue struct {
	Location string
	Message  string
}

// DocumentError reports the leaf failures of a JSON Schema validation.
type DocumentError struct {
	Issues []Issue
}

func (e *DocumentError) Error() string {
	parts := make([]string, 0, len(e.Issues))
	for _, issue := range e.Issues {
		location := issue.Location
		if location == "" {
			location = "#"
		}
		parts = append(parts, fmt.Sprintf("%s: %s", location, issue.Message))
	}
	return strings.Join(parts, "; ")
}

func (e *DocumentError) Unwrap() error {
	return ErrDocumentInvalid
}

// JSONSchema describes the form as a draft 2020-12 object schema.
func (s *Schema) JSONSchema() map[string]any {
	properties := make(map[string]any, len(s.handlers))
	for _, handler := range s.handlers {
		properties[handler.Field.Name] = maps.Clone(handler.Property)
	}

	doc := map[string]any{
		"$schema":    draft2020,
		"type":       "object",
		"properties": properties,
	}
	if required := s.Required(); len(required) > 0 {
		list := make([]any, 0, len(required))
		for _, name := range required {
			list = append(list, name)
		}
		doc["required"] = list
	}
	if s.strict {
		doc["additionalProperties"] = false
	}
	return doc
}

// CompileJSONSchema compiles the exported schema so external documents can
// be checked without the Go rules.
func (s *Schema) CompileJSONSchema() (*jsonschema.Schema, error) {
	encoded, err := json.Marshal(s.JSONSchema())
	if err != nil {
		return nil, err
	}
	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource("form.json", bytes.NewReader(encoded)); err != nil {
		return nil, err
	}
	return compiler.Compile("form.json")
}

// ValidateDocument checks a raw JSON document against the exported schema.
func (s *Schema) ValidateDocument(raw []byte) error {
	compiled, err := s.CompileJSONSchema()
	if err != nil {
		return err
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("forms: decode document: %w", err)
	}
	if err := compiled.Validate(doc); err != nil {
		var verr *jsonschema.ValidationError
		if errors.As(err, &verr) {
			return &DocumentError{Issues: collectIssues(verr)}
		}
		return err
	}
	return nil
}

func collectIssues(err *jsonschema.ValidationError) []Issue {
	var issues []Issue
	var walk func(*jsonschema.ValidationError)
	walk = func(node *jsonschema.ValidationError) {
		if node == nil {
			return
		}
		if len(node.Causes) == 0 {
			issues = append(issues, Issue{
				Location: strings.TrimSpace(node.InstanceLocation),
				Message:  strings.TrimSpace(node.Message),
			})
			return
		}
		for _, cause := range node.Causes {
			walk(cause)
		}
	}
	walk(err)
	return issues
}
