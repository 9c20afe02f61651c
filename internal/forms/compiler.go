package forms

import (
	"strings"

	"github.com/goliatone/go-cms-console/internal/fields"
	"github.com/goliatone/go-cms-console/internal/logging"
	"github.com/goliatone/go-cms-console/pkg/interfaces"
)

// FieldResolver turns a declaration into its validation and UI behaviour.
type FieldResolver interface {
	Build(field fields.Declaration) fields.Handler
}

// CompilerOption customises a Compiler.
type CompilerOption func(*Compiler)

// WithLogger sets the logger used to report unsupported field types.
func WithLogger(logger interfaces.Logger) CompilerOption {
	return func(c *Compiler) {
		c.logger = logging.Or(logger)
	}
}

// WithStrictKeys makes compiled schemas reject values for undeclared fields.
func WithStrictKeys(strict bool) CompilerOption {
	return func(c *Compiler) {
		c.strict = strict
	}
}

// Compiler builds form schemas from field declarations.
type Compiler struct {
	resolver FieldResolver
	logger   interfaces.Logger
	strict   bool
}

// NewCompiler constructs a compiler. A nil resolver uses the default field registry.
func NewCompiler(resolver FieldResolver, opts ...CompilerOption) *Compiler {
	if resolver == nil {
		resolver = fields.NewDefaultRegistry()
	}
	c := &Compiler{
		resolver: resolver,
		logger:   logging.NoOp(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Compile builds a schema for decls. Blank or duplicate field names are
// configuration errors and no schema is returned.
func (c *Compiler) Compile(decls []fields.Declaration) (*Schema, error) {
	schema := &Schema{
		handlers: make([]fields.Handler, 0, len(decls)),
		index:    make(map[string]int, len(decls)),
		strict:   c.strict,
	}

	for i, decl := range decls {
		name := strings.TrimSpace(decl.Name)
		if name == "" {
			return nil, configurationError("", i, ErrFieldNameRequired, textCodeFieldNameRequired)
		}
		if _, exists := schema.index[name]; exists {
			return nil, configurationError(name, i, ErrDuplicateField, textCodeDuplicateField)
		}
		decl.Name = name

		handler := c.resolver.Build(decl)
		if !handler.Supported {
			c.logger.Warn("forms.field_type.unsupported",
				"field", name,
				"field_type", decl.Type,
			)
			schema.unsupported = append(schema.unsupported, name)
		}

		schema.index[name] = len(schema.handlers)
		schema.handlers = append(schema.handlers, handler)
	}

	return schema, nil
}
