// Package schemas provides JSON Schema validation for proposal payloads and
// the boundary normalization applied to every inbound payload.
package schemas

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed payload.schema.json
var payloadSchema string

// PayloadSchema returns the embedded JSON Schema of the proposal payload.
func PayloadSchema() string {
	return payloadSchema
}

// FieldError is a single schema violation, addressed by dotted field path.
type FieldError struct {
	Field   string
	Message string
}

func (f FieldError) String() string {
	return f.Field + ": " + f.Message
}

// ValidationError lists every violation found in a document.
type ValidationError struct {
	Errors []FieldError
}

func (ve *ValidationError) Error() string {
	var sb strings.Builder
	sb.WriteString("validation failed:\n")
	for i, fe := range ve.Errors {
		fmt.Fprintf(&sb, "  %d. %s\n", i+1, fe)
	}
	return sb.String()
}

// SchemaError reports a schema that could not be read or compiled.
type SchemaError struct {
	Source string
	Cause  error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("invalid schema %s: %v", e.Source, e.Cause)
}

func (e *SchemaError) Unwrap() error { return e.Cause }

// Validator checks documents against one compiled schema.
type Validator struct {
	schema *gojsonschema.Schema
}

// NewValidator compiles schema source text.
func NewValidator(source string) (*Validator, error) {
	return compile("(inline)", source)
}

// LoadValidator reads and compiles the schema file at path.
func LoadValidator(path string) (*Validator, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &SchemaError{Source: path, Cause: err}
	}
	return compile(path, string(data))
}

func compile(name, source string) (*Validator, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(source))
	if err != nil {
		return nil, &SchemaError{Source: name, Cause: err}
	}
	return &Validator{schema: schema}, nil
}

// Validate returns a *ValidationError when doc violates the schema. Malformed
// JSON is reported as a plain error.
func (v *Validator) Validate(doc []byte) error {
	result, err := v.schema.Validate(gojsonschema.NewBytesLoader(doc))
	if err != nil {
		return fmt.Errorf("failed to parse document: %w", err)
	}
	if result.Valid() {
		return nil
	}
	return &ValidationError{Errors: fieldErrors(result)}
}

// ValidatePayload validates raw payload JSON against the embedded payload schema.
func ValidatePayload(raw []byte) error {
	schema, err := compiledPayloadSchema()
	if err != nil {
		return &SchemaError{Source: "payload.schema.json", Cause: err}
	}
	return (&Validator{schema: schema}).Validate(raw)
}

func fieldErrors(result *gojsonschema.Result) []FieldError {
	errs := make([]FieldError, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" {
			field = "(root)"
		}
		errs = append(errs, FieldError{Field: field, Message: desc.Description()})
	}
	return errs
}
