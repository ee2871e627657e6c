// Package openapi adapts an OpenAPI schema into the validate.Validator
// contract. The adapter coerces raw payload values into typed JSON using the
// schema's property types, validates the result with kin-openapi, and maps
// JSON pointers back to the dotted field paths the form engine works with.
package openapi

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formstate/pkg/validate"
)

// FormLevelKey collects document-level failures that cannot be attributed to
// a single field.
const FormLevelKey = ""

// Option customises the adapter.
type Option func(*Adapter)

// WithMessage overrides every message reported for the given field path with
// a caller-supplied one.
func WithMessage(field, message string) Option {
	return func(a *Adapter) {
		if a.messages == nil {
			a.messages = make(map[string]string)
		}
		a.messages[field] = message
	}
}

// Adapter validates form payloads against an object schema. It is stateless
// after construction and safe for reuse across submissions.
type Adapter struct {
	schema   *openapi3.Schema
	messages map[string]string
}

var _ validate.Validator[map[string]any] = (*Adapter)(nil)

// New wraps an already-resolved schema.
func New(schema *openapi3.Schema, options ...Option) (*Adapter, error) {
	if schema == nil {
		return nil, fmt.Errorf("openapi: schema is required")
	}
	adapter := &Adapter{schema: schema}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(adapter)
	}
	return adapter, nil
}

// Load compiles a JSON or YAML OpenAPI document and wraps the named component
// schema.
func Load(ctx context.Context, data []byte, name string, options ...Option) (*Adapter, error) {
	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("openapi: load document: %w", err)
	}
	if doc.Components == nil {
		return nil, fmt.Errorf("openapi: document has no component schemas")
	}
	ref, ok := doc.Components.Schemas[name]
	if !ok || ref == nil || ref.Value == nil {
		return nil, fmt.Errorf("openapi: component schema %q not found", name)
	}
	return New(ref.Value, options...)
}

// Validate coerces the payload and checks it against the schema. Failures are
// returned as data, never as errors.
func (a *Adapter) Validate(payload *validate.Payload) validate.Result[map[string]any] {
	value := a.coerce(payload)

	err := a.schema.VisitJSON(value, openapi3.MultiErrors())
	if err == nil {
		return validate.Success(value)
	}

	errs := make(validate.FieldErrors)
	a.collect(err, errs)
	if len(errs) == 0 {
		errs[FormLevelKey] = strings.TrimSpace(err.Error())
	}
	return validate.Failure[map[string]any](errs, payload)
}

// ValidateField validates the whole payload and projects the outcome for a
// single field.
func (a *Adapter) ValidateField(payload *validate.Payload, field string) validate.FieldResult {
	result := a.Validate(payload)
	if result.Valid() {
		return validate.FieldResult{}
	}
	if message, ok := result.Errors[field]; ok {
		return validate.FieldResult{Error: message}
	}
	return validate.FieldResult{}
}

// collect flattens kin-openapi's error tree into field-keyed messages. The
// first message per field wins.
func (a *Adapter) collect(err error, dest validate.FieldErrors) {
	var multi openapi3.MultiError
	if errors.As(err, &multi) {
		for _, item := range multi {
			a.collect(item, dest)
		}
		return
	}

	var schemaErr *openapi3.SchemaError
	if !errors.As(err, &schemaErr) {
		return
	}

	field := fieldPath(schemaErr)
	if _, exists := dest[field]; exists {
		return
	}
	dest[field] = a.message(field, schemaErr)
}

func (a *Adapter) message(field string, schemaErr *openapi3.SchemaError) string {
	if override, ok := a.messages[field]; ok {
		return override
	}
	reason := strings.TrimSpace(schemaErr.Reason)
	if reason == "" {
		reason = strings.TrimSpace(schemaErr.Error())
	}
	return reason
}

// fieldPath renders a schema error location as a dotted field path, e.g.
// contacts[0].name. Required-property failures point at the parent object, so
// the missing property name is pulled out of the reason text.
func fieldPath(schemaErr *openapi3.SchemaError) string {
	segments := schemaErr.JSONPointer()
	path := joinPointer(segments)

	if schemaErr.SchemaField == "required" {
		if missing := missingProperty(schemaErr.Reason); missing != "" {
			if path == "" {
				return missing
			}
			if !strings.HasSuffix(path, missing) {
				return path + "." + missing
			}
		}
	}
	if path == "" {
		return FormLevelKey
	}
	return path
}

func joinPointer(segments []string) string {
	var b strings.Builder
	for _, segment := range segments {
		if segment == "" {
			continue
		}
		if _, err := strconv.Atoi(segment); err == nil {
			b.WriteString("[" + segment + "]")
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(segment)
	}
	return b.String()
}

func missingProperty(reason string) string {
	// kin-openapi phrases required failures as: property "x" is missing
	start := strings.Index(reason, `"`)
	if start < 0 {
		return ""
	}
	end := strings.Index(reason[start+1:], `"`)
	if end < 0 {
		return ""
	}
	return reason[start+1 : start+1+end]
}
