// Package formdef loads declarative form definitions from YAML or JSON
// documents: the action endpoint, the optional subaction marker, static
// default values, and the rendered fields in document order. Definitions
// bridge into the engine (field registration) and the render glue.
package formdef

import (
	"bytes"
	"fmt"
	"io/fs"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formstate/pkg/form"
)

// Choice is one selectable option for enum-like fields.
type Choice struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label,omitempty" yaml:"label,omitempty"`
}

// Field describes a rendered input. Validation semantics never live here;
// they belong to the validator wired into the form.
type Field struct {
	Name        string   `json:"name" yaml:"name"`
	Label       string   `json:"label,omitempty" yaml:"label,omitempty"`
	Type        string   `json:"type,omitempty" yaml:"type,omitempty"`
	Hidden      bool     `json:"hidden,omitempty" yaml:"hidden,omitempty"`
	Placeholder string   `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Help        string   `json:"help,omitempty" yaml:"help,omitempty"`
	Default     string   `json:"default,omitempty" yaml:"default,omitempty"`
	Choices     []Choice `json:"choices,omitempty" yaml:"choices,omitempty"`
}

// Definition is a complete declarative form.
type Definition struct {
	Name      string            `json:"name" yaml:"name"`
	Action    string            `json:"action" yaml:"action"`
	Method    string            `json:"method,omitempty" yaml:"method,omitempty"`
	Subaction string            `json:"subaction,omitempty" yaml:"subaction,omitempty"`
	Submit    string            `json:"submit,omitempty" yaml:"submit,omitempty"`
	Defaults  map[string]string `json:"defaults,omitempty" yaml:"defaults,omitempty"`
	Fields    []Field           `json:"fields" yaml:"fields"`
}

// Parse decodes a YAML or JSON definition document and validates it. Unknown
// keys are rejected so typos surface early.
func Parse(data []byte) (*Definition, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("formdef: document is empty")
	}

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)

	var def Definition
	if err := decoder.Decode(&def); err != nil {
		return nil, fmt.Errorf("formdef: parse document: %w", err)
	}
	if err := def.normalize(); err != nil {
		return nil, err
	}
	return &def, nil
}

// Load reads and parses a definition from the provided filesystem.
func Load(fsys fs.FS, path string) (*Definition, error) {
	if fsys == nil {
		return nil, fmt.Errorf("formdef: filesystem is nil")
	}
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("formdef: read %s: %w", path, err)
	}
	def, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("formdef: file %s: %w", path, err)
	}
	return def, nil
}

func (d *Definition) normalize() error {
	d.Name = strings.TrimSpace(d.Name)
	d.Action = strings.TrimSpace(d.Action)
	if d.Action == "" {
		return fmt.Errorf("formdef: action is required")
	}

	d.Method = strings.ToUpper(strings.TrimSpace(d.Method))
	if d.Method == "" {
		d.Method = "POST"
	}

	seen := make(map[string]struct{}, len(d.Fields))
	for idx := range d.Fields {
		field := &d.Fields[idx]
		field.Name = strings.TrimSpace(field.Name)
		if field.Name == "" {
			return fmt.Errorf("formdef: field %d has no name", idx)
		}
		if _, exists := seen[field.Name]; exists {
			return fmt.Errorf("formdef: duplicate field %q", field.Name)
		}
		seen[field.Name] = struct{}{}
		if field.Type == "" {
			field.Type = "string"
		}
		if field.Label == "" {
			field.Label = labelFromName(field.Name)
		}
	}
	return nil
}

// Field looks up a field by name.
func (d *Definition) Field(name string) (Field, bool) {
	for _, field := range d.Fields {
		if field.Name == name {
			return field, true
		}
	}
	return Field{}, false
}

// DefaultValues merges the document-level defaults with per-field defaults,
// field entries winning, in the shape the engine consumes.
func (d *Definition) DefaultValues() map[string]any {
	out := make(map[string]any, len(d.Defaults)+len(d.Fields))
	for field, value := range d.Defaults {
		out[field] = value
	}
	for _, field := range d.Fields {
		if field.Default != "" {
			out[field.Name] = field.Default
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// FieldRegistrar is the slice of the form engine the definition binds into.
type FieldRegistrar interface {
	RegisterField(form.Field) error
}

// Apply registers every field with the engine in document order. Focus
// mechanics are left to the rendering layer; only name and visibility are
// carried over.
func (d *Definition) Apply(registrar FieldRegistrar) error {
	if registrar == nil {
		return fmt.Errorf("formdef: registrar is nil")
	}
	for _, field := range d.Fields {
		if err := registrar.RegisterField(form.Field{Name: field.Name, Hidden: field.Hidden}); err != nil {
			return fmt.Errorf("formdef: register field %q: %w", field.Name, err)
		}
	}
	return nil
}

func labelFromName(name string) string {
	// contacts[0].name -> last path segment, camelCase split into words.
	segment := name
	if idx := strings.LastIndexAny(segment, ".]"); idx >= 0 && idx+1 < len(segment) {
		segment = segment[idx+1:]
	}
	segment = strings.Trim(segment, "[]")
	if segment == "" {
		return name
	}

	var b strings.Builder
	for idx, r := range segment {
		if idx == 0 {
			b.WriteRune(toUpper(r))
			continue
		}
		if r >= 'A' && r <= 'Z' {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}

func toUpper(r rune) rune {
	if r >= 'a' && r <= 'z' {
		return r - ('a' - 'A')
	}
	return r
}
