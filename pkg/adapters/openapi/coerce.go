package openapi

import (
	"strconv"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formstate/pkg/validate"
)

// coerce materializes the raw payload as a JSON-shaped map using the schema's
// property types. Blank scalar values are treated as missing so the schema's
// required list carries the "must not be empty" rule the way HTML forms need
// it (browsers submit empty strings for untouched inputs).
func (a *Adapter) coerce(payload *validate.Payload) map[string]any {
	out := make(map[string]any)
	for name, ref := range a.schema.Properties {
		if ref == nil || ref.Value == nil {
			continue
		}
		prop := ref.Value

		if typeName(prop) == "array" {
			items := coerceArray(payload.GetAll(name), prop)
			if items != nil {
				out[name] = items
			}
			continue
		}

		raw, ok := payload.Get(name)
		if !ok {
			continue
		}
		if value, keep := coerceScalar(raw, typeName(prop)); keep {
			out[name] = value
		}
	}
	return out
}

func coerceArray(raw []string, prop *openapi3.Schema) []any {
	itemType := "string"
	if prop.Items != nil && prop.Items.Value != nil {
		itemType = typeName(prop.Items.Value)
	}
	var items []any
	for _, entry := range raw {
		if value, keep := coerceScalar(entry, itemType); keep {
			items = append(items, value)
		}
	}
	return items
}

func coerceScalar(raw, typ string) (any, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, false
	}

	switch typ {
	case "integer", "number":
		if parsed, err := strconv.ParseFloat(trimmed, 64); err == nil {
			return parsed, true
		}
		// Let schema validation report the type mismatch.
		return raw, true
	case "boolean":
		switch strings.ToLower(trimmed) {
		case "true", "on", "1", "yes":
			return true, true
		case "false", "off", "0", "no":
			return false, true
		}
		return raw, true
	default:
		return raw, true
	}
}

func typeName(schema *openapi3.Schema) string {
	if schema == nil || schema.Type == nil {
		return ""
	}
	values := schema.Type.Slice()
	if len(values) == 0 {
		return ""
	}
	return values[0]
}
