package render

import (
	"fmt"
	"sort"
	"strings"

	"github.com/goliatone/go-formstate/pkg/form"
)

// HiddenField represents a hidden input emitted alongside the visible fields.
type HiddenField struct {
	Name  string
	Value string
}

// Hidden returns a HiddenField for an arbitrary name/value pair.
func Hidden(name string, value any) HiddenField {
	return HiddenField{
		Name:  strings.TrimSpace(name),
		Value: fmt.Sprint(value),
	}
}

// Subaction constructs the hidden marker input that lets the action handler
// and the response-matching logic disambiguate co-located forms.
func Subaction(value string) HiddenField {
	return Hidden(form.SubactionField, value)
}

// CSRFToken constructs a hidden field carrying the provided token. Callers
// supply the input name to match their backend expectations.
func CSRFToken(name, token string) HiddenField {
	return Hidden(name, token)
}

// mergeHiddenFields combines configured hidden fields with per-render ones.
// Empty names are dropped; later fields win on name collisions, and the
// result is sorted for deterministic markup.
func mergeHiddenFields(groups ...[]HiddenField) []HiddenField {
	merged := make(map[string]string)
	for _, group := range groups {
		for _, field := range group {
			name := strings.TrimSpace(field.Name)
			if name == "" {
				continue
			}
			merged[name] = field.Value
		}
	}
	if len(merged) == 0 {
		return nil
	}

	names := make([]string, 0, len(merged))
	for name := range merged {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]HiddenField, 0, len(names))
	for _, name := range names {
		out = append(out, HiddenField{Name: name, Value: merged[name]})
	}
	return out
}
