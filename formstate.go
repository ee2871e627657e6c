// Package formstate synchronizes server-rendered HTML forms with validation
// state: one validator contract drives submission-time validation, per-field
// re-validation, error bookkeeping, first-invalid focus, and repopulation
// after a failed round-trip. The root package re-exports the common entry
// points; the full API lives under pkg/.
package formstate

import (
	"context"

	"github.com/goliatone/go-formstate/pkg/form"
	"github.com/goliatone/go-formstate/pkg/formdef"
	"github.com/goliatone/go-formstate/pkg/render"
	"github.com/goliatone/go-formstate/pkg/validate"
)

// Payload is the ordered multimap carrying a form submission.
type Payload = validate.Payload

// FieldErrors maps field paths to display messages.
type FieldErrors = validate.FieldErrors

// FormState is the immutable snapshot handed to renderers.
type FormState = form.FormState

// ErrorResponse is the JSON contract a failed server action returns.
type ErrorResponse = form.ErrorResponse

// Definition is a declarative form description loaded from YAML.
type Definition = formdef.Definition

// SubactionField names the hidden input that disambiguates co-located forms.
const SubactionField = form.SubactionField

// NewPayload returns an empty submission payload.
func NewPayload() *Payload {
	return validate.NewPayload()
}

// NewForm wires a validator into a form engine. See form.New for options.
func NewForm[T any](validator validate.Validator[T], options ...form.Option[T]) (*form.Form[T], error) {
	return form.New(validator, options...)
}

// LoadDefinition parses a YAML form definition from raw bytes.
func LoadDefinition(data []byte) (*formdef.Definition, error) {
	return formdef.Parse(data)
}

// RenderHTML renders a definition plus engine state with the built-in
// renderer and default templates. Callers needing themes, custom templates,
// or hidden fields construct render.New directly.
func RenderHTML(ctx context.Context, def *formdef.Definition, state *form.FormState) ([]byte, error) {
	renderer, err := render.New()
	if err != nil {
		return nil, err
	}
	return renderer.Render(ctx, def, state)
}
