// Package render produces the HTML chrome for a declarative form: inputs
// with repopulated values, inline field errors, touched/invalid state hooks,
// and the hidden subaction marker. It is thin glue over the engine state; all
// synchronization rules live in pkg/form.
package render

import (
	"context"
	"fmt"
	"io/fs"
	"os"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-formstate/pkg/form"
	"github.com/goliatone/go-formstate/pkg/formdef"
	rendertemplate "github.com/goliatone/go-formstate/pkg/render/template"
	gotemplate "github.com/goliatone/go-formstate/pkg/render/template/gotemplate"
)

// Option configures the renderer.
type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	theme            *theme.RendererConfig
	hidden           []HiddenField
	translator       Translator
	locale           string
	onMissing        MissingTranslationHandler
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithTheme applies a resolved go-theme configuration to every render.
func WithTheme(cfg *theme.RendererConfig) Option {
	return func(c *config) {
		c.theme = cfg
	}
}

// WithHiddenFields emits extra hidden inputs (CSRF tokens, versions) on every
// render.
func WithHiddenFields(fields ...HiddenField) Option {
	return func(cfg *config) {
		cfg.hidden = append(cfg.hidden, fields...)
	}
}

// Renderer turns a form definition plus engine state into HTML.
type Renderer struct {
	templates rendertemplate.TemplateRenderer
	theme     *theme.RendererConfig
	hidden    []HiddenField
	localizer *localizer
}

// New constructs the renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("render: configure template renderer: %w", err)
		}
		renderer = engine
	}

	return &Renderer{
		templates: renderer,
		theme:     cfg.theme,
		hidden:    cfg.hidden,
		localizer: newLocalizer(&cfg),
	}, nil
}

// Name identifies the built-in renderer.
func (r *Renderer) Name() string {
	return "vanilla"
}

// ContentType reports the MIME type of rendered output.
func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render produces the form markup for the given definition and engine state.
// A nil state renders the pristine form. Extra hidden fields are merged over
// the configured ones.
func (r *Renderer) Render(ctx context.Context, def *formdef.Definition, state *form.FormState, extra ...HiddenField) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if def == nil {
		return nil, fmt.Errorf("render: definition is required")
	}
	if state == nil {
		state = &form.FormState{IsValid: true}
	}

	var subaction []HiddenField
	if def.Subaction != "" {
		subaction = []HiddenField{Subaction(def.Subaction)}
	}

	submitLabel := def.Submit
	if submitLabel == "" {
		submitLabel = "Submit"
	}
	submitLabel = r.localizer.text(def.Name+".submit", submitLabel)

	data := map[string]any{
		"form": map[string]any{
			"name":   def.Name,
			"action": def.Action,
			"method": def.Method,
			"submit": submitLabel,
		},
		"state": map[string]any{
			"isSubmitting":     state.IsSubmitting,
			"isValid":          state.IsValid,
			"hasBeenSubmitted": state.HasBeenSubmitted,
		},
		"fields": fieldViews(def, state, r.localizer),
		"hidden": mergeHiddenFields(r.hidden, subaction, extra),
		"theme":  buildThemeContext(r.theme),
	}

	rendered, err := r.templates.RenderTemplate("templates/form.tmpl", data)
	if err != nil {
		return nil, fmt.Errorf("render: render form %q: %w", def.Name, err)
	}
	return []byte(rendered), nil
}

func fieldViews(def *formdef.Definition, state *form.FormState, loc *localizer) []map[string]any {
	views := make([]map[string]any, 0, len(def.Fields))
	for _, field := range def.Fields {
		value, values := resolveValue(field, state)
		keyPrefix := def.Name + "." + field.Name
		message := ""
		if raw, ok := state.FieldErrors[field.Name]; ok {
			message = sanitizeMessage(loc.text(keyPrefix+".error", raw))
		}

		view := map[string]any{
			"name":        field.Name,
			"label":       loc.text(keyPrefix+".label", field.Label),
			"type":        field.Type,
			"widget":      widgetFor(field.Type),
			"hidden":      field.Hidden,
			"placeholder": loc.text(keyPrefix+".placeholder", field.Placeholder),
			"help":        sanitizeHelp(loc.text(keyPrefix+".help", field.Help)),
			"value":       value,
			"checked":     isTruthy(value),
			"error":       message,
			"invalid":     message != "",
			"touched":     state.Touched[field.Name],
			"choices":     choiceViews(field, value, values),
		}
		views = append(views, view)
	}
	return views
}

func resolveValue(field formdef.Field, state *form.FormState) (string, []string) {
	raw, ok := state.DefaultValue(field.Name)
	if !ok {
		return field.Default, nil
	}
	switch value := raw.(type) {
	case string:
		return value, nil
	case []string:
		first := ""
		if len(value) > 0 {
			first = value[0]
		}
		return first, value
	default:
		return fmt.Sprint(value), nil
	}
}

func choiceViews(field formdef.Field, value string, values []string) []map[string]any {
	if len(field.Choices) == 0 {
		return nil
	}
	selected := make(map[string]bool, len(values)+1)
	if value != "" {
		selected[value] = true
	}
	for _, entry := range values {
		selected[entry] = true
	}

	out := make([]map[string]any, 0, len(field.Choices))
	for _, choice := range field.Choices {
		label := choice.Label
		if label == "" {
			label = choice.Value
		}
		out = append(out, map[string]any{
			"value":    choice.Value,
			"label":    label,
			"selected": selected[choice.Value],
		})
	}
	return out
}

func widgetFor(fieldType string) string {
	switch fieldType {
	case "integer", "number":
		return "number"
	case "boolean":
		return "checkbox"
	case "email":
		return "email"
	case "password":
		return "password"
	default:
		return "text"
	}
}

func isTruthy(value string) bool {
	switch value {
	case "true", "on", "1", "yes":
		return true
	default:
		return false
	}
}
