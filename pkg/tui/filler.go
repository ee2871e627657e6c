package tui

import (
	"context"
	"fmt"
	"sort"

	"github.com/goliatone/go-formstate/pkg/form"
	"github.com/goliatone/go-formstate/pkg/formdef"
	"github.com/goliatone/go-formstate/pkg/validate"
)

// Option configures a Filler.
type Option[T any] func(*Filler[T])

// WithDriver swaps the prompt driver; the default talks to the terminal via
// survey.
func WithDriver[T any](driver PromptDriver) Option[T] {
	return func(f *Filler[T]) {
		if driver != nil {
			f.driver = driver
		}
	}
}

// Filler walks a form definition interactively and produces the same payload
// an HTTP submission of that form would carry. Each answer is validated with
// the form's validator before it is accepted, mirroring blur-time validation
// in the browser.
type Filler[T any] struct {
	driver    PromptDriver
	validator validate.Validator[T]
}

// New constructs a Filler around a validator.
func New[T any](validator validate.Validator[T], options ...Option[T]) (*Filler[T], error) {
	if validator == nil {
		return nil, fmt.Errorf("tui: validator is required")
	}
	f := &Filler[T]{
		driver:    newSurveyDriver(),
		validator: validator,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(f)
	}
	return f, nil
}

// Fill prompts for every field in definition order and returns the validated
// result. Hidden fields are taken from their defaults without prompting, and
// the definition's subaction marker is stamped onto the payload so the result
// can feed the same action handler as a browser submission.
func (f *Filler[T]) Fill(ctx context.Context, def *formdef.Definition) (validate.Result[T], error) {
	var zero validate.Result[T]
	if def == nil {
		return zero, fmt.Errorf("tui: definition is required")
	}

	payload := validate.NewPayload()
	if def.Subaction != "" {
		payload.Set(form.SubactionField, def.Subaction)
	}

	for _, field := range def.Fields {
		if err := f.promptField(ctx, field, payload); err != nil {
			return zero, err
		}
	}

	result := f.validator.Validate(payload)
	if result.Submitted == nil {
		result.Submitted = payload
	}
	if !result.Valid() {
		if err := f.reportErrors(ctx, result.Errors); err != nil {
			return zero, err
		}
	}
	return result, nil
}

func (f *Filler[T]) promptField(ctx context.Context, field formdef.Field, payload *validate.Payload) error {
	if field.Hidden {
		if field.Default != "" {
			payload.Set(field.Name, field.Default)
		}
		return nil
	}

	switch {
	case len(field.Choices) > 0:
		return f.promptChoice(ctx, field, payload)
	case field.Type == "boolean":
		return f.promptBoolean(ctx, field, payload)
	case field.Type == "password":
		return f.promptText(ctx, field, payload, f.driver.Password)
	default:
		return f.promptText(ctx, field, payload, f.driver.Input)
	}
}

func (f *Filler[T]) promptText(ctx context.Context, field formdef.Field, payload *validate.Payload, ask func(context.Context, InputConfig) (string, error)) error {
	answer, err := ask(ctx, InputConfig{
		Message:   field.Label,
		Default:   field.Default,
		Help:      field.Help,
		Validator: f.fieldValidator(field.Name, payload),
	})
	if err != nil {
		return err
	}
	if answer != "" {
		payload.Set(field.Name, answer)
	}
	return nil
}

func (f *Filler[T]) promptBoolean(ctx context.Context, field formdef.Field, payload *validate.Payload) error {
	answer, err := f.driver.Confirm(ctx, ConfirmConfig{
		Message: field.Label,
		Default: field.Default == "true",
		Help:    field.Help,
	})
	if err != nil {
		return err
	}
	// Browsers omit unchecked checkboxes entirely.
	if answer {
		payload.Set(field.Name, "true")
	}
	return nil
}

func (f *Filler[T]) promptChoice(ctx context.Context, field formdef.Field, payload *validate.Payload) error {
	options := make([]string, 0, len(field.Choices))
	defaultIndex := 0
	for i, choice := range field.Choices {
		label := choice.Label
		if label == "" {
			label = choice.Value
		}
		options = append(options, label)
		if choice.Value == field.Default {
			defaultIndex = i
		}
	}

	picked, err := f.driver.Select(ctx, SelectConfig{
		Message:      field.Label,
		Options:      options,
		DefaultIndex: defaultIndex,
		Help:         field.Help,
	})
	if err != nil {
		return err
	}
	if picked >= 0 && picked < len(field.Choices) {
		payload.Set(field.Name, field.Choices[picked].Value)
	}
	return nil
}

// fieldValidator adapts per-field validation to survey's validator contract.
// The candidate answer is staged on a copy of the payload so rejected input
// never leaks into the submission.
func (f *Filler[T]) fieldValidator(name string, payload *validate.Payload) func(string) error {
	return func(answer string) error {
		staged := payload.Clone()
		if answer == "" {
			staged.Delete(name)
		} else {
			staged.Set(name, answer)
		}
		if result := f.validator.ValidateField(staged, name); result.Error != "" {
			return fmt.Errorf("%s", result.Error)
		}
		return nil
	}
}

func (f *Filler[T]) reportErrors(ctx context.Context, errs validate.FieldErrors) error {
	names := make([]string, 0, len(errs))
	for name := range errs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := f.driver.Info(ctx, fmt.Sprintf("%s: %s", name, errs[name])); err != nil {
			return err
		}
	}
	return nil
}
