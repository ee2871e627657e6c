package validate

import "sort"

// FieldErrors maps a field path (dot/bracket notation, e.g.
// "contacts[0].name") to a human-readable message. Keys are unique; map order
// carries no meaning.
type FieldErrors map[string]string

// Clone returns an independent copy. A nil receiver yields nil.
func (fe FieldErrors) Clone() FieldErrors {
	if fe == nil {
		return nil
	}
	out := make(FieldErrors, len(fe))
	for field, message := range fe {
		out[field] = message
	}
	return out
}

// Fields lists the error keys in sorted order for deterministic output.
func (fe FieldErrors) Fields() []string {
	if len(fe) == 0 {
		return nil
	}
	out := make([]string, 0, len(fe))
	for field := range fe {
		out = append(out, field)
	}
	sort.Strings(out)
	return out
}

// Result is the outcome of whole-payload validation. Exactly one variant is
// populated: Data on success, Errors plus the Submitted payload on failure.
// Use the Success and Failure constructors rather than building one by hand.
type Result[T any] struct {
	// Data holds the parsed, typed value when validation succeeded.
	Data T
	// Errors carries field-level messages when validation failed.
	Errors FieldErrors
	// Submitted echoes the raw payload that produced the failure so callers
	// can repopulate inputs after a full round-trip.
	Submitted *Payload
}

// Success wraps typed data in a passing result.
func Success[T any](data T) Result[T] {
	return Result[T]{Data: data}
}

// Failure wraps field errors and the raw payload that produced them.
func Failure[T any](errs FieldErrors, submitted *Payload) Result[T] {
	return Result[T]{Errors: errs.Clone(), Submitted: submitted}
}

// Valid reports whether the result carries typed data rather than errors.
func (r Result[T]) Valid() bool {
	return len(r.Errors) == 0
}

// FieldResult is the outcome of validating a single field. An empty Error
// means the field is currently valid.
type FieldResult struct {
	Error string
}

// Valid reports whether the field passed.
func (r FieldResult) Valid() bool {
	return r.Error == ""
}

// Validator is the sole extension point for plugging a schema engine into a
// form. Implementations coerce the raw payload into typed data and produce
// field-path-qualified messages; they must be deterministic and free of side
// effects. The zero payload is a legal input.
type Validator[T any] interface {
	// Validate checks the whole payload.
	Validate(payload *Payload) Result[T]
	// ValidateField checks a single field in the context of the full payload.
	ValidateField(payload *Payload, field string) FieldResult
}
