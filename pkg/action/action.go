// Package action provides the HTTP glue for form submissions: it parses the
// request body into an ordered payload, routes on the hidden subaction marker,
// runs the configured validator, and answers failed validation with the JSON
// error contract the form engine knows how to apply.
package action

import (
	"fmt"
	"net/http"

	"github.com/goliatone/go-formstate/pkg/form"
	"github.com/goliatone/go-formstate/pkg/validate"
)

// SuccessFunc receives the typed data of a valid submission. Returning an
// error yields a 500 response unless the handler already wrote one.
type SuccessFunc[T any] func(w http.ResponseWriter, r *http.Request, data T) error

// Option configures a Handler.
type Option[T any] func(*Handler[T])

// WithSubaction restricts the handler to submissions tagged with the given
// subaction marker. Untagged handlers only accept untagged submissions.
func WithSubaction[T any](subaction string) Option[T] {
	return func(h *Handler[T]) {
		h.subaction = subaction
	}
}

// WithMaxMemory caps multipart parsing memory; the rest spills to disk.
func WithMaxMemory[T any](limit int64) Option[T] {
	return func(h *Handler[T]) {
		if limit > 0 {
			h.maxMemory = limit
		}
	}
}

// WithoutRepopulation drops the raw submission echo from error responses, for
// forms carrying values that must not round-trip (passwords, card numbers).
func WithoutRepopulation[T any]() Option[T] {
	return func(h *Handler[T]) {
		h.repopulate = false
	}
}

// WithMismatchHandler overrides the response for submissions whose subaction
// marker does not match this handler. The default is 404.
func WithMismatchHandler[T any](next http.Handler) Option[T] {
	return func(h *Handler[T]) {
		if next != nil {
			h.mismatch = next
		}
	}
}

// Handler validates POSTed form submissions and dispatches valid ones to a
// typed success callback. It implements http.Handler.
type Handler[T any] struct {
	validator  validate.Validator[T]
	onValid    SuccessFunc[T]
	subaction  string
	maxMemory  int64
	repopulate bool
	mismatch   http.Handler
}

// New constructs a submission handler around a validator and success callback.
func New[T any](validator validate.Validator[T], onValid SuccessFunc[T], options ...Option[T]) (*Handler[T], error) {
	if validator == nil {
		return nil, fmt.Errorf("action: validator is required")
	}
	if onValid == nil {
		return nil, fmt.Errorf("action: success handler is required")
	}

	h := &Handler[T]{
		validator:  validator,
		onValid:    onValid,
		maxMemory:  10 << 20,
		repopulate: true,
		mismatch:   http.NotFoundHandler(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(h)
	}
	return h, nil
}

// ServeHTTP parses, routes, validates, and dispatches a submission.
func (h *Handler[T]) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
		return
	}

	payload, err := validate.FromRequest(r, h.maxMemory)
	if err != nil {
		http.Error(w, "malformed form submission", http.StatusBadRequest)
		return
	}

	submitted, _ := payload.Get(form.SubactionField)
	if submitted != h.subaction {
		h.mismatch.ServeHTTP(w, r)
		return
	}

	result := h.validator.Validate(payload)
	if !result.Valid() {
		h.writeErrors(w, result)
		return
	}

	if err := h.onValid(w, r, result.Data); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func (h *Handler[T]) writeErrors(w http.ResponseWriter, result validate.Result[T]) {
	response := form.NewErrorResponse(result, h.subaction)
	if !h.repopulate {
		response.RepopulateFields = nil
	}

	data, err := response.Encode()
	if err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusUnprocessableEntity)
	w.Write(data)
}
