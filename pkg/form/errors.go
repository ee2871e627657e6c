package form

import (
	"maps"
	"sync"

	"github.com/goliatone/go-formstate/pkg/validate"
)

// ErrorStore holds the current per-field error messages for one mounted form.
// Every observable change bumps an internal revision so the engine can decide
// whether the composed state needs recomputing; operations that leave the
// store untouched (clearing an absent field, rewriting an identical message)
// leave the revision alone as well.
type ErrorStore struct {
	mu     sync.RWMutex
	errors validate.FieldErrors
	rev    uint64
}

// NewErrorStore returns an empty store.
func NewErrorStore() *ErrorStore {
	return &ErrorStore{errors: make(validate.FieldErrors)}
}

// Set records a message for the named field. Writing the message the field
// already carries is a no-op.
func (s *ErrorStore) Set(field, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.errors[field]; ok && existing == message {
		return
	}
	s.errors[field] = message
	s.rev++
}

// Clear removes the entry for the named field. Clearing a field without an
// existing error is a no-op and does not bump the revision.
func (s *ErrorStore) Clear(field string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.errors[field]; !ok {
		return
	}
	delete(s.errors, field)
	s.rev++
}

// ReplaceAll swaps the entire error set, typically after a full-form
// validation failure or a server-originated seed. Replacing with an equal set
// is a no-op.
func (s *ErrorStore) ReplaceAll(errs validate.FieldErrors) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if maps.Equal(s.errors, errs) {
		return
	}
	next := make(validate.FieldErrors, len(errs))
	maps.Copy(next, errs)
	s.errors = next
	s.rev++
}

// Read returns a copy of the current error set.
func (s *ErrorStore) Read() validate.FieldErrors {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.errors.Clone()
}

// Message returns the message for a single field, if any.
func (s *ErrorStore) Message(field string) (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	message, ok := s.errors[field]
	return message, ok
}

// Len reports the number of fields currently in error.
func (s *ErrorStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.errors)
}

// Revision returns a counter that changes with every observable mutation.
func (s *ErrorStore) Revision() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rev
}
