package form

import (
	"maps"
	"sync"
)

// TouchedFields maps a field name to whether the user has blurred or changed
// it at least once.
type TouchedFields map[string]bool

// Clone returns an independent copy. A nil receiver yields nil.
func (tf TouchedFields) Clone() TouchedFields {
	if tf == nil {
		return nil
	}
	out := make(TouchedFields, len(tf))
	maps.Copy(out, tf)
	return out
}

// TouchedStore tracks which fields the user has interacted with. Writes merge
// into the existing set; entries only ever disappear through a full reset.
type TouchedStore struct {
	mu      sync.RWMutex
	touched TouchedFields
	rev     uint64
}

// NewTouchedStore returns an empty store.
func NewTouchedStore() *TouchedStore {
	return &TouchedStore{touched: make(TouchedFields)}
}

// SetTouched records the interaction flag for the named field. Re-recording
// the current value is a no-op.
func (s *TouchedStore) SetTouched(field string, touched bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.touched[field]; ok && existing == touched {
		return
	}
	s.touched[field] = touched
	s.rev++
}

// Read returns a copy of the current touched set.
func (s *TouchedStore) Read() TouchedFields {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.touched.Clone()
}

// Reset drops every entry.
func (s *TouchedStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.touched) == 0 {
		return
	}
	s.touched = make(TouchedFields)
	s.rev++
}

// Revision returns a counter that changes with every observable mutation.
func (s *TouchedStore) Revision() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rev
}
