package form

import "sync"

type focusHandle struct {
	id uint64
	fn func()
}

// FocusRegistry is a multi-valued registry mapping a field name to zero or
// more custom "receive focus" callbacks. Composite widgets that cannot accept
// focus through the default mechanism register here so the first-invalid-field
// algorithm can reach them.
type FocusRegistry struct {
	mu       sync.Mutex
	nextID   uint64
	handlers map[string][]focusHandle
}

// NewFocusRegistry returns an empty registry.
func NewFocusRegistry() *FocusRegistry {
	return &FocusRegistry{handlers: make(map[string][]focusHandle)}
}

// Register adds a handler for the named field and returns a function that
// removes exactly that registration. Duplicate handlers for the same field are
// allowed; each unregister call removes only its own entry.
func (r *FocusRegistry) Register(field string, fn func()) func() {
	if fn == nil {
		return func() {}
	}

	r.mu.Lock()
	r.nextID++
	id := r.nextID
	r.handlers[field] = append(r.handlers[field], focusHandle{id: id, fn: fn})
	r.mu.Unlock()

	return func() {
		r.mu.Lock()
		defer r.mu.Unlock()

		handles := r.handlers[field]
		for idx, handle := range handles {
			if handle.id != id {
				continue
			}
			r.handlers[field] = append(handles[:idx:idx], handles[idx+1:]...)
			if len(r.handlers[field]) == 0 {
				delete(r.handlers, field)
			}
			return
		}
	}
}

// Has reports whether at least one handler is registered for the field.
func (r *FocusRegistry) Has(field string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.handlers[field]) > 0
}

// DispatchAll invokes every handler currently registered for the field in
// registration order.
func (r *FocusRegistry) DispatchAll(field string) {
	r.mu.Lock()
	handles := make([]focusHandle, len(r.handlers[field]))
	copy(handles, r.handlers[field])
	r.mu.Unlock()

	for _, handle := range handles {
		handle.fn()
	}
}
