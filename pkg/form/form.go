package form

import (
	"fmt"
	"sync"

	"github.com/goliatone/go-formstate/pkg/validate"
)

// PayloadSource materializes the live form's current payload on demand.
type PayloadSource func() *validate.Payload

// Field describes one rendered input registered with the engine, in document
// order. Focus is the default focus mechanism for the input; composite
// widgets that need custom behaviour register through RegisterReceiveFocus
// instead.
type Field struct {
	Name   string
	Hidden bool
	Focus  func()
}

// Option customises a Form during construction.
type Option[T any] func(*Form[T])

// WithAction sets the action URL submissions are matched against.
func WithAction[T any](action string) Option[T] {
	return func(f *Form[T]) {
		f.action = action
	}
}

// WithSubaction declares the marker distinguishing this form from others
// posting to the same action. The rendered form must carry it as a hidden
// input named SubactionField.
func WithSubaction[T any](subaction string) Option[T] {
	return func(f *Form[T]) {
		f.subaction = subaction
	}
}

// WithDefaults supplies static default values keyed by field path. Server
// repopulation payloads take precedence over these for the lifetime of the
// response that carried them.
func WithDefaults[T any](defaults map[string]any) Option[T] {
	return func(f *Form[T]) {
		if len(defaults) == 0 {
			return
		}
		if f.defaults == nil {
			f.defaults = make(map[string]any, len(defaults))
		}
		for field, value := range defaults {
			f.defaults[field] = value
		}
	}
}

// WithResetAfterSubmit resets all stores once a successful submission
// completes.
func WithResetAfterSubmit[T any]() Option[T] {
	return func(f *Form[T]) {
		f.resetAfterSubmit = true
	}
}

// WithoutFocusOnError disables the first-invalid-field focus pass after a
// failed submit.
func WithoutFocusOnError[T any]() Option[T] {
	return func(f *Form[T]) {
		f.disableFocusOnError = true
	}
}

// WithOnSubmit registers the success callback invoked with the parsed, typed
// data when a submission passes validation.
func WithOnSubmit[T any](fn func(data T)) Option[T] {
	return func(f *Form[T]) {
		f.onSubmit = fn
	}
}

// WithOnSubmitComplete registers a callback fired exactly once per
// Submitting -> Idle transition of the lifecycle tracker.
func WithOnSubmitComplete[T any](fn func()) Option[T] {
	return func(f *Form[T]) {
		f.onSubmitComplete = fn
	}
}

// WithResetHandler registers a handler consulted before a reset. Returning
// true cancels the reset.
func WithResetHandler[T any](fn func() (cancel bool)) Option[T] {
	return func(f *Form[T]) {
		f.resetHandler = fn
	}
}

// WithFetcher switches the submission signal source from ambient navigation
// state to an externally supplied fetch-like handle.
func WithFetcher[T any](fetcher Fetcher) Option[T] {
	return func(f *Form[T]) {
		f.fetcher = fetcher
	}
}

// WithMountObserver registers a caller-supplied handle that should track the
// live payload source. The coordinating setter in Mount keeps it in sync with
// the engine's own handle.
func WithMountObserver[T any](fn func(PayloadSource)) Option[T] {
	return func(f *Form[T]) {
		f.mountObserver = fn
	}
}

// Form is the synchronization engine for one mounted form. It owns the error,
// touched, and focus stores, derives the submission lifecycle, and exposes
// the composed FormState. Instances must not be shared across concurrently
// mounted forms.
type Form[T any] struct {
	validator validate.Validator[T]

	action              string
	subaction           string
	defaults            map[string]any
	resetAfterSubmit    bool
	disableFocusOnError bool
	onSubmit            func(T)
	onSubmitComplete    func()
	resetHandler        func() bool
	fetcher             Fetcher
	mountObserver       func(PayloadSource)

	errors  *ErrorStore
	touched *TouchedStore
	focus   *FocusRegistry
	tracker *Tracker

	mu               sync.Mutex
	fields           []Field
	fieldIndex       map[string]int
	source           PayloadSource
	hasBeenSubmitted bool
	lastSubmitValid  bool
	response         *ErrorResponse
	defaultsRev      uint64

	snapshot *FormState
	snapKey  snapshotKey
}

// New constructs a Form around the supplied validator.
func New[T any](validator validate.Validator[T], options ...Option[T]) (*Form[T], error) {
	if validator == nil {
		return nil, fmt.Errorf("form: validator is required")
	}

	f := &Form[T]{
		validator:  validator,
		errors:     NewErrorStore(),
		touched:    NewTouchedStore(),
		focus:      NewFocusRegistry(),
		fieldIndex: make(map[string]int),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(f)
	}
	f.tracker = NewTracker(f.submissionComplete)
	return f, nil
}

// RegisterField records a rendered input. Fields keep the position of their
// first registration so the document order used by focus dispatch stays
// stable across re-registration.
func (f *Form[T]) RegisterField(field Field) error {
	if field.Name == "" {
		return fmt.Errorf("form: field name is required")
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if pos, ok := f.fieldIndex[field.Name]; ok {
		f.fields[pos] = field
		return nil
	}
	f.fieldIndex[field.Name] = len(f.fields)
	f.fields = append(f.fields, field)
	return nil
}

// Fields returns the registered fields in document order.
func (f *Form[T]) Fields() []Field {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]Field, len(f.fields))
	copy(out, f.fields)
	return out
}

// Mount binds the live payload source. The engine keeps its own handle and
// any caller-supplied observer in sync through this single setter.
func (f *Form[T]) Mount(source PayloadSource) {
	f.mu.Lock()
	f.source = source
	observer := f.mountObserver
	f.mu.Unlock()

	if observer != nil {
		observer(source)
	}
}

// Submit runs full-form validation over the supplied payload. On failure the
// error store is replaced wholesale, the first invalid field receives focus
// (unless disabled), and the returned result reports the submission as
// blocked; the caller must suppress the network submission. On success the
// typed data is handed to the configured success callback and returned.
func (f *Form[T]) Submit(payload *validate.Payload) validate.Result[T] {
	f.mu.Lock()
	f.hasBeenSubmitted = true
	f.mu.Unlock()

	result := f.validator.Validate(payload)

	f.mu.Lock()
	f.lastSubmitValid = result.Valid()
	f.mu.Unlock()

	if result.Valid() {
		f.errors.ReplaceAll(nil)
		if f.onSubmit != nil {
			f.onSubmit(result.Data)
		}
		return result
	}

	f.errors.ReplaceAll(result.Errors)
	if !f.disableFocusOnError {
		f.focusFirstInvalid(result.Errors)
	}
	return result
}

// ValidateField revalidates a single field from the live payload and updates
// the error store for exactly that key. Calling it before Mount is a caller
// bug and panics.
func (f *Form[T]) ValidateField(field string) validate.FieldResult {
	f.mu.Lock()
	source := f.source
	f.mu.Unlock()
	if source == nil {
		panic("form: ValidateField called before Mount bound a payload source")
	}

	result := f.validator.ValidateField(source(), field)
	if result.Valid() {
		f.errors.Clear(field)
	} else {
		f.errors.Set(field, result.Error)
	}
	return result
}

// SetFieldTouched records a user interaction with the named field.
func (f *Form[T]) SetFieldTouched(field string, touched bool) {
	f.touched.SetTouched(field, touched)
}

// ClearError removes the error for the named field, if any.
func (f *Form[T]) ClearError(field string) {
	f.errors.Clear(field)
}

// RegisterReceiveFocus adds a custom focus handler for the named field and
// returns its unregister function.
func (f *Form[T]) RegisterReceiveFocus(field string, fn func()) func() {
	return f.focus.Register(field, fn)
}

// Reset clears the error store, the touched store, and the submitted flag
// unless the configured reset handler cancels it. It reports whether the
// reset ran.
func (f *Form[T]) Reset() bool {
	if f.resetHandler != nil && f.resetHandler() {
		return false
	}

	f.errors.ReplaceAll(nil)
	f.touched.Reset()

	f.mu.Lock()
	f.hasBeenSubmitted = false
	f.mu.Unlock()
	return true
}

// HandleResponse seeds the form from a server-originated error response. The
// seed applies only when the response carries this form's subaction marker,
// and re-applies whenever the response reference changes, overriding any
// local edits made before the round-trip finished. It reports whether the
// response was claimed.
func (f *Form[T]) HandleResponse(response *ErrorResponse) bool {
	if !response.Matches(f.subaction) {
		return false
	}

	f.mu.Lock()
	if f.response == response {
		f.mu.Unlock()
		return true
	}
	f.response = response
	f.defaultsRev++
	f.mu.Unlock()

	f.errors.ReplaceAll(response.FieldErrors)
	return true
}

// ObserveNavigation derives the submitting phase from the ambient pending
// submissions, filtered by this form's action and subaction.
func (f *Form[T]) ObserveNavigation(pending ...Submission) {
	submitting := false
	for _, submission := range pending {
		if submission.Matches(f.action, f.subaction) {
			submitting = true
			break
		}
	}
	f.tracker.Observe(submitting)
}

// ObserveFetcher feeds the configured fetcher's phase into the lifecycle
// tracker. It is a no-op for forms without a fetcher.
func (f *Form[T]) ObserveFetcher() {
	if f.fetcher == nil {
		return
	}
	f.tracker.Observe(f.fetcher.Submitting())
}

// IsSubmitting reports the current lifecycle phase.
func (f *Form[T]) IsSubmitting() bool {
	return f.tracker.Submitting()
}

// Action returns the configured action URL.
func (f *Form[T]) Action() string {
	return f.action
}

// Subaction returns the configured subaction marker, if any.
func (f *Form[T]) Subaction() string {
	return f.subaction
}

// State returns the composed snapshot. The snapshot is rebuilt only when a
// contributing value changed since the previous call; otherwise the identical
// pointer is returned.
func (f *Form[T]) State() *FormState {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := snapshotKey{
		errorsRev:   f.errors.Revision(),
		touchedRev:  f.touched.Revision(),
		defaultsRev: f.defaultsRev,
		submitting:  f.tracker.Submitting(),
		submitted:   f.hasBeenSubmitted,
	}
	if f.snapshot != nil && key == f.snapKey {
		return f.snapshot
	}

	errs := f.errors.Read()
	state := &FormState{
		FieldErrors:      errs,
		Touched:          f.touched.Read(),
		IsSubmitting:     key.submitting,
		IsValid:          len(errs) == 0,
		HasBeenSubmitted: key.submitted,
		DefaultValues:    f.resolveDefaults(),
		Action:           f.action,
		Subaction:        f.subaction,
	}
	f.snapshot = state
	f.snapKey = key
	return state
}

// resolveDefaults merges static defaults with any mounted repopulation
// payload; the caller must hold f.mu.
func (f *Form[T]) resolveDefaults() map[string]any {
	out := make(map[string]any, len(f.defaults))
	for field, value := range f.defaults {
		out[field] = value
	}
	if f.response != nil {
		for field, values := range f.response.RepopulateFields {
			switch len(values) {
			case 0:
			case 1:
				out[field] = values[0]
			default:
				out[field] = append([]string(nil), values...)
			}
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// focusFirstInvalid walks registered fields in document order: a field with a
// custom handler wins (all its handlers fire), hidden inputs are skipped, and
// otherwise the field's default focus runs. No matching field, no focus
// change.
func (f *Form[T]) focusFirstInvalid(errs validate.FieldErrors) {
	f.mu.Lock()
	fields := make([]Field, len(f.fields))
	copy(fields, f.fields)
	f.mu.Unlock()

	for _, field := range fields {
		if _, ok := errs[field.Name]; !ok {
			continue
		}
		if f.focus.Has(field.Name) {
			f.focus.DispatchAll(field.Name)
			return
		}
		if field.Hidden {
			continue
		}
		if field.Focus != nil {
			field.Focus()
			return
		}
	}
}

// submissionComplete runs on the falling edge of the lifecycle signal.
func (f *Form[T]) submissionComplete() {
	if f.onSubmitComplete != nil {
		f.onSubmitComplete()
	}

	f.mu.Lock()
	reset := f.resetAfterSubmit && f.lastSubmitValid
	f.mu.Unlock()
	if reset {
		f.Reset()
	}
}
