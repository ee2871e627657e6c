package form

import "sync"

// Fetcher is an externally supplied handle whose submission phase the engine
// observes instead of the ambient navigation state.
type Fetcher interface {
	Submitting() bool
}

// Submission describes one pending navigation-level form submission.
type Submission struct {
	Action    string
	Subaction string
}

// Matches reports whether this pending submission belongs to a form with the
// given action and subaction marker. Forms without a subaction only claim
// submissions that carry none; forms with one require an exact match.
func (s Submission) Matches(action, subaction string) bool {
	if s.Action != action {
		return false
	}
	if subaction == "" {
		return s.Subaction == ""
	}
	return s.Subaction == subaction
}

// Tracker is an edge-triggered watcher over a two-phase submitting/idle
// signal. The completion callback fires exactly once per falling edge, no
// matter how many times the same phase is re-observed while a submission is
// in flight.
type Tracker struct {
	mu         sync.Mutex
	submitting bool
	onComplete func()
}

// NewTracker returns a tracker in the idle phase. onComplete may be nil.
func NewTracker(onComplete func()) *Tracker {
	return &Tracker{onComplete: onComplete}
}

// Observe feeds the current phase into the tracker. Re-observing the current
// phase is a no-op; a fresh submitting observation supersedes tracking of any
// prior submission.
func (t *Tracker) Observe(submitting bool) {
	t.mu.Lock()
	fire := t.submitting && !submitting
	t.submitting = submitting
	onComplete := t.onComplete
	t.mu.Unlock()

	if fire && onComplete != nil {
		onComplete()
	}
}

// Submitting reports the phase seen by the most recent observation.
func (t *Tracker) Submitting() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.submitting
}
