package form

import "github.com/goliatone/go-formstate/pkg/validate"

// FormState is the composed snapshot field widgets consume. The engine
// rebuilds it only when one of its contributing values changed; otherwise the
// same pointer is handed out so consumers can rely on reference equality for
// change detection.
type FormState struct {
	FieldErrors      validate.FieldErrors
	Touched          TouchedFields
	IsSubmitting     bool
	IsValid          bool
	HasBeenSubmitted bool
	DefaultValues    map[string]any
	Action           string
	Subaction        string
}

// DefaultValue resolves the default for a single field, preferring
// repopulated server values over caller-supplied statics (the engine merges
// both into DefaultValues before the snapshot is built).
func (s *FormState) DefaultValue(field string) (any, bool) {
	if s == nil {
		return nil, false
	}
	value, ok := s.DefaultValues[field]
	return value, ok
}

// snapshotKey captures every input the snapshot derives from.
type snapshotKey struct {
	errorsRev   uint64
	touchedRev  uint64
	defaultsRev uint64
	submitting  bool
	submitted   bool
}
