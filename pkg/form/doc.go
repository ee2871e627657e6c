// Package form implements the stateful synchronization engine behind a
// validated form. One Form instance owns the field error store, the touched
// field store, the focus dispatch registry, and the submission lifecycle
// tracker for a single mounted form, and exposes the composed FormState plus
// the mutation entry points descendant field widgets consume.
//
// Validation semantics live behind the validate.Validator contract; the
// engine only reconciles validation outcomes into state. Server round-trips
// are reconciled through ErrorResponse values produced by the remote action
// handler.
package form
