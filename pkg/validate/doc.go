// Package validate defines the contract between forms and the pluggable
// validation engines that back them. A Validator turns the raw key/value
// payload captured from a form submission into either typed data or a set of
// field-level error messages; the form engine in pkg/form never interprets
// validation semantics, only the shape of the result.
package validate
