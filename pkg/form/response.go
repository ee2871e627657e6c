package form

import (
	"fmt"

	json "github.com/goccy/go-json"

	"github.com/goliatone/go-formstate/pkg/validate"
)

// SubactionField is the name of the hidden input that disambiguates multiple
// forms posting to the same action endpoint.
const SubactionField = "subaction"

// ErrorResponse is the payload a remote action handler returns when
// server-side validation fails. RepopulateFields echoes the raw submission so
// the form can restore unsaved user input after a full-page round-trip.
type ErrorResponse struct {
	FieldErrors      validate.FieldErrors `json:"fieldErrors"`
	Subaction        string               `json:"subaction,omitempty"`
	RepopulateFields map[string][]string  `json:"repopulateFields,omitempty"`
}

// NewErrorResponse builds a response from a failed validation result, tagging
// it with the originating subaction marker.
func NewErrorResponse[T any](result validate.Result[T], subaction string) *ErrorResponse {
	return &ErrorResponse{
		FieldErrors:      result.Errors.Clone(),
		Subaction:        subaction,
		RepopulateFields: result.Submitted.Raw(),
	}
}

// Matches reports whether this response is intended for a form declaring the
// given subaction. A form without one only claims untagged responses.
func (r *ErrorResponse) Matches(subaction string) bool {
	if r == nil {
		return false
	}
	if subaction == "" {
		return r.Subaction == ""
	}
	return r.Subaction == subaction
}

// Encode serialises the response for the wire.
func (r *ErrorResponse) Encode() ([]byte, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("form: encode error response: %w", err)
	}
	return data, nil
}

// DecodeErrorResponse parses a response payload received from an action
// handler.
func DecodeErrorResponse(data []byte) (*ErrorResponse, error) {
	var response ErrorResponse
	if err := json.Unmarshal(data, &response); err != nil {
		return nil, fmt.Errorf("form: decode error response: %w", err)
	}
	return &response, nil
}
