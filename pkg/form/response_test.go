package form_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formstate/pkg/form"
	"github.com/goliatone/go-formstate/pkg/validate"
)

func TestErrorResponseRoundTrip(t *testing.T) {
	submitted := validate.NewPayload()
	submitted.Add("firstName", "")
	submitted.Add("tags", "go")
	submitted.Add("tags", "forms")

	result := validate.Failure[map[string]any](validate.FieldErrors{"firstName": "First name is required"}, submitted)
	response := form.NewErrorResponse(result, "s1")

	encoded, err := response.Encode()
	if err != nil {
		t.Fatalf("Encode returned error: %v", err)
	}

	decoded, err := form.DecodeErrorResponse(encoded)
	if err != nil {
		t.Fatalf("DecodeErrorResponse returned error: %v", err)
	}
	if diff := cmp.Diff(response, decoded); diff != "" {
		t.Fatalf("round-trip mismatch (-want +got):\n%s", diff)
	}
}

func TestErrorResponseMatching(t *testing.T) {
	tagged := &form.ErrorResponse{Subaction: "s1"}
	untagged := &form.ErrorResponse{}

	if !tagged.Matches("s1") || tagged.Matches("s2") || tagged.Matches("") {
		t.Fatal("unexpected tagged matching behaviour")
	}
	if !untagged.Matches("") || untagged.Matches("s1") {
		t.Fatal("unexpected untagged matching behaviour")
	}

	var nilResponse *form.ErrorResponse
	if nilResponse.Matches("") {
		t.Fatal("expected nil response to match nothing")
	}
}
