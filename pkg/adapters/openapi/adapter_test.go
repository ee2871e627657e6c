package openapi_test

import (
	"context"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formstate/pkg/adapters/openapi"
	"github.com/goliatone/go-formstate/pkg/validate"
)

func contactSchema() *openapi3.Schema {
	schema := openapi3.NewObjectSchema().
		WithProperty("firstName", openapi3.NewStringSchema()).
		WithProperty("lastName", openapi3.NewStringSchema()).
		WithProperty("age", openapi3.NewIntegerSchema()).
		WithProperty("subscribed", openapi3.NewBoolSchema()).
		WithProperty("tags", openapi3.NewArraySchema().WithItems(openapi3.NewStringSchema()))
	schema.Required = []string{"firstName"}
	return schema
}

func TestValidateSuccessCoercesTypes(t *testing.T) {
	adapter, err := openapi.New(contactSchema())
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	payload := validate.NewPayload()
	payload.Add("firstName", "Jane")
	payload.Add("age", "42")
	payload.Add("subscribed", "on")
	payload.Add("tags", "go")
	payload.Add("tags", "forms")

	result := adapter.Validate(payload)
	if !result.Valid() {
		t.Fatalf("expected success, got %v", result.Errors)
	}

	want := map[string]any{
		"firstName":  "Jane",
		"age":        float64(42),
		"subscribed": true,
		"tags":       []any{"go", "forms"},
	}
	if diff := cmp.Diff(want, result.Data); diff != "" {
		t.Fatalf("data mismatch (-want +got):\n%s", diff)
	}
}

func TestValidateMissingRequiredField(t *testing.T) {
	adapter, err := openapi.New(contactSchema(),
		openapi.WithMessage("firstName", "First name is required"),
	)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	payload := validate.NewPayload()
	payload.Add("firstName", "")
	payload.Add("lastName", "Doe")

	result := adapter.Validate(payload)
	if result.Valid() {
		t.Fatal("expected failure")
	}

	want := validate.FieldErrors{"firstName": "First name is required"}
	if diff := cmp.Diff(want, result.Errors); diff != "" {
		t.Fatalf("errors mismatch (-want +got):\n%s", diff)
	}
	if result.Submitted == nil {
		t.Fatal("expected submitted payload to be echoed")
	}
}

func TestValidateFieldProjection(t *testing.T) {
	adapter, err := openapi.New(contactSchema())
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	payload := validate.NewPayload()
	payload.Add("firstName", "")
	payload.Add("lastName", "Doe")

	if got := adapter.ValidateField(payload, "firstName"); got.Valid() {
		t.Fatal("expected firstName to fail")
	}
	if got := adapter.ValidateField(payload, "lastName"); !got.Valid() {
		t.Fatalf("expected lastName to pass, got %q", got.Error)
	}

	payload.Set("firstName", "Jane")
	if got := adapter.ValidateField(payload, "firstName"); !got.Valid() {
		t.Fatalf("expected firstName to pass, got %q", got.Error)
	}
}

func TestValidateStringConstraint(t *testing.T) {
	schema := openapi3.NewObjectSchema().
		WithProperty("code", openapi3.NewStringSchema().WithMinLength(3))

	adapter, err := openapi.New(schema)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	payload := validate.NewPayload()
	payload.Add("code", "ab")

	result := adapter.Validate(payload)
	if result.Valid() {
		t.Fatal("expected minLength failure")
	}
	if _, ok := result.Errors["code"]; !ok {
		t.Fatalf("expected error keyed by field, got %v", result.Errors)
	}
}

const contactDocument = `
openapi: 3.0.3
info:
  title: contact
  version: "1.0"
paths: {}
components:
  schemas:
    Contact:
      type: object
      required: [firstName]
      properties:
        firstName:
          type: string
        age:
          type: integer
`

func TestLoadComponentSchema(t *testing.T) {
	adapter, err := openapi.Load(context.Background(), []byte(contactDocument), "Contact")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	payload := validate.NewPayload()
	payload.Add("firstName", "Jane")
	payload.Add("age", "30")

	if result := adapter.Validate(payload); !result.Valid() {
		t.Fatalf("expected success, got %v", result.Errors)
	}
}

func TestLoadUnknownComponent(t *testing.T) {
	if _, err := openapi.Load(context.Background(), []byte(contactDocument), "Missing"); err == nil {
		t.Fatal("expected error for unknown component")
	}
}
