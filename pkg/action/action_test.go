package action_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formstate/pkg/action"
	"github.com/goliatone/go-formstate/pkg/form"
	"github.com/goliatone/go-formstate/pkg/validate"
)

type contact struct {
	FirstName string
	Email     string
}

type contactValidator struct{}

func (contactValidator) Validate(payload *validate.Payload) validate.Result[contact] {
	errs := validate.FieldErrors{}
	first, _ := payload.Get("firstName")
	if strings.TrimSpace(first) == "" {
		errs["firstName"] = "First name is required"
	}
	email, _ := payload.Get("email")
	if !strings.Contains(email, "@") {
		errs["email"] = "Email is invalid"
	}
	if len(errs) > 0 {
		return validate.Failure[contact](errs, payload)
	}
	return validate.Success(contact{FirstName: first, Email: email})
}

func (v contactValidator) ValidateField(payload *validate.Payload, name string) validate.FieldResult {
	result := v.Validate(payload)
	return validate.FieldResult{Error: result.Errors[name]}
}

func postForm(t *testing.T, handler http.Handler, values url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/contact", strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestHandlerValidSubmission(t *testing.T) {
	var got contact
	handler, err := action.New(contactValidator{}, func(w http.ResponseWriter, r *http.Request, data contact) error {
		got = data
		w.WriteHeader(http.StatusNoContent)
		return nil
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	rec := postForm(t, handler, url.Values{
		"firstName": {"Ada"},
		"email":     {"ada@example.com"},
	})

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNoContent)
	}
	want := contact{FirstName: "Ada", Email: "ada@example.com"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("submitted data mismatch (-want +got):\n%s", diff)
	}
}

func TestHandlerInvalidSubmission(t *testing.T) {
	handler, err := action.New(contactValidator{}, func(http.ResponseWriter, *http.Request, contact) error {
		t.Fatal("success handler must not run for invalid submissions")
		return nil
	}, action.WithSubaction[contact]("create"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	rec := postForm(t, handler, url.Values{
		"subaction": {"create"},
		"firstName": {"Ada"},
		"email":     {"not-an-email"},
	})

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnprocessableEntity)
	}
	if got := rec.Header().Get("Content-Type"); !strings.HasPrefix(got, "application/json") {
		t.Fatalf("content type = %q, want JSON", got)
	}

	body, _ := io.ReadAll(rec.Body)
	response, err := form.DecodeErrorResponse(body)
	if err != nil {
		t.Fatalf("DecodeErrorResponse() error = %v", err)
	}

	wantErrors := validate.FieldErrors{"email": "Email is invalid"}
	if diff := cmp.Diff(wantErrors, response.FieldErrors); diff != "" {
		t.Fatalf("field errors mismatch (-want +got):\n%s", diff)
	}
	if response.Subaction != "create" {
		t.Fatalf("subaction = %q, want %q", response.Subaction, "create")
	}
	if got := response.RepopulateFields["firstName"]; len(got) != 1 || got[0] != "Ada" {
		t.Fatalf("repopulate firstName = %v, want [Ada]", got)
	}
}

func TestHandlerWithoutRepopulation(t *testing.T) {
	handler, err := action.New(contactValidator{}, func(http.ResponseWriter, *http.Request, contact) error {
		return nil
	}, action.WithoutRepopulation[contact]())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	rec := postForm(t, handler, url.Values{"email": {"nope"}})

	response, err := form.DecodeErrorResponse(rec.Body.Bytes())
	if err != nil {
		t.Fatalf("DecodeErrorResponse() error = %v", err)
	}
	if response.RepopulateFields != nil {
		t.Fatalf("RepopulateFields = %v, want nil", response.RepopulateFields)
	}
}

func TestHandlerSubactionMismatch(t *testing.T) {
	handler, err := action.New(contactValidator{}, func(http.ResponseWriter, *http.Request, contact) error {
		t.Fatal("success handler must not run for mismatched submissions")
		return nil
	}, action.WithSubaction[contact]("create"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	rec := postForm(t, handler, url.Values{
		"subaction": {"update"},
		"firstName": {"Ada"},
		"email":     {"ada@example.com"},
	})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestHandlerMismatchFallthrough(t *testing.T) {
	var fellThrough bool
	fallback := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		fellThrough = true
		w.WriteHeader(http.StatusAccepted)
	})

	handler, err := action.New(contactValidator{}, func(http.ResponseWriter, *http.Request, contact) error {
		return nil
	}, action.WithSubaction[contact]("create"), action.WithMismatchHandler[contact](fallback))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	rec := postForm(t, handler, url.Values{"subaction": {"delete"}})
	if !fellThrough {
		t.Fatal("mismatch handler did not run")
	}
	if rec.Code != http.StatusAccepted {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusAccepted)
	}
}

func TestHandlerRejectsNonPost(t *testing.T) {
	handler, err := action.New(contactValidator{}, func(http.ResponseWriter, *http.Request, contact) error {
		return nil
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/contact", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
	}
	if got := rec.Header().Get("Allow"); got != http.MethodPost {
		t.Fatalf("Allow = %q, want POST", got)
	}
}
