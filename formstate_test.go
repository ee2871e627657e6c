package formstate_test

import (
	"context"
	"strings"
	"testing"

	formstate "github.com/goliatone/go-formstate"
	"github.com/goliatone/go-formstate/pkg/validate"
)

type profile struct {
	Name string
}

type profileValidator struct{}

func (profileValidator) Validate(payload *validate.Payload) validate.Result[profile] {
	name, _ := payload.Get("name")
	if strings.TrimSpace(name) == "" {
		return validate.Failure[profile](validate.FieldErrors{"name": "Name is required"}, payload)
	}
	return validate.Success(profile{Name: name})
}

func (v profileValidator) ValidateField(payload *validate.Payload, field string) validate.FieldResult {
	result := v.Validate(payload)
	return validate.FieldResult{Error: result.Errors[field]}
}

const profileYAML = `
name: profile
action: /profile
fields:
  - name: name
    label: Name
`

func TestRootQuickStart(t *testing.T) {
	def, err := formstate.LoadDefinition([]byte(profileYAML))
	if err != nil {
		t.Fatalf("LoadDefinition() error = %v", err)
	}

	engine, err := formstate.NewForm[profile](profileValidator{})
	if err != nil {
		t.Fatalf("NewForm() error = %v", err)
	}
	if err := def.Apply(engine); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}

	payload := formstate.NewPayload()
	engine.Mount(func() *formstate.Payload { return payload })
	engine.Submit(payload)

	state := engine.State()
	if state.IsValid {
		t.Fatal("empty submission should be invalid")
	}

	html, err := formstate.RenderHTML(context.Background(), def, state)
	if err != nil {
		t.Fatalf("RenderHTML() error = %v", err)
	}
	if !strings.Contains(string(html), "Name is required") {
		t.Fatalf("rendered form missing the validation message:\n%s", html)
	}
}
