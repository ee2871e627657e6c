package formdef_test

import (
	"testing"
	"testing/fstest"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formstate/pkg/form"
	"github.com/goliatone/go-formstate/pkg/formdef"
)

const contactForm = `
name: contact
action: /contact
subaction: contact-form
defaults:
  country: PT
fields:
  - name: firstName
    placeholder: Jane
  - name: lastName
    default: Doe
  - name: token
    hidden: true
  - name: country
    type: string
    choices:
      - value: PT
        label: Portugal
      - value: BR
        label: Brazil
`

func TestParseDefinition(t *testing.T) {
	def, err := formdef.Parse([]byte(contactForm))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}

	if def.Action != "/contact" || def.Method != "POST" || def.Subaction != "contact-form" {
		t.Fatalf("unexpected header fields: %+v", def)
	}

	field, ok := def.Field("firstName")
	if !ok {
		t.Fatal("expected firstName field")
	}
	if field.Label != "First Name" {
		t.Fatalf("unexpected derived label %q", field.Label)
	}
	if field.Type != "string" {
		t.Fatalf("unexpected default type %q", field.Type)
	}

	want := map[string]any{"country": "PT", "lastName": "Doe"}
	if diff := cmp.Diff(want, def.DefaultValues()); diff != "" {
		t.Fatalf("defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestParseRejectsBadDocuments(t *testing.T) {
	cases := []struct {
		name string
		doc  string
	}{
		{name: "empty", doc: "   "},
		{name: "missing action", doc: "name: x\nfields: []\n"},
		{name: "unnamed field", doc: "action: /x\nfields:\n  - label: Foo\n"},
		{name: "duplicate field", doc: "action: /x\nfields:\n  - name: a\n  - name: a\n"},
		{name: "unknown key", doc: "action: /x\nvalidations: []\n"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := formdef.Parse([]byte(tc.doc)); err == nil {
				t.Fatal("expected parse error")
			}
		})
	}
}

func TestLoadFromFS(t *testing.T) {
	fsys := fstest.MapFS{
		"forms/contact.yaml": &fstest.MapFile{Data: []byte(contactForm)},
	}

	def, err := formdef.Load(fsys, "forms/contact.yaml")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if def.Name != "contact" {
		t.Fatalf("unexpected name %q", def.Name)
	}
}

func TestApplyRegistersFieldsInDocumentOrder(t *testing.T) {
	def, err := formdef.Parse([]byte(contactForm))
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}

	recorder := &fieldRecorder{}
	if err := def.Apply(recorder); err != nil {
		t.Fatalf("Apply returned error: %v", err)
	}

	want := []form.Field{
		{Name: "firstName"},
		{Name: "lastName"},
		{Name: "token", Hidden: true},
		{Name: "country"},
	}
	if diff := cmp.Diff(want, recorder.fields, cmp.Comparer(sameField)); diff != "" {
		t.Fatalf("registration mismatch (-want +got):\n%s", diff)
	}
}

type fieldRecorder struct {
	fields []form.Field
}

func (r *fieldRecorder) RegisterField(field form.Field) error {
	r.fields = append(r.fields, field)
	return nil
}

func sameField(a, b form.Field) bool {
	return a.Name == b.Name && a.Hidden == b.Hidden
}
