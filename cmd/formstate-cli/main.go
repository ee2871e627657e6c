package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/url"
	"os"

	"github.com/goliatone/go-formstate/pkg/adapters/openapi"
	"github.com/goliatone/go-formstate/pkg/form"
	"github.com/goliatone/go-formstate/pkg/formdef"
	"github.com/goliatone/go-formstate/pkg/render"
	"github.com/goliatone/go-formstate/pkg/tui"
	"github.com/goliatone/go-formstate/pkg/validate"
)

func main() {
	formPath := flag.String("form", "form.yaml", "form definition path")
	schemaPath := flag.String("schema", "", "OpenAPI document path")
	component := flag.String("component", "", "schema component to validate against")
	payload := flag.String("payload", "", "urlencoded submission to validate (skips rendering)")
	interactive := flag.Bool("interactive", false, "fill the form via terminal prompts")
	output := flag.String("output", "", "output file (stdout if empty)")
	flag.Parse()

	ctx := context.Background()

	def := loadDefinition(*formPath)
	validator := loadValidator(ctx, *schemaPath, *component)

	switch {
	case *interactive:
		runInteractive(ctx, def, validator)
	case *payload != "":
		runValidate(def, validator, *payload)
	default:
		runRender(ctx, def, validator, *output)
	}
}

func loadDefinition(path string) *formdef.Definition {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("Failed to read form definition: %v", err)
	}
	def, err := formdef.Parse(data)
	if err != nil {
		log.Fatalf("Failed to parse form definition: %v", err)
	}
	return def
}

func loadValidator(ctx context.Context, path, component string) validate.Validator[map[string]any] {
	if path == "" {
		log.Fatal("A -schema document is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("Failed to read schema: %v", err)
	}
	adapter, err := openapi.Load(ctx, data, component)
	if err != nil {
		log.Fatalf("Failed to load schema: %v", err)
	}
	return adapter
}

func runValidate(def *formdef.Definition, validator validate.Validator[map[string]any], raw string) {
	values, err := url.ParseQuery(raw)
	if err != nil {
		log.Fatalf("Failed to parse payload: %v", err)
	}
	payload := validate.FromValues(values)

	result := validator.Validate(payload)
	if result.Valid() {
		fmt.Println("submission is valid")
		return
	}

	response := form.NewErrorResponse(result, def.Subaction)
	data, err := response.Encode()
	if err != nil {
		log.Fatalf("Failed to encode error response: %v", err)
	}
	fmt.Println(string(data))
	os.Exit(1)
}

func runInteractive(ctx context.Context, def *formdef.Definition, validator validate.Validator[map[string]any]) {
	filler, err := tui.New[map[string]any](validator)
	if err != nil {
		log.Fatalf("Failed to build prompt session: %v", err)
	}

	result, err := filler.Fill(ctx, def)
	if err != nil {
		log.Fatalf("Prompt session failed: %v", err)
	}
	if !result.Valid() {
		os.Exit(1)
	}
	fmt.Println(result.Submitted.Encode())
}

func runRender(ctx context.Context, def *formdef.Definition, validator validate.Validator[map[string]any], output string) {
	engine, err := form.New(validator,
		form.WithAction[map[string]any](def.Action),
		form.WithSubaction[map[string]any](def.Subaction),
		form.WithDefaults[map[string]any](def.DefaultValues()),
	)
	if err != nil {
		log.Fatalf("Failed to build form engine: %v", err)
	}
	if err := def.Apply(engine); err != nil {
		log.Fatalf("Failed to register fields: %v", err)
	}

	renderer, err := render.New()
	if err != nil {
		log.Fatalf("Failed to build renderer: %v", err)
	}

	html, err := renderer.Render(ctx, def, engine.State())
	if err != nil {
		log.Fatalf("Failed to render form: %v", err)
	}

	if output != "" {
		if err := os.WriteFile(output, html, 0o644); err != nil {
			log.Fatalf("Failed to write output: %v", err)
		}
		fmt.Printf("Form written to %s\n", output)
	} else {
		fmt.Println(string(html))
	}
}
