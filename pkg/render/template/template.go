// Package template defines the rendering seam between the form chrome and
// the underlying template engine, mirroring the go-template engine contract.
package template

import "io"

// TemplateRenderer is the engine contract the form renderer relies on.
// Implementations resolve named templates from their configured source and
// may also render inline template content.
type TemplateRenderer interface {
	Render(name string, data any, out ...io.Writer) (string, error)
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
	RenderString(templateContent string, data any, out ...io.Writer) (string, error)
	GlobalContext(data any) error
}
