package render

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.tmpl
var embeddedTemplates embed.FS

// TemplatesFS exposes the built-in template bundle. Callers can overlay or
// replace individual templates by passing their own fs.FS via WithTemplatesFS.
func TemplatesFS() fs.FS {
	return embeddedTemplates
}
