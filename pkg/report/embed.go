package report

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.html templates/*.tex
var embeddedTemplates embed.FS

// TemplatesFS exposes the built-in table templates so callers can reuse them
// or extend the master layout with their own child templates.
func TemplatesFS() fs.FS {
	sub, err := fs.Sub(embeddedTemplates, "templates")
	if err != nil {
		return embeddedTemplates
	}
	return sub
}
