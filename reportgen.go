package reportgen

import (
	"io/fs"

	"github.com/goliatone/go-reportgen/pkg/report"
	"github.com/goliatone/go-reportgen/pkg/template"
)

// Context is the name→value mapping supplied at render time; alias exported
// via the root package for convenience.
type Context = template.Context

// Engine renders named or inline templates through a registry-backed
// resolver.
type Engine = template.Engine

// Source fetches raw template text by name.
type Source = template.Source

// Summary is the extracted data of one fitted model.
type Summary = report.Summary

// Coefficient is one estimated parameter of a fitted model.
type Coefficient = report.Coefficient

// NewEngine exposes the template engine constructor from the top-level
// module.
func NewEngine(options ...template.Option) (*template.Engine, error) {
	return template.New(options...)
}

// RenderTable builds a regression table for the given model summaries and
// renders it as HTML. It is the simplest entry point for callers that just
// want the table output.
func RenderTable(summaries []report.Summary, options ...report.Option) (string, error) {
	builder, err := report.New(summaries, options...)
	if err != nil {
		return "", err
	}
	return builder.RenderHTML()
}

// RenderTableLaTeX builds a regression table for the given model summaries
// and renders it as LaTeX.
func RenderTableLaTeX(summaries []report.Summary, options ...report.Option) (string, error) {
	builder, err := report.New(summaries, options...)
	if err != nil {
		return "", err
	}
	return builder.RenderLaTeX()
}

// BuiltinTemplates exposes the embedded table templates so callers can reuse
// or extend them without importing the report package directly.
func BuiltinTemplates() fs.FS {
	return report.TemplatesFS()
}
