package template

import (
	"fmt"
	"strings"
)

// SyntaxError reports malformed template structure: an unterminated block or
// conditional, an `extends` after non-whitespace content, a duplicate block
// name, or an unknown directive.
type SyntaxError struct {
	Template string
	Line     int
	Col      int
	Msg      string
}

func (e *SyntaxError) Error() string {
	name := e.Template
	if name == "" {
		name = "<string>"
	}
	return fmt.Sprintf("template: %s:%d:%d: %s", name, e.Line, e.Col, e.Msg)
}

// NotFoundError is returned by the Registry when no source yields content for
// a template name.
type NotFoundError struct {
	Name string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("template: %q not found", e.Name)
}

// CycleError is returned by the Resolver when following `extends` references
// revisits a template name already in the current resolution chain.
type CycleError struct {
	Chain []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("template: inheritance cycle: %s", strings.Join(e.Chain, " -> "))
}

// MissingVariableError is returned by the Renderer for an unguarded reference
// to a variable absent from the render context.
type MissingVariableError struct {
	Name string
}

func (e *MissingVariableError) Error() string {
	return fmt.Sprintf("template: undefined variable %q", e.Name)
}
