package template

import "sort"

// Node is the closed set of template node variants. Parsed templates are an
// ordered sequence of these; the renderer dispatches on the concrete type.
type Node interface {
	node()
}

// LiteralNode is a verbatim span of template text.
type LiteralNode struct {
	Text string
}

// VariableNode is a `{{ name }}` interpolation marker.
type VariableNode struct {
	Name string
	Line int
	Col  int
}

// CondBranch pairs one `if`/`elif` condition with its body.
type CondBranch struct {
	Cond CondExpr
	Body []Node
}

// CondNode is a `{% if %} ... {% elif %} ... {% else %} ... {% endif %}`
// span. Branches are evaluated in order; at most one body renders. A missing
// `else` leaves Else nil.
type CondNode struct {
	Branches []CondBranch
	Else     []Node
}

// BlockNode is a named `{% block name %} ... {% endblock %}` region. In a
// parent template the body is the overridable default; in a child template a
// top-level block supplies the override body.
type BlockNode struct {
	Name string
	Body []Node
}

func (*LiteralNode) node()  {}
func (*VariableNode) node() {}
func (*CondNode) node()     {}
func (*BlockNode) node()    {}

// Template is the immutable result of parsing raw template text.
type Template struct {
	// Name is the registry lookup key the template was parsed under; empty
	// for templates parsed from a raw string.
	Name string
	// Extends names the parent template, or is empty when the template does
	// not declare inheritance.
	Extends string
	// Nodes is the template body in source order.
	Nodes []Node

	// blocks maps block name to its node for override lookup during
	// resolution. Block names are unique within one template.
	blocks map[string]*BlockNode
}

// Blocks returns the names of the blocks declared in the template.
func (t *Template) Blocks() []string {
	names := make([]string, 0, len(t.blocks))
	for name := range t.blocks {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// EffectiveTemplate is a fully merged node sequence: the inheritance chain is
// already collapsed, so every BlockNode carries the body that won the
// override. It is ready for rendering.
type EffectiveTemplate struct {
	Name  string
	Nodes []Node
}
