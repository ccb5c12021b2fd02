package template

import (
	"fmt"
	"strings"
)

// Parse compiles raw template text into an immutable Template. The name is
// recorded for error reporting and cycle detection; templates parsed from an
// anonymous string pass "".
//
// Parse is a pure function of its input: it performs no I/O and the returned
// Template is never mutated afterwards.
func Parse(name, source string) (*Template, error) {
	items, err := lex(name, source)
	if err != nil {
		return nil, err
	}

	t := &Template{Name: name, blocks: make(map[string]*BlockNode)}
	p := &parser{template: t, items: items}

	// An extends directive, if present, must precede any non-whitespace
	// content. Leading whitespace-only literals are tolerated and kept.
	if tag, at, ok := leadingExtends(items); ok {
		parent, err := extendsTarget(name, tag)
		if err != nil {
			return nil, err
		}
		t.Extends = parent
		p.pos = at + 1
		for _, it := range items[:at] {
			t.Nodes = append(t.Nodes, &LiteralNode{Text: it.text})
		}
	}

	nodes, _, err := p.parseNodes(nil)
	if err != nil {
		return nil, err
	}
	t.Nodes = append(t.Nodes, nodes...)
	return t, nil
}

type parser struct {
	template *Template
	items    []item
	pos      int
}

// parseNodes consumes items until EOF or one of the stop keywords. It returns
// the consumed stop tag so callers can branch on elif/else/endif.
func (p *parser) parseNodes(stop []string) ([]Node, *item, error) {
	var nodes []Node
	for p.pos < len(p.items) {
		it := p.items[p.pos]
		p.pos++

		switch it.kind {
		case itemText:
			nodes = append(nodes, &LiteralNode{Text: it.text})
		case itemVariable:
			nodes = append(nodes, &VariableNode{Name: it.text, Line: it.line, Col: it.col})
		case itemTag:
			for _, kw := range stop {
				if it.keyword == kw {
					return nodes, &it, nil
				}
			}
			node, err := p.parseTag(it)
			if err != nil {
				return nil, nil, err
			}
			nodes = append(nodes, node)
		}
	}
	return nodes, nil, nil
}

func (p *parser) parseTag(it item) (Node, error) {
	switch it.keyword {
	case "if":
		return p.parseIf(it)
	case "block":
		return p.parseBlock(it)
	case "extends":
		return nil, p.syntaxError(it, "extends must appear before any other content")
	case "elif", "else", "endif", "endblock":
		return nil, p.unexpected(&it)
	default:
		return nil, p.syntaxError(it, fmt.Sprintf("unknown directive %q", it.keyword))
	}
}

func (p *parser) parseIf(open item) (Node, error) {
	cond, err := parseCondition(open.text, p.template.Name, open.line, open.col)
	if err != nil {
		return nil, err
	}

	node := &CondNode{}
	branch := CondBranch{Cond: cond}

	for {
		body, end, err := p.parseNodes([]string{"elif", "else", "endif"})
		if err != nil {
			return nil, err
		}
		if end == nil {
			return nil, p.syntaxError(open, "unterminated if: missing {% endif %}")
		}
		branch.Body = body
		node.Branches = append(node.Branches, branch)

		switch end.keyword {
		case "endif":
			if end.text != "" {
				return nil, p.syntaxError(*end, "endif takes no argument")
			}
			return node, nil
		case "elif":
			cond, err := parseCondition(end.text, p.template.Name, end.line, end.col)
			if err != nil {
				return nil, err
			}
			branch = CondBranch{Cond: cond}
		case "else":
			if end.text != "" {
				return nil, p.syntaxError(*end, "else takes no argument")
			}
			elseBody, closing, err := p.parseNodes([]string{"endif"})
			if err != nil {
				return nil, err
			}
			if closing == nil {
				return nil, p.syntaxError(open, "unterminated if: missing {% endif %}")
			}
			node.Else = elseBody
			return node, nil
		}
	}
}

func (p *parser) parseBlock(open item) (Node, error) {
	name := strings.TrimSpace(open.text)
	if !isIdentifier(name) {
		return nil, p.syntaxError(open, fmt.Sprintf("invalid block name %q", open.text))
	}
	if _, exists := p.template.blocks[name]; exists {
		return nil, p.syntaxError(open, fmt.Sprintf("duplicate block %q", name))
	}
	// Register before descending so a same-name block nested inside the body
	// is rejected as a duplicate.
	node := &BlockNode{Name: name}
	p.template.blocks[name] = node

	body, end, err := p.parseNodes([]string{"endblock"})
	if err != nil {
		return nil, err
	}
	if end == nil {
		return nil, p.syntaxError(open, fmt.Sprintf("unterminated block %q: missing {%% endblock %%}", name))
	}
	if end.text != "" && end.text != name {
		return nil, p.syntaxError(*end, fmt.Sprintf("endblock %q does not close block %q", end.text, name))
	}
	node.Body = body
	return node, nil
}

// leadingExtends finds an extends tag preceded only by whitespace literals.
func leadingExtends(items []item) (item, int, bool) {
	for i, it := range items {
		switch it.kind {
		case itemText:
			if strings.TrimSpace(it.text) != "" {
				return item{}, 0, false
			}
		case itemTag:
			if it.keyword == "extends" {
				return it, i, true
			}
			return item{}, 0, false
		default:
			return item{}, 0, false
		}
	}
	return item{}, 0, false
}

// extendsTarget unquotes the parent template name from an extends directive.
func extendsTarget(templateName string, tag item) (string, error) {
	raw := strings.TrimSpace(tag.text)
	quoted := len(raw) >= 2 &&
		(raw[0] == '"' || raw[0] == '\'') &&
		raw[len(raw)-1] == raw[0]
	if !quoted {
		return "", &SyntaxError{
			Template: templateName,
			Line:     tag.line,
			Col:      tag.col,
			Msg:      "extends requires a quoted template name",
		}
	}
	parent := raw[1 : len(raw)-1]
	if parent == "" {
		return "", &SyntaxError{
			Template: templateName,
			Line:     tag.line,
			Col:      tag.col,
			Msg:      "extends requires a non-empty template name",
		}
	}
	return parent, nil
}

func (p *parser) syntaxError(it item, msg string) error {
	return &SyntaxError{Template: p.template.Name, Line: it.line, Col: it.col, Msg: msg}
}

func (p *parser) unexpected(it *item) error {
	return p.syntaxError(*it, fmt.Sprintf("unexpected {%% %s %%}", it.keyword))
}
