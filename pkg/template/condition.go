package template

import (
	"fmt"
	"strings"
)

// The condition mini-language covers `{% if %}` / `{% elif %}` guards:
//
//	name is defined
//	name is not defined
//	a is defined and b is defined
//	not (a is defined or b)
//
// A bare identifier is a truthiness test (defined and non-empty / non-zero).
// Evaluation is total: conditions never fail, an absent variable simply tests
// false, so guarded variable references are only reached when the guard held.

// CondExpr is an evaluated condition tree.
type CondExpr interface {
	Eval(ctx Context) bool
}

type definedExpr struct {
	name    string
	negated bool
}

func (e definedExpr) Eval(ctx Context) bool {
	value, ok := ctx[e.name]
	defined := ok && value != nil
	if e.negated {
		return !defined
	}
	return defined
}

type truthyExpr struct {
	name string
}

func (e truthyExpr) Eval(ctx Context) bool {
	value, ok := ctx[e.name]
	if !ok || value == nil {
		return false
	}
	return truthy(value)
}

type andExpr struct {
	left, right CondExpr
}

func (e andExpr) Eval(ctx Context) bool {
	return e.left.Eval(ctx) && e.right.Eval(ctx)
}

type orExpr struct {
	left, right CondExpr
}

func (e orExpr) Eval(ctx Context) bool {
	return e.left.Eval(ctx) || e.right.Eval(ctx)
}

type notExpr struct {
	inner CondExpr
}

func (e notExpr) Eval(ctx Context) bool {
	return !e.inner.Eval(ctx)
}

func truthy(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		return v != ""
	case int:
		return v != 0
	case int8:
		return v != 0
	case int16:
		return v != 0
	case int32:
		return v != 0
	case int64:
		return v != 0
	case uint:
		return v != 0
	case uint8:
		return v != 0
	case uint16:
		return v != 0
	case uint32:
		return v != 0
	case uint64:
		return v != 0
	case float32:
		return v != 0
	case float64:
		return v != 0
	default:
		return true
	}
}

type condToken struct {
	raw string
}

type condParser struct {
	tokens []condToken
	pos    int

	template string
	line     int
	col      int
}

// parseCondition compiles a condition string. Position arguments locate the
// enclosing directive for error reporting.
func parseCondition(input, templateName string, line, col int) (CondExpr, error) {
	tokens := tokenizeCondition(input)
	if len(tokens) == 0 {
		return nil, &SyntaxError{Template: templateName, Line: line, Col: col, Msg: "empty condition"}
	}
	p := &condParser{tokens: tokens, template: templateName, line: line, col: col}
	expr, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.pos < len(p.tokens) {
		return nil, p.errorf("unexpected %q in condition", p.tokens[p.pos].raw)
	}
	return expr, nil
}

func tokenizeCondition(input string) []condToken {
	var tokens []condToken
	word := func(s string) {
		if s != "" {
			tokens = append(tokens, condToken{raw: s})
		}
	}
	start := -1
	for i, r := range input {
		switch r {
		case ' ', '\t', '\n', '\r':
			if start >= 0 {
				word(input[start:i])
				start = -1
			}
		case '(', ')':
			if start >= 0 {
				word(input[start:i])
				start = -1
			}
			word(string(r))
		default:
			if start < 0 {
				start = i
			}
		}
	}
	if start >= 0 {
		word(input[start:])
	}
	return tokens
}

func (p *condParser) parseOr() (CondExpr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.match("or") {
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = orExpr{left: left, right: right}
	}
	return left, nil
}

func (p *condParser) parseAnd() (CondExpr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	for p.match("and") {
		right, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		left = andExpr{left: left, right: right}
	}
	return left, nil
}

func (p *condParser) parseUnary() (CondExpr, error) {
	if p.match("not") {
		inner, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return notExpr{inner: inner}, nil
	}
	return p.parsePrimary()
}

func (p *condParser) parsePrimary() (CondExpr, error) {
	if p.match("(") {
		inner, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if !p.match(")") {
			return nil, p.errorf("missing closing parenthesis in condition")
		}
		return inner, nil
	}

	tok, ok := p.next()
	if !ok {
		return nil, p.errorf("incomplete condition")
	}
	if !isIdentifier(tok.raw) || isConditionKeyword(tok.raw) {
		return nil, p.errorf("expected variable name in condition, got %q", tok.raw)
	}
	name := tok.raw

	if !p.match("is") {
		return truthyExpr{name: name}, nil
	}
	negated := p.match("not")
	if !p.match("defined") {
		return nil, p.errorf("expected %q after %q", "defined", name+" is")
	}
	return definedExpr{name: name, negated: negated}, nil
}

func (p *condParser) match(raw string) bool {
	if p.pos >= len(p.tokens) || p.tokens[p.pos].raw != raw {
		return false
	}
	p.pos++
	return true
}

func (p *condParser) next() (condToken, bool) {
	if p.pos >= len(p.tokens) {
		return condToken{}, false
	}
	tok := p.tokens[p.pos]
	p.pos++
	return tok, true
}

func (p *condParser) errorf(format string, args ...any) error {
	return &SyntaxError{
		Template: p.template,
		Line:     p.line,
		Col:      p.col,
		Msg:      fmt.Sprintf(format, args...),
	}
}

func isConditionKeyword(raw string) bool {
	switch strings.ToLower(raw) {
	case "is", "not", "and", "or", "defined":
		return true
	default:
		return false
	}
}
