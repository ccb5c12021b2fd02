package template

import (
	"fmt"
	"html"
	"strconv"
	"strings"
)

// Context is the name→value mapping supplied at render time. Values are
// strings or numbers; a key mapped to nil counts as absent for `is defined`
// tests, while empty strings and zeros count as defined. The renderer never
// mutates a context.
type Context map[string]any

// RenderOption adjusts a single render call.
type RenderOption func(*renderer)

// EscapeHTML HTML-escapes interpolated variable values. Literal template text
// is never touched. Off unless requested.
func EscapeHTML() RenderOption {
	return func(r *renderer) {
		r.escape = true
	}
}

// Render evaluates an effective template against a context and returns the
// emitted text. Rendering is deterministic and total for any resolved
// template: the only failure mode is a MissingVariableError for a variable
// reference reached with no value in the context. A failed render returns an
// empty string, never truncated output.
func Render(t *EffectiveTemplate, ctx Context, options ...RenderOption) (string, error) {
	r := &renderer{ctx: ctx}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	if err := r.walk(t.Nodes); err != nil {
		return "", err
	}
	return r.out.String(), nil
}

type renderer struct {
	out    strings.Builder
	ctx    Context
	escape bool
}

func (r *renderer) walk(nodes []Node) error {
	for _, n := range nodes {
		switch v := n.(type) {
		case *LiteralNode:
			r.out.WriteString(v.Text)
		case *VariableNode:
			value, ok := r.ctx[v.Name]
			if !ok || value == nil {
				return &MissingVariableError{Name: v.Name}
			}
			s, err := formatValue(value)
			if err != nil {
				return fmt.Errorf("template: variable %q: %w", v.Name, err)
			}
			if r.escape {
				s = html.EscapeString(s)
			}
			r.out.WriteString(s)
		case *CondNode:
			if err := r.walkCond(v); err != nil {
				return err
			}
		case *BlockNode:
			if err := r.walk(v.Body); err != nil {
				return err
			}
		}
	}
	return nil
}

func (r *renderer) walkCond(node *CondNode) error {
	for _, branch := range node.Branches {
		if branch.Cond.Eval(r.ctx) {
			return r.walk(branch.Body)
		}
	}
	return r.walk(node.Else)
}

// formatValue renders a context value as text. Floats keep their natural
// decimal representation: shortest round-trip form, no exponent, no implicit
// rounding.
func formatValue(value any) (string, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case []byte:
		return string(v), nil
	case bool:
		return strconv.FormatBool(v), nil
	case int:
		return strconv.Itoa(v), nil
	case int8:
		return strconv.FormatInt(int64(v), 10), nil
	case int16:
		return strconv.FormatInt(int64(v), 10), nil
	case int32:
		return strconv.FormatInt(int64(v), 10), nil
	case int64:
		return strconv.FormatInt(v, 10), nil
	case uint:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint8:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint16:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint32:
		return strconv.FormatUint(uint64(v), 10), nil
	case uint64:
		return strconv.FormatUint(v, 10), nil
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32), nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), nil
	case fmt.Stringer:
		return v.String(), nil
	default:
		return "", fmt.Errorf("unsupported value type %T", value)
	}
}
