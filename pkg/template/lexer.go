package template

import (
	"strconv"
	"strings"
)

// The lexer splits raw template text into literal spans, `{{ ... }}` variable
// markers, and `{% ... %}` directives. Structure (matching if/endif,
// block/endblock nesting) is the parser's job.

type itemKind int

const (
	itemText itemKind = iota
	itemVariable
	itemTag
)

type item struct {
	kind itemKind
	// text holds the literal span for itemText, the identifier for
	// itemVariable, and the directive argument string for itemTag.
	text    string
	keyword string
	line    int
	col     int
}

const (
	openVar = "{{"
	openTag = "{%"
)

func lex(name, input string) ([]item, error) {
	var items []item
	pos := 0

	for pos < len(input) {
		offset, marker := nextMarker(input[pos:])
		if offset < 0 {
			items = append(items, item{kind: itemText, text: input[pos:]})
			break
		}
		if offset > 0 {
			items = append(items, item{kind: itemText, text: input[pos : pos+offset]})
		}
		start := pos + offset
		line, col := lineCol(input, start)

		switch marker {
		case openVar:
			end := strings.Index(input[start:], "}}")
			if end < 0 {
				return nil, &SyntaxError{Template: name, Line: line, Col: col, Msg: "unterminated variable marker"}
			}
			inner := strings.TrimSpace(input[start+len(openVar) : start+end])
			if !isIdentifier(inner) {
				return nil, &SyntaxError{Template: name, Line: line, Col: col, Msg: "invalid variable name " + strconv.Quote(inner)}
			}
			items = append(items, item{kind: itemVariable, text: inner, line: line, col: col})
			pos = start + end + len("}}")
		case openTag:
			end := strings.Index(input[start:], "%}")
			if end < 0 {
				return nil, &SyntaxError{Template: name, Line: line, Col: col, Msg: "unterminated directive"}
			}
			inner := strings.TrimSpace(input[start+len(openTag) : start+end])
			keyword, args := splitKeyword(inner)
			if keyword == "" {
				return nil, &SyntaxError{Template: name, Line: line, Col: col, Msg: "empty directive"}
			}
			items = append(items, item{kind: itemTag, keyword: keyword, text: args, line: line, col: col})
			pos = start + end + len("%}")
		}
	}

	return items, nil
}

// nextMarker returns the offset and kind of the nearest directive opener, or
// -1 when the remaining input is pure literal text.
func nextMarker(s string) (int, string) {
	iv := strings.Index(s, openVar)
	it := strings.Index(s, openTag)
	switch {
	case iv < 0 && it < 0:
		return -1, ""
	case iv < 0:
		return it, openTag
	case it < 0:
		return iv, openVar
	case it < iv:
		return it, openTag
	default:
		return iv, openVar
	}
}

func splitKeyword(inner string) (string, string) {
	if i := strings.IndexAny(inner, " \t\n\r"); i >= 0 {
		return inner[:i], strings.TrimSpace(inner[i:])
	}
	return inner, ""
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

func lineCol(input string, offset int) (int, int) {
	line := 1
	col := 1
	for _, r := range input[:offset] {
		if r == '\n' {
			line++
			col = 1
			continue
		}
		col++
	}
	return line, col
}
