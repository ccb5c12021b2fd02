package template_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-reportgen/pkg/template"
)

func TestParseSyntaxErrors(t *testing.T) {
	cases := []struct {
		name   string
		source string
		want   string
	}{
		{
			name:   "unterminated variable",
			source: "Observations: {{ n_obs",
			want:   "unterminated variable marker",
		},
		{
			name:   "unterminated directive",
			source: "{% if x is defined",
			want:   "unterminated directive",
		},
		{
			name:   "unterminated if",
			source: "{% if x is defined %}body",
			want:   "missing {% endif %}",
		},
		{
			name:   "unterminated block",
			source: "{% block footer %}body",
			want:   "unterminated block",
		},
		{
			name:   "extends after content",
			source: "hello {% extends \"master.html\" %}",
			want:   "extends must appear before any other content",
		},
		{
			name:   "extends after directive",
			source: "{% block a %}{% endblock %}{% extends \"master.html\" %}",
			want:   "extends must appear before any other content",
		},
		{
			name:   "extends unquoted",
			source: "{% extends master.html %}",
			want:   "quoted template name",
		},
		{
			name:   "duplicate block",
			source: "{% block a %}{% endblock %}{% block a %}{% endblock %}",
			want:   `duplicate block "a"`,
		},
		{
			name:   "duplicate nested block",
			source: "{% block a %}{% block a %}{% endblock %}{% endblock %}",
			want:   `duplicate block "a"`,
		},
		{
			name:   "stray endif",
			source: "text {% endif %}",
			want:   "unexpected {% endif %}",
		},
		{
			name:   "stray endblock",
			source: "{% endblock %}",
			want:   "unexpected {% endblock %}",
		},
		{
			name:   "else without if",
			source: "{% else %}",
			want:   "unexpected {% else %}",
		},
		{
			name:   "unknown directive",
			source: "{% for x in items %}{% endfor %}",
			want:   "unknown directive",
		},
		{
			name:   "invalid variable name",
			source: "{{ user.name }}",
			want:   "invalid variable name",
		},
		{
			name:   "empty condition",
			source: "{% if %}{% endif %}",
			want:   "empty condition",
		},
		{
			name:   "dangling is",
			source: "{% if x is %}{% endif %}",
			want:   `expected "defined"`,
		},
		{
			name:   "unbalanced parens",
			source: "{% if (x is defined %}{% endif %}",
			want:   "missing closing parenthesis",
		},
		{
			name:   "mismatched endblock name",
			source: "{% block a %}{% endblock b %}",
			want:   `endblock "b" does not close block "a"`,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := template.Parse("bad.html", tc.source)
			if err == nil {
				t.Fatalf("Parse(%q) succeeded, want syntax error", tc.source)
			}
			var syntaxErr *template.SyntaxError
			if !errors.As(err, &syntaxErr) {
				t.Fatalf("Parse(%q) error = %v, want *SyntaxError", tc.source, err)
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("Parse(%q) error = %q, want substring %q", tc.source, err, tc.want)
			}
		})
	}
}

func TestParseExtends(t *testing.T) {
	tmpl, err := template.Parse("child.html", "\n  {% extends \"master.html\" %}\n{% block footer %}X{% endblock %}")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if tmpl.Extends != "master.html" {
		t.Fatalf("Extends = %q, want %q", tmpl.Extends, "master.html")
	}
	if diff := cmp.Diff([]string{"footer"}, tmpl.Blocks()); diff != "" {
		t.Fatalf("blocks mismatch (-want +got):\n%s", diff)
	}
}

func TestParseExtendsSingleQuotes(t *testing.T) {
	tmpl, err := template.Parse("child.html", "{% extends 'master.html' %}")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if tmpl.Extends != "master.html" {
		t.Fatalf("Extends = %q, want %q", tmpl.Extends, "master.html")
	}
}

func TestParseBlockInsideConditional(t *testing.T) {
	source := "{% if extra is defined %}{% block extra_row %}{{ extra }}{% endblock %}{% endif %}"
	tmpl, err := template.Parse("cond.html", source)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if diff := cmp.Diff([]string{"extra_row"}, tmpl.Blocks()); diff != "" {
		t.Fatalf("blocks mismatch (-want +got):\n%s", diff)
	}
}

func TestParsePositionsInError(t *testing.T) {
	source := "line one\nline two {{ bad name }}"
	_, err := template.Parse("pos.html", source)
	var syntaxErr *template.SyntaxError
	if !errors.As(err, &syntaxErr) {
		t.Fatalf("Parse error = %v, want *SyntaxError", err)
	}
	if syntaxErr.Line != 2 {
		t.Fatalf("Line = %d, want 2", syntaxErr.Line)
	}
	if syntaxErr.Col != 10 {
		t.Fatalf("Col = %d, want 10", syntaxErr.Col)
	}
}
