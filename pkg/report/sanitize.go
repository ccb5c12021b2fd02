package report

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Titles and notes are caller-supplied strings that land inside the table
// HTML. They may carry light inline markup (a bold word, a superscript), so
// instead of escaping everything we run them through an allowlist policy
// that keeps inline formatting and strips anything active.
var inlineMarkup = func() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowElements("b", "i", "em", "strong", "sup", "sub", "br")
	return p
}()

func sanitizeInline(s string) string {
	return strings.TrimSpace(inlineMarkup.Sanitize(s))
}
