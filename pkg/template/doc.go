// Package template implements a small text-template engine for structured
// report fragments: `{{ name }}` interpolation, `{% if name is defined %}`
// conditionals, and `{% extends %}`/`{% block %}` inheritance. Templates are
// parsed into a closed set of node variants and evaluated by explicit
// recursive walking, so there is no reflection or dynamic attribute lookup at
// render time. Template names resolve through an injected Source, and the
// Registry caches parsed templates by name. Rendering is deterministic and
// side-effect free; the only failure mode for a resolved template is an
// unguarded reference to an absent variable.
package template
