package template

import (
	"io/fs"
	"path"
	"strings"
)

// Option configures an Engine before construction.
type Option func(*config)

type config struct {
	baseDir  string
	fsys     fs.FS
	sources  []Source
	escape   bool
	htmlExts []string
}

// WithBaseDir loads templates from a directory on disk.
func WithBaseDir(dir string) Option {
	return func(cfg *config) {
		cfg.baseDir = strings.TrimSpace(dir)
	}
}

// WithFS loads templates from an fs.FS, such as an embedded bundle.
func WithFS(fsys fs.FS) Option {
	return func(cfg *config) {
		cfg.fsys = fsys
	}
}

// WithSource appends a custom template source. Sources are consulted in the
// order configured, after any base dir and fs.FS.
func WithSource(source Source) Option {
	return func(cfg *config) {
		if source != nil {
			cfg.sources = append(cfg.sources, source)
		}
	}
}

// WithAutoEscape HTML-escapes interpolated values in templates whose name
// carries an HTML extension (.html or .htm unless overridden with
// WithHTMLExtensions). Escaping is off by default.
func WithAutoEscape() Option {
	return func(cfg *config) {
		cfg.escape = true
	}
}

// WithHTMLExtensions overrides the name extensions treated as HTML for
// auto-escaping purposes.
func WithHTMLExtensions(exts ...string) Option {
	return func(cfg *config) {
		cleaned := make([]string, 0, len(exts))
		for _, ext := range exts {
			trimmed := strings.TrimSpace(ext)
			if trimmed == "" {
				continue
			}
			if !strings.HasPrefix(trimmed, ".") {
				trimmed = "." + trimmed
			}
			cleaned = append(cleaned, strings.ToLower(trimmed))
		}
		if len(cleaned) > 0 {
			cfg.htmlExts = cleaned
		}
	}
}

// Engine ties the registry, resolver, and renderer together behind the two
// entry points most callers need: render a named template, or render an
// inline template string.
type Engine struct {
	registry *Registry
	resolver *Resolver
	escape   bool
	htmlExts map[string]struct{}
}

// New constructs an Engine. With no source options the engine can still
// render inline strings; named lookups then fail with a NotFoundError.
func New(options ...Option) (*Engine, error) {
	cfg := &config{htmlExts: []string{".html", ".htm"}}
	for _, opt := range options {
		if opt != nil {
			opt(cfg)
		}
	}

	var sources []Source
	if cfg.baseDir != "" {
		sources = append(sources, DirSource(cfg.baseDir))
	}
	if cfg.fsys != nil {
		sources = append(sources, FSSource(cfg.fsys))
	}
	sources = append(sources, cfg.sources...)

	var source Source
	switch len(sources) {
	case 0:
		source = MapSource(nil)
	case 1:
		source = sources[0]
	default:
		source = ChainSource(sources...)
	}

	registry := NewRegistry(source)
	engine := &Engine{
		registry: registry,
		resolver: NewResolver(registry),
		escape:   cfg.escape,
		htmlExts: make(map[string]struct{}, len(cfg.htmlExts)),
	}
	for _, ext := range cfg.htmlExts {
		engine.htmlExts[ext] = struct{}{}
	}
	return engine, nil
}

// Render looks up a template by name, resolves its inheritance chain, and
// renders it against the context.
func (e *Engine) Render(name string, ctx Context) (string, error) {
	t, err := e.registry.Get(name)
	if err != nil {
		return "", err
	}
	effective, err := e.resolver.Resolve(t)
	if err != nil {
		return "", err
	}
	var options []RenderOption
	if e.escape && e.isHTMLName(name) {
		options = append(options, EscapeHTML())
	}
	return Render(effective, ctx, options...)
}

// RenderString parses and renders an inline template. The string may extend
// named templates reachable through the engine's sources. Inline templates
// have no declared kind, so auto-escaping never applies.
func (e *Engine) RenderString(source string, ctx Context) (string, error) {
	t, err := Parse("", source)
	if err != nil {
		return "", err
	}
	effective, err := e.resolver.Resolve(t)
	if err != nil {
		return "", err
	}
	return Render(effective, ctx)
}

// Resolve exposes resolution for callers that want to render one effective
// template repeatedly with different contexts.
func (e *Engine) Resolve(name string) (*EffectiveTemplate, error) {
	t, err := e.registry.Get(name)
	if err != nil {
		return nil, err
	}
	return e.resolver.Resolve(t)
}

// Registry returns the engine's template registry.
func (e *Engine) Registry() *Registry {
	return e.registry
}

// Reset drops the parsed-template cache.
func (e *Engine) Reset() {
	e.registry.Reset()
}

func (e *Engine) isHTMLName(name string) bool {
	ext := strings.ToLower(path.Ext(name))
	_, ok := e.htmlExts[ext]
	return ok
}
