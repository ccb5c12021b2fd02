package template

import (
	"errors"
	"fmt"
	"io/fs"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Registry resolves template names to parsed templates through an injected
// Source, caching parse results by name. Cache reads may interleave freely;
// first-access population is serialized per template name so concurrent
// callers cannot race a check-then-insert into duplicate parses. Entries are
// invalidated only by Reset.
type Registry struct {
	source Source
	group  singleflight.Group

	mu    sync.RWMutex
	cache map[string]*Template
}

// NewRegistry creates a registry backed by the given source. A nil source
// yields a registry that resolves nothing.
func NewRegistry(source Source) *Registry {
	if source == nil {
		source = MapSource(nil)
	}
	return &Registry{
		source: source,
		cache:  make(map[string]*Template),
	}
}

// Get returns the parsed template for name, parsing and caching it on first
// access. It fails with a NotFoundError when no source yields content, and
// propagates SyntaxError from parsing.
func (r *Registry) Get(name string) (*Template, error) {
	r.mu.RLock()
	t, ok := r.cache[name]
	r.mu.RUnlock()
	if ok {
		return t, nil
	}

	v, err, _ := r.group.Do(name, func() (any, error) {
		r.mu.RLock()
		t, ok := r.cache[name]
		r.mu.RUnlock()
		if ok {
			return t, nil
		}

		content, err := r.source.Load(name)
		if err != nil {
			if isNotExist(err) {
				return nil, &NotFoundError{Name: name}
			}
			return nil, fmt.Errorf("template: load %q: %w", name, err)
		}

		t, err = Parse(name, content)
		if err != nil {
			return nil, err
		}

		r.mu.Lock()
		r.cache[name] = t
		r.mu.Unlock()
		return t, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*Template), nil
}

// Reset drops every cached template. Subsequent Get calls re-load and
// re-parse from the source.
func (r *Registry) Reset() {
	r.mu.Lock()
	r.cache = make(map[string]*Template)
	r.mu.Unlock()
}

func isNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
