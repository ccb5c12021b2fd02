package template

import (
	"fmt"
	"io/fs"
	"os"
)

// Source fetches raw template text by name. It is the injected seam between
// the Registry and wherever templates actually live (a directory, an embedded
// bundle, an in-memory map). A Source reports a missing template with an
// error satisfying errors.Is(err, fs.ErrNotExist); the Registry translates
// that into a NotFoundError.
type Source interface {
	Load(name string) (string, error)
}

// DirSource serves templates from a directory on disk, keyed by relative
// path.
func DirSource(dir string) Source {
	return fsSource{fsys: os.DirFS(dir)}
}

// FSSource serves templates from an fs.FS, keyed by fs path.
func FSSource(fsys fs.FS) Source {
	return fsSource{fsys: fsys}
}

type fsSource struct {
	fsys fs.FS
}

func (s fsSource) Load(name string) (string, error) {
	if !fs.ValidPath(name) {
		return "", fmt.Errorf("template: invalid name %q: %w", name, fs.ErrNotExist)
	}
	data, err := fs.ReadFile(s.fsys, name)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// MapSource serves templates from an in-memory map. Useful for tests and for
// programs that assemble templates at runtime.
type MapSource map[string]string

func (s MapSource) Load(name string) (string, error) {
	content, ok := s[name]
	if !ok {
		return "", fmt.Errorf("template: %q: %w", name, fs.ErrNotExist)
	}
	return content, nil
}

// ChainSource tries each source in order and returns the first hit. A source
// that fails with something other than fs.ErrNotExist stops the chain.
func ChainSource(sources ...Source) Source {
	return chainSource(sources)
}

type chainSource []Source

func (c chainSource) Load(name string) (string, error) {
	for _, s := range c {
		content, err := s.Load(name)
		if err == nil {
			return content, nil
		}
		if !isNotExist(err) {
			return "", err
		}
	}
	return "", fmt.Errorf("template: %q: %w", name, fs.ErrNotExist)
}
