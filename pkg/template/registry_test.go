package template_test

import (
	"errors"
	"sync"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-reportgen/pkg/template"
)

func TestRegistryNotFound(t *testing.T) {
	registry := newRegistry(t, map[string]string{})

	_, err := registry.Get("absent.html")
	var notFound *template.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("Get error = %v, want *NotFoundError", err)
	}
	if notFound.Name != "absent.html" {
		t.Fatalf("Name = %q, want %q", notFound.Name, "absent.html")
	}
}

func TestRegistryCachesParsedTemplates(t *testing.T) {
	source := template.MapSource{"t.html": "hello"}
	registry := template.NewRegistry(source)

	first, err := registry.Get("t.html")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	second, err := registry.Get("t.html")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if first != second {
		t.Fatalf("second Get returned a different parse")
	}
}

func TestRegistryResetInvalidates(t *testing.T) {
	source := template.MapSource{"t.html": "before"}
	registry := template.NewRegistry(source)

	if _, err := registry.Get("t.html"); err != nil {
		t.Fatalf("Get: %v", err)
	}

	// Cache entries survive source changes until an explicit reset.
	source["t.html"] = "after"
	cached, err := registry.Get("t.html")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	got, err := template.Render(mustResolveTemplate(t, cached), nil)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got != "before" {
		t.Fatalf("cached render = %q, want %q", got, "before")
	}

	registry.Reset()
	fresh, err := registry.Get("t.html")
	if err != nil {
		t.Fatalf("Get after reset: %v", err)
	}
	got, err = template.Render(mustResolveTemplate(t, fresh), nil)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got != "after" {
		t.Fatalf("render after reset = %q, want %q", got, "after")
	}
}

func TestRegistryPropagatesSyntaxErrors(t *testing.T) {
	registry := newRegistry(t, map[string]string{"broken.html": "{% if x is defined %}"})

	_, err := registry.Get("broken.html")
	var syntaxErr *template.SyntaxError
	if !errors.As(err, &syntaxErr) {
		t.Fatalf("Get error = %v, want *SyntaxError", err)
	}
}

func TestRegistryConcurrentAccess(t *testing.T) {
	registry := newRegistry(t, map[string]string{
		"shared.html": "Observations: {{ n_obs }}",
	})

	const workers = 16
	results := make([]*template.Template, workers)
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func(i int) {
			defer wg.Done()
			tmpl, err := registry.Get("shared.html")
			if err != nil {
				t.Errorf("Get: %v", err)
				return
			}
			results[i] = tmpl
		}(i)
	}
	wg.Wait()

	for i := 1; i < workers; i++ {
		if results[i] != results[0] {
			t.Fatalf("worker %d observed a different parse", i)
		}
	}
}

func TestFSSource(t *testing.T) {
	fsys := fstest.MapFS{
		"reports/master.html": &fstest.MapFile{Data: []byte("{% block body %}{% endblock %}")},
	}
	registry := template.NewRegistry(template.FSSource(fsys))

	if _, err := registry.Get("reports/master.html"); err != nil {
		t.Fatalf("Get: %v", err)
	}

	_, err := registry.Get("../escape.html")
	var notFound *template.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("Get with invalid path = %v, want *NotFoundError", err)
	}
}

func TestChainSourceOrder(t *testing.T) {
	registry := template.NewRegistry(template.ChainSource(
		template.MapSource{"t.html": "first"},
		template.MapSource{"t.html": "second", "only.html": "fallback"},
	))

	tmpl, err := registry.Get("t.html")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	got, err := template.Render(mustResolveTemplate(t, tmpl), nil)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got != "first" {
		t.Fatalf("chain picked %q, want %q", got, "first")
	}

	if _, err := registry.Get("only.html"); err != nil {
		t.Fatalf("Get fallback: %v", err)
	}
}

func mustResolveTemplate(t *testing.T, tmpl *template.Template) *template.EffectiveTemplate {
	t.Helper()
	effective, err := template.NewResolver(nil).Resolve(tmpl)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	return effective
}
