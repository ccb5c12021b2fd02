package main

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/AlecAivazis/survey/v2"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-reportgen/pkg/template"
)

// promptLimit bounds the interactive fill-in loop so a template that keeps
// producing new missing variables cannot prompt forever.
const promptLimit = 100

func main() {
	templatesDir := flag.String("templates", "templates", "directory containing templates")
	name := flag.String("name", "", "template name to render")
	contextPath := flag.String("context", "", "YAML or JSON file with template variables")
	output := flag.String("output", "", "output file (stdout if empty)")
	escape := flag.Bool("escape", false, "HTML-escape interpolated values in HTML templates")
	interactive := flag.Bool("interactive", false, "prompt for variables missing from the context")
	flag.Parse()

	if *name == "" {
		log.Fatal("missing -name: nothing to render")
	}

	options := []template.Option{template.WithBaseDir(*templatesDir)}
	if *escape {
		options = append(options, template.WithAutoEscape())
	}
	engine, err := template.New(options...)
	if err != nil {
		log.Fatalf("Failed to build engine: %v", err)
	}

	ctx := template.Context{}
	if *contextPath != "" {
		ctx, err = loadContext(*contextPath)
		if err != nil {
			log.Fatalf("Failed to load context: %v", err)
		}
	}

	rendered, err := render(engine, *name, ctx, *interactive)
	if err != nil {
		log.Fatalf("Failed to render template: %v", err)
	}

	if *output != "" {
		if err := os.WriteFile(*output, []byte(rendered), 0o644); err != nil {
			log.Fatalf("Failed to write output: %v", err)
		}
		fmt.Printf("Rendered output written to %s\n", *output)
	} else {
		fmt.Println(rendered)
	}
}

// loadContext reads a YAML (or JSON, which YAML subsumes) mapping of template
// variables.
func loadContext(path string) (template.Context, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	values := map[string]any{}
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return template.Context(values), nil
}

// render retries on missing variables in interactive mode, prompting for a
// value each time until the template renders or the user aborts.
func render(engine *template.Engine, name string, ctx template.Context, interactive bool) (string, error) {
	for attempt := 0; ; attempt++ {
		rendered, err := engine.Render(name, ctx)
		if err == nil {
			return rendered, nil
		}
		var missing *template.MissingVariableError
		if !interactive || attempt >= promptLimit || !errors.As(err, &missing) {
			return "", err
		}

		var value string
		prompt := &survey.Input{Message: fmt.Sprintf("Value for %q:", missing.Name)}
		if err := survey.AskOne(prompt, &value); err != nil {
			return "", err
		}
		ctx[missing.Name] = value
	}
}
