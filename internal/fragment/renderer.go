package fragment

import (
	"fmt"
	"strings"
	"text/template"

	"workbench/internal/jsonfmt"
)

// Context is the data a fragment template renders against.
type Context struct {
	Technology string
	Languages  []string
	Platform   string
	Kinds      []string
}

// Renderer expands fragment template text against a repository context.
type Renderer interface {
	Render(name, text string, ctx Context) (string, error)
}

// NewRenderer returns the text/template based renderer used for the
// builtin library and for on-disk fragment directories.
func NewRenderer() Renderer { return templateRenderer{} }

type templateRenderer struct{}

func (templateRenderer) Render(name, text string, ctx Context) (string, error) {
	funcs := template.FuncMap{
		"hasLanguage": func(l string) bool { return contains(ctx.Languages, l) },
		"hasKind":     func(k string) bool { return contains(ctx.Kinds, k) },
		"join":        strings.Join,
		"formatJSON":  jsonfmt.Format,
	}
	tmpl, err := template.New(name).Funcs(funcs).Option("missingkey=error").Parse(text)
	if err != nil {
		return "", fmt.Errorf("fragment: parse template %s: %w", name, err)
	}
	var sb strings.Builder
	if err := tmpl.Execute(&sb, ctx); err != nil {
		return "", fmt.Errorf("fragment: render template %s: %w", name, err)
	}
	return sb.String(), nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
