package templatex

import (
	"bytes"
	"text/template"
)

// Model is the key/value structure templates are rendered against.
type Model map[string]interface{}

// Engine renders a single template against a model.
type Engine interface {
	Render(tmpl Template, model Model) (string, error)
}

// GoEngine renders Go text templates. Missing model keys fail the render
// instead of producing "<no value>".
type GoEngine struct{}

// NewGoEngine creates the default template engine.
func NewGoEngine() *GoEngine {
	return &GoEngine{}
}

// Render implements Engine.
func (e *GoEngine) Render(tmpl Template, model Model) (string, error) {
	t, err := template.New("inline").Option("missingkey=error").Parse(tmpl.Source)
	if err != nil {
		return "", templatexErrors.NewWithCause(ErrParse, err).WithDetail("source", tmpl.Source)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, map[string]interface{}(model)); err != nil {
		return "", templatexErrors.NewWithCause(ErrRender, err).WithDetail("source", tmpl.Source)
	}

	return buf.String(), nil
}
