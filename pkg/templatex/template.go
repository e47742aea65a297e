package templatex

import "strings"

// EngineType identifies the templating language a Template is written in.
type EngineType string

// EngineGo is the default engine type: Go text templates.
const EngineGo EngineType = "go"

// Template is a parametrized string bound to an engine type. It is resolved
// against a model at execution time. Two templates are equal iff their engine
// type and source text are equal.
type Template struct {
	Engine EngineType `json:"engine"`
	Source string     `json:"source"`
}

// Default creates a template of the default engine type from a user literal.
// The source carries no template expressions and renders to itself.
func Default(source string) Template {
	return Template{Engine: EngineGo, Source: source}
}

// Inline creates an inline template of the default engine type.
func Inline(source string) Template {
	return Template{Engine: EngineGo, Source: source}
}

// IsTemplated reports whether s contains template expression syntax.
func IsTemplated(s string) bool {
	return strings.Contains(s, "{{")
}

// Equal reports whether two templates have the same engine type and source.
func (t Template) Equal(other Template) bool {
	return t.Engine == other.Engine && t.Source == other.Source
}

// String returns the template source.
func (t Template) String() string {
	return t.Source
}
