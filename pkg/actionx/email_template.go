package actionx

import (
	"strings"

	"github.com/dmichel1/vigil/pkg/mailx"
	"github.com/dmichel1/vigil/pkg/templatex"
)

// EmailTemplate is the templated shape of the email an action sends. Every
// field is optional; an EmailTemplate with nothing set is valid and renders
// to an empty message.
type EmailTemplate struct {
	From    []templatex.Template
	ReplyTo []templatex.Template
	To      []templatex.Template
	CC      []templatex.Template
	BCC     []templatex.Template

	Subject  *templatex.Template
	TextBody *templatex.Template

	// HTMLBody is rendered and, when SanitizeHTML is set, stripped of
	// active content before delivery.
	HTMLBody     *templatex.Template
	SanitizeHTML bool

	// Priority resolves to one of the mailx priorities at render time.
	Priority *templatex.Template
}

// AddressTemplates turns a comma-separated address string into one template
// per entry. Entries carrying template syntax become inline templates and
// are validated only after rendering; plain entries must parse as addresses
// now and keep their original text as the template source.
func AddressTemplates(s string) ([]templatex.Template, error) {
	parts := strings.Split(s, ",")
	tmpls := make([]templatex.Template, 0, len(parts))
	for _, part := range parts {
		tmpl, err := addressTemplate(part)
		if err != nil {
			return nil, err
		}
		tmpls = append(tmpls, tmpl)
	}
	return tmpls, nil
}

func addressTemplate(s string) (templatex.Template, error) {
	s = strings.TrimSpace(s)
	if templatex.IsTemplated(s) {
		return templatex.Inline(s), nil
	}
	if _, err := mailx.ParseAddress(s); err != nil {
		return templatex.Template{}, err
	}
	return templatex.Default(s), nil
}

// Equal compares every field of two email templates.
func (t *EmailTemplate) Equal(other *EmailTemplate) bool {
	if t == nil || other == nil {
		return t == other
	}
	return templatesEqual(t.From, other.From) &&
		templatesEqual(t.ReplyTo, other.ReplyTo) &&
		templatesEqual(t.To, other.To) &&
		templatesEqual(t.CC, other.CC) &&
		templatesEqual(t.BCC, other.BCC) &&
		templatePtrEqual(t.Subject, other.Subject) &&
		templatePtrEqual(t.TextBody, other.TextBody) &&
		templatePtrEqual(t.HTMLBody, other.HTMLBody) &&
		t.SanitizeHTML == other.SanitizeHTML &&
		templatePtrEqual(t.Priority, other.Priority)
}

func templatesEqual(a, b []templatex.Template) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

func templatePtrEqual(a, b *templatex.Template) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
