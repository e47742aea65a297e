package actionx

import (
	"encoding/json"

	"github.com/dmichel1/vigil/pkg/mailx"
	"github.com/dmichel1/vigil/pkg/templatex"
)

// Recognized document fields. Anything else fails parsing.
const (
	fieldAccount    = "account"
	fieldProfile    = "profile"
	fieldUser       = "user"
	fieldPassword   = "password"
	fieldFrom       = "from"
	fieldPriority   = "priority"
	fieldAttachData = "attach_data"
	fieldTo         = "to"
	fieldCC         = "cc"
	fieldBCC        = "bcc"
	fieldReplyTo    = "reply_to"
	fieldSubject    = "subject"
	fieldBody       = "body"
	fieldBodyText   = "text"
	fieldBodyHTML   = "html"
	fieldHTMLSource = "source"
	fieldSanitize   = "sanitize"
)

// Factory parses action documents into executables, injecting the delivery
// backend and template engine the executables will run against.
type Factory struct {
	service mailx.Service
	engine  templatex.Engine
}

// NewFactory creates an action factory.
func NewFactory(service mailx.Service, engine templatex.Engine) *Factory {
	return &Factory{service: service, engine: engine}
}

// ParseExecutable parses a decoded key/value document into an executable
// email action owned by the given watch. The schema is strict: any
// unrecognized field fails parsing. JSON objects carrying duplicate keys
// collapse to the last occurrence at decode time; that last value wins.
// A missing account is reported only after the whole document has been
// consumed, so documents relying on a default account still parse cleanly
// up to that point.
func (f *Factory) ParseExecutable(watchID, actionID string, doc map[string]interface{}) (*Executable, error) {
	var (
		email      EmailTemplate
		account    string
		profile    mailx.Profile
		attachData DataAttachment
		user       string
		password   *mailx.Secret
	)

	for field, value := range doc {
		var err error
		switch field {
		case fieldAccount:
			account, err = stringValue(field, value)
		case fieldProfile:
			var name string
			if name, err = stringValue(field, value); err == nil {
				profile, err = mailx.ParseProfile(name)
			}
		case fieldUser:
			user, err = stringValue(field, value)
		case fieldPassword:
			var plain string
			if plain, err = stringValue(field, value); err == nil {
				secret := mailx.NewSecret(plain)
				password = &secret
			}
		case fieldFrom:
			email.From, err = addressTemplatesValue(field, value)
		case fieldTo:
			email.To, err = addressTemplatesValue(field, value)
		case fieldCC:
			email.CC, err = addressTemplatesValue(field, value)
		case fieldBCC:
			email.BCC, err = addressTemplatesValue(field, value)
		case fieldReplyTo:
			email.ReplyTo, err = addressTemplatesValue(field, value)
		case fieldPriority:
			email.Priority, err = priorityTemplateValue(value)
		case fieldAttachData:
			attachData, err = ParseDataAttachment(value)
		case fieldSubject:
			email.Subject, err = templateValue(field, value)
		case fieldBody:
			err = parseBody(&email, value)
		default:
			return nil, actionxErrors.New(ErrUnknownField).
				WithDetail("watch_id", watchID).
				WithDetail("action_id", actionID).
				WithDetail("field", field)
		}
		if err != nil {
			return nil, actionxErrors.NewWithCause(ErrParse, err).
				WithDetail("watch_id", watchID).
				WithDetail("action_id", actionID).
				WithDetail("field", field)
		}
	}

	if account == "" {
		return nil, actionxErrors.New(ErrMissingAccount).
			WithDetail("watch_id", watchID).
			WithDetail("action_id", actionID)
	}
	if password != nil && user == "" {
		return nil, actionxErrors.New(ErrOrphanPassword).
			WithDetail("watch_id", watchID).
			WithDetail("action_id", actionID)
	}

	var auth *mailx.Authentication
	if user != "" {
		// A nil password here is legitimate: it is what a redacted
		// document round-trips to.
		auth = &mailx.Authentication{User: user, Password: password}
	}

	action := NewEmailAction(email, account, auth, profile, attachData)
	return NewExecutable(action, f.service, f.engine), nil
}

// ParseExecutableJSON decodes raw JSON and parses it as an action document.
func (f *Factory) ParseExecutableJSON(watchID, actionID string, data []byte) (*Executable, error) {
	var doc map[string]interface{}
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, actionxErrors.NewWithCause(ErrParse, err).
			WithDetail("watch_id", watchID).
			WithDetail("action_id", actionID)
	}
	return f.ParseExecutable(watchID, actionID, doc)
}

func stringValue(field string, value interface{}) (string, error) {
	s, ok := value.(string)
	if !ok {
		return "", actionxErrors.New(ErrParse).
			WithDetail("field", field).
			WithDetail("reason", "expected a string value")
	}
	return s, nil
}

// addressTemplatesValue accepts a single scalar or an array of scalars;
// every scalar may itself carry a comma-separated list.
func addressTemplatesValue(field string, value interface{}) ([]templatex.Template, error) {
	switch v := value.(type) {
	case string:
		return AddressTemplates(v)
	case []interface{}:
		tmpls := make([]templatex.Template, 0, len(v))
		for _, entry := range v {
			s, err := stringValue(field, entry)
			if err != nil {
				return nil, err
			}
			parsed, err := AddressTemplates(s)
			if err != nil {
				return nil, err
			}
			tmpls = append(tmpls, parsed...)
		}
		return tmpls, nil
	case []string:
		tmpls := make([]templatex.Template, 0, len(v))
		for _, s := range v {
			parsed, err := AddressTemplates(s)
			if err != nil {
				return nil, err
			}
			tmpls = append(tmpls, parsed...)
		}
		return tmpls, nil
	default:
		return nil, actionxErrors.New(ErrParse).
			WithDetail("field", field).
			WithDetail("reason", "expected a string or an array of strings")
	}
}

func templateValue(field string, value interface{}) (*templatex.Template, error) {
	s, err := stringValue(field, value)
	if err != nil {
		return nil, err
	}
	var tmpl templatex.Template
	if templatex.IsTemplated(s) {
		tmpl = templatex.Inline(s)
	} else {
		tmpl = templatex.Default(s)
	}
	return &tmpl, nil
}

// priorityTemplateValue validates plain priority names against the
// enumeration now; templated values are only resolvable at execution time.
func priorityTemplateValue(value interface{}) (*templatex.Template, error) {
	s, err := stringValue(fieldPriority, value)
	if err != nil {
		return nil, err
	}
	if templatex.IsTemplated(s) {
		tmpl := templatex.Inline(s)
		return &tmpl, nil
	}
	if _, err := mailx.ParsePriority(s); err != nil {
		return nil, err
	}
	tmpl := templatex.Default(s)
	return &tmpl, nil
}

func parseBody(email *EmailTemplate, value interface{}) error {
	switch v := value.(type) {
	case string:
		// A scalar body is shorthand for the text body.
		tmpl, err := templateValue(fieldBody, v)
		if err != nil {
			return err
		}
		email.TextBody = tmpl
		return nil
	case map[string]interface{}:
		for key, entry := range v {
			switch key {
			case fieldBodyText:
				tmpl, err := templateValue(fieldBodyText, entry)
				if err != nil {
					return err
				}
				email.TextBody = tmpl
			case fieldBodyHTML:
				if err := parseHTMLBody(email, entry); err != nil {
					return err
				}
			default:
				return actionxErrors.New(ErrUnknownField).WithDetail("field", "body."+key)
			}
		}
		return nil
	default:
		return actionxErrors.New(ErrParse).
			WithDetail("field", fieldBody).
			WithDetail("reason", "expected a string or an object")
	}
}

// parseHTMLBody accepts a scalar (sanitized by default) or the object form
// {"source": ..., "sanitize": ...} carrying an explicit sanitize flag.
func parseHTMLBody(email *EmailTemplate, value interface{}) error {
	switch v := value.(type) {
	case string:
		tmpl, err := templateValue(fieldBodyHTML, v)
		if err != nil {
			return err
		}
		email.HTMLBody = tmpl
		email.SanitizeHTML = true
		return nil
	case map[string]interface{}:
		sanitize := true
		var tmpl *templatex.Template
		for key, entry := range v {
			switch key {
			case fieldHTMLSource:
				parsed, err := templateValue(fieldHTMLSource, entry)
				if err != nil {
					return err
				}
				tmpl = parsed
			case fieldSanitize:
				flag, ok := entry.(bool)
				if !ok {
					return actionxErrors.New(ErrParse).
						WithDetail("field", "body.html.sanitize").
						WithDetail("reason", "expected a boolean value")
				}
				sanitize = flag
			default:
				return actionxErrors.New(ErrUnknownField).WithDetail("field", "body.html."+key)
			}
		}
		if tmpl == nil {
			return actionxErrors.New(ErrParse).
				WithDetail("field", fieldBodyHTML).
				WithDetail("reason", "missing source")
		}
		email.HTMLBody = tmpl
		email.SanitizeHTML = sanitize
		return nil
	default:
		return actionxErrors.New(ErrParse).
			WithDetail("field", fieldBodyHTML).
			WithDetail("reason", "expected a string or an object")
	}
}

// SerializeParams controls serialization. HideSecrets omits the credential's
// password entirely; the user stays, so a redacted credential remains
// distinguishable from no credential at all.
type SerializeParams struct {
	HideSecrets bool
}

// Document serializes the action back to a key/value document using the same
// field names parsing accepts. With HideSecrets unset the output round-trips
// to an equal action.
func (a *EmailAction) Document(params SerializeParams) map[string]interface{} {
	doc := map[string]interface{}{
		fieldAccount: a.Account,
		fieldProfile: a.Profile.String(),
	}

	if a.Auth != nil {
		doc[fieldUser] = a.Auth.User
		if !params.HideSecrets && a.Auth.Password != nil {
			doc[fieldPassword] = a.Auth.Password.Reveal()
		}
	}

	putAddresses(doc, fieldFrom, a.Email.From)
	putAddresses(doc, fieldTo, a.Email.To)
	putAddresses(doc, fieldCC, a.Email.CC)
	putAddresses(doc, fieldBCC, a.Email.BCC)
	putAddresses(doc, fieldReplyTo, a.Email.ReplyTo)

	if a.Email.Priority != nil {
		doc[fieldPriority] = a.Email.Priority.Source
	}
	if a.AttachData != DataAttachmentNone {
		doc[fieldAttachData] = a.AttachData.String()
	}
	if a.Email.Subject != nil {
		doc[fieldSubject] = a.Email.Subject.Source
	}

	body := map[string]interface{}{}
	if a.Email.TextBody != nil {
		body[fieldBodyText] = a.Email.TextBody.Source
	}
	if a.Email.HTMLBody != nil {
		if a.Email.SanitizeHTML {
			body[fieldBodyHTML] = a.Email.HTMLBody.Source
		} else {
			body[fieldBodyHTML] = map[string]interface{}{
				fieldHTMLSource: a.Email.HTMLBody.Source,
				fieldSanitize:   false,
			}
		}
	}
	if len(body) > 0 {
		doc[fieldBody] = body
	}

	return doc
}

// DocumentJSON serializes the action document as JSON.
func (a *EmailAction) DocumentJSON(params SerializeParams) ([]byte, error) {
	return json.Marshal(a.Document(params))
}

func putAddresses(doc map[string]interface{}, field string, tmpls []templatex.Template) {
	switch len(tmpls) {
	case 0:
	case 1:
		doc[field] = tmpls[0].Source
	default:
		sources := make([]interface{}, len(tmpls))
		for i, tmpl := range tmpls {
			sources[i] = tmpl.Source
		}
		doc[field] = sources
	}
}
