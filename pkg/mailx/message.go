package mailx

// Priority is the urgency level of an email.
type Priority string

const (
	PriorityLowest  Priority = "lowest"
	PriorityLow     Priority = "low"
	PriorityNormal  Priority = "normal"
	PriorityHigh    Priority = "high"
	PriorityHighest Priority = "highest"
)

// Priorities lists every priority in ascending urgency order.
func Priorities() []Priority {
	return []Priority{PriorityLowest, PriorityLow, PriorityNormal, PriorityHigh, PriorityHighest}
}

// ParsePriority matches name case-sensitively against the priority set.
func ParsePriority(name string) (Priority, error) {
	for _, p := range Priorities() {
		if string(p) == name {
			return p, nil
		}
	}
	return "", mailxErrors.New(ErrUnknownPriority).WithDetail("priority", name)
}

// String returns the canonical priority name.
func (p Priority) String() string {
	return string(p)
}

// Attachment is a named payload embedded in an outgoing email.
type Attachment struct {
	Name        string `json:"name"`
	ContentType string `json:"content_type"`
	Data        []byte `json:"-"`
}

// Email is a fully-rendered message ready for delivery. Optional string
// fields are nil when the action that produced the email did not define
// them; they are never rendered down to an empty string.
type Email struct {
	ID          string                `json:"id"`
	From        []Address             `json:"from,omitempty"`
	To          []Address             `json:"to,omitempty"`
	CC          []Address             `json:"cc,omitempty"`
	BCC         []Address             `json:"bcc,omitempty"`
	ReplyTo     []Address             `json:"reply_to,omitempty"`
	Subject     *string               `json:"subject,omitempty"`
	TextBody    *string               `json:"text_body,omitempty"`
	HTMLBody    *string               `json:"html_body,omitempty"`
	Priority    Priority              `json:"priority,omitempty"`
	Attachments map[string]Attachment `json:"attachments,omitempty"`
}
