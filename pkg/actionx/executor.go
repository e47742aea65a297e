package actionx

import (
	"context"
	"fmt"

	"github.com/microcosm-cc/bluemonday"

	"github.com/dmichel1/vigil/pkg/logx"
	"github.com/dmichel1/vigil/pkg/mailx"
	"github.com/dmichel1/vigil/pkg/templatex"
	"github.com/dmichel1/vigil/pkg/watchx"
)

// htmlSanitizer strips active content from rendered HTML bodies. Safe for
// concurrent use once constructed.
var htmlSanitizer = bluemonday.UGCPolicy()

// Executable is an email action bound to the delivery backend and template
// engine it executes against. Immutable and safe for concurrent executions.
type Executable struct {
	action  *EmailAction
	service mailx.Service
	engine  templatex.Engine
}

// NewExecutable binds an action definition to its collaborators.
func NewExecutable(action *EmailAction, service mailx.Service, engine templatex.Engine) *Executable {
	return &Executable{action: action, service: service, engine: engine}
}

// Action returns the underlying definition.
func (x *Executable) Action() *EmailAction {
	return x.action
}

// Equal compares the underlying definitions; collaborators are identity.
func (x *Executable) Equal(other *Executable) bool {
	if x == nil || other == nil {
		return x == other
	}
	return x.action.Equal(other.action)
}

// Document serializes the underlying definition.
func (x *Executable) Document(params SerializeParams) map[string]interface{} {
	return x.action.Document(params)
}

// Execute renders every templated field against one model snapshot, attaches
// the payload per the attachment policy, and dispatches the message. Every
// render, encoding, or delivery error is converted into a Failure result;
// Execute never fails the caller.
func (x *Executable) Execute(ctx context.Context, actionID string, ectx *watchx.ExecutionContext, payload watchx.Payload) Result {
	model := watchx.Model(ectx, payload)

	email := mailx.Email{ID: ectx.Wid.Value()}

	var err error
	if email.From, err = x.renderAddresses(x.action.Email.From, model); err != nil {
		return x.failure(actionID, ectx, "failed to render from addresses", err)
	}
	if email.To, err = x.renderAddresses(x.action.Email.To, model); err != nil {
		return x.failure(actionID, ectx, "failed to render to addresses", err)
	}
	if email.CC, err = x.renderAddresses(x.action.Email.CC, model); err != nil {
		return x.failure(actionID, ectx, "failed to render cc addresses", err)
	}
	if email.BCC, err = x.renderAddresses(x.action.Email.BCC, model); err != nil {
		return x.failure(actionID, ectx, "failed to render bcc addresses", err)
	}
	if email.ReplyTo, err = x.renderAddresses(x.action.Email.ReplyTo, model); err != nil {
		return x.failure(actionID, ectx, "failed to render reply_to addresses", err)
	}

	if email.Subject, err = x.renderOptional(x.action.Email.Subject, model); err != nil {
		return x.failure(actionID, ectx, "failed to render subject", err)
	}
	if email.TextBody, err = x.renderOptional(x.action.Email.TextBody, model); err != nil {
		return x.failure(actionID, ectx, "failed to render text body", err)
	}
	if email.HTMLBody, err = x.renderOptional(x.action.Email.HTMLBody, model); err != nil {
		return x.failure(actionID, ectx, "failed to render html body", err)
	}
	if email.HTMLBody != nil && x.action.Email.SanitizeHTML {
		sanitized := htmlSanitizer.Sanitize(*email.HTMLBody)
		email.HTMLBody = &sanitized
	}

	if x.action.Email.Priority != nil {
		rendered, err := x.engine.Render(*x.action.Email.Priority, model)
		if err != nil {
			return x.failure(actionID, ectx, "failed to render priority", err)
		}
		if email.Priority, err = mailx.ParsePriority(rendered); err != nil {
			return x.failure(actionID, ectx, "failed to resolve priority", err)
		}
	}

	if x.action.AttachData != DataAttachmentNone {
		attachPayload := payload
		if attachPayload == nil {
			attachPayload = ectx.Payload
		}
		attachment, err := x.action.AttachData.Encode(attachPayload)
		if err != nil {
			return x.failure(actionID, ectx, "failed to encode data attachment", err)
		}
		email.Attachments = map[string]mailx.Attachment{attachment.Name: attachment}
	}

	var sent *mailx.Sent
	if x.action.Auth != nil && x.action.Profile != "" {
		sent, err = x.service.Send(ctx, email, x.action.Auth, x.action.Profile)
	} else {
		sent, err = x.service.SendAs(ctx, email, x.action.Auth, x.action.Profile, x.action.Account)
	}
	if err != nil {
		return x.failure(actionID, ectx, "failed to send email", err)
	}

	logx.WithFields(logx.Fields{
		"watch_id":  ectx.WatchID,
		"action_id": actionID,
		"account":   sent.Account,
		"email_id":  sent.Email.ID,
	}).Debug("actionx: email sent")

	return Success{Account: sent.Account, Email: sent.Email}
}

func (x *Executable) renderAddresses(tmpls []templatex.Template, model templatex.Model) ([]mailx.Address, error) {
	if len(tmpls) == 0 {
		return nil, nil
	}
	addrs := make([]mailx.Address, 0, len(tmpls))
	for _, tmpl := range tmpls {
		rendered, err := x.engine.Render(tmpl, model)
		if err != nil {
			return nil, err
		}
		addr, err := mailx.ParseAddress(rendered)
		if err != nil {
			return nil, err
		}
		addrs = append(addrs, addr)
	}
	return addrs, nil
}

// renderOptional keeps absent templates absent; they never render down to
// an empty string.
func (x *Executable) renderOptional(tmpl *templatex.Template, model templatex.Model) (*string, error) {
	if tmpl == nil {
		return nil, nil
	}
	rendered, err := x.engine.Render(*tmpl, model)
	if err != nil {
		return nil, err
	}
	return &rendered, nil
}

func (x *Executable) failure(actionID string, ectx *watchx.ExecutionContext, msg string, err error) Failure {
	logx.WithError(err).WithFields(logx.Fields{
		"watch_id":  ectx.WatchID,
		"action_id": actionID,
	}).Error("actionx: " + msg)
	return Failure{Reason: fmt.Sprintf("%s: %v", msg, err)}
}
