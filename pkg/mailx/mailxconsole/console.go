// Package mailxconsole prints emails to the terminal via logx instead of
// delivering them. Intended for development and testing.
package mailxconsole

import (
	"context"
	"strings"

	"github.com/dmichel1/vigil/pkg/logx"
	"github.com/dmichel1/vigil/pkg/mailx"
)

// DefaultAccount is the account name reported when none is given.
const DefaultAccount = "console"

// ConsoleService implements mailx.Service by logging messages.
type ConsoleService struct{}

// NewConsoleService creates a new console delivery backend.
func NewConsoleService() *ConsoleService {
	return &ConsoleService{}
}

// Send logs the email through the default account.
func (s *ConsoleService) Send(_ context.Context, email mailx.Email, auth *mailx.Authentication, profile mailx.Profile) (*mailx.Sent, error) {
	return s.deliver(email, auth, profile, DefaultAccount)
}

// SendAs logs the email as if delivered through the named account.
func (s *ConsoleService) SendAs(_ context.Context, email mailx.Email, auth *mailx.Authentication, profile mailx.Profile, account string) (*mailx.Sent, error) {
	return s.deliver(email, auth, profile, account)
}

func (s *ConsoleService) deliver(email mailx.Email, auth *mailx.Authentication, profile mailx.Profile, account string) (*mailx.Sent, error) {
	fields := logx.Fields{
		"account":  account,
		"profile":  profile.String(),
		"email_id": email.ID,
		"to":       joinAddresses(email.To),
	}
	if auth != nil {
		fields["user"] = auth.User
	}
	if email.Subject != nil {
		fields["subject"] = *email.Subject
	}
	logx.WithFields(fields).Info("mailx/console: email sent (dev mode)")

	if email.TextBody != nil {
		logx.Debugf("mailx/console: text body:\n%s", *email.TextBody)
	}
	if email.HTMLBody != nil {
		logx.Debugf("mailx/console: html body:\n%s", *email.HTMLBody)
	}
	for name, attachment := range email.Attachments {
		logx.Debugf("mailx/console: attachment %s (%s, %d bytes)", name, attachment.ContentType, len(attachment.Data))
	}

	return &mailx.Sent{Account: account, Email: email}, nil
}

func joinAddresses(addrs []mailx.Address) string {
	parts := make([]string, len(addrs))
	for i, addr := range addrs {
		parts[i] = addr.String()
	}
	return strings.Join(parts, ", ")
}
