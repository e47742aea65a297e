// Package mailxses delivers email through AWS SES. Accounts resolve to
// named delivery configurations; messages with attachments go through the
// raw MIME path.
package mailxses

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"

	"github.com/dmichel1/vigil/pkg/mailx"
)

// SESService implements mailx.Service using AWS SES.
type SESService struct {
	client         *ses.Client
	accounts       mailx.AccountStore
	defaultAccount string
}

// NewSESService creates a new SES delivery backend. accounts may be nil, in
// which case account names are used verbatim with no stored defaults.
func NewSESService(client *ses.Client, accounts mailx.AccountStore, defaultAccount string) *SESService {
	return &SESService{
		client:         client,
		accounts:       accounts,
		defaultAccount: defaultAccount,
	}
}

// Send delivers through the backend's default account.
//
// TODO: map per-action credentials onto an STS assume-role so actions can
// send through accounts owned by another AWS principal.
func (s *SESService) Send(ctx context.Context, email mailx.Email, auth *mailx.Authentication, profile mailx.Profile) (*mailx.Sent, error) {
	return s.SendAs(ctx, email, auth, profile, s.defaultAccount)
}

// SendAs delivers through the named account.
func (s *SESService) SendAs(ctx context.Context, email mailx.Email, auth *mailx.Authentication, profile mailx.Profile, account string) (*mailx.Sent, error) {
	if len(email.To) == 0 && len(email.CC) == 0 && len(email.BCC) == 0 {
		return nil, sesErrors.New(ErrNoRecipients).WithDetail("email_id", email.ID)
	}

	var stored *mailx.Account
	if s.accounts != nil {
		found, err := s.accounts.Get(ctx, account)
		if err == nil {
			stored = found
		}
	}

	if len(email.From) == 0 && stored != nil && stored.DefaultFrom != "" {
		from, err := mailx.ParseAddress(stored.DefaultFrom)
		if err != nil {
			return nil, sesErrors.NewWithCause(ErrBuildMessage, err).WithDetail("account", account)
		}
		email.From = []mailx.Address{from}
	}

	var err error
	if len(email.Attachments) > 0 {
		err = s.sendRaw(ctx, email, profile, stored)
	} else {
		err = s.sendSimple(ctx, email, stored)
	}
	if err != nil {
		return nil, sesErrors.NewWithCause(ErrSendFailed, err).
			WithDetail("account", account).
			WithDetail("email_id", email.ID)
	}

	return &mailx.Sent{Account: account, Email: email}, nil
}

func (s *SESService) sendSimple(ctx context.Context, email mailx.Email, stored *mailx.Account) error {
	dest := &types.Destination{
		ToAddresses:  addressStrings(email.To),
		CcAddresses:  addressStrings(email.CC),
		BccAddresses: addressStrings(email.BCC),
	}

	body := &types.Body{}
	if email.TextBody != nil {
		body.Text = &types.Content{
			Data:    aws.String(*email.TextBody),
			Charset: aws.String("UTF-8"),
		}
	}
	if email.HTMLBody != nil {
		body.Html = &types.Content{
			Data:    aws.String(*email.HTMLBody),
			Charset: aws.String("UTF-8"),
		}
	}

	subject := ""
	if email.Subject != nil {
		subject = *email.Subject
	}

	input := &ses.SendEmailInput{
		Source:      aws.String(sourceAddress(email)),
		Destination: dest,
		Message: &types.Message{
			Subject: &types.Content{
				Data:    aws.String(subject),
				Charset: aws.String("UTF-8"),
			},
			Body: body,
		},
	}

	if len(email.ReplyTo) > 0 {
		input.ReplyToAddresses = addressStrings(email.ReplyTo)
	} else if stored != nil && stored.ReplyTo != "" {
		input.ReplyToAddresses = []string{stored.ReplyTo}
	}
	if stored != nil && stored.ConfigurationSet != "" {
		input.ConfigurationSetName = aws.String(stored.ConfigurationSet)
	}

	_, err := s.client.SendEmail(ctx, input)
	return err
}

func (s *SESService) sendRaw(ctx context.Context, email mailx.Email, profile mailx.Profile, stored *mailx.Account) error {
	raw, err := buildRawMessage(email, profile)
	if err != nil {
		return err
	}

	input := &ses.SendRawEmailInput{
		Source:       aws.String(sourceAddress(email)),
		Destinations: allRecipients(email),
		RawMessage:   &types.RawMessage{Data: raw},
	}
	if stored != nil && stored.ConfigurationSet != "" {
		input.ConfigurationSetName = aws.String(stored.ConfigurationSet)
	}

	_, err = s.client.SendRawEmail(ctx, input)
	return err
}

func sourceAddress(email mailx.Email) string {
	if len(email.From) > 0 {
		return email.From[0].String()
	}
	return ""
}

func addressStrings(addrs []mailx.Address) []string {
	if len(addrs) == 0 {
		return nil
	}
	out := make([]string, len(addrs))
	for i, addr := range addrs {
		out[i] = addr.String()
	}
	return out
}

func allRecipients(email mailx.Email) []string {
	var out []string
	out = append(out, addressStrings(email.To)...)
	out = append(out, addressStrings(email.CC)...)
	out = append(out, addressStrings(email.BCC)...)
	return out
}
