package actionx

import "github.com/dmichel1/vigil/pkg/mailx"

// EmailAction is the immutable, declarative definition of a templated email
// notification. It is built once at rule-load time and safely shared across
// concurrent executions.
type EmailAction struct {
	Email      EmailTemplate
	Account    string
	Auth       *mailx.Authentication
	Profile    mailx.Profile
	AttachData DataAttachment
}

// NewEmailAction creates an action definition, applying the default profile
// when none is given.
func NewEmailAction(email EmailTemplate, account string, auth *mailx.Authentication, profile mailx.Profile, attachData DataAttachment) *EmailAction {
	if profile == "" {
		profile = mailx.DefaultProfile
	}
	return &EmailAction{
		Email:      email,
		Account:    account,
		Auth:       auth,
		Profile:    profile,
		AttachData: attachData,
	}
}

// Equal compares every field of two action definitions.
func (a *EmailAction) Equal(other *EmailAction) bool {
	if a == nil || other == nil {
		return a == other
	}
	return a.Email.Equal(&other.Email) &&
		a.Account == other.Account &&
		a.Auth.Equal(other.Auth) &&
		a.Profile == other.Profile &&
		a.AttachData == other.AttachData
}
