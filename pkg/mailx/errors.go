package mailx

import "github.com/dmichel1/vigil/pkg/errx"

var mailxErrors = errx.NewRegistry("MAILX")

var (
	ErrInvalidAddress  = mailxErrors.Register("INVALID_ADDRESS", errx.TypeValidation, 400, "Invalid email address")
	ErrUnknownProfile  = mailxErrors.Register("UNKNOWN_PROFILE", errx.TypeValidation, 400, "Unknown email profile")
	ErrUnknownPriority = mailxErrors.Register("UNKNOWN_PRIORITY", errx.TypeValidation, 400, "Unknown email priority")
	ErrSendFailed      = mailxErrors.Register("SEND_FAILED", errx.TypeExternal, 502, "Failed to send email")
	ErrAccountNotFound = mailxErrors.Register("ACCOUNT_NOT_FOUND", errx.TypeNotFound, 404, "Email account not found")
)

// ErrAccountNotFoundError builds the not-found error for a named account.
func ErrAccountNotFoundError(name string) *errx.Error {
	return mailxErrors.New(ErrAccountNotFound).WithDetail("account", name)
}
