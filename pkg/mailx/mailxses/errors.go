package mailxses

import "github.com/dmichel1/vigil/pkg/errx"

var sesErrors = errx.NewRegistry("MAILX_SES")

var (
	ErrSendFailed   = sesErrors.Register("SEND_FAILED", errx.TypeExternal, 502, "SES send email failed")
	ErrBuildMessage = sesErrors.Register("BUILD_MESSAGE", errx.TypeInternal, 500, "Failed to build SES message")
	ErrNoRecipients = sesErrors.Register("NO_RECIPIENTS", errx.TypeValidation, 400, "Email has no recipients")
)
