package actionx

import "github.com/dmichel1/vigil/pkg/errx"

var actionxErrors = errx.NewRegistry("ACTIONX")

var (
	ErrParse            = actionxErrors.Register("PARSE", errx.TypeValidation, 400, "Invalid email action definition")
	ErrUnknownField     = actionxErrors.Register("UNKNOWN_FIELD", errx.TypeValidation, 400, "Unrecognized field in email action")
	ErrMissingAccount   = actionxErrors.Register("MISSING_ACCOUNT", errx.TypeValidation, 400, "Email action requires an account")
	ErrOrphanPassword   = actionxErrors.Register("ORPHAN_PASSWORD", errx.TypeValidation, 400, "Password given without a user")
	ErrUnknownPolicy    = actionxErrors.Register("UNKNOWN_POLICY", errx.TypeValidation, 400, "Unknown data attachment policy")
	ErrAttachmentEncode = actionxErrors.Register("ATTACHMENT_ENCODE", errx.TypeInternal, 500, "Failed to encode data attachment")
)
