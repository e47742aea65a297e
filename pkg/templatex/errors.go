package templatex

import "github.com/dmichel1/vigil/pkg/errx"

var templatexErrors = errx.NewRegistry("TEMPLATEX")

var (
	ErrParse  = templatexErrors.Register("PARSE", errx.TypeValidation, 400, "Failed to parse template")
	ErrRender = templatexErrors.Register("RENDER", errx.TypeInternal, 500, "Failed to render template")
)
