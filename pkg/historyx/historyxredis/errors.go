package historyxredis

import "github.com/dmichel1/vigil/pkg/errx"

var redisErrors = errx.NewRegistry("HISTORYX_REDIS")

var (
	ErrMarshal = redisErrors.Register("MARSHAL", errx.TypeInternal, 500, "Failed to marshal history record")
	ErrWrite   = redisErrors.Register("WRITE", errx.TypeExternal, 502, "Failed to write history record")
	ErrRead    = redisErrors.Register("READ", errx.TypeExternal, 502, "Failed to read history records")
)
