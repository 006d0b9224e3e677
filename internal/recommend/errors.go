package recommend

import (
	"context"
	"errors"

	"storefront-backend/internal/llm"
)

// ErrParse is returned when model text holds no decodable JSON array.
var ErrParse = errors.New("recommendation response is not a JSON array")

// Error kinds recorded on events and metrics.
const (
	ErrorKindConfiguration = "configuration"
	ErrorKindUpstream      = "upstream"
	ErrorKindParse         = "parse"
	ErrorKindCanceled      = "canceled"
	ErrorKindTransport     = "transport"
)

// ErrorKind classifies a pipeline failure. It returns "" for nil.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, llm.ErrMissingAPIKey):
		return ErrorKindConfiguration
	case llm.IsUpstream(err):
		return ErrorKindUpstream
	case errors.Is(err, ErrParse):
		return ErrorKindParse
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ErrorKindCanceled
	default:
		return ErrorKindTransport
	}
}
