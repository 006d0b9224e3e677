package llm

import (
	"context"
	"errors"
	"fmt"
)

// Generator turns a prompt into raw model text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ErrMissingAPIKey is the configuration error returned when no API key is set.
var ErrMissingAPIKey = errors.New("generative API key is not configured")

// UpstreamError reports a non-success status or an unexpected response shape
// from the generative API.
type UpstreamError struct {
	StatusCode int
	Body       string
	Reason     string
}

func (e *UpstreamError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("generative api: %s (status %d)", e.Reason, e.StatusCode)
	}
	return fmt.Sprintf("generative api http status %d: %s", e.StatusCode, e.Body)
}

// IsUpstream reports whether err is or wraps an *UpstreamError.
func IsUpstream(err error) bool {
	var upstream *UpstreamError
	return errors.As(err, &upstream)
}
