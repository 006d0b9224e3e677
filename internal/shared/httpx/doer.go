package httpx

import (
	"net/http"
	"time"
)

const defaultTimeout = 30 * time.Second

// Doer sends an HTTP request. *http.Client satisfies it; tests pass a DoerFunc.
type Doer interface {
	Do(req *http.Request) (*http.Response, error)
}

// DoerFunc adapts a function to Doer.
type DoerFunc func(req *http.Request) (*http.Response, error)

// Do calls f(req).
func (f DoerFunc) Do(req *http.Request) (*http.Response, error) {
	return f(req)
}

// NewClient returns an *http.Client with the given timeout.
func NewClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &http.Client{Timeout: timeout}
}
