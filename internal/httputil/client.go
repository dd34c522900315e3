package httputil

import (
	"net/http"
	"time"
)

// DefaultTimeout bounds every outbound provider call (inference, SMS). A
// timed-out call is treated like any other provider failure.
const DefaultTimeout = 10 * time.Second

// NewClient returns an HTTP client with standard timeout configuration.
func NewClient() *http.Client {
	return &http.Client{
		Timeout: DefaultTimeout,
	}
}

// NewClientWithTimeout returns an HTTP client with a caller-chosen timeout.
func NewClientWithTimeout(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
	}
}
