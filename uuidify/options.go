package uuidify

import (
	"net/http"
	"time"
)

const (
	// DefaultBaseURL is the public uuidify service
	DefaultBaseURL = "https://api.uuidify.io"
	// DefaultTimeout bounds a single round trip
	DefaultTimeout = 10 * time.Second
	// DefaultConcurrency limits in-flight requests in GenerateBatch
	DefaultConcurrency = 4
	// Version is reported in the default User-Agent
	Version = "0.1.0"
)

// Option configures a Client.
type Option func(*clientOptions)

// clientOptions holds configuration options for the Client.
type clientOptions struct {
	timeout     time.Duration
	httpClient  *http.Client
	userAgent   string
	concurrency int
}

func defaultOptions() clientOptions {
	return clientOptions{
		timeout:     DefaultTimeout,
		userAgent:   "uuidify-go/" + Version,
		concurrency: DefaultConcurrency,
	}
}

// WithTimeout sets the HTTP client timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(o *clientOptions) {
		if timeout > 0 {
			o.timeout = timeout
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client. A client without a
// Timeout is copied and given the configured timeout.
func WithHTTPClient(client *http.Client) Option {
	return func(o *clientOptions) {
		o.httpClient = client
	}
}

// WithUserAgent sets a custom user agent string.
func WithUserAgent(userAgent string) Option {
	return func(o *clientOptions) {
		if userAgent != "" {
			o.userAgent = userAgent
		}
	}
}

// WithConcurrency sets how many requests GenerateBatch keeps in flight.
func WithConcurrency(n int) Option {
	return func(o *clientOptions) {
		if n > 0 {
			o.concurrency = n
		}
	}
}
