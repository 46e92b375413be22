package uuidify

import (
	"errors"
	"fmt"
	"net/http"
)

// Common errors
var (
	// ErrUuidify is matched by every failure the pipeline classifies
	ErrUuidify = errors.New("uuidify error")
	// ErrMissingKey indicates the response envelope lacks the key selected by count
	ErrMissingKey = errors.New("response is missing expected key")
	// ErrUnknownKind indicates an identifier kind name that cannot be parsed
	ErrUnknownKind = errors.New("unknown identifier kind")
)

// ConnectionError is returned when no HTTP response could be obtained.
type ConnectionError struct {
	Err error
}

// Error implements the error interface
func (e *ConnectionError) Error() string {
	return fmt.Sprintf("failed to connect to uuidify API: %v", e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

func (e *ConnectionError) Is(target error) bool { return target == ErrUuidify }

// APIError represents an error status reported by the uuidify service
type APIError struct {
	StatusCode int
	Message    string
	Body       string
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("uuidify API error %d: %s", e.StatusCode, e.Message)
}

func (e *APIError) Is(target error) bool { return target == ErrUuidify }

// IsNotFound checks if the error indicates a not found response
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// IsUnauthorized checks if the error indicates an authentication failure
func (e *APIError) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

// IsRateLimited checks if the service throttled the request
func (e *APIError) IsRateLimited() bool {
	return e.StatusCode == http.StatusTooManyRequests
}

// IsServerError checks if the service failed on its side
func (e *APIError) IsServerError() bool {
	return e.StatusCode >= 500
}

// DecodeError is returned when a successful response body cannot be parsed.
type DecodeError struct {
	Err error
}

// Error implements the error interface
func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to decode uuidify API response: %v", e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

func (e *DecodeError) Is(target error) bool { return target == ErrUuidify }
