package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrSessionNotFound signals an unknown or evicted search session.
	ErrSessionNotFound = errors.New("session not found")
	// ErrInvalidQuery signals a malformed command or query parameter.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrUpstream signals a failed call to the platform API.
	ErrUpstream = errors.New("upstream error")
	// ErrUnauthorized signals that the platform API rejected the forwarded credentials.
	ErrUnauthorized = errors.New("unauthorized")
)

// KeyPrefix namespaces every key this service writes to a shared cache.
const KeyPrefix = "novelsearch:"

// UpstreamError wraps ErrUpstream with the failing endpoint and HTTP status.
// Status is 0 when the request never produced a response.
type UpstreamError struct {
	Endpoint string
	Status   int
	Err      error
}

func (e *UpstreamError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("%s: %s: %v", ErrUpstream.Error(), e.Endpoint, e.Err)
	}
	return fmt.Sprintf("%s: %s: status %d", ErrUpstream.Error(), e.Endpoint, e.Status)
}

// Unwrap lets errors.Is match both ErrUpstream and ErrUnauthorized.
func (e *UpstreamError) Unwrap() []error {
	errs := []error{ErrUpstream}
	if e.Status == 401 || e.Status == 403 {
		errs = append(errs, ErrUnauthorized)
	}
	if e.Status == 404 {
		errs = append(errs, ErrNotFound)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

// NewUpstreamError creates an upstream error for a non-2xx response.
func NewUpstreamError(endpoint string, status int) error {
	return &UpstreamError{Endpoint: endpoint, Status: status}
}
