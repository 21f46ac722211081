// Package providers defines the shared error taxonomy for the external
// service clients. Each client classifies its own failures so the retry
// policy can stay provider-agnostic.
package providers

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// Error is a classified failure from a provider HTTP call.
type Error struct {
	Service    string
	StatusCode int
	Message    string
	Timeout    bool
}

func (e *Error) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s: %s (status %d)", e.Service, e.Message, e.StatusCode)
	}

	return fmt.Sprintf("%s: %s", e.Service, e.Message)
}

// Retryable reports whether the failure is transient: rate limiting,
// server errors, and timeouts qualify, everything else is fatal.
func (e *Error) Retryable() bool {
	if e.Timeout {
		return true
	}

	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

func NewError(service string, statusCode int, message string) *Error {
	return &Error{Service: service, StatusCode: statusCode, Message: message}
}

func NewTimeoutError(service string, message string) *Error {
	return &Error{Service: service, Message: message, Timeout: true}
}

// WrapTransport classifies a transport-level error (no HTTP response).
func WrapTransport(service string, err error) *Error {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return NewTimeoutError(service, err.Error())
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return NewTimeoutError(service, err.Error())
	}

	return &Error{Service: service, Message: err.Error()}
}

// IsRetryable reports whether err should be retried by the retry policy.
func IsRetryable(err error) bool {
	var providerErr *Error
	if errors.As(err, &providerErr) {
		return providerErr.Retryable()
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	return errors.Is(err, context.DeadlineExceeded)
}

// IsAuthError reports whether err is an authorization failure (401).
func IsAuthError(err error) bool {
	var providerErr *Error

	return errors.As(err, &providerErr) && providerErr.StatusCode == http.StatusUnauthorized
}
