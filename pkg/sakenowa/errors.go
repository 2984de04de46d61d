package sakenowa

import (
	"errors"
	"fmt"
)

// ErrorKind classifies catalog client failures.
type ErrorKind string

const (
	// KindNetwork covers transport failures and non-2xx responses.
	KindNetwork ErrorKind = "network"
	// KindFormat covers well-formed JSON that matches no recognized shape
	// for the endpoint.
	KindFormat ErrorKind = "format"
)

// Error is a structured catalog client error. The Retryable flag feeds the
// retry package's RetryableError interface: transport failures and 5xx/429
// responses are worth retrying, format mismatches never are.
type Error struct {
	Kind       ErrorKind
	Endpoint   Endpoint
	StatusCode int    // HTTP status if applicable
	Body       string // response body snippet for diagnostics
	Message    string
	Retryable  bool
	Cause      error
}

// Error implements the error interface.
func (e *Error) Error() string {
	msg := fmt.Sprintf("sakenowa %s: %s error: %s", e.Endpoint, e.Kind, e.Message)
	if e.StatusCode > 0 {
		msg = fmt.Sprintf("%s (HTTP %d)", msg, e.StatusCode)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

// Unwrap returns the underlying cause for errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// IsRetryable implements the retry.RetryableError interface.
func (e *Error) IsRetryable() bool {
	return e.Retryable
}

// IsNetworkError reports whether err is a catalog transport/HTTP failure.
func IsNetworkError(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == KindNetwork
}

// IsFormatError reports whether err is an unrecognized-shape failure.
func IsFormatError(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == KindFormat
}

func newNetworkError(endpoint Endpoint, message string, statusCode int, body string, retryable bool, cause error) *Error {
	return &Error{
		Kind:       KindNetwork,
		Endpoint:   endpoint,
		StatusCode: statusCode,
		Body:       body,
		Message:    message,
		Retryable:  retryable,
		Cause:      cause,
	}
}

func newFormatError(endpoint Endpoint, message string, cause error) *Error {
	return &Error{
		Kind:     KindFormat,
		Endpoint: endpoint,
		Message:  message,
		Cause:    cause,
	}
}
