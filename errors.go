package dpd

import (
	"errors"
	"fmt"
)

// Error type identifiers carried by ClientError.Type.
const (
	ErrorTypeInvalidParam = "InvalidParameter"
	ErrorTypeHTTP         = "HTTP"
	ErrorTypeDecode       = "Decode"
	ErrorTypeTransport    = "Transport"
	ErrorTypeRateLimit    = "RateLimit"
	ErrorTypeValidation   = "Validation"
)

// maxBodySnippet bounds the response body captured into errors.
const maxBodySnippet = 512

// ClientError is the error type returned by every failing call. Type
// distinguishes the failure class; the remaining fields carry whatever
// diagnostic context was available when the call failed.
type ClientError struct {
	Type       string
	Message    string
	Endpoint   string
	URL        string
	StatusCode int
	Body       string
	Attempt    int
	MaxRetries int
	RequestID  string
	Cause      error
}

// Error implements error interface.
func (e *ClientError) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := fmt.Sprintf("%s: %s", e.Type, e.Message)
	if e.StatusCode > 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.StatusCode)
	}
	if e.Cause != nil {
		msg = fmt.Sprintf("%s (%v)", msg, e.Cause)
	}
	if e.RequestID != "" {
		msg = fmt.Sprintf("[%s] %s", e.RequestID, msg)
	}
	if e.Attempt > 0 {
		msg = fmt.Sprintf("%s (attempt %d/%d)", msg, e.Attempt, e.MaxRetries)
	}
	return msg
}

// Unwrap returns the underlying cause.
func (e *ClientError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Is compares error types for errors.Is.
func (e *ClientError) Is(target error) bool {
	if e == nil {
		return false
	}
	if targetErr, ok := target.(*ClientError); ok {
		return e.Type == targetErr.Type
	}
	return false
}

// IsTransient determines if an error represents a transient failure that
// might succeed on retry. Returns true for transport errors, 5xx responses
// and rate limiting (429). Returns false for 4xx client errors (except
// 429), decode failures and parameter validation errors.
func IsTransient(err error) bool {
	if err == nil {
		return false
	}
	var clientErr *ClientError
	if !errors.As(err, &clientErr) {
		return false
	}
	switch clientErr.Type {
	case ErrorTypeTransport, ErrorTypeRateLimit:
		return true
	case ErrorTypeHTTP:
		return clientErr.StatusCode == 429 || clientErr.StatusCode >= 500
	default:
		return false
	}
}

// IsInvalidParam reports whether err is a parameter validation failure.
func IsInvalidParam(err error) bool {
	var clientErr *ClientError
	return errors.As(err, &clientErr) && clientErr.Type == ErrorTypeInvalidParam
}

// IsDecodeError reports whether err is a response decoding failure.
func IsDecodeError(err error) bool {
	var clientErr *ClientError
	return errors.As(err, &clientErr) && clientErr.Type == ErrorTypeDecode
}

// IsHTTPError reports whether err carries a non-2xx upstream status.
func IsHTTPError(err error) bool {
	var clientErr *ClientError
	return errors.As(err, &clientErr) && clientErr.Type == ErrorTypeHTTP
}

func newInvalidParamError(endpoint, message string) *ClientError {
	return &ClientError{
		Type:     ErrorTypeInvalidParam,
		Message:  message,
		Endpoint: endpoint,
	}
}

func bodySnippet(body []byte) string {
	if len(body) > maxBodySnippet {
		return string(body[:maxBodySnippet])
	}
	return string(body)
}
