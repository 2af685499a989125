package httpclient

import (
	"errors"
	"fmt"

	apperrors "github.com/zillusion/capsule/errors"
)

// ErrorCode classifies client errors.
type ErrorCode int

const (
	ErrCodeTimeout ErrorCode = iota
	ErrCodeConnection
	ErrCodeAuth
	ErrCodeNotFound
	ErrCodeRateLimit
	ErrCodeValidation
	ErrCodeServer
	ErrCodeCircuitOpen
)

func (c ErrorCode) String() string {
	switch c {
	case ErrCodeTimeout:
		return "timeout"
	case ErrCodeConnection:
		return "connection"
	case ErrCodeAuth:
		return "auth"
	case ErrCodeNotFound:
		return "not_found"
	case ErrCodeRateLimit:
		return "rate_limit"
	case ErrCodeValidation:
		return "validation"
	case ErrCodeServer:
		return "server"
	case ErrCodeCircuitOpen:
		return "circuit_open"
	default:
		return "unknown"
	}
}

// Error is a classified HTTP client error.
type Error struct {
	// StatusCode is 0 for connection-level failures.
	StatusCode int
	Code       ErrorCode
	Message    string
	Body       []byte
	Err        error
}

func (e *Error) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("httpclient: %s (HTTP %d): %s", e.Code, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("httpclient: %s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func NewTimeoutError(err error) *Error {
	return &Error{Code: ErrCodeTimeout, Message: err.Error(), Err: err}
}

func NewConnectionError(err error) *Error {
	return &Error{Code: ErrCodeConnection, Message: err.Error(), Err: err}
}

// NewCircuitOpenError reports a request rejected by the named breaker.
func NewCircuitOpenError(name string, err error) *Error {
	msg := err.Error()
	if name != "" {
		msg = name + ": " + msg
	}
	return &Error{Code: ErrCodeCircuitOpen, Message: msg, Err: err}
}

func NewValidationError(msg string) *Error {
	return &Error{Code: ErrCodeValidation, Message: msg}
}

// ClassifyStatusCode converts a status code into an *Error, or nil for 2xx.
func ClassifyStatusCode(statusCode int, body []byte) *Error {
	e := &Error{StatusCode: statusCode, Message: fmt.Sprintf("HTTP %d", statusCode), Body: body}
	switch {
	case statusCode >= 200 && statusCode < 300:
		return nil
	case statusCode == 401 || statusCode == 403:
		e.Code = ErrCodeAuth
	case statusCode == 404:
		e.Code = ErrCodeNotFound
	case statusCode == 429:
		e.Code = ErrCodeRateLimit
	case statusCode >= 400 && statusCode < 500:
		e.Code = ErrCodeValidation
	default:
		e.Code = ErrCodeServer
	}
	return e
}

func asError(err error) (*Error, bool) {
	var e *Error
	ok := errors.As(err, &e)
	return e, ok
}

func IsTimeout(err error) bool {
	e, ok := asError(err)
	return ok && e.Code == ErrCodeTimeout
}

func IsNotFound(err error) bool {
	e, ok := asError(err)
	return ok && e.Code == ErrCodeNotFound
}

func IsAuth(err error) bool {
	e, ok := asError(err)
	return ok && e.Code == ErrCodeAuth
}

func IsCircuitOpen(err error) bool {
	e, ok := asError(err)
	return ok && e.Code == ErrCodeCircuitOpen
}

// IsUpstreamFailure reports errors that say the upstream is unwell, as
// opposed to errors caused by the request itself.
func IsUpstreamFailure(err error) bool {
	e, ok := asError(err)
	if !ok {
		return false
	}
	switch e.Code {
	case ErrCodeTimeout, ErrCodeConnection, ErrCodeServer, ErrCodeRateLimit:
		return true
	}
	return false
}

// IsRetryable reports upstream failures worth another attempt. An open
// breaker is not retried.
func IsRetryable(err error) bool {
	return IsUpstreamFailure(err)
}

// ToAppError converts an upstream failure into the AppError handlers render:
// an external service error tagged with the upstream name, plus the status
// or a timeout marker when known.
func ToAppError(service string, err error) *apperrors.AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := apperrors.AsAppError(err); ok {
		return appErr
	}
	appErr := apperrors.ExternalServiceError(service, err)
	if e, ok := asError(err); ok {
		if e.StatusCode > 0 {
			appErr.WithDetail("status", e.StatusCode)
		}
		switch e.Code {
		case ErrCodeTimeout:
			appErr.WithDetail("timeout", true)
		case ErrCodeCircuitOpen:
			appErr.WithDetail("circuit_open", true)
		}
	}
	return appErr
}

// AsResponseError rebuilds the AppError a capsule server sent in an error
// body. It returns nil when err carries no HTTP response.
func AsResponseError(err error) *apperrors.AppError {
	e, ok := asError(err)
	if !ok || e.StatusCode == 0 {
		return nil
	}
	return apperrors.FromResponse(e.StatusCode, e.Body)
}
