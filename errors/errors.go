package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is the text rendered to callers.
	Message string `json:"message"`
	// HTTPStatus is the status the HTTP layer responds with.
	HTTPStatus int `json:"-"`
	// Details holds log-only context such as the resource name or field.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error.
	Cause error `json:"-"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error { return e.Cause }

// WithCause sets the underlying cause and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetail sets a single detail and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// IsServerError reports whether the error maps to a 5xx status.
func (e *AppError) IsServerError() bool {
	return e.HTTPStatus >= http.StatusInternalServerError
}

// New creates an AppError.
func New(code ErrorCode, message string, httpStatus int) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: httpStatus}
}

// --- constructors ---

// NotFound reports an unknown resource, or one the caller does not own.
// The message reads "<resource> not found".
func NotFound(resource, id string) *AppError {
	e := New(ErrCodeNotFound, resource+" not found", http.StatusNotFound).WithDetail("resource", resource)
	if id != "" {
		e.WithDetail("id", id)
	}
	return e
}

func InvalidInput(field, reason string) *AppError {
	e := New(ErrCodeInvalidInput, fmt.Sprintf("Invalid input: %s", reason), http.StatusBadRequest)
	if field != "" {
		e.WithDetail("field", field)
	}
	return e
}

func MissingField(field string) *AppError {
	return New(ErrCodeMissingField, fmt.Sprintf("Missing required field: %s", field), http.StatusBadRequest).
		WithDetail("field", field)
}

// Malformed reports a payload whose shape cannot be interpreted.
func Malformed(what string, cause error) *AppError {
	return New(ErrCodeMalformedInput, fmt.Sprintf("Malformed %s", what), http.StatusUnprocessableEntity).
		WithCause(cause)
}

func Unauthorized(reason string) *AppError {
	if reason == "" {
		reason = "Authentication required"
	}
	return New(ErrCodeUnauthorized, reason, http.StatusUnauthorized)
}

func Forbidden(reason string) *AppError {
	if reason == "" {
		reason = "Access denied"
	}
	return New(ErrCodeForbidden, reason, http.StatusForbidden)
}

func InvalidToken() *AppError {
	return New(ErrCodeInvalidToken, "Invalid token", http.StatusUnauthorized)
}

func TokenExpired() *AppError {
	return New(ErrCodeTokenExpired, "Token expired", http.StatusUnauthorized)
}

func Internal(cause error) *AppError {
	return New(ErrCodeInternal, "An error occurred", http.StatusInternalServerError).WithCause(cause)
}

func DatabaseError(cause error) *AppError {
	return New(ErrCodeDatabaseError, "An error occurred", http.StatusInternalServerError).WithCause(cause)
}

// ExternalServiceError reports a failing upstream such as object storage or
// the transcription engine.
func ExternalServiceError(service string, cause error) *AppError {
	return New(ErrCodeExternalService, "An error occurred", http.StatusInternalServerError).
		WithDetail("service", service).
		WithCause(cause)
}

func ServiceUnavailable(service string) *AppError {
	return New(ErrCodeServiceUnavailable, fmt.Sprintf("The %s is temporarily unavailable", service), http.StatusServiceUnavailable).
		WithDetail("service", service)
}

func Timeout(operation string) *AppError {
	return New(ErrCodeTimeout, "The request took too long", http.StatusGatewayTimeout).
		WithDetail("operation", operation)
}

// --- inspection ---

// AsAppError extracts an AppError from err's chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsCode reports whether err's chain holds an AppError with code.
func IsCode(err error, code ErrorCode) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Code == code
}

// Wrap returns err as an AppError, wrapping unknown errors as Internal.
func Wrap(err error) *AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := AsAppError(err); ok {
		return appErr
	}
	return Internal(err)
}
