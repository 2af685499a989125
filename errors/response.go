package errors

import (
	"encoding/json"
	"net/http"
	"strings"
)

// ErrorResponse is the JSON body of every failed request.
//
//	{"error":"File not found","code":"NOT_FOUND"}
//	{"error":"An error occurred","code":"EXTERNAL_SERVICE_ERROR","details":"deepgram: 502"}
type ErrorResponse struct {
	Error   string    `json:"error"`
	Code    ErrorCode `json:"code,omitempty"`
	Details string    `json:"details,omitempty"`
}

// ToResponse converts an AppError to its wire form. Server errors carry the
// cause text in details; client errors never do.
func (e *AppError) ToResponse() ErrorResponse {
	resp := ErrorResponse{Error: e.Message, Code: e.Code}
	if e.IsServerError() && e.Cause != nil {
		resp.Details = e.Cause.Error()
	}
	return resp
}

// FromResponse rebuilds an AppError from a non-2xx response.
func FromResponse(status int, body []byte) *AppError {
	var resp ErrorResponse
	if err := json.Unmarshal(body, &resp); err != nil || resp.Error == "" {
		msg := strings.TrimSpace(string(body))
		if msg == "" {
			msg = http.StatusText(status)
		}
		return New(codeForStatus(status), msg, status)
	}
	code := resp.Code
	if code == "" {
		code = codeForStatus(status)
	}
	e := New(code, resp.Error, status)
	if resp.Details != "" {
		e.WithDetail("details", resp.Details)
	}
	return e
}
