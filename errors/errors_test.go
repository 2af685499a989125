package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestNotFound_WireMessage(t *testing.T) {
	err := NotFound("File", "abc")
	if err.Code != ErrCodeNotFound {
		t.Errorf("expected NOT_FOUND, got %s", err.Code)
	}
	if err.HTTPStatus != http.StatusNotFound {
		t.Errorf("expected 404, got %d", err.HTTPStatus)
	}
	if err.Message != "File not found" {
		t.Errorf("expected 'File not found', got %q", err.Message)
	}
	if err.Details["id"] != "abc" {
		t.Errorf("expected id=abc, got %v", err.Details["id"])
	}
}

func TestNotFound_EmptyID(t *testing.T) {
	err := NotFound("File", "")
	if _, ok := err.Details["id"]; ok {
		t.Error("expected no 'id' key in details when id is empty")
	}
}

func TestConstructorsStatus(t *testing.T) {
	cause := fmt.Errorf("boom")
	tests := []struct {
		name   string
		err    *AppError
		code   ErrorCode
		status int
	}{
		{"invalid input", InvalidInput("limit", "must be a number"), ErrCodeInvalidInput, http.StatusBadRequest},
		{"missing field", MissingField("key"), ErrCodeMissingField, http.StatusBadRequest},
		{"malformed", Malformed("transcript", cause), ErrCodeMalformedInput, http.StatusUnprocessableEntity},
		{"unauthorized", Unauthorized("No token provided"), ErrCodeUnauthorized, http.StatusUnauthorized},
		{"forbidden", Forbidden(""), ErrCodeForbidden, http.StatusForbidden},
		{"invalid token", InvalidToken(), ErrCodeInvalidToken, http.StatusUnauthorized},
		{"expired", TokenExpired(), ErrCodeTokenExpired, http.StatusUnauthorized},
		{"internal", Internal(cause), ErrCodeInternal, http.StatusInternalServerError},
		{"database", DatabaseError(cause), ErrCodeDatabaseError, http.StatusInternalServerError},
		{"external", ExternalServiceError("storage", cause), ErrCodeExternalService, http.StatusInternalServerError},
		{"unavailable", ServiceUnavailable("database"), ErrCodeServiceUnavailable, http.StatusServiceUnavailable},
		{"timeout", Timeout("analysis"), ErrCodeTimeout, http.StatusGatewayTimeout},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.err.Code != tc.code {
				t.Errorf("expected code %s, got %s", tc.code, tc.err.Code)
			}
			if tc.err.HTTPStatus != tc.status {
				t.Errorf("expected status %d, got %d", tc.status, tc.err.HTTPStatus)
			}
		})
	}
}

func TestUnauthorized_DefaultReason(t *testing.T) {
	if got := Unauthorized("").Message; got != "Authentication required" {
		t.Errorf("expected default reason, got %q", got)
	}
}

func TestErrorString(t *testing.T) {
	err := Internal(fmt.Errorf("disk full"))
	if !strings.Contains(err.Error(), "disk full") {
		t.Errorf("expected cause in error string, got %q", err.Error())
	}
	if !strings.HasPrefix(NotFound("File", "").Error(), "NOT_FOUND") {
		t.Errorf("expected code prefix, got %q", NotFound("File", "").Error())
	}
}

func TestUnwrapAndAs(t *testing.T) {
	cause := fmt.Errorf("root")
	wrapped := fmt.Errorf("outer: %w", DatabaseError(cause))

	appErr, ok := AsAppError(wrapped)
	if !ok {
		t.Fatal("expected AsAppError to find the AppError")
	}
	if !stderrors.Is(appErr, cause) {
		t.Error("expected errors.Is to reach the cause")
	}
	if !IsCode(wrapped, ErrCodeDatabaseError) {
		t.Error("expected IsCode to match DATABASE_ERROR")
	}
	if IsCode(stderrors.New("plain"), ErrCodeDatabaseError) {
		t.Error("expected IsCode false for plain errors")
	}
}

func TestWrap(t *testing.T) {
	if Wrap(nil) != nil {
		t.Error("expected nil for nil error")
	}
	nf := NotFound("File", "1")
	if Wrap(nf) != nf {
		t.Error("expected AppError to pass through unchanged")
	}
	if got := Wrap(stderrors.New("x")); got.Code != ErrCodeInternal {
		t.Errorf("expected INTERNAL_ERROR, got %s", got.Code)
	}
}

// --- response ---

func TestToResponse(t *testing.T) {
	t.Run("client error hides cause", func(t *testing.T) {
		resp := InvalidInput("key", "empty").WithCause(fmt.Errorf("secret")).ToResponse()
		if resp.Details != "" {
			t.Errorf("expected no details on 4xx, got %q", resp.Details)
		}
		if resp.Error != "Invalid input: empty" {
			t.Errorf("unexpected error text %q", resp.Error)
		}
	})

	t.Run("server error carries cause", func(t *testing.T) {
		resp := ExternalServiceError("transcription", fmt.Errorf("status 502")).ToResponse()
		if resp.Error != "An error occurred" {
			t.Errorf("expected 'An error occurred', got %q", resp.Error)
		}
		if resp.Details != "status 502" {
			t.Errorf("expected cause as details, got %q", resp.Details)
		}
	})
}

func TestFromResponse(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		code    ErrorCode
		message string
	}{
		{"full body", 404, `{"error":"File not found","code":"NOT_FOUND"}`, ErrCodeNotFound, "File not found"},
		{"legacy body without code", 401, `{"error":"Invalid token"}`, ErrCodeUnauthorized, "Invalid token"},
		{"plain text", 502, `bad gateway`, ErrCodeExternalService, "bad gateway"},
		{"empty body", 500, ``, ErrCodeInternal, "Internal Server Error"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := FromResponse(tc.status, []byte(tc.body))
			if err.Code != tc.code {
				t.Errorf("expected code %s, got %s", tc.code, err.Code)
			}
			if err.Message != tc.message {
				t.Errorf("expected message %q, got %q", tc.message, err.Message)
			}
			if err.HTTPStatus != tc.status {
				t.Errorf("expected status %d, got %d", tc.status, err.HTTPStatus)
			}
		})
	}
}
