package httpclient

import (
	"context"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	apperrors "github.com/zillusion/capsule/errors"
	"github.com/zillusion/capsule/resilience"
)

func TestClient_Do_BaseURLHeadersAndAuth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/listen" {
			t.Errorf("expected /v1/listen, got %s", r.URL.Path)
		}
		if r.Header.Get("X-Default") != "d" || r.Header.Get("X-Request") != "r" {
			t.Errorf("missing headers: %v", r.Header)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer per-request" {
			t.Errorf("expected request auth to win, got %q", got)
		}
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	c, err := New(Config{
		BaseURL: srv.URL + "/",
		Headers: map[string]string{"X-Default": "d"},
		Auth:    BearerAuth("client"),
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	resp, err := c.Do(context.Background(), Request{
		Method:  http.MethodGet,
		Path:    "/v1/listen",
		Headers: map[string]string{"X-Request": "r"},
		Auth:    BearerAuth("per-request"),
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
	if !resp.IsSuccess() || string(resp.Body) != "ok" {
		t.Errorf("unexpected response %d %q", resp.StatusCode, resp.Body)
	}
}

func TestClassifyStatusCode(t *testing.T) {
	tests := []struct {
		status int
		want   ErrorCode
	}{
		{401, ErrCodeAuth},
		{403, ErrCodeAuth},
		{404, ErrCodeNotFound},
		{429, ErrCodeRateLimit},
		{422, ErrCodeValidation},
		{502, ErrCodeServer},
	}
	for _, tc := range tests {
		t.Run(http.StatusText(tc.status), func(t *testing.T) {
			e := ClassifyStatusCode(tc.status, nil)
			if e == nil || e.Code != tc.want {
				t.Errorf("expected %s, got %v", tc.want, e)
			}
		})
	}
	if ClassifyStatusCode(204, nil) != nil {
		t.Error("expected nil for 2xx")
	}
}

func TestClient_Do_ServerErrorReturnsBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream down"))
	}))
	defer srv.Close()

	c, _ := New(Config{BaseURL: srv.URL})
	resp, err := c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/"})
	if err == nil {
		t.Fatal("expected error")
	}
	if resp == nil || string(resp.Body) != "upstream down" {
		t.Errorf("expected body alongside error, got %+v", resp)
	}

	appErr := ToAppError("deepgram", err)
	if appErr.Code != apperrors.ErrCodeExternalService {
		t.Errorf("expected external service code, got %s", appErr.Code)
	}
	if appErr.Details["status"] != http.StatusBadGateway {
		t.Errorf("expected status detail, got %v", appErr.Details)
	}
}

func TestClient_Do_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(time.Second):
		}
	}))
	defer srv.Close()

	c, _ := New(Config{BaseURL: srv.URL})
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := c.Do(ctx, Request{Method: http.MethodGet, Path: "/"})
	if !IsTimeout(err) {
		t.Fatalf("expected timeout, got %v", err)
	}
	got := ToAppError("openai", err)
	if got.Code != apperrors.ErrCodeExternalService || got.Details["timeout"] != true {
		t.Errorf("expected external service timeout, got %s %v", got.Code, got.Details)
	}
}

func TestClient_Do_ConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, _ := New(Config{BaseURL: url})
	_, err := c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/"})
	var e *Error
	if !errors.As(err, &e) || e.Code != ErrCodeConnection {
		t.Fatalf("expected connection error, got %v", err)
	}
}

func TestClient_Do_Breaker(t *testing.T) {
	var calls atomic.Int32
	status := atomic.Int32{}
	status.Store(http.StatusBadRequest)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(int(status.Load()))
	}))
	defer srv.Close()

	c, err := New(Config{
		BaseURL: srv.URL,
		Breaker: &resilience.BreakerConfig{Name: "deepgram", MaxFailures: 2, OpenFor: time.Hour},
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	get := func() error {
		_, err := c.Do(context.Background(), Request{Method: http.MethodGet, Path: "/"})
		return err
	}

	// Request errors leave the breaker closed.
	for i := 0; i < 3; i++ {
		_ = get()
	}
	if c.BreakerState() != resilience.StateClosed {
		t.Fatalf("expected closed after 4xx, got %s", c.BreakerState())
	}

	status.Store(http.StatusServiceUnavailable)
	_ = get()
	if err := get(); !IsRetryable(err) {
		t.Errorf("expected a retryable server error, got %v", err)
	}
	if c.BreakerState() != resilience.StateOpen {
		t.Fatalf("expected open, got %s", c.BreakerState())
	}

	before := calls.Load()
	err = get()
	if !IsCircuitOpen(err) || IsRetryable(err) {
		t.Fatalf("expected a non-retryable circuit open error, got %v", err)
	}
	if calls.Load() != before {
		t.Error("an open breaker must not reach the server")
	}
	if got := ToAppError("deepgram", err); got.Details["circuit_open"] != true {
		t.Errorf("expected circuit_open detail, got %v", got.Details)
	}
}

func TestMultipartBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mediaType, params, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
		if err != nil || mediaType != "multipart/form-data" {
			t.Fatalf("expected multipart, got %q", r.Header.Get("Content-Type"))
		}
		mr := multipart.NewReader(r.Body, params["boundary"])
		part, err := mr.NextPart()
		if err != nil {
			t.Fatalf("NextPart: %v", err)
		}
		if part.FormName() != "audio" || part.FileName() != "take.webm" {
			t.Errorf("unexpected part %q %q", part.FormName(), part.FileName())
		}
		if ct := part.Header.Get("Content-Type"); ct != "audio/webm" {
			t.Errorf("expected audio/webm part, got %q", ct)
		}
		data, _ := io.ReadAll(part)
		if string(data) != "RIFF" {
			t.Errorf("unexpected part body %q", data)
		}
	}))
	defer srv.Close()

	c, _ := New(Config{BaseURL: srv.URL})
	_, err := c.Do(context.Background(), Request{
		Method: http.MethodPost,
		Path:   "/UploadAndTranscribe",
		Body: &MultipartBody{Files: []FileField{{
			FieldName:   "audio",
			FileName:    "take.webm",
			ContentType: "audio/webm",
			Reader:      strings.NewReader("RIFF"),
		}}},
	})
	if err != nil {
		t.Fatalf("Do: %v", err)
	}
}
