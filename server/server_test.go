package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/zillusion/capsule/component"
	"github.com/zillusion/capsule/errors"
	"github.com/zillusion/capsule/logger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer(checker func(context.Context) []component.Health) *Server {
	cfg := Config{Host: "127.0.0.1"}
	cfg.ApplyDefaults()
	cfg.Port = 0
	s := New(cfg, logger.Nop())
	s.ApplyMiddleware()
	s.RegisterSystemEndpoints("capsule", checker)
	return s
}

func TestHealthEndpoint(t *testing.T) {
	tests := []struct {
		name   string
		health []component.Health
		status int
	}{
		{"healthy", []component.Health{{Name: "db", Status: component.StatusHealthy}}, http.StatusOK},
		{"degraded still serves", []component.Health{{Name: "cache", Status: component.StatusDegraded}}, http.StatusOK},
		{"unhealthy", []component.Health{{Name: "db", Status: component.StatusUnhealthy}}, http.StatusServiceUnavailable},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s := newTestServer(func(context.Context) []component.Health { return tc.health })
			rr := httptest.NewRecorder()
			s.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", http.NoBody))
			if rr.Code != tc.status {
				t.Errorf("expected %d, got %d", tc.status, rr.Code)
			}
		})
	}
}

func TestInfoAndMetrics(t *testing.T) {
	s := newTestServer(nil)
	for _, path := range []string{"/info", "/metrics"} {
		rr := httptest.NewRecorder()
		s.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, http.NoBody))
		if rr.Code != http.StatusOK {
			t.Errorf("%s: expected 200, got %d", path, rr.Code)
		}
	}
}

func TestRespondWithError(t *testing.T) {
	s := newTestServer(nil)
	s.Engine().GET("/missing", func(c *gin.Context) {
		RespondWithError(c, logger.Nop(), errors.NotFound("File", "x"))
	})
	s.Engine().GET("/upstream", func(c *gin.Context) {
		RespondWithError(c, logger.Nop(), errors.ExternalServiceError("storage", fmt.Errorf("access denied")))
	})
	s.Engine().GET("/plain", func(c *gin.Context) {
		RespondWithError(c, logger.Nop(), fmt.Errorf("raw"))
	})

	tests := []struct {
		path    string
		status  int
		message string
		details string
	}{
		{"/missing", http.StatusNotFound, "File not found", ""},
		{"/upstream", http.StatusInternalServerError, "An error occurred", "access denied"},
		{"/plain", http.StatusInternalServerError, "An error occurred", "raw"},
	}
	for _, tc := range tests {
		t.Run(tc.path, func(t *testing.T) {
			rr := httptest.NewRecorder()
			s.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, tc.path, http.NoBody))
			if rr.Code != tc.status {
				t.Fatalf("expected %d, got %d", tc.status, rr.Code)
			}
			var body errors.ErrorResponse
			if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if body.Error != tc.message || body.Details != tc.details {
				t.Errorf("unexpected body %+v", body)
			}
		})
	}
}

func TestStartStop(t *testing.T) {
	s := newTestServer(nil)
	c := NewComponent(s)
	ctx := context.Background()

	if h := c.Health(ctx); h.Status != component.StatusUnhealthy {
		t.Errorf("expected unhealthy before start, got %s", h.Status)
	}
	if err := c.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}

	resp, err := http.Get("http://" + s.Addr() + "/health")
	if err != nil {
		t.Fatalf("GET /health: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}

	if err := c.Stop(ctx); err != nil {
		t.Fatalf("Stop: %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := Config{Port: 70000}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for out-of-range port")
	}
	cfg = Config{}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}
