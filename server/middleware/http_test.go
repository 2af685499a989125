package middleware_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	gojwt "github.com/golang-jwt/jwt/v5"

	"github.com/zillusion/capsule/auth/authctx"
	"github.com/zillusion/capsule/auth/jwt"
	"github.com/zillusion/capsule/logger"
	"github.com/zillusion/capsule/server/middleware"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(engine *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	engine.ServeHTTP(rr, req)
	return rr
}

func errorBody(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("response is not valid JSON: %v", err)
	}
	return body["error"]
}

// ---------------------------------------------------------------------------
// Recovery
// ---------------------------------------------------------------------------

func TestRecovery_Panic(t *testing.T) {
	r := gin.New()
	r.Use(middleware.Recovery(logger.Nop()))
	r.GET("/boom", func(*gin.Context) { panic("test panic") })

	rr := serve(r, httptest.NewRequest(http.MethodGet, "/boom", http.NoBody))
	if rr.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rr.Code)
	}
	if got := errorBody(t, rr); got != "An error occurred" {
		t.Errorf("unexpected error message: %s", got)
	}
}

// ---------------------------------------------------------------------------
// RequestID
// ---------------------------------------------------------------------------

func TestRequestID(t *testing.T) {
	r := gin.New()
	r.Use(middleware.RequestID())
	var seen string
	r.GET("/", func(c *gin.Context) {
		seen = logger.RequestIDFromContext(c.Request.Context())
		c.Status(http.StatusOK)
	})

	t.Run("generates id", func(t *testing.T) {
		rr := serve(r, httptest.NewRequest(http.MethodGet, "/", http.NoBody))
		id := rr.Header().Get(middleware.RequestIDHeader)
		if id == "" {
			t.Fatal("expected X-Request-Id in response headers")
		}
		if seen != id {
			t.Errorf("expected context id %q, got %q", id, seen)
		}
	})

	t.Run("preserves existing", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
		req.Header.Set(middleware.RequestIDHeader, "given-id")
		rr := serve(r, req)
		if got := rr.Header().Get(middleware.RequestIDHeader); got != "given-id" {
			t.Errorf("expected 'given-id', got %q", got)
		}
	})
}

// ---------------------------------------------------------------------------
// CORS
// ---------------------------------------------------------------------------

func TestCORS(t *testing.T) {
	r := gin.New()
	r.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins: []string{"https://app.example.com"},
		AllowedMethods: []string{"GET", "POST"},
	}))
	r.GET("/x", func(c *gin.Context) { c.Status(http.StatusOK) })

	t.Run("allowed origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/x", http.NoBody)
		req.Header.Set("Origin", "https://app.example.com")
		rr := serve(r, req)
		if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example.com" {
			t.Errorf("expected origin echoed, got %q", got)
		}
	})

	t.Run("disallowed origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/x", http.NoBody)
		req.Header.Set("Origin", "https://other.example.com")
		rr := serve(r, req)
		if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "" {
			t.Errorf("expected no CORS header, got %q", got)
		}
	})

	t.Run("preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/x", http.NoBody)
		req.Header.Set("Origin", "https://app.example.com")
		rr := serve(r, req)
		if rr.Code != http.StatusNoContent {
			t.Errorf("expected 204, got %d", rr.Code)
		}
	})
}

// ---------------------------------------------------------------------------
// BodySizeLimit
// ---------------------------------------------------------------------------

func TestBodySizeLimit(t *testing.T) {
	r := gin.New()
	r.Use(middleware.BodySizeLimit(8))
	r.POST("/", func(c *gin.Context) {
		if _, err := c.GetRawData(); err != nil {
			c.Status(http.StatusRequestEntityTooLarge)
			return
		}
		c.Status(http.StatusOK)
	})

	if rr := serve(r, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("short"))); rr.Code != http.StatusOK {
		t.Errorf("expected 200 under the limit, got %d", rr.Code)
	}
	if rr := serve(r, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("far too long body"))); rr.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("expected 413 over the limit, got %d", rr.Code)
	}
}

// ---------------------------------------------------------------------------
// Auth
// ---------------------------------------------------------------------------

const secret = "middleware-test-secret"

func authEngine(t *testing.T) *gin.Engine {
	t.Helper()
	v, err := jwt.NewVerifier(jwt.Config{Secret: secret})
	if err != nil {
		t.Fatalf("NewVerifier: %v", err)
	}
	r := gin.New()
	r.Use(middleware.Auth(v))
	r.GET("/me", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user":    middleware.UserID(c),
			"ctxUser": authctx.UserID(c.Request.Context()),
		})
	})
	return r
}

func token(t *testing.T, key string, sub string) string {
	t.Helper()
	s, err := gojwt.NewWithClaims(gojwt.SigningMethodHS256, gojwt.RegisteredClaims{
		Subject:   sub,
		ExpiresAt: gojwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString([]byte(key))
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return s
}

func TestAuth(t *testing.T) {
	r := authEngine(t)

	tests := []struct {
		name    string
		header  string
		status  int
		message string
	}{
		{"no header", "", http.StatusUnauthorized, "No token provided"},
		{"wrong scheme", "Basic abc", http.StatusUnauthorized, "No token provided"},
		{"empty bearer", "Bearer ", http.StatusUnauthorized, "No token provided"},
		{"bad signature", "Bearer " + token(t, "other", "u1"), http.StatusUnauthorized, "Invalid token"},
		{"unverified payload", "Bearer eyJhbGciOiJub25lIn0.eyJzdWIiOiJ1MSJ9.", http.StatusUnauthorized, "Invalid token"},
		{"valid", "Bearer " + token(t, secret, "u1"), http.StatusOK, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me", http.NoBody)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rr := serve(r, req)
			if rr.Code != tc.status {
				t.Fatalf("expected %d, got %d (%s)", tc.status, rr.Code, rr.Body.String())
			}
			if tc.status != http.StatusOK {
				if got := errorBody(t, rr); got != tc.message {
					t.Errorf("expected %q, got %q", tc.message, got)
				}
				return
			}
			var body map[string]string
			_ = json.Unmarshal(rr.Body.Bytes(), &body)
			if body["user"] != "u1" || body["ctxUser"] != "u1" {
				t.Errorf("expected user u1 in gin and request context, got %v", body)
			}
		})
	}
}
