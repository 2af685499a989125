package jwt

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"testing"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"

	"github.com/zillusion/capsule/errors"
)

const secret = "test-secret-with-enough-bytes"

func sign(t *testing.T, method gojwt.SigningMethod, key interface{}, claims gojwt.Claims) string {
	t.Helper()
	s, err := gojwt.NewWithClaims(method, claims).SignedString(key)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}
	return s
}

func registered(sub string, exp time.Time) gojwt.RegisteredClaims {
	return gojwt.RegisteredClaims{
		Subject:   sub,
		Issuer:    "https://auth.example.com",
		Audience:  gojwt.ClaimStrings{"authenticated"},
		ExpiresAt: gojwt.NewNumericDate(exp),
	}
}

func newHS(t *testing.T) *Verifier {
	t.Helper()
	v, err := NewVerifier(Config{
		Secret:   secret,
		Issuer:   "https://auth.example.com",
		Audience: "authenticated",
	})
	if err != nil {
		t.Fatalf("NewVerifier: %v", err)
	}
	return v
}

func TestVerify(t *testing.T) {
	v := newHS(t)
	future := time.Now().Add(time.Hour)

	tests := []struct {
		name     string
		token    string
		wantCode errors.ErrorCode
		wantSub  string
	}{
		{
			name:    "valid token",
			token:   sign(t, gojwt.SigningMethodHS256, []byte(secret), &Claims{RegisteredClaims: registered("user-1", future)}),
			wantSub: "user-1",
		},
		{
			name:     "wrong secret",
			token:    sign(t, gojwt.SigningMethodHS256, []byte("other"), &Claims{RegisteredClaims: registered("user-1", future)}),
			wantCode: errors.ErrCodeInvalidToken,
		},
		{
			name:     "expired",
			token:    sign(t, gojwt.SigningMethodHS256, []byte(secret), &Claims{RegisteredClaims: registered("user-1", time.Now().Add(-time.Hour))}),
			wantCode: errors.ErrCodeTokenExpired,
		},
		{
			name: "wrong issuer",
			token: func() string {
				rc := registered("user-1", future)
				rc.Issuer = "https://evil.example.com"
				return sign(t, gojwt.SigningMethodHS256, []byte(secret), &Claims{RegisteredClaims: rc})
			}(),
			wantCode: errors.ErrCodeInvalidToken,
		},
		{
			name: "wrong audience",
			token: func() string {
				rc := registered("user-1", future)
				rc.Audience = gojwt.ClaimStrings{"service_role"}
				return sign(t, gojwt.SigningMethodHS256, []byte(secret), &Claims{RegisteredClaims: rc})
			}(),
			wantCode: errors.ErrCodeInvalidToken,
		},
		{
			name:     "algorithm swap rejected",
			token:    sign(t, gojwt.SigningMethodHS512, []byte(secret), &Claims{RegisteredClaims: registered("user-1", future)}),
			wantCode: errors.ErrCodeInvalidToken,
		},
		{
			name:     "missing subject",
			token:    sign(t, gojwt.SigningMethodHS256, []byte(secret), &Claims{RegisteredClaims: registered("", future)}),
			wantCode: errors.ErrCodeUnauthorized,
		},
		{
			name: "missing expiry",
			token: func() string {
				rc := registered("user-1", future)
				rc.ExpiresAt = nil
				return sign(t, gojwt.SigningMethodHS256, []byte(secret), &Claims{RegisteredClaims: rc})
			}(),
			wantCode: errors.ErrCodeInvalidToken,
		},
		{
			name:     "garbage",
			token:    "not.a.jwt",
			wantCode: errors.ErrCodeInvalidToken,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			claims, err := v.Verify(tc.token)
			if tc.wantCode != "" {
				if err == nil {
					t.Fatal("expected error")
				}
				if !errors.IsCode(err, tc.wantCode) {
					t.Errorf("expected code %s, got %v", tc.wantCode, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if claims.UserID() != tc.wantSub {
				t.Errorf("expected subject %q, got %q", tc.wantSub, claims.UserID())
			}
		})
	}
}

func TestVerify_UnsignedTokenRejected(t *testing.T) {
	v := newHS(t)
	token := sign(t, gojwt.SigningMethodNone, gojwt.UnsafeAllowNoneSignatureType,
		&Claims{RegisteredClaims: registered("user-1", time.Now().Add(time.Hour))})

	if _, err := v.Verify(token); err == nil {
		t.Fatal("expected unsigned token to be rejected")
	}
}

func TestVerify_ES256(t *testing.T) {
	priv, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}
	der, err := x509.MarshalPKIXPublicKey(&priv.PublicKey)
	if err != nil {
		t.Fatalf("marshal key: %v", err)
	}
	pemKey := string(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: der}))

	v, err := NewVerifier(Config{Method: ES256, PublicKeyPEM: pemKey})
	if err != nil {
		t.Fatalf("NewVerifier: %v", err)
	}
	token := sign(t, gojwt.SigningMethodES256, priv, &Claims{RegisteredClaims: registered("user-2", time.Now().Add(time.Hour))})

	claims, err := v.Verify(token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.UserID() != "user-2" {
		t.Errorf("expected user-2, got %q", claims.UserID())
	}
	if _, err := v.Issue("x"); err == nil {
		t.Error("expected Issue to fail without a signing key")
	}
}

func TestIssueRoundTrip(t *testing.T) {
	v := newHS(t)
	token, err := v.Issue("user-3")
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	claims, err := v.Verify(token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.UserID() != "user-3" {
		t.Errorf("expected user-3, got %q", claims.UserID())
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"hmac with secret", Config{Method: HS256, Secret: "s"}, false},
		{"hmac without secret", Config{Method: HS256}, true},
		{"rsa without key", Config{Method: RS256}, true},
		{"unsupported", Config{Method: "PS256", Secret: "s"}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.cfg.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}
