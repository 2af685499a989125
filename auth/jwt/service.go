// Package jwt verifies bearer tokens issued by the external auth provider.
//
// Verification checks the signature with the configured key, pins the
// algorithm, and enforces expiry plus the issuer and audience when they are
// configured. The subject claim is the user id every query is scoped to.
package jwt

import (
	stderrors "errors"
	"fmt"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"

	"github.com/zillusion/capsule/errors"
)

// Claims are the fields read from a verified token.
type Claims struct {
	gojwt.RegisteredClaims
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
}

// UserID returns the subject claim.
func (c *Claims) UserID() string { return c.Subject }

// Verifier validates bearer tokens.
type Verifier struct {
	cfg  Config
	key  interface{}
	opts []gojwt.ParserOption
	now  func() time.Time
}

// NewVerifier creates a Verifier from cfg.
func NewVerifier(cfg Config) (*Verifier, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	key, err := cfg.verifyKey()
	if err != nil {
		return nil, fmt.Errorf("jwt: load key: %w", err)
	}

	v := &Verifier{cfg: cfg, key: key, now: time.Now}
	v.opts = []gojwt.ParserOption{
		gojwt.WithValidMethods([]string{cfg.Method}),
		gojwt.WithExpirationRequired(),
		gojwt.WithLeeway(cfg.Leeway),
		gojwt.WithTimeFunc(func() time.Time { return v.now() }),
	}
	if cfg.Issuer != "" {
		v.opts = append(v.opts, gojwt.WithIssuer(cfg.Issuer))
	}
	if cfg.Audience != "" {
		v.opts = append(v.opts, gojwt.WithAudience(cfg.Audience))
	}
	return v, nil
}

// Verify parses and validates token. Failures are AppErrors with status 401.
func (v *Verifier) Verify(token string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := gojwt.ParseWithClaims(token, claims, func(*gojwt.Token) (interface{}, error) {
		return v.key, nil
	}, v.opts...)
	if err != nil {
		if stderrors.Is(err, gojwt.ErrTokenExpired) {
			return nil, errors.TokenExpired().WithCause(err)
		}
		return nil, errors.InvalidToken().WithCause(err)
	}
	if !parsed.Valid {
		return nil, errors.InvalidToken()
	}
	if claims.Subject == "" {
		return nil, errors.Unauthorized("Token has no subject")
	}
	return claims, nil
}

// Issue mints a token for subject with the configured issuer, audience and
// DevTokenTTL. Only HMAC configurations hold a signing key.
func (v *Verifier) Issue(subject string) (string, error) {
	if !v.cfg.isHMAC() {
		return "", fmt.Errorf("jwt: cannot issue tokens with %s public key", v.cfg.Method)
	}
	now := v.now()
	claims := &Claims{RegisteredClaims: gojwt.RegisteredClaims{
		Subject:   subject,
		Issuer:    v.cfg.Issuer,
		IssuedAt:  gojwt.NewNumericDate(now),
		ExpiresAt: gojwt.NewNumericDate(now.Add(v.cfg.DevTokenTTL)),
	}}
	if v.cfg.Audience != "" {
		claims.Audience = gojwt.ClaimStrings{v.cfg.Audience}
	}
	signed, err := gojwt.NewWithClaims(gojwt.GetSigningMethod(v.cfg.Method), claims).SignedString(v.key)
	if err != nil {
		return "", fmt.Errorf("jwt: sign token: %w", err)
	}
	return signed, nil
}
