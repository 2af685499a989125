package jwt

import (
	"errors"
	"fmt"
	"time"

	gojwt "github.com/golang-jwt/jwt/v5"
)

// Supported verification algorithms.
const (
	HS256 = "HS256"
	HS384 = "HS384"
	HS512 = "HS512"
	RS256 = "RS256"
	ES256 = "ES256"
)

// Config configures token verification. HMAC methods need Secret; RSA and
// ECDSA methods need PublicKeyPEM.
type Config struct {
	Method       string        `yaml:"method" mapstructure:"method"`
	Secret       string        `yaml:"secret" mapstructure:"secret"`
	PublicKeyPEM string        `yaml:"public_key_pem" mapstructure:"public_key_pem"`
	Issuer       string        `yaml:"issuer" mapstructure:"issuer"`
	Audience     string        `yaml:"audience" mapstructure:"audience"`
	Leeway       time.Duration `yaml:"leeway" mapstructure:"leeway"`
	// DevTokenTTL is the lifetime of tokens minted by Issue.
	DevTokenTTL time.Duration `yaml:"dev_token_ttl" mapstructure:"dev_token_ttl"`
}

// ApplyDefaults fills in zero-value fields.
func (c *Config) ApplyDefaults() {
	if c.Method == "" {
		c.Method = HS256
	}
	if c.Leeway == 0 {
		c.Leeway = 30 * time.Second
	}
	if c.DevTokenTTL == 0 {
		c.DevTokenTTL = time.Hour
	}
}

// Validate checks that the key material matches the method.
func (c *Config) Validate() error {
	switch c.Method {
	case HS256, HS384, HS512:
		if c.Secret == "" {
			return errors.New("jwt: secret is required for HMAC methods")
		}
	case RS256, ES256:
		if c.PublicKeyPEM == "" {
			return fmt.Errorf("jwt: public_key_pem is required for %s", c.Method)
		}
	default:
		return fmt.Errorf("jwt: unsupported method %q", c.Method)
	}
	return nil
}

func (c *Config) isHMAC() bool {
	return c.Method == HS256 || c.Method == HS384 || c.Method == HS512
}

func (c *Config) verifyKey() (interface{}, error) {
	switch c.Method {
	case RS256:
		return gojwt.ParseRSAPublicKeyFromPEM([]byte(c.PublicKeyPEM))
	case ES256:
		return gojwt.ParseECPublicKeyFromPEM([]byte(c.PublicKeyPEM))
	default:
		return []byte(c.Secret), nil
	}
}
