package httpclient

import (
	"fmt"
	"time"

	"github.com/zillusion/capsule/resilience"
)

const defaultTimeout = 30 * time.Second

// Config configures the HTTP client.
type Config struct {
	// BaseURL is prepended to relative request paths.
	BaseURL string `mapstructure:"base_url"`

	// Timeout bounds each request. Defaults to 30s.
	Timeout time.Duration `mapstructure:"timeout"`

	// Headers are applied to every request.
	Headers map[string]string `mapstructure:"headers"`

	// Auth is applied to every request unless the request overrides it.
	Auth *AuthConfig `mapstructure:"-"`

	// Breaker, when set, guards every request with a circuit breaker.
	// IsFailure defaults to IsUpstreamFailure.
	Breaker *resilience.BreakerConfig `mapstructure:"-"`
}

// ApplyDefaults fills in zero-value fields.
func (c *Config) ApplyDefaults() {
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
}

// Validate checks the configuration.
func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("httpclient: timeout must be positive")
	}
	return nil
}
