package llm

import (
	"fmt"
	"time"
)

const (
	DefaultDialect = "openai"
	DefaultBaseURL = "https://api.openai.com"
	DefaultModel   = "gpt-4o-mini"
	defaultTimeout = 120 * time.Second
)

// Config configures an Adapter.
type Config struct {
	// Dialect selects a registered wire format.
	Dialect string `mapstructure:"dialect"`
	BaseURL string `mapstructure:"base_url"`
	// APIKey is sent as a bearer token.
	APIKey      string        `mapstructure:"api_key"`
	Model       string        `mapstructure:"model"`
	Temperature float64       `mapstructure:"temperature"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	Timeout     time.Duration `mapstructure:"timeout"`
	// Prompt is the analysis instruction placed before the transcript.
	Prompt string `mapstructure:"prompt"`
	// Retries is how many more times a failed analysis call is attempted
	// on timeouts, 5xx and 429. Zero disables retrying.
	Retries int `mapstructure:"retries"`
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.Dialect == "" {
		c.Dialect = DefaultDialect
	}
	if c.BaseURL == "" {
		c.BaseURL = DefaultBaseURL
	}
	if c.Model == "" {
		c.Model = DefaultModel
	}
	if c.Timeout == 0 {
		c.Timeout = defaultTimeout
	}
}

// Validate checks required settings.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("llm.api_key is required")
	}
	if c.Retries < 0 {
		return fmt.Errorf("llm.retries must be non-negative")
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("llm.temperature must be within [0, 2], got %v", c.Temperature)
	}
	return nil
}
