package app

import (
	"fmt"
	"time"

	"github.com/zillusion/capsule/auth/jwt"
	"github.com/zillusion/capsule/config"
	"github.com/zillusion/capsule/database"
	"github.com/zillusion/capsule/internal/transcribe"
	"github.com/zillusion/capsule/llm"
	"github.com/zillusion/capsule/observability"
	"github.com/zillusion/capsule/redis"
	"github.com/zillusion/capsule/server"
	"github.com/zillusion/capsule/storage"
	"github.com/zillusion/capsule/transcription/deepgram"
)

// ServiceName names the binary, its config directory and its telemetry.
const ServiceName = "capsule"

// ListingConfig configures the paginated list.
type ListingConfig struct {
	// DemoID is the record pinned to every user's first page.
	DemoID   string        `yaml:"demo_id" mapstructure:"demo_id"`
	CacheTTL time.Duration `yaml:"cache_ttl" mapstructure:"cache_ttl"`
}

// Config is the complete capsule configuration.
type Config struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Server        server.Config        `yaml:"server" mapstructure:"server"`
	Auth          jwt.Config           `yaml:"auth" mapstructure:"auth"`
	Database      database.Config      `yaml:"database" mapstructure:"database"`
	Storage       storage.Config       `yaml:"storage" mapstructure:"storage"`
	Redis         redis.Config         `yaml:"redis" mapstructure:"redis"`
	Transcription deepgram.Config      `yaml:"transcription" mapstructure:"transcription"`
	LLM           llm.Config           `yaml:"llm" mapstructure:"llm"`
	Observability observability.Config `yaml:"observability" mapstructure:"observability"`
	Listing       ListingConfig        `yaml:"listing" mapstructure:"listing"`
	Transcribe    transcribe.Config    `yaml:"transcribe" mapstructure:"transcribe"`
}

// envAliases are the variable names deployments already use.
var envAliases = map[string][]string{
	"server.port":           {"PORT"},
	"database.dsn":          {"DATABASE_URL"},
	"storage.region":        {"AWS_REGION"},
	"storage.access_key":    {"AWS_ACCESS_KEY_ID"},
	"storage.secret_key":    {"AWS_SECRET_ACCESS_KEY"},
	"transcription.api_key": {"DEEPGRAM_API_KEY"},
	"llm.api_key":           {"AI_KEY"},
	"llm.prompt":            {"PROMPT"},
	"auth.secret":           {"JWT_SECRET"},
}

// Load reads the configuration from file, .env and environment.
// configFile may be empty to use the standard search paths.
func Load(configFile string) (*Config, error) {
	opts := []config.LoaderOption{}
	if configFile != "" {
		opts = append(opts, config.WithConfigFile(configFile))
	}
	for key, names := range envAliases {
		opts = append(opts, config.WithEnvAlias(key, names...))
	}

	cfg := &Config{}
	if err := config.LoadConfig(ServiceName, cfg, opts...); err != nil {
		return nil, err
	}
	if cfg.Name == "" {
		cfg.Name = ServiceName
	}
	return cfg, nil
}

func (c *Config) GetServiceConfig() *config.ServiceConfig { return &c.ServiceConfig }

// ApplyDefaults defaults every section.
func (c *Config) ApplyDefaults() {
	c.ServiceConfig.ApplyDefaults()
	c.Server.ApplyDefaults()
	c.Auth.ApplyDefaults()
	c.Database.ApplyDefaults()
	c.Storage.ApplyDefaults()
	c.Redis.ApplyDefaults()
	c.Transcription.ApplyDefaults()
	c.LLM.ApplyDefaults()
	c.Observability.ApplyDefaults()
	// Transcribe expiries default from the storage section at wiring time.
}

// Validate checks every section. The llm section is only checked when an
// API key is configured; without one analysis is off.
func (c *Config) Validate() error {
	type section struct {
		name string
		fn   func() error
	}
	checks := []section{
		{"service", c.ServiceConfig.Validate},
		{"server", c.Server.Validate},
		{"auth", c.Auth.Validate},
		{"database", c.Database.Validate},
		{"storage", c.Storage.Validate},
		{"redis", c.Redis.Validate},
		{"transcription", c.Transcription.Validate},
		{"observability", c.Observability.Validate},
	}
	if c.AnalysisEnabled() {
		checks = append(checks, section{"llm", c.LLM.Validate})
	}
	for _, chk := range checks {
		if err := chk.fn(); err != nil {
			return fmt.Errorf("%s: %w", chk.name, err)
		}
	}
	if c.Listing.CacheTTL < 0 {
		return fmt.Errorf("listing.cache_ttl must be non-negative")
	}
	return nil
}

// AnalysisEnabled reports whether transcripts are sent for analysis.
func (c *Config) AnalysisEnabled() bool { return c.LLM.APIKey != "" }
