package deepgram

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/zillusion/capsule/httpclient"
	"github.com/zillusion/capsule/httpclient/rest"
	"github.com/zillusion/capsule/resilience"
	"github.com/zillusion/capsule/transcription"
)

const (
	// ProviderName is the name reported in logs and metrics.
	ProviderName = "deepgram"

	defaultBaseURL  = "https://api.deepgram.com"
	defaultModel    = "nova-2"
	defaultLanguage = "en-US"
	defaultTimeout  = 5 * time.Minute

	listenPath = "/v1/listen"
)

// ErrEmptyResult is returned when the engine answers without results.
var ErrEmptyResult = errors.New("deepgram: transcription failed")

// Config holds Deepgram settings.
type Config struct {
	BaseURL  string        `mapstructure:"base_url"`
	APIKey   string        `mapstructure:"api_key"`
	Model    string        `mapstructure:"model"`
	Language string        `mapstructure:"language"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	if c.BaseURL == "" {
		c.BaseURL = defaultBaseURL
	}
	if c.Model == "" {
		c.Model = defaultModel
	}
	if c.Language == "" {
		c.Language = defaultLanguage
	}
	if c.Timeout == 0 {
		c.Timeout = defaultTimeout
	}
}

// Validate checks required settings.
func (c *Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("transcription.api_key is required")
	}
	return nil
}

// Provider calls the prerecorded listen endpoint with diarization,
// utterances, summaries, topics, intents and sentiment enabled.
type Provider struct {
	cfg    Config
	client *httpclient.Client
}

var _ transcription.Provider = (*Provider)(nil)

// New creates a Deepgram provider. cfg is defaulted but not validated.
func New(cfg Config) (*Provider, error) {
	cfg.ApplyDefaults()
	client, err := rest.New(httpclient.Config{
		BaseURL: cfg.BaseURL,
		Timeout: cfg.Timeout,
		Auth:    httpclient.SchemeAuth("Token", cfg.APIKey),
		Breaker: &resilience.BreakerConfig{Name: ProviderName},
	})
	if err != nil {
		return nil, fmt.Errorf("deepgram: create client: %w", err)
	}
	return &Provider{cfg: cfg, client: client}, nil
}

func (p *Provider) Name() string { return ProviderName }

type listenBody struct {
	URL string `json:"url"`
}

type listenResult struct {
	Metadata struct {
		Duration float64 `json:"duration"`
	} `json:"metadata"`
	Results *struct {
		Channels []struct {
			Alternatives []struct {
				Transcript string `json:"transcript"`
			} `json:"alternatives"`
		} `json:"channels"`
	} `json:"results"`
}

// Transcribe submits req.AudioURL and returns the transcript with the raw
// response. Upstream failures are returned as AppErrors tagged "deepgram".
func (p *Provider) Transcribe(ctx context.Context, req transcription.Request) (*transcription.Result, error) {
	raw, err := rest.Post[json.RawMessage](ctx, p.client, listenPath, listenBody{URL: req.AudioURL},
		rest.WithQuery(p.query(req)))
	if err != nil {
		return nil, httpclient.ToAppError(ProviderName, err)
	}

	var parsed listenResult
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, httpclient.ToAppError(ProviderName, fmt.Errorf("deepgram: decode result: %w", err))
	}
	if parsed.Results == nil {
		return nil, httpclient.ToAppError(ProviderName, ErrEmptyResult)
	}

	res := &transcription.Result{Raw: raw, Duration: parsed.Metadata.Duration}
	if ch := parsed.Results.Channels; len(ch) > 0 && len(ch[0].Alternatives) > 0 {
		res.Transcript = ch[0].Alternatives[0].Transcript
	}
	return res, nil
}

func (p *Provider) query(req transcription.Request) map[string]string {
	model, lang := p.cfg.Model, p.cfg.Language
	if req.Model != "" {
		model = req.Model
	}
	if req.Language != "" {
		lang = req.Language
	}
	on := strconv.FormatBool(true)
	return map[string]string{
		"model":      model,
		"language":   lang,
		"punctuate":  on,
		"utterances": on,
		"summarize":  "v2",
		"topics":     on,
		"intents":    on,
		"sentiment":  on,
		"diarize":    on,
	}
}
