// Package analysis asks a chat model to score a diarized transcript.
package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gorm.io/datatypes"

	apperrors "github.com/zillusion/capsule/errors"
	"github.com/zillusion/capsule/httpclient"
	"github.com/zillusion/capsule/llm"
	"github.com/zillusion/capsule/resilience"
	"github.com/zillusion/capsule/transcription"
)

// SystemPrompt frames every analysis request.
const SystemPrompt = "You are a helpful assistant that analyzes audio transcripts."

// ErrNoUtterances is returned for engine results without diarized turns.
var ErrNoUtterances = errors.New("analysis: transcript has no utterances")

// Analyzer turns an engine result into stored analysis JSON.
type Analyzer struct {
	llm    llm.Completer
	prompt string
	model  string
	retry  resilience.RetryConfig
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithRetry replaces the retry policy for model calls. A nil RetryIf
// retries only upstream failures.
func WithRetry(cfg resilience.RetryConfig) Option {
	return func(a *Analyzer) {
		if cfg.RetryIf == nil {
			cfg.RetryIf = httpclient.IsRetryable
		}
		a.retry = cfg
	}
}

// New creates an Analyzer. prompt precedes the transcript in the user
// message; an empty model uses the completer's default. Without WithRetry
// the model is called once.
func New(c llm.Completer, prompt, model string, opts ...Option) *Analyzer {
	a := &Analyzer{
		llm:    c,
		prompt: prompt,
		model:  model,
		retry:  resilience.RetryConfig{MaxAttempts: 1},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// FormatTranscript renders utterances as "Speaker {channel}\n{text}\n\n"
// blocks.
func FormatTranscript(utts []transcription.Utterance) string {
	var b strings.Builder
	for _, u := range utts {
		fmt.Fprintf(&b, "Speaker %d\n%s\n\n", u.Channel, u.Transcript)
	}
	return b.String()
}

// Analyze sends the formatted transcript and returns the model's JSON with
// code fences removed.
func (a *Analyzer) Analyze(ctx context.Context, raw json.RawMessage) (datatypes.JSON, error) {
	utts, err := transcription.Utterances(raw)
	if err != nil {
		return nil, apperrors.Malformed("transcription result", err)
	}
	if len(utts) == 0 {
		return nil, ErrNoUtterances
	}

	req := llm.CompletionRequest{
		Model:        a.model,
		SystemPrompt: SystemPrompt,
		Messages: []llm.Message{{
			Role:    llm.RoleUser,
			Content: a.prompt + "\n" + FormatTranscript(utts),
		}},
	}
	resp, err := resilience.Retry(ctx, a.retry, func(ctx context.Context) (llm.CompletionResponse, error) {
		return a.llm.Execute(ctx, req)
	})
	if err != nil {
		return nil, err
	}

	out := llm.StripFences(resp.Content)
	if !json.Valid([]byte(out)) {
		return nil, apperrors.Malformed("analysis", fmt.Errorf("model returned non-JSON output (%d bytes)", len(out)))
	}
	return datatypes.JSON(out), nil
}
