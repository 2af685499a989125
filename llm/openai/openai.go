// Package openai registers the "openai" chat completions dialect.
package openai

import (
	"encoding/json"
	"errors"

	"github.com/zillusion/capsule/llm"
)

// Name is the registry key.
const Name = "openai"

func init() {
	llm.RegisterDialect(Name, Dialect{})
}

// ErrNoChoices is returned for a response without choices.
var ErrNoChoices = errors.New("openai: response has no choices")

// Dialect speaks POST /v1/chat/completions.
type Dialect struct{}

var _ llm.Dialect = Dialect{}

func (Dialect) Name() string     { return Name }
func (Dialect) ChatPath() string { return "/v1/chat/completions" }

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []llm.Message `json:"messages"`
	Temperature float64       `json:"temperature,omitempty"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
}

type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message llm.Message `json:"message"`
	} `json:"choices"`
	Usage llm.Usage `json:"usage"`
}

func (Dialect) BuildRequest(req llm.CompletionRequest) (any, error) {
	return chatRequest{
		Model:       req.Model,
		Messages:    req.AllMessages(),
		Temperature: req.Temperature,
		MaxTokens:   req.MaxTokens,
	}, nil
}

func (Dialect) ParseResponse(body []byte) (*llm.CompletionResponse, error) {
	var resp chatResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return nil, ErrNoChoices
	}
	return &llm.CompletionResponse{
		Content: resp.Choices[0].Message.Content,
		Model:   resp.Model,
		Usage:   resp.Usage,
	}, nil
}
