package llm

import (
	"context"
	"regexp"
	"strings"
)

// Complete sends one system and one user message and returns the text.
func Complete(ctx context.Context, c Completer, system, user string) (string, error) {
	resp, err := c.Execute(ctx, CompletionRequest{
		SystemPrompt: system,
		Messages:     []Message{{Role: RoleUser, Content: user}},
	})
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}

var fence = regexp.MustCompile("```json|```")

// StripFences removes every markdown code fence marker and trims the result.
// Text between fences is kept as is.
func StripFences(s string) string {
	return strings.TrimSpace(fence.ReplaceAllString(s, ""))
}
