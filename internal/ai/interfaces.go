package ai

import (
	"context"
)

// CompletionRequest is one single-turn model call.
type CompletionRequest struct {
	SystemPrompt string
	UserPrompt   string
	Model        string
	Temperature  float32
	MaxTokens    int
	// Operation names the call in spans and breaker stats.
	Operation string
}

// Completion is the text a model produced plus its token accounting.
type Completion struct {
	Text  string
	Usage *TokenUsage
}

// TokenUsage represents token usage information from AI responses
type TokenUsage struct {
	InputTokens  int64 `json:"inputTokens"`
	OutputTokens int64 `json:"outputTokens"`
	TotalTokens  int64 `json:"totalTokens"`
}

// Completer invokes a model. Failures carry an HTTP-like status through
// *retry.StatusError so callers can classify them without knowing the vendor.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (Completion, error)
	Provider() string
}

// CompleterFunc adapts a function to Completer.
type CompleterFunc func(ctx context.Context, req CompletionRequest) (Completion, error)

func (f CompleterFunc) Complete(ctx context.Context, req CompletionRequest) (Completion, error) {
	return f(ctx, req)
}

func (f CompleterFunc) Provider() string {
	return "func"
}
