package llm

import (
	"context"
	"errors"
)

// Client abstracts chat-completion providers for text generation.
type Client interface {
	Complete(ctx context.Context, input CompleteInput) (string, error)
}

// CompleteInput captures a single-turn completion request.
type CompleteInput struct {
	Prompt      string
	Temperature float64
	MaxTokens   int
}

// ErrNotImplemented is returned by the placeholder client.
var ErrNotImplemented = errors.New("LLM not implemented")

// PlaceholderClient is a stub implementation until provider wiring is added.
type PlaceholderClient struct{}

// Complete returns ErrNotImplemented.
func (PlaceholderClient) Complete(ctx context.Context, input CompleteInput) (string, error) {
	_ = ctx
	_ = input
	return "", ErrNotImplemented
}
