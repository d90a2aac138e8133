package llm

import "context"

// Options bound a single generation call.
type Options struct {
	Temperature float32
	MaxTokens   int
}

// Provider produces a completion for an already-assembled prompt. The
// caller owns prompt assembly; providers only talk to their backend.
type Provider interface {
	Generate(ctx context.Context, prompt string, opts Options) (string, error)
}
