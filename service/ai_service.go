package service

import (
	"context"
	"errors"
)

const (
	DefaultTemperature float32 = 0.7
	DefaultMaxTokens           = 500
)

// ErrProvider is wrapped by every failure coming back from a completion
// provider: transport errors, non-success statuses and unusable responses.
var ErrProvider = errors.New("completion provider failed")

// CompletionRequest is a single-turn prompt: one system instruction and one
// user message.
type CompletionRequest struct {
	System      string
	User        string
	Temperature float32
	MaxTokens   int
}

type AIService interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}
