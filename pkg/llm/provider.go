package llm

import (
	"context"
)

// Chat roles shared by every backend. Providers translate them to their own
// wire names where they differ.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Message is one chat turn in a provider-agnostic shape.
type Message struct {
	Role    string
	Content string
}

// Option tunes a single call without widening the interface.
type Option func(*Options)

type Options struct {
	Temperature float64
	MaxTokens   int
	Model       string
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

func WithMaxTokens(maxTokens int) Option {
	return func(o *Options) {
		o.MaxTokens = maxTokens
	}
}

// LLMProvider is the contract for any LLM backend.
type LLMProvider interface {
	// Chat sends a chat history to the model and returns the reply text.
	Chat(ctx context.Context, history []Message, options ...Option) (string, error)

	// Generate sends a single prompt, for callers with no history to carry.
	Generate(ctx context.Context, prompt string, options ...Option) (string, error)
}
