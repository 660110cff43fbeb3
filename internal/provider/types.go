// Package provider defines the LLM completion interface and the provider
// registry the generation pipeline selects from.
package provider

import "context"

// LLMProvider defines the interface for requesting a completion from an LLM.
type LLMProvider interface {
	Complete(ctx context.Context, req CompletionRequest) (*Completion, error)
}

// CompletionRequest represents a single-turn completion request.
type CompletionRequest struct {
	Model       string
	System      string
	Prompt      string
	MaxTokens   int
	Temperature *float64
}

// Completion is the provider's response.
type Completion struct {
	Text  string
	Usage Usage
}

// Usage reports token consumption for one completion.
type Usage struct {
	InputTokens  int
	OutputTokens int
}

// Add accumulates usage across completions.
func (u *Usage) Add(other Usage) {
	u.InputTokens += other.InputTokens
	u.OutputTokens += other.OutputTokens
}
