package interfaces

import (
	"context"
)

// LLMService defines the interface for language model completions used to
// map form fields to connector values.
type LLMService interface {
	// Complete sends a single prompt and returns the model's text response.
	Complete(ctx context.Context, prompt string) (string, error)

	// Provider returns the provider name ("gemini" or "claude")
	Provider() string

	// Close releases resources held by the provider client
	Close() error
}

// LLMFactory builds an LLMService on demand. The API key is resolved at
// call time so a key saved through the settings API takes effect without a
// restart.
type LLMFactory interface {
	Provider(ctx context.Context) (LLMService, error)
}
