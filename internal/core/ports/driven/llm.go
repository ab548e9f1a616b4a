// Package driven provides interfaces for infrastructure adapters (secondary/outbound ports).
package driven

import "context"

// LLMService provides language model operations on topics and paper text.
// This is an optional service - when nil, topics are searched verbatim and
// extracted text is embedded unsummarised.
//
// Implementations may include:
//   - OpenAI or any OpenAI-compatible server
//   - Ollama (local models)
type LLMService interface {
	// Generate produces text completion from a prompt.
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)

	// RefineTopic makes a learning topic more specific and searchable.
	RefineTopic(ctx context.Context, topic string) (string, error)

	// Summarise condenses extracted document text into a few sentences.
	Summarise(ctx context.Context, content string) (string, error)

	// ModelName returns the name of the LLM model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight test request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// GenerateOptions configures text generation behaviour.
type GenerateOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic, 1.0 = creative).
	Temperature float64
}
