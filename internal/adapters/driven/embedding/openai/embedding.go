// Package openai provides an embedding service adapter for OpenAI and any
// OpenAI-compatible API.
package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	goopenai "github.com/sashabaranov/go-openai"

	"github.com/custodia-labs/sercha-learn/internal/core/domain"
	"github.com/custodia-labs/sercha-learn/internal/core/ports/driven"
)

// Ensure EmbeddingService implements the interface.
var _ driven.EmbeddingService = (*EmbeddingService)(nil)

// Default configuration values.
const (
	DefaultBaseURL    = "https://api.openai.com/v1"
	DefaultModel      = "text-embedding-3-small"
	DefaultTimeout    = 60 * time.Second
	DefaultDimensions = 1536
)

// Config holds configuration for the OpenAI embedding service.
type Config struct {
	// APIKey is the OpenAI API key (required).
	APIKey string

	// BaseURL is the API base URL (default: https://api.openai.com/v1).
	// Can be changed for Azure OpenAI or compatible APIs.
	BaseURL string

	// Model is the embedding model to use (default: text-embedding-3-small).
	Model string

	// Timeout is the request timeout (default: 60s).
	Timeout time.Duration

	// Dimensions overrides the default dimension for the model.
	// Only sent to the API for text-embedding-3-* models.
	Dimensions int
}

// EmbeddingService generates embeddings using the OpenAI embeddings API.
type EmbeddingService struct {
	client     *goopenai.Client
	model      string
	dimensions int
	reduce     bool
}

// NewEmbeddingService creates a new OpenAI embedding service.
func NewEmbeddingService(cfg Config) (*EmbeddingService, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("%w: openai: API key is required", domain.ErrInvalidInput)
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	known, ok := domain.EmbeddingDimensions()[cfg.Model]
	if !ok {
		known = DefaultDimensions
	}
	dimensions := cfg.Dimensions
	if dimensions == 0 {
		dimensions = known
	}

	config := goopenai.DefaultConfig(cfg.APIKey)
	config.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	config.HTTPClient = &http.Client{Timeout: cfg.Timeout}

	return &EmbeddingService{
		client:     goopenai.NewClientWithConfig(config),
		model:      cfg.Model,
		dimensions: dimensions,
		reduce:     dimensions != known && strings.HasPrefix(cfg.Model, "text-embedding-3"),
	}, nil
}

// Embed generates a vector embedding for the given text.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	embeddings, err := s.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return embeddings[0], nil
}

// EmbedBatch generates embeddings for multiple texts in a single request.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	req := goopenai.EmbeddingRequest{
		Model: goopenai.EmbeddingModel(s.model),
		Input: texts,
	}
	if s.reduce {
		req.Dimensions = s.dimensions
	}

	resp, err := s.client.CreateEmbeddings(ctx, req)
	if err != nil {
		return nil, wrapError("embeddings", err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("%w: openai: got %d vectors for %d texts",
			domain.ErrEmbeddingFailure, len(resp.Data), len(texts))
	}

	embeddings := make([][]float32, len(texts))
	for _, data := range resp.Data {
		if data.Index < 0 || data.Index >= len(texts) {
			return nil, fmt.Errorf("%w: openai: vector index %d out of range", domain.ErrEmbeddingFailure, data.Index)
		}
		embeddings[data.Index] = data.Embedding
	}
	return embeddings, nil
}

// Dimensions returns the embedding vector size.
func (s *EmbeddingService) Dimensions() int {
	return s.dimensions
}

// ModelName returns the name of the embedding model being used.
func (s *EmbeddingService) ModelName() string {
	return s.model
}

// Ping validates the API key by listing models. No inference is run.
func (s *EmbeddingService) Ping(ctx context.Context) error {
	if _, err := s.client.ListModels(ctx); err != nil {
		return wrapError("ping", err)
	}
	return nil
}

// Close releases resources.
func (s *EmbeddingService) Close() error {
	return nil
}

// wrapError maps client errors onto domain errors.
func wrapError(op string, err error) error {
	switch status := statusCode(err); {
	case status == http.StatusTooManyRequests:
		return fmt.Errorf("%w: openai %s: %w", domain.ErrRateLimited, op, err)
	case status == http.StatusUnauthorized, status == http.StatusForbidden, status == 0:
		return fmt.Errorf("%w: openai %s: %w", domain.ErrEmbeddingUnavailable, op, err)
	default:
		return fmt.Errorf("%w: openai %s (status %d): %w", domain.ErrEmbeddingFailure, op, status, err)
	}
}

// statusCode returns the HTTP status carried by a client error, or 0 when
// the request never got a response.
func statusCode(err error) int {
	var apiErr *goopenai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode
	}
	var reqErr *goopenai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode
	}
	return 0
}
