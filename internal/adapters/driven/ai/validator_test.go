package ai

import (
	"errors"
	"net/http"
	"testing"

	"github.com/custodia-labs/sercha-learn/internal/core/domain"
)

func TestConfigValidator_Unconfigured(t *testing.T) {
	v := NewConfigValidator()

	if err := v.ValidateEmbedding(nil); err != nil {
		t.Errorf("nil embedding settings: unexpected error %v", err)
	}
	if err := v.ValidateEmbedding(&domain.EmbeddingSettings{Model: "m"}); err != nil {
		t.Errorf("empty embedding provider: unexpected error %v", err)
	}
	if err := v.ValidateLLM(nil); err != nil {
		t.Errorf("nil LLM settings: unexpected error %v", err)
	}
	if err := v.ValidateLLM(&domain.LLMSettings{Model: "m"}); err != nil {
		t.Errorf("empty LLM provider: unexpected error %v", err)
	}
}

func TestConfigValidator_Unreachable(t *testing.T) {
	srv := ollamaServer(t, http.StatusInternalServerError)
	v := NewConfigValidator()

	err := v.ValidateEmbedding(&domain.EmbeddingSettings{Provider: domain.AIProviderOllama, BaseURL: srv.URL})
	if !errors.Is(err, domain.ErrEmbeddingUnavailable) {
		t.Errorf("embedding: expected ErrEmbeddingUnavailable, got %v", err)
	}

	err = v.ValidateLLM(&domain.LLMSettings{Provider: domain.AIProviderOllama, BaseURL: srv.URL})
	if !errors.Is(err, domain.ErrLLMUnavailable) {
		t.Errorf("LLM: expected ErrLLMUnavailable, got %v", err)
	}
}
