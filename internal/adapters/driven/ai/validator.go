package ai

import (
	"github.com/custodia-labs/sercha-learn/internal/core/domain"
	"github.com/custodia-labs/sercha-learn/internal/core/ports/driven"
)

var _ driven.AIConfigValidator = (*ConfigValidator)(nil)

// ConfigValidator checks that configured AI providers can be created and
// answer a ping. Nil or unconfigured settings are valid.
type ConfigValidator struct{}

// NewConfigValidator creates a new AI config validator.
func NewConfigValidator() *ConfigValidator {
	return &ConfigValidator{}
}

// ValidateEmbedding creates the embedding service, pings it and closes it.
// Failures wrap domain.ErrEmbeddingUnavailable.
func (v *ConfigValidator) ValidateEmbedding(settings *domain.EmbeddingSettings) error {
	svc, err := CreateAndValidateEmbeddingService(settings)
	if svc != nil {
		svc.Close()
	}
	return err
}

// ValidateLLM creates the LLM service, pings it and closes it.
// Failures wrap domain.ErrLLMUnavailable.
func (v *ConfigValidator) ValidateLLM(settings *domain.LLMSettings) error {
	svc, err := CreateAndValidateLLMService(settings)
	if svc != nil {
		svc.Close()
	}
	return err
}

// ValidateEmbeddingConfig validates embedding settings without keeping a service.
func ValidateEmbeddingConfig(settings *domain.EmbeddingSettings) error {
	return NewConfigValidator().ValidateEmbedding(settings)
}

// ValidateLLMConfig validates LLM settings without keeping a service.
func ValidateLLMConfig(settings *domain.LLMSettings) error {
	return NewConfigValidator().ValidateLLM(settings)
}
