package file

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"

	"github.com/custodia-labs/sercha-learn/internal/core/domain"
)

// EnvPrefix is the prefix for environment overrides, e.g. SERCHA_LLM_MODEL.
const EnvPrefix = "SERCHA"

// EnvConfig holds environment overrides. Nil fields were not set.
// Names are flat so every variable is SERCHA_<NAME>.
type EnvConfig struct {
	DataDir *string `envconfig:"DATA_DIR"`

	YouTubeAPIKey          *string `envconfig:"YOUTUBE_API_KEY"`
	SemanticScholarAPIKey  *string `envconfig:"SEMANTIC_SCHOLAR_API_KEY"`
	ProviderTimeoutSeconds *int    `envconfig:"PROVIDER_TIMEOUT_SECONDS"`
	Demo                   *bool   `envconfig:"DEMO_MODE"`
	Limit                  *int    `envconfig:"RESULT_LIMIT"`
	SearchK                *int    `envconfig:"SEARCH_K"`

	EmbeddingProvider   *string `envconfig:"EMBEDDING_PROVIDER"`
	EmbeddingModel      *string `envconfig:"EMBEDDING_MODEL"`
	EmbeddingBaseURL    *string `envconfig:"EMBEDDING_BASE_URL"`
	EmbeddingAPIKey     *string `envconfig:"EMBEDDING_API_KEY"`
	EmbeddingDimensions *int    `envconfig:"EMBEDDING_DIMENSIONS"`

	LLMProvider  *string `envconfig:"LLM_PROVIDER"`
	LLMModel     *string `envconfig:"LLM_MODEL"`
	LLMBaseURL   *string `envconfig:"LLM_BASE_URL"`
	LLMAPIKey    *string `envconfig:"LLM_API_KEY"`
	LLMRefine    *bool   `envconfig:"LLM_REFINE"`
	LLMSummarise *bool   `envconfig:"LLM_SUMMARISE"`

	StoreBackend  *string `envconfig:"STORE_BACKEND"`
	StorePath     *string `envconfig:"STORE_PATH"`
	StoreCompress *bool   `envconfig:"STORE_COMPRESS"`

	ExtractionEnabled     *bool `envconfig:"EXTRACTION_ENABLED"`
	ExtractionMaxPages    *int  `envconfig:"EXTRACTION_MAX_PAGES"`
	ExtractionMaxChars    *int  `envconfig:"EXTRACTION_MAX_CHARS"`
	ExtractionConcurrency *int  `envconfig:"EXTRACTION_CONCURRENCY"`

	ServerAddr        *string   `envconfig:"SERVER_ADDR"`
	ServerCORSOrigins *[]string `envconfig:"SERVER_CORS_ORIGINS"`
}

// LoadFromEnv reads SERCHA_* variables.
func LoadFromEnv() (EnvConfig, error) {
	var env EnvConfig
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return EnvConfig{}, err
	}
	return env, nil
}

// mergeEnv overlays SERCHA_* variables, then the well-known unprefixed keys.
func (c *Config) mergeEnv() error {
	env, err := LoadFromEnv()
	if err != nil {
		return fmt.Errorf("%w: environment: %w", domain.ErrInvalidInput, err)
	}
	env.Apply(c)

	if c.Providers.YouTubeAPIKey == "" {
		c.Providers.YouTubeAPIKey = os.Getenv("YOUTUBE_API_KEY")
	}
	if c.Embedding.APIKey == "" && c.Embedding.Provider == string(domain.AIProviderOpenAI) {
		c.Embedding.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	if c.LLM.APIKey == "" && c.LLM.Provider == string(domain.AIProviderOpenAI) {
		c.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
	}
	return nil
}

// Apply copies every set override into cfg.
func (e EnvConfig) Apply(cfg *Config) {
	set(&cfg.DataDir, e.DataDir)

	set(&cfg.Providers.YouTubeAPIKey, e.YouTubeAPIKey)
	set(&cfg.Providers.SemanticScholarAPIKey, e.SemanticScholarAPIKey)
	set(&cfg.Providers.TimeoutSeconds, e.ProviderTimeoutSeconds)
	set(&cfg.Providers.Demo, e.Demo)
	set(&cfg.Providers.Limit, e.Limit)
	set(&cfg.Providers.SearchK, e.SearchK)

	set(&cfg.Embedding.Provider, e.EmbeddingProvider)
	set(&cfg.Embedding.Model, e.EmbeddingModel)
	set(&cfg.Embedding.BaseURL, e.EmbeddingBaseURL)
	set(&cfg.Embedding.APIKey, e.EmbeddingAPIKey)
	set(&cfg.Embedding.Dimensions, e.EmbeddingDimensions)

	set(&cfg.LLM.Provider, e.LLMProvider)
	set(&cfg.LLM.Model, e.LLMModel)
	set(&cfg.LLM.BaseURL, e.LLMBaseURL)
	set(&cfg.LLM.APIKey, e.LLMAPIKey)
	set(&cfg.LLM.Refine, e.LLMRefine)
	set(&cfg.LLM.Summarise, e.LLMSummarise)

	set(&cfg.Store.Backend, e.StoreBackend)
	set(&cfg.Store.Path, e.StorePath)
	set(&cfg.Store.Compress, e.StoreCompress)

	set(&cfg.Extraction.Enabled, e.ExtractionEnabled)
	set(&cfg.Extraction.MaxPages, e.ExtractionMaxPages)
	set(&cfg.Extraction.MaxChars, e.ExtractionMaxChars)
	set(&cfg.Extraction.Concurrency, e.ExtractionConcurrency)

	set(&cfg.Server.Addr, e.ServerAddr)
	set(&cfg.Server.CORSOrigins, e.ServerCORSOrigins)
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
