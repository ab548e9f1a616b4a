package domain

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider for embeddings or LLM.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is OpenAI cloud API or any OpenAI-compatible server.
	AIProviderOpenAI AIProvider = "openai"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI:
		return true
	default:
		return false
	}
}

// AllAIProviders returns all supported AI providers in display order.
func AllAIProviders() []AIProvider {
	return []AIProvider{AIProviderOllama, AIProviderOpenAI}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	default:
		return unknownDescription
	}
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint.
	BaseURL string

	// APIKey is the API key (for OpenAI).
	APIKey string

	// Dimensions overrides the model's known vector size.
	Dimensions int
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// LLMSettings holds LLM provider configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL is the API endpoint.
	BaseURL string

	// APIKey is the API key (for OpenAI).
	APIKey string

	// Refine enables topic refinement before fetching.
	Refine bool

	// Summarise enables summarisation of extracted paper text.
	Summarise bool
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// StoreBackend identifies a vector store implementation.
type StoreBackend string

// Available store backends.
const (
	// StoreBackendSQLite persists records in a SQLite database (default).
	StoreBackendSQLite StoreBackend = "sqlite"

	// StoreBackendChromem persists records in a chromem-go collection.
	StoreBackendChromem StoreBackend = "chromem"

	// StoreBackendMemory keeps records in process memory only.
	StoreBackendMemory StoreBackend = "memory"
)

// IsValid returns true if the backend is recognised.
func (b StoreBackend) IsValid() bool {
	switch b {
	case StoreBackendSQLite, StoreBackendChromem, StoreBackendMemory:
		return true
	default:
		return false
	}
}

// IsDurable returns true if records survive a process restart.
func (b StoreBackend) IsDurable() bool {
	return b == StoreBackendSQLite || b == StoreBackendChromem
}

// String returns the string representation.
func (b StoreBackend) String() string {
	return string(b)
}

// Capabilities records which optional collaborators are available.
// Resolved once at startup; request handling only reads the flags.
type Capabilities struct {
	// HasRefiner is true when topics are refined by an LLM before fetching.
	HasRefiner bool `json:"has_refiner"`

	// HasSummariser is true when extracted paper text is summarised by an LLM.
	HasSummariser bool `json:"has_summariser"`

	// HasExtractor is true when paper PDFs are downloaded and converted to text.
	HasExtractor bool `json:"has_extractor"`

	// HasEmbedding is true when resources are indexed and semantic search works.
	HasEmbedding bool `json:"has_embedding"`

	// Strategies lists the fallback strategy names per pipeline, in cascade
	// order. An empty list means the pipeline has no provider configured.
	Strategies map[Pipeline][]string `json:"strategies"`
}

// DefaultEmbeddingModels returns default models for each embedding provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama: "nomic-embed-text",
		AIProviderOpenAI: "text-embedding-3-small",
	}
}

// DefaultLLMModels returns default models for each LLM provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama: "llama3:instruct",
		AIProviderOpenAI: "gpt-4o-mini",
	}
}

// EmbeddingDimensions returns the vector dimensions for known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		// Ollama models
		"nomic-embed-text":  768,
		"mxbai-embed-large": 1024,
		"all-minilm":        384,
		// OpenAI models
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
	}
}
