package file

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/sercha-learn/internal/core/domain"
)

// AppDirName is the directory under the user's home holding config and data.
const AppDirName = ".sercha-learn"

// ConfigFileName is the name of the TOML config file.
const ConfigFileName = "config.toml"

// Config is the application configuration.
//
// Values are layered: built-in defaults, then the TOML file, then
// environment variables (after loading .env).
type Config struct {
	// DataDir holds the vector store and prompt files.
	DataDir string `toml:"data_dir"`

	Providers  ProvidersConfig  `toml:"providers"`
	Embedding  EmbeddingConfig  `toml:"embedding"`
	LLM        LLMConfig        `toml:"llm"`
	Store      StoreConfig      `toml:"store"`
	Extraction ExtractionConfig `toml:"extraction"`
	Server     ServerConfig     `toml:"server"`
}

// ProvidersConfig configures the external catalogs.
type ProvidersConfig struct {
	// YouTubeAPIKey enables the YouTube provider. Also read from YOUTUBE_API_KEY.
	YouTubeAPIKey string `toml:"youtube_api_key"`

	// SemanticScholarAPIKey is optional.
	SemanticScholarAPIKey string `toml:"semantic_scholar_api_key"`

	// TimeoutSeconds bounds each provider call.
	TimeoutSeconds int `toml:"timeout_seconds"`

	// Demo appends the offline demo provider as the last strategy.
	Demo bool `toml:"demo"`

	// Limit is the number of resources kept per pipeline.
	Limit int `toml:"limit"`

	// SearchK is the default number of semantic search results.
	SearchK int `toml:"search_k"`
}

// EmbeddingConfig configures the embedding service. An empty provider
// disables indexing and semantic search.
type EmbeddingConfig struct {
	Provider   string `toml:"provider"`
	Model      string `toml:"model"`
	BaseURL    string `toml:"base_url"`
	APIKey     string `toml:"api_key"`
	Dimensions int    `toml:"dimensions"`
}

// LLMConfig configures the optional language model.
type LLMConfig struct {
	Provider  string `toml:"provider"`
	Model     string `toml:"model"`
	BaseURL   string `toml:"base_url"`
	APIKey    string `toml:"api_key"`
	Refine    bool   `toml:"refine"`
	Summarise bool   `toml:"summarise"`
}

// StoreConfig selects the vector store backend.
type StoreConfig struct {
	Backend string `toml:"backend"`

	// Path overrides the store directory (default: <data_dir>/store).
	Path string `toml:"path"`

	// Compress enables gzip for the chromem backend.
	Compress bool `toml:"compress"`
}

// ExtractionConfig configures paper text extraction.
type ExtractionConfig struct {
	Enabled     bool `toml:"enabled"`
	MaxPages    int  `toml:"max_pages"`
	MaxChars    int  `toml:"max_chars"`
	Concurrency int  `toml:"concurrency"`
}

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr        string   `toml:"addr"`
	CORSOrigins []string `toml:"cors_origins"`
}

// DefaultConfig returns the built-in configuration. DataDir is
// ~/.sercha-learn when the home directory is resolvable.
func DefaultConfig() Config {
	dataDir := ""
	if home, err := os.UserHomeDir(); err == nil {
		dataDir = filepath.Join(home, AppDirName)
	}
	return Config{
		DataDir: dataDir,
		Providers: ProvidersConfig{
			TimeoutSeconds: 20,
			Limit:          10,
			SearchK:        5,
		},
		Embedding: EmbeddingConfig{
			Provider: string(domain.AIProviderOllama),
		},
		LLM: LLMConfig{
			Refine:    true,
			Summarise: true,
		},
		Store: StoreConfig{
			Backend: string(domain.StoreBackendSQLite),
		},
		Extraction: ExtractionConfig{
			Enabled:     true,
			MaxPages:    3,
			MaxChars:    2000,
			Concurrency: 4,
		},
		Server: ServerConfig{
			Addr:        ":5000",
			CORSOrigins: []string{"*"},
		},
	}
}

// DefaultPath returns ~/.sercha-learn/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(home, AppDirName, ConfigFileName), nil
}

// Load builds the configuration from defaults, the TOML file at path and
// the environment. A missing file is not an error. If path is empty the
// default path is used.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return Config{}, err
		}
		path = p
	}

	if err := cfg.mergeFile(path); err != nil {
		return Config{}, err
	}
	if err := cfg.mergeEnv(); err != nil {
		return Config{}, err
	}
	cfg.normalise()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// mergeFile overlays values present in the TOML file.
func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	if err := toml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("%w: parse %s: %w", domain.ErrInvalidInput, path, err)
	}
	return nil
}

// normalise lower-cases enumerated values.
func (c *Config) normalise() {
	c.Embedding.Provider = strings.ToLower(strings.TrimSpace(c.Embedding.Provider))
	c.LLM.Provider = strings.ToLower(strings.TrimSpace(c.LLM.Provider))
	c.Store.Backend = strings.ToLower(strings.TrimSpace(c.Store.Backend))
}

// Validate checks enumerated and numeric fields.
func (c Config) Validate() error {
	var errs []error
	if c.Embedding.Provider != "" && !domain.AIProvider(c.Embedding.Provider).IsValid() {
		errs = append(errs, fmt.Errorf("embedding.provider %q", c.Embedding.Provider))
	}
	if c.LLM.Provider != "" && !domain.AIProvider(c.LLM.Provider).IsValid() {
		errs = append(errs, fmt.Errorf("llm.provider %q", c.LLM.Provider))
	}
	if !domain.StoreBackend(c.Store.Backend).IsValid() {
		errs = append(errs, fmt.Errorf("store.backend %q", c.Store.Backend))
	}
	if c.Providers.Limit <= 0 {
		errs = append(errs, fmt.Errorf("providers.limit must be positive, got %d", c.Providers.Limit))
	}
	if c.Providers.SearchK <= 0 {
		errs = append(errs, fmt.Errorf("providers.search_k must be positive, got %d", c.Providers.SearchK))
	}
	if c.Embedding.Dimensions < 0 {
		errs = append(errs, fmt.Errorf("embedding.dimensions must not be negative"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: invalid config: %w", domain.ErrInvalidInput, errors.Join(errs...))
	}
	return nil
}

// Save writes cfg to path as TOML, creating the directory if needed.
func Save(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return os.WriteFile(path, data, 0600)
}

// ProviderTimeout returns the provider timeout as a duration.
func (c Config) ProviderTimeout() time.Duration {
	if c.Providers.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(c.Providers.TimeoutSeconds) * time.Second
}

// StoreDir returns the directory for the vector store.
func (c Config) StoreDir() string {
	if c.Store.Path != "" {
		return c.Store.Path
	}
	return filepath.Join(c.DataDir, "store")
}

// PromptDir returns the directory for user-editable prompts.
func (c Config) PromptDir() string {
	return filepath.Join(c.DataDir, "prompts")
}

// EmbeddingSettings converts the embedding section to domain settings.
// Returns nil when embeddings are disabled.
func (c Config) EmbeddingSettings() *domain.EmbeddingSettings {
	if c.Embedding.Provider == "" {
		return nil
	}
	provider := domain.AIProvider(c.Embedding.Provider)
	model := c.Embedding.Model
	if model == "" {
		model = domain.DefaultEmbeddingModels()[provider]
	}
	return &domain.EmbeddingSettings{
		Provider:   provider,
		Model:      model,
		BaseURL:    c.Embedding.BaseURL,
		APIKey:     c.Embedding.APIKey,
		Dimensions: c.Embedding.Dimensions,
	}
}

// LLMSettings converts the llm section to domain settings.
// Returns nil when no LLM is configured.
func (c Config) LLMSettings() *domain.LLMSettings {
	if c.LLM.Provider == "" {
		return nil
	}
	provider := domain.AIProvider(c.LLM.Provider)
	model := c.LLM.Model
	if model == "" {
		model = domain.DefaultLLMModels()[provider]
	}
	return &domain.LLMSettings{
		Provider:  provider,
		Model:     model,
		BaseURL:   c.LLM.BaseURL,
		APIKey:    c.LLM.APIKey,
		Refine:    c.LLM.Refine,
		Summarise: c.LLM.Summarise,
	}
}
