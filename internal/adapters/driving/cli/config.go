package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/sercha-learn/internal/adapters/driven/config/file"
	"github.com/custodia-labs/sercha-learn/internal/core/domain"
)

var configInitForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `View and edit the configuration file.

Values are layered: built-in defaults, then the TOML config file, then
SERCHA_* environment variables (a .env file in the working directory is
loaded first).`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	RunE:  runConfigShow,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	RunE: func(cmd *cobra.Command, _ []string) error {
		path, err := resolvedConfigPath()
		if err != nil {
			return err
		}
		cmd.Println(path)
		return nil
	},
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a config file with the default values",
	RunE:  runConfigInit,
}

var configWizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Interactive setup wizard",
	Long:  `Run an interactive wizard to configure providers step by step.`,
	RunE:  runConfigWizard,
}

func init() {
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "overwrite an existing config file")
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configWizardCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cfg = maskedConfig(cfg)

	if jsonOutput {
		return writeJSON(cmd.OutOrStdout(), cfg)
	}

	cmd.Println("Current Configuration")
	cmd.Println("=====================")
	cmd.Println()
	cmd.Printf("Data dir: %s\n", cfg.DataDir)
	cmd.Println()

	cmd.Println("[Providers]")
	cmd.Printf("  YouTube API key: %s\n", orNotSet(cfg.Providers.YouTubeAPIKey))
	cmd.Printf("  Semantic Scholar API key: %s\n", orNotSet(cfg.Providers.SemanticScholarAPIKey))
	cmd.Printf("  Timeout: %s\n", cfg.ProviderTimeout())
	cmd.Printf("  Demo mode: %s\n", onOff(cfg.Providers.Demo))
	cmd.Printf("  Results per pipeline: %d\n", cfg.Providers.Limit)
	cmd.Printf("  Semantic search k: %d\n", cfg.Providers.SearchK)
	cmd.Println()

	cmd.Println("[Embedding]")
	if embedding := cfg.EmbeddingSettings(); embedding != nil {
		printAISettings(cmd, embedding.Provider, embedding.Model, embedding.BaseURL, embedding.APIKey)
		if embedding.Dimensions > 0 {
			cmd.Printf("  Dimensions: %d\n", embedding.Dimensions)
		}
	} else {
		cmd.Println("  Provider: disabled")
	}
	cmd.Println()

	cmd.Println("[LLM]")
	if llm := cfg.LLMSettings(); llm != nil {
		printAISettings(cmd, llm.Provider, llm.Model, llm.BaseURL, llm.APIKey)
		cmd.Printf("  Refine topics: %s\n", onOff(cfg.LLM.Refine))
		cmd.Printf("  Summarise papers: %s\n", onOff(cfg.LLM.Summarise))
	} else {
		cmd.Println("  Provider: disabled")
	}
	cmd.Println()

	cmd.Println("[Store]")
	cmd.Printf("  Backend: %s\n", cfg.Store.Backend)
	cmd.Printf("  Directory: %s\n", cfg.StoreDir())
	cmd.Println()

	cmd.Println("[Extraction]")
	cmd.Printf("  Enabled: %s\n", onOff(cfg.Extraction.Enabled))
	cmd.Printf("  Max pages: %d\n", cfg.Extraction.MaxPages)
	cmd.Printf("  Max chars: %d\n", cfg.Extraction.MaxChars)
	cmd.Println()

	cmd.Println("[Server]")
	cmd.Printf("  Address: %s\n", cfg.Server.Addr)
	cmd.Printf("  CORS origins: %s\n", strings.Join(cfg.Server.CORSOrigins, ", "))

	return nil
}

func printAISettings(cmd *cobra.Command, provider domain.AIProvider, model, baseURL, apiKey string) {
	cmd.Printf("  Provider: %s\n", provider.Description())
	cmd.Printf("  Model: %s\n", model)
	if baseURL != "" {
		cmd.Printf("  Base URL: %s\n", baseURL)
	}
	if provider.RequiresAPIKey() {
		cmd.Printf("  API Key: %s\n", orNotSet(apiKey))
	}
}

func runConfigInit(cmd *cobra.Command, _ []string) error {
	path, err := resolvedConfigPath()
	if err != nil {
		return err
	}
	if _, err := os.Stat(path); err == nil && !configInitForce {
		return fmt.Errorf("config file already exists at %s (use --force to overwrite)", path)
	}

	if err := file.Save(path, file.DefaultConfig()); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	cmd.Printf("Wrote default configuration to %s\n", path)
	return nil
}

func runConfigWizard(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	path, err := resolvedConfigPath()
	if err != nil {
		return err
	}

	cmd.Println("Sercha Learn Setup Wizard")
	cmd.Println("=========================")
	cmd.Println()

	reader := bufio.NewReader(cmd.InOrStdin())

	// Step 1: Providers
	cmd.Println("Step 1: Video and Paper Providers")
	cmd.Println("---------------------------------")
	cmd.Println("A YouTube Data API key enables video search. Leave empty to keep the current value.")
	cmd.Printf("YouTube API key [%s]: ", orNotSet(maskedKey(cfg.Providers.YouTubeAPIKey)))
	if key := readPassword(cmd.InOrStdin(), reader); key != "" {
		cfg.Providers.YouTubeAPIKey = key
	}
	cmd.Println()
	cmd.Printf("Semantic Scholar API key (optional) [%s]: ", orNotSet(maskedKey(cfg.Providers.SemanticScholarAPIKey)))
	if key := readPassword(cmd.InOrStdin(), reader); key != "" {
		cfg.Providers.SemanticScholarAPIKey = key
	}
	cmd.Println()
	cmd.Println()

	// Step 2: Embedding Provider
	cmd.Println("Step 2: Embedding Provider")
	cmd.Println("--------------------------")
	cmd.Println("Embeddings index gathered resources for semantic search.")
	cmd.Println()
	provider, model, apiKey, err := selectAIProvider(cmd, reader, domain.DefaultEmbeddingModels())
	if err != nil {
		return err
	}
	cfg.Embedding.Provider, cfg.Embedding.Model, cfg.Embedding.APIKey = string(provider), model, apiKey
	if embedding := cfg.EmbeddingSettings(); embedding != nil {
		cmd.Print("Validating configuration... ")
		if err := aiValidator.ValidateEmbedding(embedding); err != nil {
			cmd.Printf("FAILED: %v\n", err)
			return fmt.Errorf("embedding configuration validation failed: %w", err)
		}
		cmd.Println("OK")
	}
	cmd.Println()

	// Step 3: LLM Provider
	cmd.Println("Step 3: LLM Provider")
	cmd.Println("--------------------")
	cmd.Println("An LLM refines topics into search queries and summarises papers.")
	cmd.Println()
	provider, model, apiKey, err = selectAIProvider(cmd, reader, domain.DefaultLLMModels())
	if err != nil {
		return err
	}
	cfg.LLM.Provider, cfg.LLM.Model, cfg.LLM.APIKey = string(provider), model, apiKey
	if llm := cfg.LLMSettings(); llm != nil {
		cmd.Print("Validating configuration... ")
		if err := aiValidator.ValidateLLM(llm); err != nil {
			cmd.Printf("FAILED: %v\n", err)
			return fmt.Errorf("LLM configuration validation failed: %w", err)
		}
		cmd.Println("OK")
	}
	cmd.Println()

	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := file.Save(path, cfg); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	cmd.Println("Configuration Complete!")
	cmd.Println("=======================")
	cmd.Printf("Saved to %s\n", path)
	return nil
}

// selectAIProvider prompts for a provider, model and API key. An empty
// provider means the feature is disabled.
func selectAIProvider(cmd *cobra.Command, reader *bufio.Reader, defaults map[domain.AIProvider]string) (domain.AIProvider, string, string, error) {
	providers := domain.AllAIProviders()
	for i, p := range providers {
		cmd.Printf("  %d. %s\n", i+1, p.Description())
	}
	cmd.Printf("  %d. Disabled\n", len(providers)+1)
	cmd.Print("\nEnter choice [1]: ")
	idx := parseChoice(readLine(reader), len(providers)+1, 1)
	if idx == len(providers)+1 {
		cmd.Println("Disabled.")
		return "", "", "", nil
	}
	selected := providers[idx-1]

	defaultModel := defaults[selected]
	cmd.Printf("Enter model name [%s]: ", defaultModel)
	model := readLine(reader)
	if model == "" {
		model = defaultModel
	}

	var apiKey string
	if selected.RequiresAPIKey() {
		cmd.Print("Enter API key: ")
		apiKey = readPassword(cmd.InOrStdin(), reader)
		cmd.Println()
		if apiKey == "" {
			return "", "", "", errors.New("API key is required for this provider")
		}
	}
	return selected, model, apiKey, nil
}

// maskedConfig returns cfg with every secret masked.
func maskedConfig(cfg file.Config) file.Config {
	cfg.Providers.YouTubeAPIKey = maskedKey(cfg.Providers.YouTubeAPIKey)
	cfg.Providers.SemanticScholarAPIKey = maskedKey(cfg.Providers.SemanticScholarAPIKey)
	cfg.Embedding.APIKey = maskedKey(cfg.Embedding.APIKey)
	cfg.LLM.APIKey = maskedKey(cfg.LLM.APIKey)
	return cfg
}

// maskedKey masks key, leaving empty keys empty.
func maskedKey(key string) string {
	if key == "" {
		return ""
	}
	return maskAPIKey(key)
}

func orNotSet(s string) string {
	if s == "" {
		return "(not set)"
	}
	return s
}

// Helper functions.

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

func parseChoice(input string, maxVal, defaultVal int) int {
	if input == "" {
		return defaultVal
	}
	val, err := strconv.Atoi(input)
	if err != nil || val < 1 || val > maxVal {
		return defaultVal
	}
	return val
}

// readPassword reads a secret without echo when in is a terminal,
// otherwise a plain line from reader.
func readPassword(in io.Reader, reader *bufio.Reader) string {
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		password, err := term.ReadPassword(int(f.Fd()))
		if err == nil {
			return strings.TrimSpace(string(password))
		}
	}
	return readLine(reader)
}

func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
