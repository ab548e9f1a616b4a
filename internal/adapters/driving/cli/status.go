package cli

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-learn/internal/adapters/driven/ai"
	"github.com/custodia-labs/sercha-learn/internal/adapters/driven/extractor/pdftotext"
	"github.com/custodia-labs/sercha-learn/internal/core/ports/driven"
)

// aiValidator checks that configured AI providers are reachable.
var aiValidator driven.AIConfigValidator = ai.NewConfigValidator()

// checkExtractor reports whether paper text extraction can run.
var checkExtractor = pdftotext.CheckAvailable

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show configuration and provider health",
	Long: `Shows the effective configuration and checks each optional collaborator:
the embedding and LLM providers are pinged and pdftotext is looked up on PATH.`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	path, err := resolvedConfigPath()
	if err != nil {
		return err
	}

	p := newPrinter(cmd.OutOrStdout())
	p.println(p.title.Render("Sercha Learn Status"))
	p.println("")

	if _, err := os.Stat(path); err == nil {
		p.check(true, "Config", path)
	} else {
		p.check(false, "Config", path+" (not found, using defaults)")
	}
	p.check(cfg.DataDir != "", "Data dir", cfg.DataDir)
	p.println("")

	p.println(p.heading.Render("[Providers]"))
	if key := cfg.Providers.YouTubeAPIKey; key != "" {
		p.check(true, "YouTube", "API key "+maskAPIKey(key))
	} else {
		p.check(false, "YouTube", "no API key (set YOUTUBE_API_KEY)")
	}
	if key := cfg.Providers.SemanticScholarAPIKey; key != "" {
		p.check(true, "Semantic Scholar", "API key "+maskAPIKey(key))
	} else {
		p.check(true, "Semantic Scholar", "anonymous")
	}
	p.check(true, "arXiv", "fallback for papers")
	p.check(cfg.Providers.Demo, "Demo", onOff(cfg.Providers.Demo))
	p.println("")

	p.println(p.heading.Render("[Embedding]"))
	embedding := cfg.EmbeddingSettings()
	if embedding == nil {
		p.check(false, "Provider", "disabled, semantic search unavailable")
	} else {
		detail := string(embedding.Provider) + " (" + embedding.Model + ")"
		err := aiValidator.ValidateEmbedding(embedding)
		if err != nil {
			detail += ": " + err.Error()
		}
		p.check(err == nil, "Provider", detail)
	}
	p.println("")

	p.println(p.heading.Render("[LLM]"))
	llm := cfg.LLMSettings()
	if llm == nil {
		p.check(false, "Provider", "disabled, topics are used as given and papers are not summarised")
	} else {
		detail := string(llm.Provider) + " (" + llm.Model + ")"
		err := aiValidator.ValidateLLM(llm)
		if err != nil {
			detail += ": " + err.Error()
		}
		p.check(err == nil, "Provider", detail)
		p.check(cfg.LLM.Refine, "Topic refinement", onOff(cfg.LLM.Refine))
		p.check(cfg.LLM.Summarise, "Summaries", onOff(cfg.LLM.Summarise))
	}
	p.println("")

	p.println(p.heading.Render("[Store]"))
	p.check(true, "Backend", cfg.Store.Backend)
	p.check(true, "Directory", cfg.StoreDir())
	p.println("")

	p.println(p.heading.Render("[Extraction]"))
	switch err := checkExtractor(); {
	case !cfg.Extraction.Enabled:
		p.check(false, "pdftotext", "disabled in config")
	case errors.Is(err, pdftotext.ErrPDFToolNotFound):
		p.check(false, "pdftotext", "not installed")
		p.println(pdftotext.InstallInstructions())
	case err != nil:
		p.check(false, "pdftotext", err.Error())
	default:
		p.check(true, "pdftotext", "available")
	}

	return nil
}

func onOff(b bool) string {
	if b {
		return "on"
	}
	return "off"
}
