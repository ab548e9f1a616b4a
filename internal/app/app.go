// Package app wires configuration, adapters and services into a ready
// orchestrator. It is the composition root shared by every entry point.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/custodia-labs/sercha-learn/internal/adapters/driven/ai"
	"github.com/custodia-labs/sercha-learn/internal/adapters/driven/config/file"
	"github.com/custodia-labs/sercha-learn/internal/adapters/driven/extractor/pdftotext"
	"github.com/custodia-labs/sercha-learn/internal/adapters/driven/storage"
	"github.com/custodia-labs/sercha-learn/internal/connectors/arxiv"
	"github.com/custodia-labs/sercha-learn/internal/connectors/demo"
	"github.com/custodia-labs/sercha-learn/internal/connectors/semanticscholar"
	"github.com/custodia-labs/sercha-learn/internal/connectors/youtube"
	"github.com/custodia-labs/sercha-learn/internal/core/domain"
	"github.com/custodia-labs/sercha-learn/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-learn/internal/core/ports/driving"
	"github.com/custodia-labs/sercha-learn/internal/core/services"
	"github.com/custodia-labs/sercha-learn/internal/logger"
	"github.com/custodia-labs/sercha-learn/internal/normalisers"
	"github.com/custodia-labs/sercha-learn/internal/postprocessors"
)

// App holds the wired orchestrator and everything that must be closed with it.
type App struct {
	// Orchestrator serves runs and semantic search.
	Orchestrator driving.Orchestrator

	// Config is the configuration the app was built from.
	Config file.Config

	// Warnings lists optional features that were disabled during startup.
	Warnings []string

	// Strategies lists the fallback strategy names per pipeline.
	Strategies map[domain.Pipeline][]string

	ai    *ai.InitResult
	store driven.VectorStore
}

// New builds the application from cfg. Optional collaborators that cannot
// be created are disabled and reported in Warnings; only an unusable vector
// store fails startup.
func New(ctx context.Context, cfg file.Config) (*App, error) {
	logger.Section("Startup")

	a := &App{Config: cfg}

	prompts, err := file.NewPromptStore(cfg.PromptDir())
	if err != nil {
		return nil, fmt.Errorf("creating prompt store: %w", err)
	}

	a.ai = ai.Init(cfg.EmbeddingSettings(), cfg.LLMSettings(), prompts)
	a.Warnings = append(a.Warnings, a.ai.Warnings...)

	var store *services.EmbeddingStore
	if emb := a.ai.EmbeddingService; emb != nil {
		a.store, err = storage.Open(storage.Options{
			Backend:    domain.StoreBackend(cfg.Store.Backend),
			DataDir:    cfg.StoreDir(),
			Dimensions: emb.Dimensions(),
			Model:      emb.ModelName(),
			Compress:   cfg.Store.Compress,
		})
		if err != nil {
			a.ai.Close()
			return nil, fmt.Errorf("opening vector store: %w", err)
		}
		store = services.NewEmbeddingStore(emb, a.store)
	}

	videos, papers := a.fetchers(ctx)

	opts := []services.OrchestratorOption{
		services.WithLimit(cfg.Providers.Limit),
		services.WithSearchK(cfg.Providers.SearchK),
		services.WithEnrichConcurrency(cfg.Extraction.Concurrency),
	}
	if llm := a.ai.LLMService; llm != nil && cfg.LLM.Refine {
		opts = append(opts, services.WithRefiner(llm))
	}
	if pipeline, summarises := a.enricher(); pipeline != nil {
		opts = append(opts, services.WithEnricher(pipeline, true, summarises))
	}

	orch := services.NewOrchestrator(videos, papers, store, opts...)
	a.Orchestrator = orch

	caps := orch.Capabilities()
	logger.Info("Capabilities: refiner=%t extractor=%t summariser=%t embedding=%t",
		caps.HasRefiner, caps.HasExtractor, caps.HasSummariser, caps.HasEmbedding)

	return a, nil
}

// fetchers builds the video and paper fallback cascades.
func (a *App) fetchers(ctx context.Context) (*services.FallbackFetcher, *services.FallbackFetcher) {
	cfg := a.Config
	timeout := cfg.ProviderTimeout()
	registry := normalisers.NewDefaultRegistry()

	var youtubeProvider, secondaryVideo driven.Provider
	catalog, err := youtube.NewCatalog(ctx, youtube.Config{
		APIKey:  cfg.Providers.YouTubeAPIKey,
		Timeout: timeout,
	})
	switch {
	case err == nil:
		youtubeProvider = youtube.New(catalog)
	case errors.Is(err, youtube.ErrMissingAPIKey):
		a.warn("YouTube disabled: no API key configured")
	default:
		a.warn(fmt.Sprintf("YouTube disabled: %v", err))
	}

	var secondaryPaper []driven.Provider
	secondaryPaper = append(secondaryPaper, arxiv.New(arxiv.Config{Timeout: timeout}))
	if cfg.Providers.Demo {
		secondaryVideo = demo.New(domain.ResourceKindVideo)
		secondaryPaper = append(secondaryPaper, demo.New(domain.ResourceKindPaper))
	}

	scholar := semanticscholar.New(semanticscholar.Config{
		APIKey:  cfg.Providers.SemanticScholarAPIKey,
		Timeout: timeout,
	})

	videos := services.NewFallbackFetcher(domain.PipelineVideo, registry, services.VideoPolicy,
		services.VideoStrategies(youtubeProvider, secondaryVideo)...)
	papers := services.NewFallbackFetcher(domain.PipelinePaper, registry, services.PaperPolicy,
		services.PaperStrategies(scholar, secondaryPaper...)...)

	a.Strategies = map[domain.Pipeline][]string{
		domain.PipelineVideo: videos.Strategies(),
		domain.PipelinePaper: papers.Strategies(),
	}
	logger.Debug("Video strategies: %v", a.Strategies[domain.PipelineVideo])
	logger.Debug("Paper strategies: %v", a.Strategies[domain.PipelinePaper])

	return videos, papers
}

// enricher builds the paper enrichment pipeline. Returns nil when
// extraction is disabled or pdftotext is missing.
func (a *App) enricher() (driven.PostProcessorPipeline, bool) {
	cfg := a.Config
	if !cfg.Extraction.Enabled {
		return nil, false
	}
	if err := pdftotext.CheckAvailable(); err != nil {
		a.warn(fmt.Sprintf("Paper text extraction disabled: %v", err))
		return nil, false
	}

	llm := a.ai.LLMService
	summarise := llm != nil && cfg.LLM.Summarise

	registry := postprocessors.NewRegistry()
	postprocessors.RegisterDefaults(registry)

	deps := postprocessors.Deps{
		Extractor: pdftotext.New(pdftotext.WithMaxChars(cfg.Extraction.MaxChars)),
		LLM:       llm,
	}
	pipeline, err := registry.BuildPipeline(
		postprocessors.DefaultSteps(cfg.Extraction.MaxPages, cfg.Extraction.MaxChars, summarise), deps)
	if err != nil {
		a.warn(fmt.Sprintf("Paper enrichment disabled: %v", err))
		return nil, false
	}
	logger.Debug("Enrichment pipeline: %v", pipeline.Names())
	return pipeline, summarise
}

func (a *App) warn(msg string) {
	logger.Warn("%s", msg)
	a.Warnings = append(a.Warnings, msg)
}

// Close releases the vector store and AI services.
func (a *App) Close() error {
	var err error
	if a.store != nil {
		err = a.store.Close()
	}
	if a.ai != nil {
		a.ai.Close()
	}
	return err
}
