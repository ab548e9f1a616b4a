package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/custodia-labs/sercha-learn/internal/core/domain"
	"github.com/custodia-labs/sercha-learn/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-learn/internal/core/ports/driving"
	"github.com/custodia-labs/sercha-learn/internal/logger"
)

// Ensure Orchestrator implements the interface.
var _ driving.Orchestrator = (*Orchestrator)(nil)

// Orchestration defaults.
const (
	DefaultLimit             = 10
	DefaultSearchK           = 5
	DefaultEnrichConcurrency = 4
)

// Orchestrator runs the video and paper pipelines for a topic, enriches
// papers with extracted text, indexes everything and serves semantic search.
//
// Optional collaborators are fixed at construction; Capabilities reports them.
type Orchestrator struct {
	videos   *FallbackFetcher
	papers   *FallbackFetcher
	store    *EmbeddingStore
	refiner  driven.LLMService
	enricher driven.PostProcessorPipeline

	caps              domain.Capabilities
	limit             int
	searchK           int
	enrichConcurrency int
}

// OrchestratorOption configures an Orchestrator.
type OrchestratorOption func(*Orchestrator)

// WithRefiner enables LLM topic refinement before fetching.
func WithRefiner(llm driven.LLMService) OrchestratorOption {
	return func(o *Orchestrator) {
		o.refiner = llm
	}
}

// WithEnricher enables paper enrichment. extracts and summarises describe
// what the pipeline does and are reported through Capabilities.
func WithEnricher(p driven.PostProcessorPipeline, extracts, summarises bool) OrchestratorOption {
	return func(o *Orchestrator) {
		o.enricher = p
		o.caps.HasExtractor = p != nil && extracts
		o.caps.HasSummariser = p != nil && summarises
	}
}

// WithLimit sets the per-pipeline result limit.
func WithLimit(n int) OrchestratorOption {
	return func(o *Orchestrator) {
		if n > 0 {
			o.limit = n
		}
	}
}

// WithSearchK sets the default number of semantic search results.
func WithSearchK(k int) OrchestratorOption {
	return func(o *Orchestrator) {
		if k > 0 {
			o.searchK = k
		}
	}
}

// WithEnrichConcurrency bounds concurrent paper enrichment.
func WithEnrichConcurrency(n int) OrchestratorOption {
	return func(o *Orchestrator) {
		if n > 0 {
			o.enrichConcurrency = n
		}
	}
}

// NewOrchestrator creates an orchestrator. store may be nil, which disables
// indexing and semantic search.
func NewOrchestrator(videos, papers *FallbackFetcher, store *EmbeddingStore, opts ...OrchestratorOption) *Orchestrator {
	o := &Orchestrator{
		videos:            videos,
		papers:            papers,
		store:             store,
		limit:             DefaultLimit,
		searchK:           DefaultSearchK,
		enrichConcurrency: DefaultEnrichConcurrency,
	}
	for _, opt := range opts {
		opt(o)
	}
	o.caps.HasRefiner = o.refiner != nil
	o.caps.HasEmbedding = o.store != nil
	o.caps.Strategies = map[domain.Pipeline][]string{
		videos.Pipeline(): videos.Strategies(),
		papers.Pipeline(): papers.Strategies(),
	}
	return o
}

// Capabilities reports which optional collaborators are enabled.
func (o *Orchestrator) Capabilities() domain.Capabilities {
	return o.caps
}

// Run fetches, enriches and indexes resources for topic.
func (o *Orchestrator) Run(ctx context.Context, topic string) (domain.RunResult, error) {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return domain.RunResult{}, fmt.Errorf("%w: topic is required", domain.ErrInvalidInput)
	}

	logger.Section("Run")
	logger.Debug("Topic: %q", topic)

	diag := &domain.Diagnostics{}
	searchTopic := o.refine(ctx, topic, diag)

	var videos, papers []domain.Resource
	var videoReport, paperReport domain.FetchReport
	var g errgroup.Group
	g.Go(func() error {
		videos, videoReport = o.videos.Fetch(ctx, searchTopic, o.limit)
		return nil
	})
	g.Go(func() error {
		papers, paperReport = o.papers.Fetch(ctx, searchTopic, o.limit)
		return nil
	})
	_ = g.Wait()

	for _, r := range []domain.FetchReport{videoReport, paperReport} {
		if r.Failed() {
			diag.Fetch = append(diag.Fetch, r)
		}
	}
	for _, f := range []*FallbackFetcher{o.videos, o.papers} {
		if len(f.strategies) == 0 {
			diag.Errorf("no %s provider configured", f.pipeline)
		}
	}

	o.index(ctx, videos, papers, diag)

	return domain.RunResult{
		Topic:       searchTopic,
		Videos:      videos,
		Papers:      papers,
		Diagnostics: diag.OrNil(),
	}, nil
}

// refine returns the refined topic, or topic itself when refinement is
// disabled, fails or comes back empty.
func (o *Orchestrator) refine(ctx context.Context, topic string, diag *domain.Diagnostics) string {
	if o.refiner == nil {
		return topic
	}

	refined, err := o.refiner.RefineTopic(ctx, topic)
	if err != nil {
		logger.Warn("Topic refinement failed, using topic verbatim: %v", err)
		diag.Errorf("refine: %v", err)
		return topic
	}

	refined = strings.TrimSpace(refined)
	if refined == "" {
		return topic
	}
	logger.Debug("Refined topic: %q", refined)
	return refined
}

// index enriches papers and adds everything to the store. Failures are
// recorded in diag and never affect the fetched resources.
func (o *Orchestrator) index(ctx context.Context, videos, papers []domain.Resource, diag *domain.Diagnostics) {
	if o.store == nil {
		return
	}

	extra := o.enrich(ctx, papers)

	all := make([]domain.Resource, 0, len(videos)+len(papers))
	all = append(all, videos...)
	all = append(all, papers...)

	report, err := o.store.Add(ctx, all, extra)
	if report.Skipped > 0 {
		diag.Index = &report
	}
	if err != nil {
		if errors.Is(err, domain.ErrStoreCorruption) {
			logger.Error("Vector store rejected records: %v", err)
		} else {
			logger.Warn("Indexing failed: %v", err)
		}
		diag.Errorf("index: %v", err)
	}
}

// enrich runs the enrichment pipeline over papers with bounded concurrency.
// A paper whose pipeline fails is embedded from title and abstract only.
func (o *Orchestrator) enrich(ctx context.Context, papers []domain.Resource) map[string]string {
	extra := make(map[string]string, len(papers))
	if o.enricher == nil || len(papers) == 0 {
		return extra
	}

	logger.Section("Enrich")

	var mu sync.Mutex
	var g errgroup.Group
	g.SetLimit(o.enrichConcurrency)

	for _, p := range papers {
		g.Go(func() error {
			text, err := o.enricher.Process(ctx, p)
			if err != nil {
				logger.Debug("Enrichment of %q failed: %v", p.Title, err)
				return nil
			}
			if text = strings.TrimSpace(text); text != "" {
				mu.Lock()
				extra[p.ID] = text
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	logger.Debug("Enriched %d of %d papers", len(extra), len(papers))
	return extra
}

// SemanticSearch returns the k indexed documents closest to query.
// A k of zero or less uses the configured default.
func (o *Orchestrator) SemanticSearch(ctx context.Context, query string, k int) (domain.SearchResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return domain.SearchResponse{}, fmt.Errorf("%w: query is required", domain.ErrInvalidInput)
	}
	if k <= 0 {
		k = o.searchK
	}

	resp := domain.SearchResponse{Query: query, Results: []domain.SearchHit{}}
	diag := &domain.Diagnostics{}

	if o.store == nil {
		diag.Errorf("search: %v", domain.ErrEmbeddingUnavailable)
		resp.Diagnostics = diag
		return resp, nil
	}

	hits, err := o.store.Search(ctx, query, k)
	if err != nil {
		if errors.Is(err, domain.ErrStoreCorruption) {
			logger.Error("Semantic search failed: %v", err)
			return domain.SearchResponse{}, err
		}
		logger.Warn("Semantic search degraded: %v", err)
		diag.Errorf("search: %v", err)
		resp.Diagnostics = diag
		return resp, nil
	}

	resp.Results = hits
	return resp, nil
}
