package services

import (
	"context"
	"errors"
	"hash/fnv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/custodia-labs/sercha-learn/internal/core/domain"
	"github.com/custodia-labs/sercha-learn/internal/core/ports/driven"
)

// --- Mock implementations ---

// mockProvider implements driven.Provider for testing.
type mockProvider struct {
	name  string
	kind  domain.ResourceKind
	items []domain.RawItem
	err   error

	// byQuery overrides items for specific queries.
	byQuery map[string][]domain.RawItem

	mu      sync.Mutex
	calls   int
	queries []string
	limits  []int
}

func (m *mockProvider) Name() string              { return m.name }
func (m *mockProvider) Kind() domain.ResourceKind { return m.kind }

func (m *mockProvider) Fetch(_ context.Context, query string, limit int) ([]domain.RawItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.calls++
	m.queries = append(m.queries, query)
	m.limits = append(m.limits, limit)

	if m.err != nil {
		return nil, m.err
	}
	items := m.items
	if q, ok := m.byQuery[query]; ok {
		items = q
	}
	if len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

func (m *mockProvider) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// mockEmbedder implements driven.EmbeddingService with deterministic
// bag-of-words vectors so related texts are close.
type mockEmbedder struct {
	dims     int
	err      error
	batchErr error

	// failOn fails any text containing one of these substrings.
	failOn []string

	// vectors overrides the embedding of exact texts.
	vectors map[string][]float32

	embedCalls atomic.Int32
	batchCalls atomic.Int32
}

func newMockEmbedder() *mockEmbedder {
	return &mockEmbedder{dims: 64}
}

func (m *mockEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	m.embedCalls.Add(1)
	if m.err != nil {
		return nil, m.err
	}
	for _, s := range m.failOn {
		if strings.Contains(text, s) {
			return nil, errors.New("embedding backend rejected text")
		}
	}
	if v, ok := m.vectors[text]; ok {
		return v, nil
	}
	return bagOfWords(text, m.dims), nil
}

func (m *mockEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	m.batchCalls.Add(1)
	if m.batchErr != nil {
		return nil, m.batchErr
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v, err := m.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (m *mockEmbedder) Dimensions() int              { return m.dims }
func (m *mockEmbedder) ModelName() string            { return "mock-embed" }
func (m *mockEmbedder) Ping(_ context.Context) error { return nil }
func (m *mockEmbedder) Close() error                 { return nil }

func bagOfWords(text string, dims int) []float32 {
	vec := make([]float32, dims)
	for _, w := range strings.Fields(strings.ToLower(text)) {
		h := fnv.New32a()
		_, _ = h.Write([]byte(w))
		vec[h.Sum32()%uint32(dims)]++
	}
	// Keep empty text off the zero vector.
	vec[0] += 0.01
	return vec
}

// mockLLM implements driven.LLMService for testing.
type mockLLM struct {
	refined   string
	refineErr error
	summary   string
	sumErr    error

	refineCalls atomic.Int32
}

func (m *mockLLM) Generate(_ context.Context, _ string, _ driven.GenerateOptions) (string, error) {
	return "", nil
}

func (m *mockLLM) RefineTopic(_ context.Context, topic string) (string, error) {
	m.refineCalls.Add(1)
	if m.refineErr != nil {
		return "", m.refineErr
	}
	return m.refined, nil
}

func (m *mockLLM) Summarise(_ context.Context, _ string) (string, error) {
	return m.summary, m.sumErr
}

func (m *mockLLM) ModelName() string            { return "mock-llm" }
func (m *mockLLM) Ping(_ context.Context) error { return nil }
func (m *mockLLM) Close() error                 { return nil }

// mockPipeline implements driven.PostProcessorPipeline for testing.
type mockPipeline struct {
	texts map[string]string
	err   error

	mu    sync.Mutex
	seen  []string
	calls int
}

func (m *mockPipeline) Process(_ context.Context, res domain.Resource) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	m.seen = append(m.seen, res.Title)
	if m.err != nil {
		return "", m.err
	}
	return m.texts[res.Title], nil
}

// mockVectorStore wraps a driven.VectorStore and can fail on demand.
type mockVectorStore struct {
	driven.VectorStore
	appendErr error
	searchErr error
}

func (m *mockVectorStore) Append(ctx context.Context, r domain.EmbeddingRecord) (int64, error) {
	if m.appendErr != nil {
		return 0, m.appendErr
	}
	return m.VectorStore.Append(ctx, r)
}

func (m *mockVectorStore) Search(ctx context.Context, q []float32, k int) ([]domain.SearchHit, error) {
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	return m.VectorStore.Search(ctx, q, k)
}

// --- Fixtures ---

func youtubeItem(id, title string, views int) domain.RawItem {
	return domain.RawItem{
		Provider: "youtube",
		Kind:     domain.ResourceKindVideo,
		Fields: map[string]any{
			"id": id,
			"snippet": map[string]any{
				"title":        title,
				"description":  "A video about " + title,
				"channelTitle": "Channel " + id,
				"publishedAt":  "2021-03-04T05:06:07Z",
			},
			"statistics": map[string]any{
				"viewCount": views,
			},
		},
	}
}

func arxivItem(id, title string) domain.RawItem {
	return domain.RawItem{
		Provider: "arxiv",
		Kind:     domain.ResourceKindPaper,
		Fields: map[string]any{
			"id":        "http://arxiv.org/abs/" + id,
			"title":     title,
			"summary":   "We study " + title,
			"published": "2019-06-01T00:00:00Z",
			"authors":   []string{"Ada Lovelace", "Alan Turing"},
			"links": []map[string]any{
				{"href": "http://arxiv.org/pdf/" + id, "title": "pdf"},
			},
		},
	}
}

func scholarItem(id, title string, citations int) domain.RawItem {
	return domain.RawItem{
		Provider: "semanticscholar",
		Kind:     domain.ResourceKindPaper,
		Fields: map[string]any{
			"paperId":       id,
			"title":         title,
			"abstract":      "Abstract of " + title,
			"year":          2020,
			"citationCount": citations,
			"authors":       []any{map[string]any{"name": "Grace Hopper"}},
		},
	}
}
