package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-learn/internal/adapters/driven/config/file"
	"github.com/custodia-labs/sercha-learn/internal/core/domain"
)

// testConfig returns a config that needs no network or external tools.
func testConfig(t *testing.T) file.Config {
	t.Helper()
	cfg := file.DefaultConfig()
	cfg.DataDir = t.TempDir()
	cfg.Embedding.Provider = ""
	cfg.LLM.Provider = ""
	cfg.Extraction.Enabled = false
	cfg.Store.Backend = string(domain.StoreBackendMemory)
	cfg.Providers.YouTubeAPIKey = ""
	return cfg
}

// fakeOllama answers ping and embedding requests with 4-dimensional vectors.
func fakeOllama(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/tags", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"models":[]}`))
	})
	mux.HandleFunc("/api/embed", func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Input []string `json:"input"`
		}
		_ = json.NewDecoder(r.Body).Decode(&req)
		vecs := make([][]float32, len(req.Input))
		for i := range vecs {
			vecs[i] = []float32{1, 0, 0, float32(i + 1)}
		}
		_ = json.NewEncoder(w).Encode(map[string]any{"embeddings": vecs})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestNew_MinimalConfig(t *testing.T) {
	a, err := New(context.Background(), testConfig(t))
	require.NoError(t, err)
	defer a.Close()

	caps := a.Orchestrator.Capabilities()
	assert.False(t, caps.HasEmbedding)
	assert.False(t, caps.HasRefiner)
	assert.False(t, caps.HasExtractor)
	assert.False(t, caps.HasSummariser)

	assert.Empty(t, a.Strategies[domain.PipelineVideo], "no video provider without an API key")
	assert.Empty(t, caps.Strategies[domain.PipelineVideo])
	assert.Equal(t, a.Strategies[domain.PipelinePaper], caps.Strategies[domain.PipelinePaper])
	assert.Equal(t, []string{"semanticscholar", "semanticscholar-broadened", "arxiv"},
		a.Strategies[domain.PipelinePaper])
	assert.Contains(t, a.Warnings, "YouTube disabled: no API key configured")
}

func TestNew_DemoMode(t *testing.T) {
	cfg := testConfig(t)
	cfg.Providers.Demo = true

	a, err := New(context.Background(), cfg)
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, []string{"demo"}, a.Strategies[domain.PipelineVideo])
	assert.Equal(t, []string{"semanticscholar", "semanticscholar-broadened", "arxiv", "demo"},
		a.Strategies[domain.PipelinePaper])
}

func TestNew_YouTubeConfigured(t *testing.T) {
	cfg := testConfig(t)
	cfg.Providers.YouTubeAPIKey = "test-key"

	a, err := New(context.Background(), cfg)
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, []string{"youtube", "youtube-broadened"}, a.Strategies[domain.PipelineVideo])
}

func TestNew_WithEmbeddings(t *testing.T) {
	srv := fakeOllama(t)

	cfg := testConfig(t)
	cfg.Embedding.Provider = string(domain.AIProviderOllama)
	cfg.Embedding.BaseURL = srv.URL
	cfg.Embedding.Dimensions = 4

	a, err := New(context.Background(), cfg)
	require.NoError(t, err)
	defer a.Close()

	assert.True(t, a.Orchestrator.Capabilities().HasEmbedding)

	resp, err := a.Orchestrator.SemanticSearch(context.Background(), "anything", 3)
	require.NoError(t, err)
	assert.Empty(t, resp.Results)
}

func TestNew_UnreachableEmbeddingDisablesSearch(t *testing.T) {
	cfg := testConfig(t)
	cfg.Embedding.Provider = string(domain.AIProviderOllama)
	cfg.Embedding.BaseURL = "http://127.0.0.1:1"

	a, err := New(context.Background(), cfg)
	require.NoError(t, err)
	defer a.Close()

	assert.False(t, a.Orchestrator.Capabilities().HasEmbedding)
	require.NotEmpty(t, a.Warnings)
	assert.Contains(t, a.Warnings[0], "unreachable")
}

func TestNew_BadStoreBackend(t *testing.T) {
	srv := fakeOllama(t)

	cfg := testConfig(t)
	cfg.Embedding.Provider = string(domain.AIProviderOllama)
	cfg.Embedding.BaseURL = srv.URL
	cfg.Store.Backend = "qdrant"

	_, err := New(context.Background(), cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrUnsupportedType)
}

func TestApp_CloseWithoutStore(t *testing.T) {
	a, err := New(context.Background(), testConfig(t))
	require.NoError(t, err)
	assert.NoError(t, a.Close())
}
