package mcp

import (
	"context"

	"github.com/custodia-labs/sercha-learn/internal/core/domain"
)

// mockOrchestrator is a mock implementation of driving.Orchestrator.
type mockOrchestrator struct {
	result domain.RunResult
	search domain.SearchResponse
	caps   domain.Capabilities
	err    error
	topic  string
	query  string
	k      int
	runs   int
}

func (m *mockOrchestrator) Run(_ context.Context, topic string) (domain.RunResult, error) {
	m.runs++
	m.topic = topic
	if m.err != nil {
		return domain.RunResult{}, m.err
	}
	return m.result, nil
}

func (m *mockOrchestrator) SemanticSearch(_ context.Context, query string, k int) (domain.SearchResponse, error) {
	m.query = query
	m.k = k
	if m.err != nil {
		return domain.SearchResponse{}, m.err
	}
	return m.search, nil
}

func (m *mockOrchestrator) Capabilities() domain.Capabilities {
	return m.caps
}

func intPtr(v int) *int { return &v }

func sampleRun() domain.RunResult {
	return domain.RunResult{
		Topic: "transformers",
		Videos: []domain.Resource{{
			ID:         "v-1",
			Kind:       domain.ResourceKindVideo,
			Title:      "Transformers explained",
			URL:        "https://www.youtube.com/watch?v=abc",
			SourceURL:  "https://www.youtube.com/watch?v=abc",
			Authors:    []string{},
			Channel:    "ML Channel",
			Popularity: 1200,
			Provider:   "youtube",
		}},
		Papers: []domain.Resource{{
			ID:         "p-1",
			Kind:       domain.ResourceKindPaper,
			Title:      "Attention Is All You Need",
			URL:        "https://arxiv.org/abs/1706.03762",
			SourceURL:  "https://arxiv.org/pdf/1706.03762",
			Authors:    []string{"Vaswani", "Shazeer"},
			Popularity: 90000,
			Year:       intPtr(2017),
			Provider:   "semanticscholar",
		}},
	}
}
