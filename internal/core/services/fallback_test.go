package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-learn/internal/core/domain"
	"github.com/custodia-labs/sercha-learn/internal/normalisers"
)

func newVideoFetcher(primary *mockProvider, secondary ...*mockProvider) *FallbackFetcher {
	var rest []Strategy
	for _, s := range secondary {
		rest = append(rest, Strategy{Name: s.name, Provider: s, Query: Verbatim})
	}
	strategies := append(VideoStrategies(primary), rest...)
	return NewFallbackFetcher(domain.PipelineVideo, normalisers.NewDefaultRegistry(), VideoPolicy, strategies...)
}

func TestBroadenQueries(t *testing.T) {
	assert.Equal(t,
		"go tutorial OR go explained OR go course OR go lecture",
		BroadenVideoQuery("go"))
	assert.Equal(t,
		"graphs research OR graphs survey OR graphs review",
		BroadenPaperQuery("graphs"))
	assert.Equal(t, "as is", Verbatim("as is"))
}

func TestVideoStrategies_Order(t *testing.T) {
	yt := &mockProvider{name: "youtube"}
	demo := &mockProvider{name: "demo"}

	strategies := VideoStrategies(yt, nil, demo)
	require.Len(t, strategies, 3)

	assert.Equal(t, "youtube", strategies[0].Name)
	assert.Equal(t, "youtube-broadened", strategies[1].Name)
	assert.Equal(t, "demo", strategies[2].Name)
	assert.Equal(t, "topic", strategies[0].Query("topic"))
	assert.Equal(t, BroadenVideoQuery("topic"), strategies[1].Query("topic"))
}

func TestPaperStrategies_NilPrimary(t *testing.T) {
	arxiv := &mockProvider{name: "arxiv"}

	strategies := PaperStrategies(nil, arxiv)
	require.Len(t, strategies, 1)
	assert.Equal(t, "arxiv", strategies[0].Name)
}

func TestFallbackFetcher_FirstStrategyWins(t *testing.T) {
	yt := &mockProvider{name: "youtube", items: []domain.RawItem{
		youtubeItem("a", "Intro", 10),
		youtubeItem("b", "Deep dive", 500),
	}}
	demo := &mockProvider{name: "demo", items: []domain.RawItem{youtubeItem("x", "Demo", 1)}}

	fetcher := newVideoFetcher(yt, demo)
	resources, report := fetcher.Fetch(context.Background(), "go", 5)

	require.Len(t, resources, 2)
	assert.Equal(t, "youtube", report.Strategy)
	assert.Len(t, report.Attempts, 1)
	assert.Equal(t, 1, yt.callCount())
	assert.Equal(t, 0, demo.callCount(), "later strategies must not run after a hit")
}

func TestFallbackFetcher_SortsVideosByPopularity(t *testing.T) {
	yt := &mockProvider{name: "youtube", items: []domain.RawItem{
		youtubeItem("a", "Low", 10),
		youtubeItem("b", "High", 900),
		youtubeItem("c", "Mid", 300),
		youtubeItem("d", "Also mid", 300),
	}}

	resources, _ := newVideoFetcher(yt).Fetch(context.Background(), "go", 3)

	require.Len(t, resources, 3)
	assert.Equal(t, "High", resources[0].Title)
	assert.Equal(t, "Mid", resources[1].Title)
	assert.Equal(t, "Also mid", resources[2].Title)
	assert.Equal(t, []int{6}, yt.limits, "videos over-fetch twice the limit")
}

func TestFallbackFetcher_PapersKeepProviderOrder(t *testing.T) {
	s2 := &mockProvider{name: "semanticscholar", items: []domain.RawItem{
		scholarItem("1", "First", 1),
		scholarItem("2", "Second", 1000),
	}}
	fetcher := NewFallbackFetcher(domain.PipelinePaper, normalisers.NewDefaultRegistry(), PaperPolicy,
		PaperStrategies(s2)...)

	resources, _ := fetcher.Fetch(context.Background(), "graphs", 10)

	require.Len(t, resources, 2)
	assert.Equal(t, "First", resources[0].Title)
	assert.Equal(t, []int{10}, s2.limits)
}

func TestFallbackFetcher_BroadenedAfterEmpty(t *testing.T) {
	yt := &mockProvider{name: "youtube", byQuery: map[string][]domain.RawItem{
		BroadenVideoQuery("obscure"): {youtubeItem("a", "Found it", 1)},
	}}

	resources, report := newVideoFetcher(yt).Fetch(context.Background(), "obscure", 5)

	require.Len(t, resources, 1)
	assert.Equal(t, "youtube-broadened", report.Strategy)
	assert.Equal(t, []string{"obscure", BroadenVideoQuery("obscure")}, yt.queries)
	assert.False(t, report.Failed())
}

func TestFallbackFetcher_SecondaryAfterPrimaryEmptyTwice(t *testing.T) {
	scholar := &mockProvider{name: "semanticscholar", kind: domain.ResourceKindPaper}
	arxiv := &mockProvider{name: "arxiv", kind: domain.ResourceKindPaper, items: []domain.RawItem{
		arxivItem("2101.00001", "Quantum algorithms"),
		arxivItem("2101.00002", "Quantum error correction"),
	}}
	fetcher := NewFallbackFetcher(domain.PipelinePaper, normalisers.NewDefaultRegistry(),
		PaperPolicy, PaperStrategies(scholar, arxiv)...)

	resources, report := fetcher.Fetch(context.Background(), "quantum computing", 10)

	require.Len(t, resources, 2)
	assert.Equal(t, "arxiv", report.Strategy)
	assert.Equal(t, []string{"quantum computing", BroadenPaperQuery("quantum computing")}, scholar.queries)
	assert.Equal(t, []string{"quantum computing"}, arxiv.queries)
	require.Len(t, report.Attempts, 3)
	assert.Zero(t, report.Attempts[0].Count)
	assert.Zero(t, report.Attempts[1].Count)
	assert.Equal(t, 2, report.Attempts[2].Count)
	assert.False(t, report.Failed())
}

func TestFallbackFetcher_ErrorFallsThrough(t *testing.T) {
	yt := &mockProvider{name: "youtube", err: fmt.Errorf("%w: quota", domain.ErrRateLimited)}
	demo := &mockProvider{name: "demo", items: []domain.RawItem{youtubeItem("x", "Demo", 1)}}

	resources, report := newVideoFetcher(yt, demo).Fetch(context.Background(), "go", 5)

	require.Len(t, resources, 1)
	assert.Equal(t, "demo", report.Strategy)
	require.Len(t, report.Attempts, 3)
	assert.Contains(t, report.Attempts[0].Error, "rate limited")
	assert.Contains(t, report.Attempts[1].Error, "rate limited")
	assert.Empty(t, report.Attempts[2].Error)
	assert.True(t, report.Failed())
}

func TestFallbackFetcher_AllFail(t *testing.T) {
	yt := &mockProvider{name: "youtube", err: errors.New("boom")}
	empty := &mockProvider{name: "demo"}

	resources, report := newVideoFetcher(yt, empty).Fetch(context.Background(), "go", 5)

	assert.NotNil(t, resources)
	assert.Empty(t, resources)
	assert.Empty(t, report.Strategy)
	assert.Len(t, report.Attempts, 3)
	assert.Equal(t, 2, yt.callCount())
	assert.Equal(t, 1, empty.callCount())
}

func TestFallbackFetcher_NoStrategies(t *testing.T) {
	fetcher := NewFallbackFetcher(domain.PipelinePaper, normalisers.NewDefaultRegistry(), PaperPolicy)

	resources, report := fetcher.Fetch(context.Background(), "go", 5)
	assert.Empty(t, resources)
	assert.Empty(t, report.Attempts)
}

func TestFallbackFetcher_NonPositiveLimit(t *testing.T) {
	yt := &mockProvider{name: "youtube", items: []domain.RawItem{youtubeItem("a", "A", 1)}}

	resources, _ := newVideoFetcher(yt).Fetch(context.Background(), "go", 0)
	assert.Empty(t, resources)
	assert.Equal(t, 0, yt.callCount())
}

func TestFallbackFetcher_LimitAndUniqueIDs(t *testing.T) {
	var items []domain.RawItem
	for i := range 30 {
		items = append(items, youtubeItem(fmt.Sprintf("v%d", i), fmt.Sprintf("Video %d", i), i))
	}
	yt := &mockProvider{name: "youtube", items: items}

	for _, limit := range []int{1, 3, 10, 15} {
		resources, _ := newVideoFetcher(yt).Fetch(context.Background(), "go", limit)
		assert.LessOrEqual(t, len(resources), limit)

		seen := make(map[string]bool)
		for _, r := range resources {
			assert.NotEmpty(t, r.ID)
			assert.False(t, seen[r.ID], "duplicate id %s", r.ID)
			seen[r.ID] = true
			assert.Equal(t, domain.ResourceKindVideo, r.Kind)
			assert.NotNil(t, r.Authors)
		}
	}
}

func TestFallbackFetcher_Accessors(t *testing.T) {
	yt := &mockProvider{name: "youtube"}
	fetcher := newVideoFetcher(yt)

	assert.Equal(t, domain.PipelineVideo, fetcher.Pipeline())
	assert.Equal(t, []string{"youtube", "youtube-broadened"}, fetcher.Strategies())
}
