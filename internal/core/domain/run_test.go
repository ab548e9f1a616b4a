package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchReport_Failed(t *testing.T) {
	clean := FetchReport{Attempts: []Attempt{{Strategy: "youtube", Count: 3}}}
	assert.False(t, clean.Failed())

	failed := FetchReport{Attempts: []Attempt{
		{Strategy: "semanticscholar", Error: "status 500"},
		{Strategy: "arxiv", Count: 2},
	}}
	assert.True(t, failed.Failed())

	assert.False(t, FetchReport{}.Failed())
}

func TestDiagnostics_Empty(t *testing.T) {
	var nilDiag *Diagnostics
	assert.True(t, nilDiag.Empty())
	assert.Nil(t, nilDiag.OrNil())

	d := &Diagnostics{}
	assert.True(t, d.Empty())
	assert.Nil(t, d.OrNil())

	d.Errorf("embedding %s failed", "abc")
	assert.False(t, d.Empty())
	require.NotNil(t, d.OrNil())
	assert.Equal(t, []string{"embedding abc failed"}, d.Errors)
}

func TestDiagnostics_IndexOnly(t *testing.T) {
	d := &Diagnostics{Index: &AddReport{Skipped: 1}}
	assert.False(t, d.Empty())
}

func TestDiagnostics_Messages(t *testing.T) {
	var nilDiag *Diagnostics
	assert.Nil(t, nilDiag.Messages())

	d := &Diagnostics{
		Fetch: []FetchReport{{
			Pipeline: PipelinePaper,
			Attempts: []Attempt{
				{Strategy: "semanticscholar", Error: "status 429"},
				{Strategy: "arxiv", Count: 3},
			},
		}},
		Index:  &AddReport{Added: 2, Skipped: 1, Errors: []string{"p-3: embedding failure"}},
		Errors: []string{"refinement failed"},
	}
	assert.Equal(t, []string{
		"paper: semanticscholar: status 429",
		"indexed 2, skipped 1",
		"p-3: embedding failure",
		"refinement failed",
	}, d.Messages())
}

func TestRecordMetadata(t *testing.T) {
	year := 2019
	paper := Resource{
		Kind:       ResourceKindPaper,
		Title:      "Attention",
		URL:        "https://example.org/p",
		SourceURL:  "https://example.org/p.pdf",
		Authors:    []string{"A", "B"},
		Popularity: 42,
		Year:       &year,
		Provider:   "arxiv",
	}

	meta := RecordMetadata(paper)
	assert.Equal(t, "paper", meta[MetaKind])
	assert.Equal(t, "Attention", meta[MetaTitle])
	assert.Equal(t, "https://example.org/p", meta[MetaURL])
	assert.Equal(t, "https://example.org/p.pdf", meta[MetaSourceURL])
	assert.Equal(t, "arxiv", meta[MetaProvider])
	assert.Equal(t, "A, B", meta[MetaAuthors])
	assert.Equal(t, "42", meta[MetaPopularity])
	assert.Equal(t, "2019", meta[MetaYear])

	video := Resource{Kind: ResourceKindVideo, Channel: "MIT", Authors: []string{}}
	meta = RecordMetadata(video)
	assert.Equal(t, "MIT", meta[MetaAuthors])
	assert.Equal(t, "0", meta[MetaPopularity])
	_, hasYear := meta[MetaYear]
	assert.False(t, hasYear)
}
