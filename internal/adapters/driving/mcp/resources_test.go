package mcp

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-learn/internal/core/domain"
)

func readRequest(uri string) *mcp.ReadResourceRequest {
	return &mcp.ReadResourceRequest{Params: &mcp.ReadResourceParams{URI: uri}}
}

func TestExtractTopic(t *testing.T) {
	tests := []struct {
		name     string
		uri      string
		expected string
	}{
		{
			name:     "plain topic",
			uri:      "sercha-learn://runs/transformers",
			expected: "transformers",
		},
		{
			name:     "escaped topic",
			uri:      "sercha-learn://runs/graph%20neural%20networks",
			expected: "graph neural networks",
		},
		{
			name:     "invalid prefix",
			uri:      "sercha://runs/transformers",
			expected: "",
		},
		{
			name:     "bad escape",
			uri:      "sercha-learn://runs/%zz",
			expected: "",
		},
		{
			name:     "empty URI",
			uri:      "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, extractTopic(tt.uri))
		})
	}
}

func TestServer_handleCapabilitiesResource(t *testing.T) {
	caps := domain.Capabilities{HasEmbedding: true, HasExtractor: true}
	server, err := NewServer(&Ports{Orchestrator: &mockOrchestrator{caps: caps}})
	require.NoError(t, err)

	uri := "sercha-learn://capabilities"
	result, err := server.handleCapabilitiesResource(context.Background(), readRequest(uri))
	require.NoError(t, err)
	require.Len(t, result.Contents, 1)
	assert.Equal(t, uri, result.Contents[0].URI)
	assert.Equal(t, "application/json", result.Contents[0].MIMEType)

	var got domain.Capabilities
	require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &got))
	assert.Equal(t, caps, got)
}

func TestServer_handleRunsResource(t *testing.T) {
	server, err := NewServer(&Ports{Orchestrator: &mockOrchestrator{}})
	require.NoError(t, err)

	t.Run("empty session", func(t *testing.T) {
		result, err := server.handleRunsResource(context.Background(), readRequest("sercha-learn://runs"))
		require.NoError(t, err)
		assert.JSONEq(t, "[]", result.Contents[0].Text)
	})

	t.Run("lists topics with escaped URIs", func(t *testing.T) {
		server.remember("graph neural networks", sampleRun())

		result, err := server.handleRunsResource(context.Background(), readRequest("sercha-learn://runs"))
		require.NoError(t, err)

		var infos []struct {
			Topic string `json:"topic"`
			URI   string `json:"uri"`
		}
		require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &infos))
		require.Len(t, infos, 1)
		assert.Equal(t, "graph neural networks", infos[0].Topic)
		assert.Equal(t, "sercha-learn://runs/graph%20neural%20networks", infos[0].URI)
	})
}

func TestServer_handleRunResource(t *testing.T) {
	server, err := NewServer(&Ports{Orchestrator: &mockOrchestrator{}})
	require.NoError(t, err)
	server.remember("Transformers", sampleRun())

	t.Run("returns cached run", func(t *testing.T) {
		result, err := server.handleRunResource(context.Background(), readRequest("sercha-learn://runs/transformers"))
		require.NoError(t, err)

		var got LearnOutput
		require.NoError(t, json.Unmarshal([]byte(result.Contents[0].Text), &got))
		assert.Equal(t, "transformers", got.Topic)
		assert.Len(t, got.Videos, 1)
		assert.Len(t, got.Papers, 1)
	})

	t.Run("unknown topic is not found", func(t *testing.T) {
		_, err := server.handleRunResource(context.Background(), readRequest("sercha-learn://runs/diffusion"))
		assert.Error(t, err)
	})

	t.Run("malformed URI is not found", func(t *testing.T) {
		_, err := server.handleRunResource(context.Background(), readRequest("sercha-learn://other"))
		assert.Error(t, err)
	})
}
