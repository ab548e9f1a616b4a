package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-learn/internal/adapters/driven/config/file"
	"github.com/custodia-labs/sercha-learn/internal/app"
	"github.com/custodia-labs/sercha-learn/internal/core/domain"
)

func TestFetchCmd_Use(t *testing.T) {
	assert.Equal(t, "fetch [topic]", fetchCmd.Use)
	assert.Contains(t, fetchCmd.Aliases, "learn")
}

func TestFetchCmd_RequiresTopic(t *testing.T) {
	setupTestApp(t, &mockOrchestrator{})

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"fetch"})

	err := rootCmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires at least 1 arg(s)")
}

func TestFetchCmd_PrintsRun(t *testing.T) {
	result := sampleRun()
	result.Diagnostics = &domain.Diagnostics{Errors: []string{"p-1: summary unavailable"}}
	orch := &mockOrchestrator{result: result}
	setupTestApp(t, orch)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"fetch", "transformers"})

	err := rootCmd.Execute()

	require.NoError(t, err)
	out := buf.String()
	assert.Equal(t, "transformers", orch.topic)
	assert.Contains(t, out, "Learning: transformers")
	assert.Contains(t, out, "Videos (1)")
	assert.Contains(t, out, "[1] Transformers explained")
	assert.Contains(t, out, "ML Channel | 1200 views | youtube")
	assert.Contains(t, out, "A visual walkthrough of self-attention.")
	assert.Contains(t, out, "Papers (1)")
	assert.Contains(t, out, "[1] Attention Is All You Need (2017)")
	assert.Contains(t, out, "Vaswani, Shazeer | 90000 citations | semanticscholar")
	assert.Contains(t, out, "https://arxiv.org/abs/1706.03762")
	assert.Contains(t, out, "Warnings:")
	assert.Contains(t, out, "! p-1: summary unavailable")
}

func TestFetchCmd_JoinsMultiWordTopic(t *testing.T) {
	orch := &mockOrchestrator{result: domain.RunResult{Topic: "graph neural networks"}}
	setupTestApp(t, orch)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"learn", "graph", "neural", "networks"})

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Equal(t, "graph neural networks", orch.topic)
	assert.Contains(t, buf.String(), "Videos (0)")
	assert.Contains(t, buf.String(), "None found.")
	assert.NotContains(t, buf.String(), "Warnings:")
}

func TestFetchCmd_JSONOutput(t *testing.T) {
	setupTestApp(t, &mockOrchestrator{result: sampleRun()})

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"fetch", "--json", "transformers"})

	err := rootCmd.Execute()

	require.NoError(t, err)
	var got domain.RunResult
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "transformers", got.Topic)
	require.Len(t, got.Papers, 1)
	assert.Equal(t, []string{"Vaswani", "Shazeer"}, got.Papers[0].Authors)
}

func TestFetchCmd_RunError(t *testing.T) {
	setupTestApp(t, &mockOrchestrator{err: domain.ErrInvalidInput})

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"fetch", "x"})

	err := rootCmd.Execute()

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Contains(t, err.Error(), "fetch failed")
}

func TestFetchCmd_AppError(t *testing.T) {
	setupTestApp(t, &mockOrchestrator{})
	newApp = func(context.Context, file.Config) (*app.App, error) {
		return nil, errors.New("opening vector store: boom")
	}

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"fetch", "x"})

	err := rootCmd.Execute()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "opening vector store")
}
