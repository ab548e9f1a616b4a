package pdftotext

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/sercha-learn/internal/core/domain"
	"github.com/custodia-labs/sercha-learn/internal/core/ports/driven"
)

// mockRunner is a test double for CommandRunner.
type mockRunner struct {
	output  []byte
	err     error
	name    string
	args    []string
	content []byte
}

func (m *mockRunner) Run(_ context.Context, name string, args ...string) ([]byte, error) {
	m.name = name
	m.args = args
	// args: -l N -enc UTF-8 <file> -
	if len(args) >= 2 {
		m.content, _ = os.ReadFile(args[len(args)-2])
	}
	return m.output, m.err
}

func found(string) (string, error)   { return "/usr/bin/pdftotext", nil }
func missing(string) (string, error) { return "", errors.New("not found") }

func pdfServer(t *testing.T, status int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte("%PDF-1.4 fake pdf content"))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestInterfaceCompliance(t *testing.T) {
	var _ driven.TextExtractor = (*Extractor)(nil)
}

func TestExtractText(t *testing.T) {
	srv := pdfServer(t, http.StatusOK)
	runner := &mockRunner{output: []byte("\n  Title of Paper\n\nBody text.\n")}
	e := New(WithRunner(runner), withLookPath(found))

	text, err := e.ExtractText(context.Background(), srv.URL+"/paper.pdf", 3)
	require.NoError(t, err)

	assert.Equal(t, "Title of Paper\n\nBody text.", text)
	assert.Equal(t, ToolName, runner.name)
	require.Len(t, runner.args, 6)
	assert.Equal(t, []string{"-l", "3", "-enc", "UTF-8"}, runner.args[:4])
	assert.Equal(t, "-", runner.args[5])
	assert.Equal(t, "%PDF-1.4 fake pdf content", string(runner.content))

	_, err = os.Stat(runner.args[4])
	assert.True(t, os.IsNotExist(err), "temp file should be removed")
}

func TestExtractText_ClipsOutput(t *testing.T) {
	srv := pdfServer(t, http.StatusOK)
	runner := &mockRunner{output: []byte(strings.Repeat("w", 5000))}
	e := New(WithRunner(runner), withLookPath(found))

	text, err := e.ExtractText(context.Background(), srv.URL, 3)
	require.NoError(t, err)
	assert.Len(t, text, DefaultMaxChars)

	e = New(WithRunner(runner), withLookPath(found), WithMaxChars(10))
	text, err = e.ExtractText(context.Background(), srv.URL, 3)
	require.NoError(t, err)
	assert.Len(t, text, 10)
}

func TestExtractText_ToolMissing(t *testing.T) {
	e := New(WithRunner(&mockRunner{}), withLookPath(missing))

	_, err := e.ExtractText(context.Background(), "http://unused", 3)
	assert.ErrorIs(t, err, ErrPDFToolNotFound)
}

func TestExtractText_DownloadStatus(t *testing.T) {
	srv := pdfServer(t, http.StatusNotFound)
	runner := &mockRunner{}
	e := New(WithRunner(runner), withLookPath(found))

	_, err := e.ExtractText(context.Background(), srv.URL, 3)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrExtractionFailed)
	assert.Contains(t, err.Error(), "status 404")
	assert.Empty(t, runner.name, "pdftotext should not run")
}

func TestExtractText_RunnerError(t *testing.T) {
	srv := pdfServer(t, http.StatusOK)
	e := New(WithRunner(&mockRunner{err: errors.New("pdftotext crashed")}), withLookPath(found))

	_, err := e.ExtractText(context.Background(), srv.URL, 3)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrExtractionFailed)
	assert.Contains(t, err.Error(), "pdftotext failed")
}

func TestExtractText_NonPositivePages(t *testing.T) {
	srv := pdfServer(t, http.StatusOK)
	runner := &mockRunner{output: []byte("x")}
	e := New(WithRunner(runner), withLookPath(found))

	_, err := e.ExtractText(context.Background(), srv.URL, 0)
	require.NoError(t, err)
	assert.Equal(t, "1", runner.args[1])
}

func TestInstallInstructions(t *testing.T) {
	instructions := InstallInstructions()
	assert.Contains(t, instructions, "pdftotext")
	assert.Contains(t, instructions, "brew install poppler")
	assert.Contains(t, instructions, "apt install poppler-utils")
}

func TestErrPDFToolNotFound(t *testing.T) {
	assert.Contains(t, ErrPDFToolNotFound.Error(), "pdftotext")
}
