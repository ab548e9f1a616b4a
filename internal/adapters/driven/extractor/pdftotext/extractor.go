// Package pdftotext extracts text from remote PDF documents using the
// pdftotext command-line tool from poppler.
package pdftotext

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/custodia-labs/sercha-learn/internal/core/domain"
	"github.com/custodia-labs/sercha-learn/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-learn/internal/logger"
	"github.com/custodia-labs/sercha-learn/internal/postprocessors/clip"
)

// Ensure Extractor implements the interface.
var _ driven.TextExtractor = (*Extractor)(nil)

// ToolName is the external binary invoked for conversion.
const ToolName = "pdftotext"

// Extraction defaults.
const (
	DefaultTimeout  = 30 * time.Second
	DefaultMaxChars = 2000
	DefaultMaxBytes = 50 << 20
)

// ErrPDFToolNotFound indicates pdftotext is not installed.
var ErrPDFToolNotFound = errors.New("pdftotext not found in PATH")

// CommandRunner runs an external command and returns its stdout.
type CommandRunner interface {
	Run(ctx context.Context, name string, args ...string) ([]byte, error)
}

// execRunner runs commands with os/exec.
type execRunner struct{}

func (execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, name, args...).Output()
}

// Extractor downloads PDFs and converts their leading pages to text.
type Extractor struct {
	client   *http.Client
	runner   CommandRunner
	lookPath func(string) (string, error)
	maxChars int
	maxBytes int64
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithHTTPClient sets the client used for downloads.
func WithHTTPClient(c *http.Client) Option {
	return func(e *Extractor) {
		if c != nil {
			e.client = c
		}
	}
}

// WithRunner replaces the command runner.
func WithRunner(r CommandRunner) Option {
	return func(e *Extractor) {
		if r != nil {
			e.runner = r
		}
	}
}

// WithMaxChars bounds the returned text length.
func WithMaxChars(n int) Option {
	return func(e *Extractor) {
		if n > 0 {
			e.maxChars = n
		}
	}
}

// withLookPath replaces the tool lookup. Used by tests.
func withLookPath(fn func(string) (string, error)) Option {
	return func(e *Extractor) {
		e.lookPath = fn
	}
}

// New creates an extractor that shells out to pdftotext.
func New(opts ...Option) *Extractor {
	e := &Extractor{
		client:   &http.Client{Timeout: DefaultTimeout},
		runner:   execRunner{},
		lookPath: exec.LookPath,
		maxChars: DefaultMaxChars,
		maxBytes: DefaultMaxBytes,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// CheckAvailable verifies pdftotext is installed.
func CheckAvailable() error {
	if _, err := exec.LookPath(ToolName); err != nil {
		return ErrPDFToolNotFound
	}
	return nil
}

// InstallInstructions returns instructions for installing pdftotext.
func InstallInstructions() string {
	return `pdftotext is required to extract text from papers.

Install poppler:
  macOS:         brew install poppler
  Ubuntu/Debian: sudo apt install poppler-utils
  Fedora:        sudo dnf install poppler-utils
  Windows:       choco install poppler`
}

// ExtractText downloads the document at url and returns the text of its
// first maxPages pages, clipped to the configured character limit.
func (e *Extractor) ExtractText(ctx context.Context, url string, maxPages int) (string, error) {
	if _, err := e.lookPath(ToolName); err != nil {
		return "", ErrPDFToolNotFound
	}
	if maxPages <= 0 {
		maxPages = 1
	}

	path, err := e.download(ctx, url)
	if err != nil {
		return "", err
	}
	defer os.Remove(path)

	out, err := e.runner.Run(ctx, ToolName,
		"-l", strconv.Itoa(maxPages),
		"-enc", "UTF-8",
		path, "-")
	if err != nil {
		return "", fmt.Errorf("%w: pdftotext failed: %w", domain.ErrExtractionFailed, err)
	}

	text := strings.TrimSpace(string(out))
	logger.Debug("Extracted %d bytes from %s", len(text), url)
	return clip.Truncate(text, e.maxChars), nil
}

// download saves the document to a temporary file and returns its path.
func (e *Extractor) download(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("%w: building request: %w", domain.ErrExtractionFailed, err)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: downloading %s: %w", domain.ErrExtractionFailed, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: downloading %s: status %d", domain.ErrExtractionFailed, url, resp.StatusCode)
	}

	f, err := os.CreateTemp("", "sercha-learn-*.pdf")
	if err != nil {
		return "", fmt.Errorf("creating temp file: %w", err)
	}

	if _, err := io.Copy(f, io.LimitReader(resp.Body, e.maxBytes)); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", fmt.Errorf("%w: reading %s: %w", domain.ErrExtractionFailed, url, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("writing temp file: %w", err)
	}
	return f.Name(), nil
}
