// Package extract provides a processor that pulls body text from paper PDFs.
package extract

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/sercha-learn/internal/core/domain"
	"github.com/custodia-labs/sercha-learn/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-learn/internal/postprocessors/clip"
)

// Extraction defaults.
const (
	DefaultMaxPages = 3
	DefaultMaxChars = 2000
)

// Processor downloads a paper's source document and extracts its text.
// It implements the PostProcessor interface.
type Processor struct {
	extractor driven.TextExtractor
	maxPages  int
	maxChars  int
}

// Option configures the extract processor.
type Option func(*Processor)

// WithMaxPages sets the number of leading pages converted.
func WithMaxPages(n int) Option {
	return func(p *Processor) {
		if n > 0 {
			p.maxPages = n
		}
	}
}

// WithMaxChars sets the maximum number of characters kept.
func WithMaxChars(n int) Option {
	return func(p *Processor) {
		if n > 0 {
			p.maxChars = n
		}
	}
}

// New creates an extract processor backed by extractor.
func New(extractor driven.TextExtractor, opts ...Option) *Processor {
	p := &Processor{
		extractor: extractor,
		maxPages:  DefaultMaxPages,
		maxChars:  DefaultMaxChars,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "extract"
}

// Process replaces text with the extracted body of res.SourceURL.
// Videos and resources without a source link pass through unchanged.
func (p *Processor) Process(ctx context.Context, res domain.Resource, text string) (string, error) {
	if res.Kind != domain.ResourceKindPaper || res.SourceURL == "" {
		return text, nil
	}

	body, err := p.extractor.ExtractText(ctx, res.SourceURL, p.maxPages)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %w", domain.ErrExtractionFailed, res.SourceURL, err)
	}

	return clip.Truncate(strings.TrimSpace(body), p.maxChars), nil
}
