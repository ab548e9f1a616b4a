// Package summarise provides a processor that condenses extracted text with an LLM.
package summarise

import (
	"context"
	"strings"

	"github.com/custodia-labs/sercha-learn/internal/core/domain"
	"github.com/custodia-labs/sercha-learn/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-learn/internal/logger"
	"github.com/custodia-labs/sercha-learn/internal/postprocessors/clip"
)

// DefaultFallbackChars is how much of the input is kept when the LLM fails.
const DefaultFallbackChars = 200

// Processor replaces text with an LLM summary.
// It implements the PostProcessor interface.
type Processor struct {
	llm           driven.LLMService
	fallbackChars int
}

// New creates a summarise processor backed by llm.
func New(llm driven.LLMService) *Processor {
	return &Processor{llm: llm, fallbackChars: DefaultFallbackChars}
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "summarise"
}

// Process summarises text. Empty text stays empty. When the LLM fails or
// returns nothing, the first 200 characters are kept, followed by "..."
// if anything was cut.
func (p *Processor) Process(ctx context.Context, res domain.Resource, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", nil
	}

	summary, err := p.llm.Summarise(ctx, text)
	if err == nil {
		if summary = strings.TrimSpace(summary); summary != "" {
			return summary, nil
		}
	} else {
		logger.Warn("Summarising %q failed, keeping excerpt: %v", res.Title, err)
	}

	return Excerpt(text, p.fallbackChars), nil
}

// Excerpt returns the first n characters of text, with "..." appended when
// text is longer.
func Excerpt(text string, n int) string {
	if clip.RuneCount(text) <= n {
		return text
	}
	return clip.Truncate(text, n) + "..."
}
