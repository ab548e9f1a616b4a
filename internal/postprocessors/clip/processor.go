// Package clip provides a processor that bounds enrichment text length.
package clip

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/custodia-labs/sercha-learn/internal/core/domain"
)

// DefaultMaxChars is the default maximum number of characters kept.
const DefaultMaxChars = 2000

// Processor truncates text to a maximum number of characters.
// It implements the PostProcessor interface.
type Processor struct {
	maxChars int
}

// Option configures the clip processor.
type Option func(*Processor)

// WithMaxChars sets the maximum number of characters kept.
func WithMaxChars(n int) Option {
	return func(p *Processor) {
		if n > 0 {
			p.maxChars = n
		}
	}
}

// New creates a new clip processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{maxChars: DefaultMaxChars}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "clip"
}

// MaxChars returns the configured limit.
func (p *Processor) MaxChars() int {
	return p.maxChars
}

// Process returns text trimmed and truncated to the configured limit.
func (p *Processor) Process(_ context.Context, _ domain.Resource, text string) (string, error) {
	return Truncate(strings.TrimSpace(text), p.maxChars), nil
}

// Truncate returns the first n characters of s without splitting a rune.
func Truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	if len(s) <= n {
		return s
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}

// RuneCount returns the number of characters in s.
func RuneCount(s string) int {
	return utf8.RuneCountInString(s)
}
