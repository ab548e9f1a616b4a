package postprocessors

import (
	"errors"

	"github.com/custodia-labs/sercha-learn/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-learn/internal/postprocessors/clip"
	"github.com/custodia-labs/sercha-learn/internal/postprocessors/extract"
	"github.com/custodia-labs/sercha-learn/internal/postprocessors/summarise"
)

// Built-in processor names.
const (
	ProcessorExtract   = "extract"
	ProcessorSummarise = "summarise"
	ProcessorClip      = "clip"
)

var (
	// ErrNoExtractor indicates the extract processor was requested without a TextExtractor.
	ErrNoExtractor = errors.New("extract processor requires a text extractor")

	// ErrNoLLM indicates the summarise processor was requested without an LLM.
	ErrNoLLM = errors.New("summarise processor requires an LLM service")
)

// RegisterDefaults registers all built-in processors with the registry.
// Call this during application initialisation to enable standard processors.
func RegisterDefaults(r *Registry) {
	r.Register(ProcessorExtract, buildExtract)
	r.Register(ProcessorSummarise, buildSummarise)
	r.Register(ProcessorClip, buildClip)
}

// DefaultSteps returns the standard enrichment chain: extract, then
// summarise when enabled, then clip.
func DefaultSteps(maxPages, maxChars int, summarise bool) []Step {
	steps := []Step{{
		Name:   ProcessorExtract,
		Config: map[string]any{"max_pages": maxPages, "max_chars": maxChars},
	}}
	if summarise {
		steps = append(steps, Step{Name: ProcessorSummarise})
	}
	return append(steps, Step{
		Name:   ProcessorClip,
		Config: map[string]any{"max_chars": maxChars},
	})
}

// buildExtract creates an extract processor from generic config.
// Supported config keys:
//   - max_pages (int): Leading pages converted (default: 3)
//   - max_chars (int): Characters kept (default: 2000)
func buildExtract(cfg map[string]any, deps Deps) (driven.PostProcessor, error) {
	if deps.Extractor == nil {
		return nil, ErrNoExtractor
	}

	var opts []extract.Option
	if pages := getIntFromConfig(cfg, "max_pages"); pages > 0 {
		opts = append(opts, extract.WithMaxPages(pages))
	}
	if chars := getIntFromConfig(cfg, "max_chars"); chars > 0 {
		opts = append(opts, extract.WithMaxChars(chars))
	}
	return extract.New(deps.Extractor, opts...), nil
}

// buildSummarise creates a summarise processor. It takes no config.
func buildSummarise(_ map[string]any, deps Deps) (driven.PostProcessor, error) {
	if deps.LLM == nil {
		return nil, ErrNoLLM
	}
	return summarise.New(deps.LLM), nil
}

// buildClip creates a clip processor from generic config.
// Supported config keys:
//   - max_chars (int): Characters kept (default: 2000)
func buildClip(cfg map[string]any, _ Deps) (driven.PostProcessor, error) {
	var opts []clip.Option
	if chars := getIntFromConfig(cfg, "max_chars"); chars > 0 {
		opts = append(opts, clip.WithMaxChars(chars))
	}
	return clip.New(opts...), nil
}

// getIntFromConfig safely extracts an int from generic config map.
// Handles int, int64, and float64 types that may come from TOML/JSON parsing.
func getIntFromConfig(cfg map[string]any, key string) int {
	val, ok := cfg[key]
	if !ok {
		return 0
	}

	switch v := val.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return 0
	}
}
