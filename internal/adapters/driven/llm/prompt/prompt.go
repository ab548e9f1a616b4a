// Package prompt holds the default LLM prompt templates and the helpers
// adapters use to render them and read the model's answer back.
package prompt

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/sercha-learn/internal/core/ports/driven"
)

// RefinedMarker precedes the model's answer in the refine prompt.
const RefinedMarker = "Refined topic:"

// SummaryInputChars is how much extracted text is sent for summarisation.
const SummaryInputChars = 1000

// DefaultRefineTopic is the fallback refine template. Expects one %s.
const DefaultRefineTopic = `Refine and expand this learning topic to make it more specific and searchable: '%s'

` + RefinedMarker

// DefaultSummarise is the fallback summarise template. Expects one %s.
const DefaultSummarise = `Summarize this academic text in 2-3 sentences:

%s`

// Defaults returns the built-in templates keyed by prompt name.
func Defaults() map[string]string {
	return map[string]string{
		driven.PromptRefineTopic: DefaultRefineTopic,
		driven.PromptSummarise:   DefaultSummarise,
	}
}

// Load returns the named template from store, or the built-in default when
// the store is nil or cannot provide it.
func Load(store driven.PromptStore, name string) string {
	if store != nil {
		if tmpl, err := store.Load(name); err == nil && strings.Contains(tmpl, "%s") {
			return tmpl
		}
	}
	return Defaults()[name]
}

// RefineTopic renders the refine prompt for topic.
func RefineTopic(store driven.PromptStore, topic string) string {
	return fmt.Sprintf(Load(store, driven.PromptRefineTopic), topic)
}

// Summarise renders the summarise prompt for the leading part of text.
func Summarise(store driven.PromptStore, text string) string {
	return fmt.Sprintf(Load(store, driven.PromptSummarise), leading(text, SummaryInputChars))
}

// ParseRefined extracts the refined topic from model output. Models that
// echo the prompt are handled by taking the text after the last marker.
func ParseRefined(output string) string {
	if i := strings.LastIndex(output, RefinedMarker); i >= 0 {
		output = output[i+len(RefinedMarker):]
	}
	output = strings.TrimSpace(output)
	if line, _, ok := strings.Cut(output, "\n"); ok {
		output = strings.TrimSpace(line)
	}
	return strings.Trim(output, `"'`)
}

func leading(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
