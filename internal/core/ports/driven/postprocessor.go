package driven

import (
	"context"

	"github.com/custodia-labs/sercha-learn/internal/core/domain"
)

// PostProcessor produces or transforms the extra text embedded with a paper.
// PostProcessors are chained in a pipeline (e.g., extract, summarise, clip).
type PostProcessor interface {
	// Name returns the processor name for logging and configuration.
	Name() string

	// Process takes a resource and the text produced so far and returns the new text.
	// The first processor receives an empty string and is expected to create text.
	Process(ctx context.Context, res domain.Resource, text string) (string, error)
}

// PostProcessorPipeline chains multiple PostProcessors.
type PostProcessorPipeline interface {
	// Process runs the resource through all processors in order
	// and returns the final text.
	Process(ctx context.Context, res domain.Resource) (string, error)
}
