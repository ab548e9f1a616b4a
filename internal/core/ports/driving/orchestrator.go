package driving

import (
	"context"

	"github.com/custodia-labs/sercha-learn/internal/core/domain"
)

// Orchestrator aggregates learning resources for a topic and serves
// semantic search over everything indexed so far.
type Orchestrator interface {
	// Run fetches videos and papers for topic, indexes them and returns them.
	// An empty topic fails with domain.ErrInvalidInput before any provider is called.
	// Provider and indexing failures never fail the run; they are reported in
	// RunResult.Diagnostics.
	Run(ctx context.Context, topic string) (domain.RunResult, error)

	// SemanticSearch returns the k indexed documents closest to query.
	// Only domain.ErrInvalidInput and domain.ErrStoreCorruption are returned as errors.
	SemanticSearch(ctx context.Context, query string, k int) (domain.SearchResponse, error)

	// Capabilities reports which optional collaborators are enabled.
	Capabilities() domain.Capabilities
}
