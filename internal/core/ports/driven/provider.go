package driven

import (
	"context"

	"github.com/custodia-labs/sercha-learn/internal/core/domain"
)

// Provider wraps one external catalog (video or paper).
// Implementations carry their own network timeout and may fail;
// callers treat any error as "no results".
type Provider interface {
	// Name returns the provider identifier (e.g., "youtube", "arxiv").
	Name() string

	// Kind returns the kind of resource the provider returns.
	Kind() domain.ResourceKind

	// Fetch returns at most limit raw items for query.
	Fetch(ctx context.Context, query string, limit int) ([]domain.RawItem, error)
}

// VideoCatalog is the two-step protocol of video catalogs:
// a cheap search returning ids, then a batch lookup returning detail-enriched items.
type VideoCatalog interface {
	// Search returns video ids matching query, at most maxResults.
	Search(ctx context.Context, query string, maxResults int) ([]string, error)

	// GetDetails returns one merged raw item per id, including statistics.
	GetDetails(ctx context.Context, ids []string) ([]domain.RawItem, error)
}

// TextExtractor converts a remote document into plain text.
type TextExtractor interface {
	// ExtractText downloads the document at url and returns the text of at most
	// maxPages pages. Output length is bounded by the implementation.
	ExtractText(ctx context.Context, url string, maxPages int) (string, error)
}
