package driven

import (
	"context"

	"github.com/custodia-labs/sercha-learn/internal/core/domain"
)

// VectorStore persists embedding records and answers nearest-neighbour queries.
// The store is append-only: records are never updated or deleted.
//
// Implementations must allow concurrent Append and Search. Each Append is
// atomic; Search may observe a slightly stale snapshot.
type VectorStore interface {
	// Append persists one record and returns its insertion sequence.
	// The first append fixes the store dimension when it was not configured;
	// a vector of any other length fails with domain.ErrStoreCorruption.
	Append(ctx context.Context, record domain.EmbeddingRecord) (int64, error)

	// Search returns the k records closest to query by cosine distance,
	// ordered by increasing distance with ties broken by insertion order.
	// A query of the wrong length fails with domain.ErrStoreCorruption.
	Search(ctx context.Context, query []float32, k int) ([]domain.SearchHit, error)

	// Count returns the number of stored records.
	Count(ctx context.Context) (int, error)

	// Dimensions returns the fixed vector size, or 0 while the store is empty
	// and no dimension was configured.
	Dimensions() int

	// Close releases resources.
	Close() error
}
