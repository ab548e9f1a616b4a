// Package memory provides an in-memory vector store for ephemeral runs and tests.
package memory

import (
	"context"
	"fmt"
	"maps"
	"sync"

	"github.com/custodia-labs/sercha-learn/internal/adapters/driven/storage/ranking"
	"github.com/custodia-labs/sercha-learn/internal/core/domain"
	"github.com/custodia-labs/sercha-learn/internal/core/ports/driven"
)

// Ensure VectorStore implements the interface.
var _ driven.VectorStore = (*VectorStore)(nil)

// VectorStore is an in-memory implementation of driven.VectorStore.
// Searches scan a snapshot taken under the read lock.
type VectorStore struct {
	mu         sync.RWMutex
	records    []domain.EmbeddingRecord
	ids        map[string]struct{}
	dimensions int
	seq        int64
}

// NewVectorStore creates an empty store. A dimensions of 0 lets the first
// append fix it.
func NewVectorStore(dimensions int) *VectorStore {
	return &VectorStore{dimensions: dimensions, ids: make(map[string]struct{})}
}

// Append stores a copy of record and returns its sequence number.
// An id that is already stored is refused with domain.ErrDuplicateRecord.
func (s *VectorStore) Append(_ context.Context, record domain.EmbeddingRecord) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.ids[record.ID]; ok {
		return 0, fmt.Errorf("%w: %s", domain.ErrDuplicateRecord, record.ID)
	}

	if s.dimensions == 0 {
		s.dimensions = len(record.Embedding)
	}
	if s.dimensions == 0 || len(record.Embedding) != s.dimensions {
		return 0, fmt.Errorf("%w: vector has %d dimensions, store has %d",
			domain.ErrStoreCorruption, len(record.Embedding), s.dimensions)
	}

	s.seq++
	record.Seq = s.seq
	record.Embedding = append([]float32(nil), record.Embedding...)
	record.Metadata = maps.Clone(record.Metadata)
	s.records = append(s.records, record)
	s.ids[record.ID] = struct{}{}
	return record.Seq, nil
}

// Search returns the k records closest to query.
func (s *VectorStore) Search(_ context.Context, query []float32, k int) ([]domain.SearchHit, error) {
	s.mu.RLock()
	snapshot := s.records
	dims := s.dimensions
	s.mu.RUnlock()

	if len(snapshot) == 0 || k <= 0 {
		return []domain.SearchHit{}, nil
	}
	if len(query) != dims {
		return nil, fmt.Errorf("%w: query has %d dimensions, store has %d",
			domain.ErrStoreCorruption, len(query), dims)
	}

	candidates := make([]ranking.Scored, len(snapshot))
	for i, r := range snapshot {
		candidates[i] = ranking.Scored{Record: r, Distance: ranking.CosineDistance(query, r.Embedding)}
	}
	return ranking.TopK(candidates, k), nil
}

// Count returns the number of stored records.
func (s *VectorStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records), nil
}

// Dimensions returns the fixed vector size, or 0 before the first append.
func (s *VectorStore) Dimensions() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dimensions
}

// Close is a no-op.
func (s *VectorStore) Close() error {
	return nil
}
