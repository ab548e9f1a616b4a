package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/sercha-learn/internal/core/domain"
	"github.com/custodia-labs/sercha-learn/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-learn/internal/logger"
	"github.com/custodia-labs/sercha-learn/internal/metrics"
)

// EmbeddingStore embeds resources and appends them to a vector store,
// and answers semantic queries against it. It exclusively owns writes to
// the store.
//
// Records are append-only and keyed by the caller's id. Re-adding an id
// that is already stored is refused by the store and reported, so the same
// content added under fresh ids yields two records.
type EmbeddingStore struct {
	embedder driven.EmbeddingService
	store    driven.VectorStore
}

// NewEmbeddingStore creates an embedding store.
func NewEmbeddingStore(embedder driven.EmbeddingService, store driven.VectorStore) *EmbeddingStore {
	return &EmbeddingStore{embedder: embedder, store: store}
}

// Add embeds and appends one record per resource. The document text is the
// title, description and extra[res.ID] joined by single spaces.
//
// Embedding failures and refused appends, such as a duplicate id, skip the
// resource and are counted in the report. domain.ErrStoreCorruption, which
// includes a vector whose length does not match the store, fails the whole
// call; records appended before it are kept.
func (s *EmbeddingStore) Add(
	ctx context.Context, resources []domain.Resource, extra map[string]string,
) (domain.AddReport, error) {
	report := domain.AddReport{}
	if len(resources) == 0 {
		return report, nil
	}

	logger.Section("Index")

	docs := make([]string, len(resources))
	for i, res := range resources {
		docs[i] = res.DocumentText(extra[res.ID])
	}

	vectors := s.embedAll(ctx, docs)

	for i, res := range resources {
		vec, err := vectors[i].vec, vectors[i].err
		if err == nil {
			err = validateVector(vec)
		}
		if err != nil {
			report.Skipped++
			report.Errors = append(report.Errors, fmt.Sprintf("%s: %v", res.ID, err))
			metrics.EmbeddingFailuresTotal.WithLabelValues("add").Inc()
			logger.Warn("Skipping %q: %v", res.Title, err)
			continue
		}

		record := domain.EmbeddingRecord{
			ID:        res.ID,
			Embedding: vec,
			Document:  docs[i],
			Metadata:  domain.RecordMetadata(res),
		}
		if _, err := s.store.Append(ctx, record); err != nil {
			if errors.Is(err, domain.ErrStoreCorruption) {
				metrics.StoreCorruptionTotal.Inc()
				return report, fmt.Errorf("append %s: %w", res.ID, err)
			}
			if ctx.Err() != nil {
				return report, fmt.Errorf("append %s: %w", res.ID, ctx.Err())
			}
			report.Skipped++
			report.Errors = append(report.Errors, fmt.Sprintf("%s: %v", res.ID, err))
			logger.Warn("Not indexing %q: %v", res.Title, err)
			continue
		}
		report.Added++
		metrics.RecordsIndexedTotal.Inc()
	}

	logger.Debug("Indexed %d records, skipped %d", report.Added, report.Skipped)
	return report, nil
}

type embedResult struct {
	vec []float32
	err error
}

// embedAll tries one batch request first and falls back to per-document
// calls so that a single bad document only costs itself.
func (s *EmbeddingStore) embedAll(ctx context.Context, docs []string) []embedResult {
	results := make([]embedResult, len(docs))

	batch, err := s.embedder.EmbedBatch(ctx, docs)
	if err == nil && len(batch) == len(docs) {
		for i, vec := range batch {
			results[i] = embedResult{vec: vec}
		}
		return results
	}
	if err != nil {
		logger.Debug("Batch embedding failed, embedding one at a time: %v", err)
	}

	for i, doc := range docs {
		vec, err := s.embedder.Embed(ctx, doc)
		if err != nil {
			err = fmt.Errorf("%w: %w", domain.ErrEmbeddingFailure, err)
		}
		results[i] = embedResult{vec: vec, err: err}
	}
	return results
}

// Search returns the k stored records closest to query, most similar first.
//
// If the query cannot be embedded the result is empty and the error wraps
// domain.ErrEmbeddingFailure; callers treat that as "no results". Store
// errors, including domain.ErrStoreCorruption, are returned wrapped.
func (s *EmbeddingStore) Search(ctx context.Context, query string, k int) ([]domain.SearchHit, error) {
	start := time.Now()
	defer func() {
		metrics.SearchDuration.Observe(time.Since(start).Seconds())
	}()

	if k <= 0 {
		return []domain.SearchHit{}, nil
	}

	logger.Section("Semantic Search")
	logger.Debug("Query: %q, k: %d", query, k)

	vec, err := s.embedder.Embed(ctx, query)
	if err == nil {
		err = validateVector(vec)
	}
	if err != nil {
		metrics.EmbeddingFailuresTotal.WithLabelValues("search").Inc()
		logger.Warn("Query embedding failed: %v", err)
		if !errors.Is(err, domain.ErrEmbeddingFailure) {
			err = fmt.Errorf("%w: %w", domain.ErrEmbeddingFailure, err)
		}
		return []domain.SearchHit{}, err
	}

	hits, err := s.store.Search(ctx, vec, k)
	if err != nil {
		if errors.Is(err, domain.ErrStoreCorruption) {
			metrics.StoreCorruptionTotal.Inc()
		}
		return []domain.SearchHit{}, fmt.Errorf("vector search: %w", err)
	}
	if hits == nil {
		hits = []domain.SearchHit{}
	}

	logger.Debug("Semantic search returned %d hits", len(hits))
	return hits, nil
}

// Count returns the number of stored records.
func (s *EmbeddingStore) Count(ctx context.Context) (int, error) {
	return s.store.Count(ctx)
}

// validateVector rejects vectors that cannot take part in cosine distance.
func validateVector(vec []float32) error {
	if len(vec) == 0 {
		return fmt.Errorf("%w: empty vector", domain.ErrEmbeddingFailure)
	}
	for _, v := range vec {
		if v != 0 {
			return nil
		}
	}
	return fmt.Errorf("%w: zero vector", domain.ErrEmbeddingFailure)
}
