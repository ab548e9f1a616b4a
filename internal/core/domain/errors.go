package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	// Empty topics and queries are rejected with this error before any work begins.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown provider, backend or normaliser type.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	// Features requiring LLM (topic refinement, summarisation) are disabled.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	// Indexing and semantic search are disabled without embeddings.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrVectorIndexUnavailable indicates the vector store is not configured.
	ErrVectorIndexUnavailable = errors.New("vector index unavailable")

	// Provider Errors.

	// ErrProviderUnavailable indicates a network, HTTP or decoding failure from one provider.
	// It is recovered locally by moving to the next fallback strategy.
	ErrProviderUnavailable = errors.New("provider unavailable")

	// ErrRateLimited indicates the provider rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")

	// Store Errors.

	// ErrEmbeddingFailure indicates the embedding function failed for one document or query.
	ErrEmbeddingFailure = errors.New("embedding failure")

	// ErrStoreCorruption indicates the vector store is unreadable or a vector
	// does not match the store's fixed dimension. Always surfaced to callers.
	ErrStoreCorruption = errors.New("store corruption")

	// ErrDuplicateRecord indicates a record id is already stored.
	// Records are never updated, so the append is refused.
	ErrDuplicateRecord = errors.New("duplicate record")

	// ErrExtractionFailed indicates text could not be extracted from a document.
	ErrExtractionFailed = errors.New("text extraction failed")
)
