// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
//   - FallbackFetcher: runs one pipeline through its provider cascade
//   - EmbeddingStore: embeds resources and answers semantic queries
//   - Orchestrator: combines both pipelines with enrichment and indexing
//
// Services depend only on the domain and port packages.
package services
