// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - Provider: Fetches raw items from one external catalog
//   - NormaliserRegistry: Maps raw items to canonical resources
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - EmbeddingService: Generates vector embeddings. Without it, nothing is indexed.
//   - VectorStore: Persists embedding records. Without it, nothing is indexed.
//   - LLMService: Topic refinement and summarisation. Without it, topics are used verbatim.
//   - TextExtractor: Paper body extraction. Without it, papers are indexed by title and abstract.
//   - PostProcessorPipeline: Paper text enrichment chain.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, connector, or normaliser package
package driven
