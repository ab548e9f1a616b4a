// Package domain defines the core business entities for Sercha Learn.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - RawItem: An untyped record returned by a provider
//   - Resource: A normalised learning resource (video or paper)
//   - EmbeddingRecord: A persisted document with its vector
//   - RunResult / SearchResponse: Orchestration outputs with diagnostics
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
