// Package sqlite provides the durable vector store backed by SQLite.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. Embedding records are stored one row
// per record with the vector as a little-endian float32 blob. Nearest-neighbour
// search scans every row and ranks by cosine distance.
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. The store dimension is kept in the store_meta table
// and fixed by the first append unless configured.
//
// # Data Location
//
// By default, the database is stored at ~/.sercha-learn/data/embeddings.db
//
// # Thread Safety
//
// All operations are thread-safe. Appends are serialised; searches read a
// consistent snapshot provided by SQLite in WAL mode.
package sqlite
