// Package storage selects and opens the configured vector store backend.
package storage

import (
	"fmt"

	"github.com/custodia-labs/sercha-learn/internal/adapters/driven/storage/chromem"
	"github.com/custodia-labs/sercha-learn/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/sercha-learn/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/sercha-learn/internal/core/domain"
	"github.com/custodia-labs/sercha-learn/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-learn/internal/logger"
)

// Options configures the vector store.
type Options struct {
	// Backend selects the implementation. Empty means sqlite.
	Backend domain.StoreBackend

	// DataDir is the directory durable backends write to.
	DataDir string

	// Dimensions fixes the vector size. 0 lets the first append decide.
	Dimensions int

	// Model is the embedding model recorded with durable stores.
	Model string

	// Compress gzips persisted documents (chromem only).
	Compress bool
}

// Open creates the vector store described by opts.
func Open(opts Options) (driven.VectorStore, error) {
	backend := opts.Backend
	if backend == "" {
		backend = domain.StoreBackendSQLite
	}

	logger.Debug("Opening %s vector store (dimensions=%d, model=%q)", backend, opts.Dimensions, opts.Model)

	switch backend {
	case domain.StoreBackendSQLite:
		store, err := sqlite.NewStore(opts.DataDir, sqlite.Options{
			Dimensions: opts.Dimensions,
			Model:      opts.Model,
		})
		if err != nil {
			return nil, err
		}
		return store, nil
	case domain.StoreBackendChromem:
		store, err := chromem.NewStore(opts.DataDir, chromem.Options{
			Dimensions: opts.Dimensions,
			Model:      opts.Model,
			Compress:   opts.Compress,
		})
		if err != nil {
			return nil, err
		}
		return store, nil
	case domain.StoreBackendMemory:
		return memory.NewVectorStore(opts.Dimensions), nil
	default:
		return nil, fmt.Errorf("%w: store backend %q", domain.ErrUnsupportedType, backend)
	}
}
