// Package chromem provides a vector store backed by a persistent chromem-go database.
//
// chromem-go persists one file per document but has no notion of a fixed
// dimension or insertion order, so the store keeps a small TOML manifest
// next to the database and records the insertion sequence in each
// document's metadata.
package chromem

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/pelletier/go-toml/v2"
	chromemgo "github.com/philippgille/chromem-go"

	"github.com/custodia-labs/sercha-learn/internal/adapters/driven/storage/ranking"
	"github.com/custodia-labs/sercha-learn/internal/core/domain"
	"github.com/custodia-labs/sercha-learn/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-learn/internal/logger"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

const (
	// CollectionName is the collection every record is written to.
	CollectionName = "resources"

	// ManifestName is the manifest file inside the store directory.
	ManifestName = "manifest.toml"

	dbDirName = "chromem"
	seqKey    = "_seq"
)

var errNoEmbeddingFunc = errors.New("records must carry their own embedding")

// Options configures a Store.
type Options struct {
	// Dimensions fixes the vector size up front. 0 lets the first append decide.
	Dimensions int

	// Model is recorded in the manifest.
	Model string

	// Compress enables gzip compression of the persisted documents.
	Compress bool
}

// manifest is the sidecar file describing the collection.
type manifest struct {
	Dimensions int    `toml:"dimensions"`
	Model      string `toml:"model"`
}

// Store is a chromem-go backed vector store.
type Store struct {
	db         *chromemgo.DB
	collection *chromemgo.Collection
	dir        string

	mu       sync.RWMutex
	manifest manifest
	seq      int64
}

// NewStore opens or creates the store in dataDir.
// If dataDir is empty, defaults to ~/.sercha-learn/data.
func NewStore(dataDir string, opts Options) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".sercha-learn", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	s := &Store{dir: dataDir}
	if err := s.loadManifest(opts); err != nil {
		return nil, err
	}

	db, err := chromemgo.NewPersistentDB(filepath.Join(dataDir, dbDirName), opts.Compress)
	if err != nil {
		return nil, fmt.Errorf("%w: opening chromem database: %w", domain.ErrStoreCorruption, err)
	}

	collection, err := db.GetOrCreateCollection(CollectionName, nil, refuseEmbedding)
	if err != nil {
		return nil, fmt.Errorf("%w: opening collection: %w", domain.ErrStoreCorruption, err)
	}

	s.db = db
	s.collection = collection
	seq, err := s.maxSeq(context.Background())
	if err != nil {
		return nil, err
	}
	s.seq = seq

	logger.Debug("Opened chromem store at %s (%d records)", dataDir, s.seq)
	return s, nil
}

// maxSeq returns the highest sequence number stored in the collection.
// chromem-go has no listing call, so it ranks every document against a
// unit vector and reads each one's metadata.
func (s *Store) maxSeq(ctx context.Context) (int64, error) {
	n := s.collection.Count()
	if n == 0 {
		return 0, nil
	}
	if s.manifest.Dimensions == 0 {
		return 0, fmt.Errorf("%w: %d records but no stored dimensions", domain.ErrStoreCorruption, n)
	}

	probe := make([]float32, s.manifest.Dimensions)
	probe[0] = 1
	results, err := s.collection.QueryEmbedding(ctx, probe, n, nil, nil)
	if err != nil {
		return 0, fmt.Errorf("%w: scanning collection: %w", domain.ErrStoreCorruption, err)
	}

	var highest int64
	for _, r := range results {
		seq, err := strconv.ParseInt(r.Metadata[seqKey], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: record %s has no sequence", domain.ErrStoreCorruption, r.ID)
		}
		highest = max(highest, seq)
	}
	return highest, nil
}

// refuseEmbedding is installed as the collection's embedding function.
// Every record arrives with its vector, so it is never expected to run.
func refuseEmbedding(context.Context, string) ([]float32, error) {
	return nil, errNoEmbeddingFunc
}

func (s *Store) manifestPath() string {
	return filepath.Join(s.dir, ManifestName)
}

// loadManifest reconciles the stored manifest with the configured options.
func (s *Store) loadManifest(opts Options) error {
	data, err := os.ReadFile(s.manifestPath())
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return fmt.Errorf("%w: reading manifest: %w", domain.ErrStoreCorruption, err)
	default:
		if err := toml.Unmarshal(data, &s.manifest); err != nil {
			return fmt.Errorf("%w: parsing manifest: %w", domain.ErrStoreCorruption, err)
		}
	}

	if s.manifest.Dimensions < 0 {
		return fmt.Errorf("%w: invalid stored dimensions %d", domain.ErrStoreCorruption, s.manifest.Dimensions)
	}

	dirty := false
	switch {
	case s.manifest.Dimensions > 0 && opts.Dimensions > 0 && s.manifest.Dimensions != opts.Dimensions:
		return fmt.Errorf("%w: store has %d dimensions, embedding model produces %d",
			domain.ErrStoreCorruption, s.manifest.Dimensions, opts.Dimensions)
	case s.manifest.Dimensions == 0 && opts.Dimensions > 0:
		s.manifest.Dimensions = opts.Dimensions
		dirty = true
	}

	if opts.Model != "" && s.manifest.Model != opts.Model {
		if s.manifest.Model != "" {
			logger.Warn("Store was built with model %q, now using %q", s.manifest.Model, opts.Model)
		}
		s.manifest.Model = opts.Model
		dirty = true
	}

	if dirty {
		return s.saveManifest()
	}
	return nil
}

func (s *Store) saveManifest() error {
	data, err := toml.Marshal(s.manifest)
	if err != nil {
		return fmt.Errorf("encoding manifest: %w", err)
	}
	tmp := s.manifestPath() + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	if err := os.Rename(tmp, s.manifestPath()); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	return nil
}

// Dimensions returns the fixed vector size, or 0 before the first append.
func (s *Store) Dimensions() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.manifest.Dimensions
}

// Model returns the embedding model recorded in the manifest.
func (s *Store) Model() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.manifest.Model
}

// Append stores one record and returns its sequence number.
// chromem-go would overwrite a document with the same id, so an id that is
// already stored is refused with domain.ErrDuplicateRecord.
func (s *Store) Append(ctx context.Context, record domain.EmbeddingRecord) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if record.ID != "" {
		if _, err := s.collection.GetByID(ctx, record.ID); err == nil {
			return 0, fmt.Errorf("%w: %s", domain.ErrDuplicateRecord, record.ID)
		}
	}

	dims := s.manifest.Dimensions
	if dims == 0 {
		dims = len(record.Embedding)
	}
	if dims == 0 || len(record.Embedding) != dims {
		return 0, fmt.Errorf("%w: vector has %d dimensions, store has %d",
			domain.ErrStoreCorruption, len(record.Embedding), dims)
	}

	if s.manifest.Dimensions == 0 {
		s.manifest.Dimensions = dims
		if err := s.saveManifest(); err != nil {
			s.manifest.Dimensions = 0
			return 0, err
		}
	}

	seq := s.seq + 1
	meta := maps.Clone(record.Metadata)
	if meta == nil {
		meta = make(map[string]string, 1)
	}
	meta[seqKey] = strconv.FormatInt(seq, 10)

	doc := chromemgo.Document{
		ID:        record.ID,
		Metadata:  meta,
		Embedding: append([]float32(nil), record.Embedding...),
		Content:   record.Document,
	}
	if err := s.collection.AddDocuments(ctx, []chromemgo.Document{doc}, 1); err != nil {
		return 0, fmt.Errorf("adding record %s: %w", record.ID, err)
	}

	s.seq = seq
	return seq, nil
}

// Search ranks every stored record by cosine distance to query.
func (s *Store) Search(ctx context.Context, query []float32, k int) ([]domain.SearchHit, error) {
	s.mu.RLock()
	dims := s.manifest.Dimensions
	s.mu.RUnlock()

	// chromem requires nResults <= document count
	n := s.collection.Count()
	if n == 0 || dims == 0 || k <= 0 {
		return []domain.SearchHit{}, nil
	}
	if len(query) != dims {
		return nil, fmt.Errorf("%w: query has %d dimensions, store has %d",
			domain.ErrStoreCorruption, len(query), dims)
	}

	// Query everything and re-rank so ties follow insertion order.
	results, err := s.collection.QueryEmbedding(ctx, query, n, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: querying collection: %w", domain.ErrStoreCorruption, err)
	}

	candidates := make([]ranking.Scored, 0, len(results))
	for _, r := range results {
		rec, err := recordOf(r)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, ranking.Scored{
			Record:   rec,
			Distance: 1 - float64(r.Similarity),
		})
	}
	return ranking.TopK(candidates, k), nil
}

// Count returns the number of stored records.
func (s *Store) Count(_ context.Context) (int, error) {
	return s.collection.Count(), nil
}

// Close is a no-op; chromem-go writes every document as it is added.
func (s *Store) Close() error {
	return nil
}

func recordOf(r chromemgo.Result) (domain.EmbeddingRecord, error) {
	seq, err := strconv.ParseInt(r.Metadata[seqKey], 10, 64)
	if err != nil {
		return domain.EmbeddingRecord{}, fmt.Errorf("%w: record %s has no sequence", domain.ErrStoreCorruption, r.ID)
	}
	meta := maps.Clone(r.Metadata)
	delete(meta, seqKey)

	return domain.EmbeddingRecord{
		ID:        r.ID,
		Embedding: r.Embedding,
		Document:  r.Content,
		Metadata:  meta,
		Seq:       seq,
	}, nil
}
