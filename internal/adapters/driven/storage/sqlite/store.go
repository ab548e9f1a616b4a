package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/sercha-learn/internal/adapters/driven/storage/ranking"
	"github.com/custodia-labs/sercha-learn/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/sercha-learn/internal/core/domain"
	"github.com/custodia-labs/sercha-learn/internal/core/ports/driven"
	"github.com/custodia-labs/sercha-learn/internal/logger"
)

// DBName is the database file name inside the data directory.
const DBName = "embeddings.db"

const (
	metaDimensions = "dimensions"
	metaModel      = "model"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

// Options configures a Store.
type Options struct {
	// Dimensions fixes the vector size up front. 0 lets the first append decide.
	Dimensions int

	// Model is recorded with the store so a later model switch can be detected.
	Model string
}

// Store is a SQLite-backed vector store.
type Store struct {
	db   *sql.DB
	path string

	mu    sync.Mutex // serialises appends
	dims  atomic.Int64
	model string
}

// NewStore opens or creates the store in dataDir.
// If dataDir is empty, defaults to ~/.sercha-learn/data.
//
// Opening an existing store with a different configured dimension fails
// with domain.ErrStoreCorruption.
func NewStore(dataDir string, opts Options) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".sercha-learn", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, DBName)

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	if err := s.loadMeta(opts); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Dimensions returns the fixed vector size, or 0 before the first append.
func (s *Store) Dimensions() int {
	return int(s.dims.Load())
}

// Model returns the embedding model recorded with the store.
func (s *Store) Model() string {
	return s.model
}

// loadMeta reconciles stored metadata with the configured options.
func (s *Store) loadMeta(opts Options) error {
	meta, err := s.readMeta()
	if err != nil {
		return fmt.Errorf("%w: reading store metadata: %w", domain.ErrStoreCorruption, err)
	}

	if v, ok := meta[metaDimensions]; ok {
		dims, err := strconv.Atoi(v)
		if err != nil || dims <= 0 {
			return fmt.Errorf("%w: invalid stored dimensions %q", domain.ErrStoreCorruption, v)
		}
		if opts.Dimensions > 0 && opts.Dimensions != dims {
			return fmt.Errorf("%w: store has %d dimensions, embedding model produces %d",
				domain.ErrStoreCorruption, dims, opts.Dimensions)
		}
		s.dims.Store(int64(dims))
	} else if opts.Dimensions > 0 {
		if err := s.writeMeta(s.db, metaDimensions, strconv.Itoa(opts.Dimensions)); err != nil {
			return fmt.Errorf("saving dimensions: %w", err)
		}
		s.dims.Store(int64(opts.Dimensions))
	}

	s.model = meta[metaModel]
	if opts.Model != "" && s.model != opts.Model {
		if s.model != "" {
			logger.Warn("Store was built with model %q, now using %q", s.model, opts.Model)
		}
		if err := s.writeMeta(s.db, metaModel, opts.Model); err != nil {
			return fmt.Errorf("saving model: %w", err)
		}
		s.model = opts.Model
	}
	return nil
}

func (s *Store) readMeta() (map[string]string, error) {
	rows, err := s.db.Query("SELECT key, value FROM store_meta")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	meta := make(map[string]string)
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return nil, err
		}
		meta[k] = v
	}
	return meta, rows.Err()
}

type execer interface {
	Exec(query string, args ...any) (sql.Result, error)
}

func (s *Store) writeMeta(db execer, key, value string) error {
	_, err := db.Exec(`
		INSERT INTO store_meta (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	return err
}

// Append stores one record in its own transaction. An id that is already
// stored is refused with domain.ErrDuplicateRecord.
func (s *Store) Append(ctx context.Context, record domain.EmbeddingRecord) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fixed := s.Dimensions()
	dims := fixed
	if dims == 0 {
		dims = len(record.Embedding)
	}
	if dims == 0 || len(record.Embedding) != dims {
		return 0, fmt.Errorf("%w: vector has %d dimensions, store has %d",
			domain.ErrStoreCorruption, len(record.Embedding), dims)
	}

	metadataJSON, err := json.Marshal(record.Metadata)
	if err != nil {
		return 0, fmt.Errorf("marshalling metadata: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var exists bool
	if err := tx.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM embeddings WHERE id = ?)", record.ID,
	).Scan(&exists); err != nil {
		return 0, fmt.Errorf("checking record %s: %w", record.ID, err)
	}
	if exists {
		return 0, fmt.Errorf("%w: %s", domain.ErrDuplicateRecord, record.ID)
	}

	if fixed == 0 {
		if err := s.writeMeta(tx, metaDimensions, strconv.Itoa(dims)); err != nil {
			return 0, fmt.Errorf("saving dimensions: %w", err)
		}
	}

	res, err := tx.ExecContext(ctx, `
		INSERT INTO embeddings (id, document, metadata, embedding)
		VALUES (?, ?, ?, ?)
	`, record.ID, record.Document, string(metadataJSON), float32SliceToBytes(record.Embedding))
	if err != nil {
		return 0, fmt.Errorf("inserting record %s: %w", record.ID, err)
	}

	seq, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("reading sequence: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing record %s: %w", record.ID, err)
	}

	s.dims.Store(int64(dims))
	return seq, nil
}

// Search ranks every stored record by cosine distance to query.
// The scan runs in a single statement and so sees one consistent snapshot.
func (s *Store) Search(ctx context.Context, query []float32, k int) ([]domain.SearchHit, error) {
	dims := s.Dimensions()
	if dims == 0 || k <= 0 {
		return []domain.SearchHit{}, nil
	}
	if len(query) != dims {
		return nil, fmt.Errorf("%w: query has %d dimensions, store has %d",
			domain.ErrStoreCorruption, len(query), dims)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT seq, id, document, metadata, embedding FROM embeddings
	`)
	if err != nil {
		return nil, fmt.Errorf("%w: querying embeddings: %w", domain.ErrStoreCorruption, err)
	}
	defer rows.Close()

	var candidates []ranking.Scored
	for rows.Next() {
		rec, err := scanRecord(rows, dims)
		if err != nil {
			return nil, err
		}
		candidates = append(candidates, ranking.Scored{
			Record:   rec,
			Distance: ranking.CosineDistance(query, rec.Embedding),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: reading embeddings: %w", domain.ErrStoreCorruption, err)
	}

	return ranking.TopK(candidates, k), nil
}

// Count returns the number of stored records.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM embeddings").Scan(&n); err != nil {
		return 0, fmt.Errorf("counting embeddings: %w", err)
	}
	return n, nil
}

// migrate runs all pending migrations and records each applied version.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_embeddings.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}

		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if err := s.applyMigration(version, string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

func (s *Store) applyMigration(version int, content string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(content); err != nil {
		return err
	}
	if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
		return err
	}
	return tx.Commit()
}

// ==================== Helper Functions ====================

// scanRecord scans one embeddings row, validating the blob against dims.
func scanRecord(rows *sql.Rows, dims int) (domain.EmbeddingRecord, error) {
	var rec domain.EmbeddingRecord
	var metadataJSON string
	var blob []byte

	if err := rows.Scan(&rec.Seq, &rec.ID, &rec.Document, &metadataJSON, &blob); err != nil {
		return rec, fmt.Errorf("%w: scanning embedding: %w", domain.ErrStoreCorruption, err)
	}
	if len(blob) != dims*4 {
		return rec, fmt.Errorf("%w: record %s has %d bytes, want %d",
			domain.ErrStoreCorruption, rec.ID, len(blob), dims*4)
	}
	if err := json.Unmarshal([]byte(metadataJSON), &rec.Metadata); err != nil {
		return rec, fmt.Errorf("%w: record %s metadata: %w", domain.ErrStoreCorruption, rec.ID, err)
	}
	rec.Embedding = bytesToFloat32Slice(blob)
	return rec, nil
}

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}
