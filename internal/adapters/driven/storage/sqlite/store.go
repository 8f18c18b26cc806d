// Package sqlite implements the artifact store on a single SQLite
// database file. It is the primary persistence backend.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/docsmith-labs/docdex/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/docsmith-labs/docdex/internal/core/domain"
	"github.com/docsmith-labs/docdex/internal/core/ports/driven"
)

// dbFileName is the database file created under the data directory.
const dbFileName = "docdex.db"

// Store persists index artifacts in SQLite.
type Store struct {
	db   *sql.DB
	path string
}

var _ driven.ArtifactStore = (*Store)(nil)

// NewStore creates a SQLite store under the given data directory.
// If dataDir is empty, defaults to ~/.docdex.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".docdex")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, dbFileName)

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Name identifies the backend for logs.
func (s *Store) Name() string {
	return "sqlite"
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate runs all pending migrations.
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

	// Sort and run migrations
	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		// Read and execute migration
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Documents ====================

// SaveDocuments replaces the stored document set wholesale.
func (s *Store) SaveDocuments(ctx context.Context, docs []domain.Document) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, "DELETE FROM documents"); err != nil {
		return fmt.Errorf("clearing documents: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO documents (id, position, text, metadata)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for i, doc := range docs {
		metadataJSON, err := json.Marshal(doc.Metadata)
		if err != nil {
			return fmt.Errorf("marshalling document metadata: %w", err)
		}

		if _, err := stmt.ExecContext(ctx, doc.ID, i, doc.Text, string(metadataJSON)); err != nil {
			return fmt.Errorf("saving document %s: %w", doc.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// LoadDocuments returns all stored documents in save order.
func (s *Store) LoadDocuments(ctx context.Context) ([]domain.Document, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, text, metadata FROM documents ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	var docs []domain.Document //nolint:prealloc // size unknown from query
	for rows.Next() {
		var doc domain.Document
		var metadataJSON string
		if err := rows.Scan(&doc.ID, &doc.Text, &metadataJSON); err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}

		if err := json.Unmarshal([]byte(metadataJSON), &doc.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshaling document metadata: %w", err)
		}
		docs = append(docs, doc)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}

	if len(docs) == 0 {
		return nil, fmt.Errorf("%w: no documents stored", domain.ErrNotFound)
	}

	return docs, nil
}

// ==================== Embeddings ====================

// SaveEmbeddings stores one vector per document ID under the model's
// name, replacing any previous set for that model.
func (s *Store) SaveEmbeddings(ctx context.Context, ids []string, vectors [][]float32, model domain.ModelIdentity) error {
	if err := model.Validate(); err != nil {
		return err
	}
	if len(ids) != len(vectors) {
		return fmt.Errorf("%w: %d ids for %d vectors", domain.ErrInvalidInput, len(ids), len(vectors))
	}
	for i, vec := range vectors {
		if len(vec) != model.Dimension {
			return fmt.Errorf("%w: vector %d has width %d, model %s expects %d",
				domain.ErrDimensionConflict, i, len(vec), model.Name, model.Dimension)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	modelID, err := ensureModel(ctx, tx, model.Name, model.Dimension)
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM embeddings WHERE model_id = ?", modelID); err != nil {
		return fmt.Errorf("clearing embeddings: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO embeddings (document_id, model_id, position, vector)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for i, id := range ids {
		if _, err := stmt.ExecContext(ctx, id, modelID, i, float32SliceToBytes(vectors[i])); err != nil {
			return fmt.Errorf("saving embedding for %s: %w", id, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// LoadEmbeddings returns the stored vectors for the model as parallel
// id and vector slices, in save order.
func (s *Store) LoadEmbeddings(ctx context.Context, modelName string) ([]string, [][]float32, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT e.document_id, e.vector
		FROM embeddings e
		JOIN models m ON e.model_id = m.id
		WHERE m.name = ?
		ORDER BY e.position
	`, modelName)
	if err != nil {
		return nil, nil, fmt.Errorf("querying embeddings: %w", err)
	}
	defer rows.Close()

	var ids []string        //nolint:prealloc // size unknown from query
	var vectors [][]float32 //nolint:prealloc // size unknown from query
	for rows.Next() {
		var id string
		var blob []byte
		if err := rows.Scan(&id, &blob); err != nil {
			return nil, nil, fmt.Errorf("scanning embedding: %w", err)
		}
		ids = append(ids, id)
		vectors = append(vectors, bytesToFloat32Slice(blob))
	}

	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("iterating embeddings: %w", err)
	}

	if len(ids) == 0 {
		return nil, nil, fmt.Errorf("%w: no embeddings stored for model %s", domain.ErrNotFound, modelName)
	}

	return ids, vectors, nil
}

// HasEmbeddings reports whether any vectors are stored for the model.
func (s *Store) HasEmbeddings(ctx context.Context, modelName string) (bool, error) {
	var exists bool
	row := s.db.QueryRowContext(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM embeddings e
			JOIN models m ON e.model_id = m.id
			WHERE m.name = ?
		)
	`, modelName)
	if err := row.Scan(&exists); err != nil {
		return false, fmt.Errorf("checking embeddings: %w", err)
	}
	return exists, nil
}

// ==================== Index Blobs ====================

// SaveIndexBlob stores a serialised index for the model, replacing
// any previous blob.
func (s *Store) SaveIndexBlob(ctx context.Context, modelName string, blob []byte) error {
	if modelName == "" {
		return fmt.Errorf("%w: model name is empty", domain.ErrInvalidInput)
	}
	if len(blob) == 0 {
		return fmt.Errorf("%w: index blob is empty", domain.ErrInvalidInput)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	// Dimension 0 registers the model without fixing its width; a
	// later SaveEmbeddings fills it in.
	modelID, err := ensureModel(ctx, tx, modelName, 0)
	if err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO index_blobs (model_id, blob, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(model_id) DO UPDATE SET
			blob = excluded.blob,
			updated_at = excluded.updated_at
	`, modelID, blob)
	if err != nil {
		return fmt.Errorf("saving index blob: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// LoadIndexBlob returns the serialised index for the model.
func (s *Store) LoadIndexBlob(ctx context.Context, modelName string) ([]byte, error) {
	var blob []byte
	row := s.db.QueryRowContext(ctx, `
		SELECT b.blob FROM index_blobs b
		JOIN models m ON b.model_id = m.id
		WHERE m.name = ?
	`, modelName)
	if err := row.Scan(&blob); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: no index stored for model %s", domain.ErrNotFound, modelName)
		}
		return nil, fmt.Errorf("scanning index blob: %w", err)
	}
	return blob, nil
}

// ==================== Helper Functions ====================

// ensureModel finds or creates the model row and records the
// dimension. Embeddings are replaced wholesale per model, so a new
// non-zero dimension re-records the model rather than conflicting
// with the stale one. Zero leaves the stored dimension untouched.
func ensureModel(ctx context.Context, tx *sql.Tx, name string, dimension int) (int64, error) {
	var id int64
	var stored int
	row := tx.QueryRowContext(ctx, "SELECT id, dimension FROM models WHERE name = ?", name)
	err := row.Scan(&id, &stored)

	switch {
	case errors.Is(err, sql.ErrNoRows):
		res, err := tx.ExecContext(ctx, "INSERT INTO models (name, dimension) VALUES (?, ?)", name, dimension)
		if err != nil {
			return 0, fmt.Errorf("creating model %s: %w", name, err)
		}
		id, err = res.LastInsertId()
		if err != nil {
			return 0, fmt.Errorf("reading model id: %w", err)
		}
		return id, nil

	case err != nil:
		return 0, fmt.Errorf("looking up model %s: %w", name, err)
	}

	if dimension != 0 && stored != dimension {
		if _, err := tx.ExecContext(ctx, "UPDATE models SET dimension = ? WHERE id = ?", dimension, id); err != nil {
			return 0, fmt.Errorf("updating model dimension: %w", err)
		}
	}

	return id, nil
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
