// Package file implements the artifact store on plain files. It is
// the fallback backend when SQLite is unavailable, and needs nothing
// beyond a writable directory.
//
// Layout under the data directory:
//
//	documents.json          chunked documents, in save order
//	model_<name>.json       model identity
//	embeddings_<name>.bin   id+vector pairs, binary
//	index_<name>.bin        serialised vector index
//
// Every write lands in a uniquely named temp file first and is
// renamed into place, so a crash mid-write never clobbers the
// previous artifact.
package file

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"regexp"

	"github.com/google/uuid"

	"github.com/docsmith-labs/docdex/internal/core/domain"
	"github.com/docsmith-labs/docdex/internal/core/ports/driven"
)

var _ driven.ArtifactStore = (*Store)(nil)

// Embeddings file layout: header then rows, all little-endian.
const (
	embMagic   uint32 = 0x62657864 // "dxeb"
	embVersion uint32 = 1
)

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]`)

// Store persists index artifacts as files under a data directory.
type Store struct {
	dir string
}

// storedDocument is the JSON representation of a document.
type storedDocument struct {
	ID       string         `json:"id"`
	Text     string         `json:"text"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// storedModel is the JSON representation of a model identity.
type storedModel struct {
	Name      string `json:"name"`
	Dimension int    `json:"dimension"`
}

// NewStore creates a file store under the given data directory.
// If dataDir is empty, defaults to ~/.docdex.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".docdex")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	return &Store{dir: dataDir}, nil
}

// Name identifies the backend for logs.
func (s *Store) Name() string {
	return "file"
}

// Dir returns the data directory.
func (s *Store) Dir() string {
	return s.dir
}

// Close releases resources.
func (s *Store) Close() error {
	return nil
}

// ==================== Documents ====================

// SaveDocuments replaces the stored document set wholesale.
func (s *Store) SaveDocuments(_ context.Context, docs []domain.Document) error {
	stored := make([]storedDocument, len(docs))
	for i, doc := range docs {
		stored[i] = storedDocument{ID: doc.ID, Text: doc.Text, Metadata: doc.Metadata}
	}

	data, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("marshalling documents: %w", err)
	}

	return s.atomicWrite(s.documentsPath(), data)
}

// LoadDocuments returns all stored documents in save order.
func (s *Store) LoadDocuments(_ context.Context) ([]domain.Document, error) {
	data, err := os.ReadFile(s.documentsPath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: no documents stored", domain.ErrNotFound)
		}
		return nil, fmt.Errorf("reading documents: %w", err)
	}

	var stored []storedDocument
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("unmarshaling documents: %w", err)
	}
	if len(stored) == 0 {
		return nil, fmt.Errorf("%w: no documents stored", domain.ErrNotFound)
	}

	docs := make([]domain.Document, len(stored))
	for i, sd := range stored {
		docs[i] = domain.Document{ID: sd.ID, Text: sd.Text, Metadata: sd.Metadata}
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
	size := 16
	for _, id := range ids {
		size += 4 + len(id) + model.Dimension*4
	}

	buf := make([]byte, 0, size)
	buf = binary.LittleEndian.AppendUint32(buf, embMagic)
	buf = binary.LittleEndian.AppendUint32(buf, embVersion)
	buf = binary.LittleEndian.AppendUint32(buf, uint32(model.Dimension))
	buf = binary.LittleEndian.AppendUint32(buf, uint32(len(ids)))
	for i, id := range ids {
		buf = binary.LittleEndian.AppendUint32(buf, uint32(len(id)))
		buf = append(buf, id...)
		for _, f := range vectors[i] {
			buf = binary.LittleEndian.AppendUint32(buf, math.Float32bits(f))
		}
	}

	if err := s.atomicWrite(s.embeddingsPath(model.Name), buf); err != nil {
		return err
	}
	return s.saveModel(model)
}

// LoadEmbeddings returns the stored vectors for the model as parallel
// id and vector slices, in save order.
func (s *Store) LoadEmbeddings(_ context.Context, modelName string) ([]string, [][]float32, error) {
	data, err := os.ReadFile(s.embeddingsPath(modelName))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, fmt.Errorf("%w: no embeddings stored for model %s", domain.ErrNotFound, modelName)
		}
		return nil, nil, fmt.Errorf("reading embeddings: %w", err)
	}

	if len(data) < 16 {
		return nil, nil, fmt.Errorf("embeddings file for %s is truncated", modelName)
	}
	if magic := binary.LittleEndian.Uint32(data[0:]); magic != embMagic {
		return nil, nil, fmt.Errorf("embeddings file for %s has wrong magic 0x%08x", modelName, magic)
	}
	if version := binary.LittleEndian.Uint32(data[4:]); version != embVersion {
		return nil, nil, fmt.Errorf("unsupported embeddings file version %d", version)
	}

	dim := int(binary.LittleEndian.Uint32(data[8:]))
	count := int(binary.LittleEndian.Uint32(data[12:]))

	ids := make([]string, 0, count)
	vectors := make([][]float32, 0, count)
	off := 16
	for i := 0; i < count; i++ {
		if off+4 > len(data) {
			return nil, nil, fmt.Errorf("embeddings file for %s is truncated at row %d", modelName, i)
		}
		idLen := int(binary.LittleEndian.Uint32(data[off:]))
		off += 4
		if off+idLen+dim*4 > len(data) {
			return nil, nil, fmt.Errorf("embeddings file for %s is truncated at row %d", modelName, i)
		}
		ids = append(ids, string(data[off:off+idLen]))
		off += idLen

		vec := make([]float32, dim)
		for j := range vec {
			vec[j] = math.Float32frombits(binary.LittleEndian.Uint32(data[off:]))
			off += 4
		}
		vectors = append(vectors, vec)
	}

	if len(ids) == 0 {
		return nil, nil, fmt.Errorf("%w: no embeddings stored for model %s", domain.ErrNotFound, modelName)
	}
	return ids, vectors, nil
}

// HasEmbeddings reports whether any vectors are stored for the model.
func (s *Store) HasEmbeddings(_ context.Context, modelName string) (bool, error) {
	info, err := os.Stat(s.embeddingsPath(modelName))
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("checking embeddings: %w", err)
	}
	// The header alone means zero rows.
	return info.Size() > 16, nil
}

// ==================== Index Blobs ====================

// SaveIndexBlob stores a serialised index for the model, replacing
// any previous blob.
func (s *Store) SaveIndexBlob(_ context.Context, modelName string, blob []byte) error {
	if modelName == "" {
		return fmt.Errorf("%w: model name is empty", domain.ErrInvalidInput)
	}
	if len(blob) == 0 {
		return fmt.Errorf("%w: index blob is empty", domain.ErrInvalidInput)
	}
	return s.atomicWrite(s.indexPath(modelName), blob)
}

// LoadIndexBlob returns the serialised index for the model.
func (s *Store) LoadIndexBlob(_ context.Context, modelName string) ([]byte, error) {
	blob, err := os.ReadFile(s.indexPath(modelName))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: no index stored for model %s", domain.ErrNotFound, modelName)
		}
		return nil, fmt.Errorf("reading index blob: %w", err)
	}
	return blob, nil
}

// ==================== Helper Functions ====================

// saveModel records the model identity next to its artifacts.
// Saving replaces any previous record, so a model re-embedded at a
// new width simply re-records its dimension.
func (s *Store) saveModel(model domain.ModelIdentity) error {
	data, err := json.Marshal(storedModel{Name: model.Name, Dimension: model.Dimension})
	if err != nil {
		return fmt.Errorf("marshalling model: %w", err)
	}
	return s.atomicWrite(s.modelPath(model.Name), data)
}

// atomicWrite writes data to a temp file and renames it into place.
func (s *Store) atomicWrite(path string, data []byte) error {
	tmp := fmt.Sprintf("%s.%s.tmp", path, uuid.New().String())
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("writing %s: %w", filepath.Base(tmp), err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replacing %s: %w", filepath.Base(path), err)
	}
	return nil
}

func (s *Store) documentsPath() string {
	return filepath.Join(s.dir, "documents.json")
}

func (s *Store) modelPath(modelName string) string {
	return filepath.Join(s.dir, "model_"+safeName(modelName)+".json")
}

func (s *Store) embeddingsPath(modelName string) string {
	return filepath.Join(s.dir, "embeddings_"+safeName(modelName)+".bin")
}

func (s *Store) indexPath(modelName string) string {
	return filepath.Join(s.dir, "index_"+safeName(modelName)+".bin")
}

// safeName maps a model name to a filename fragment.
func safeName(modelName string) string {
	return unsafeChars.ReplaceAllString(modelName, "_")
}
