package driven

import (
	"context"

	"github.com/docsmith-labs/docdex/internal/core/domain"
)

// ArtifactStore persists the three index artifacts: chunked
// documents, per-model embeddings, and serialised index blobs.
// Backed by SQLite, with a flat-file implementation as fallback.
//
// Load operations return domain.ErrNotFound when the artifact has
// never been saved. Save operations reject vectors whose width
// disagrees with the model identity's dimension with
// domain.ErrDimensionConflict; replacing a model's set at a new
// width re-records the model.
type ArtifactStore interface {
	// Name identifies the backend ("sqlite", "file") for logs.
	Name() string

	// SaveDocuments replaces the stored document set wholesale.
	SaveDocuments(ctx context.Context, docs []domain.Document) error

	// LoadDocuments returns all stored documents in save order.
	LoadDocuments(ctx context.Context) ([]domain.Document, error)

	// SaveEmbeddings stores one vector per document ID under the
	// model's name, replacing any previous set for that model.
	// ids and vectors are parallel slices.
	SaveEmbeddings(ctx context.Context, ids []string, vectors [][]float32, model domain.ModelIdentity) error

	// LoadEmbeddings returns the stored vectors for the model as
	// parallel id and vector slices, in save order.
	LoadEmbeddings(ctx context.Context, modelName string) ([]string, [][]float32, error)

	// HasEmbeddings reports whether any vectors are stored for the
	// model.
	HasEmbeddings(ctx context.Context, modelName string) (bool, error)

	// SaveIndexBlob stores a serialised index for the model,
	// replacing any previous blob.
	SaveIndexBlob(ctx context.Context, modelName string, blob []byte) error

	// LoadIndexBlob returns the serialised index for the model.
	LoadIndexBlob(ctx context.Context, modelName string) ([]byte, error)

	// Close releases resources.
	Close() error
}
