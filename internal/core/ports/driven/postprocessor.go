package driven

import (
	"context"

	"github.com/docsmith-labs/docdex/internal/core/domain"
)

// ChunkProcessor splits a normalised document into retrieval units.
// The chunker guarantees that concatenating the chunk texts in order
// reconstructs the source text exactly.
type ChunkProcessor interface {
	// Name returns the processor name for logging and configuration.
	Name() string

	// Process splits the document into chunks with provenance
	// metadata attached. An empty document yields no chunks.
	Process(ctx context.Context, src *domain.SourceDocument) ([]domain.Document, error)
}
