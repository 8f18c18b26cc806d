package driven

import (
	"context"

	"github.com/docsmith-labs/docdex/internal/core/domain"
)

// CorpusReader walks a documentation tree and yields raw files.
type CorpusReader interface {
	// Root returns the corpus root directory.
	Root() string

	// ReadAll walks the corpus and returns every readable file
	// with a supported extension, in deterministic path order.
	// A missing or unreadable root fails with
	// domain.ErrCorpusUnavailable.
	ReadAll(ctx context.Context) ([]domain.RawDocument, error)
}
