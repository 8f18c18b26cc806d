package driven

import (
	"context"

	"github.com/docsmith-labs/docdex/internal/core/domain"
)

// Normaliser extracts plain text from one markup format.
// Each normaliser handles specific file extensions (e.g., .md, .html).
type Normaliser interface {
	// Format returns the format name this normaliser produces
	// ("markdown", "html", "rst", "plaintext").
	Format() string

	// SupportedExtensions returns the lowercase file extensions
	// this normaliser handles, dot included (".md", ".mdx").
	SupportedExtensions() []string

	// Normalise extracts title and plain text from a raw file.
	Normalise(ctx context.Context, raw *domain.RawDocument) (*domain.SourceDocument, error)
}

// NormaliserRegistry selects the normaliser for a file.
type NormaliserRegistry interface {
	// ForPath returns the normaliser for the file's extension, or
	// domain.ErrUnsupportedFormat when no registered normaliser
	// claims it.
	ForPath(path string) (Normaliser, error)

	// Extensions returns every extension any registered normaliser
	// claims. The corpus walker uses it to skip foreign files.
	Extensions() []string
}
