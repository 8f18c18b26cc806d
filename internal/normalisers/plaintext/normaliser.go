package plaintext

import (
	"context"

	"github.com/docsmith-labs/docdex/internal/core/domain"
	"github.com/docsmith-labs/docdex/internal/core/ports/driven"
	"github.com/docsmith-labs/docdex/internal/normalisers"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles plain text documents. It is the trivial case:
// no markup to strip, just the shared whitespace cleanup.
type Normaliser struct{}

// New creates a new plain text normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// Format returns the format name.
func (n *Normaliser) Format() string {
	return "plaintext"
}

// SupportedExtensions returns the file extensions this normaliser handles.
func (n *Normaliser) SupportedExtensions() []string {
	return []string{".txt", ".text"}
}

// Normalise passes the content through with whitespace cleanup.
// Plain text has no headings, so no sections are recorded.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*domain.SourceDocument, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	return &domain.SourceDocument{
		RelPath: raw.RelPath,
		Title:   normalisers.TitleFromPath(raw.RelPath),
		Text:    normalisers.CleanWhitespace(string(raw.Content)),
		Format:  n.Format(),
	}, nil
}
