// Package chunker provides a boundary-seeking text chunking processor.
package chunker

import (
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/docsmith-labs/docdex/internal/core/domain"
	"github.com/docsmith-labs/docdex/internal/core/ports/driven"
)

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 1000

// DefaultChunkOverlap is the default size of the backtrack window
// searched for a natural break.
const DefaultChunkOverlap = 200

// Ensure Processor implements the interface.
var _ driven.ChunkProcessor = (*Processor)(nil)

// Processor splits document text into chunks of at most chunkSize
// characters, preferring to break at a newline, then at a sentence
// end, before falling back to a hard cut. The overlap is a backtrack
// window only: chunks never duplicate text, so concatenating them in
// order reconstructs the input exactly.
type Processor struct {
	chunkSize int
	overlap   int
}

// Option configures the chunker processor.
type Option func(*Processor)

// WithChunkSize sets the chunk size in characters.
func WithChunkSize(size int) Option {
	return func(p *Processor) {
		if size > 0 {
			p.chunkSize = size
		}
	}
}

// WithOverlap sets the backtrack window in characters.
func WithOverlap(overlap int) Option {
	return func(p *Processor) {
		if overlap >= 0 {
			p.overlap = overlap
		}
	}
}

// New creates a new chunker processor with the given options.
func New(opts ...Option) *Processor {
	p := &Processor{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(p)
	}

	// The backtrack window must leave room to advance
	if p.overlap >= p.chunkSize {
		p.overlap = p.chunkSize / 4
	}

	return p
}

// Name returns the processor name.
func (p *Processor) Name() string {
	return "chunker"
}

// Process splits the document into chunks with provenance metadata.
// Chunk IDs are deterministic ("<rel_path>:<index>") so re-ingesting
// an unchanged corpus upserts rather than duplicates.
func (p *Processor) Process(_ context.Context, src *domain.SourceDocument) ([]domain.Document, error) {
	if src == nil {
		return nil, domain.ErrInvalidInput
	}
	if src.Text == "" {
		// Empty document produces no chunks
		return nil, nil
	}

	pieces, offsets := p.split(src.Text)

	docs := make([]domain.Document, len(pieces))
	for i, text := range pieces {
		meta := map[string]any{
			domain.MetaSourcePath:  src.RelPath,
			domain.MetaFileName:    path.Base(src.RelPath),
			domain.MetaChunkIndex:  i,
			domain.MetaTotalChunks: len(pieces),
			domain.MetaFormat:      src.Format,
		}
		if src.Title != "" {
			meta[domain.MetaTitle] = src.Title
		}
		if section := src.SectionAt(offsets[i]); section != "" {
			meta[domain.MetaSection] = section
		}

		docs[i] = domain.Document{
			ID:       fmt.Sprintf("%s:%d", src.RelPath, i),
			Text:     text,
			Metadata: meta,
		}
	}

	return docs, nil
}

// split cuts text into pieces of at most chunkSize characters and
// returns them with their start offsets. For each window it searches
// backward within the last overlap characters for a newline, then a
// sentence boundary, and hard-cuts when neither appears.
func (p *Processor) split(text string) ([]string, []int) {
	if len(text) <= p.chunkSize {
		return []string{text}, []int{0}
	}

	var (
		pieces  []string
		offsets []int
		start   = 0
	)

	for start < len(text) {
		end := start + p.chunkSize
		if end >= len(text) {
			pieces = append(pieces, text[start:])
			offsets = append(offsets, start)
			break
		}

		window := text[end-p.overlap : end]

		cut := end
		if idx := strings.LastIndexByte(window, '\n'); idx >= 0 {
			cut = end - p.overlap + idx + 1
		} else if idx := strings.LastIndex(window, ". "); idx >= 0 {
			// The period stays with this chunk
			cut = end - p.overlap + idx + 1
		}

		pieces = append(pieces, text[start:cut])
		offsets = append(offsets, start)
		start = cut
	}

	return pieces, offsets
}
