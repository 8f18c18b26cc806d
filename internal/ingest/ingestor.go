// Package ingest turns a corpus directory into chunked documents
// ready for embedding. It chains the corpus walker, the per-format
// normalisers and the chunker.
package ingest

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/docsmith-labs/docdex/internal/core/domain"
	"github.com/docsmith-labs/docdex/internal/core/ports/driven"
)

// Ingestor produces the document set for one corpus.
type Ingestor struct {
	corpus   driven.CorpusReader
	registry driven.NormaliserRegistry
	chunker  driven.ChunkProcessor
	log      *zap.Logger
}

// New creates an ingestor over the given corpus.
func New(corpus driven.CorpusReader, registry driven.NormaliserRegistry, chunker driven.ChunkProcessor, log *zap.Logger) *Ingestor {
	return &Ingestor{
		corpus:   corpus,
		registry: registry,
		chunker:  chunker,
		log:      log,
	}
}

// Ingest walks the corpus, normalises every supported file and chunks
// the results. The output order is deterministic: files in walk
// order, chunks in position order. Files no normaliser claims and
// files that normalise to nothing are skipped.
func (ing *Ingestor) Ingest(ctx context.Context) ([]domain.Document, error) {
	raws, err := ing.corpus.ReadAll(ctx)
	if err != nil {
		return nil, err
	}

	var docs []domain.Document
	skipped := 0
	for _, raw := range raws {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		normaliser, err := ing.registry.ForPath(raw.RelPath)
		if err != nil {
			if errors.Is(err, domain.ErrUnsupportedFormat) {
				ing.log.Debug("no normaliser for file", zap.String("path", raw.RelPath))
				skipped++
				continue
			}
			return nil, fmt.Errorf("resolving normaliser for %s: %w", raw.RelPath, err)
		}

		src, err := normaliser.Normalise(ctx, &raw)
		if err != nil {
			return nil, fmt.Errorf("normalising %s: %w", raw.RelPath, err)
		}
		if src.Text == "" {
			ing.log.Debug("file normalised to nothing", zap.String("path", raw.RelPath))
			skipped++
			continue
		}

		chunks, err := ing.chunker.Process(ctx, src)
		if err != nil {
			return nil, fmt.Errorf("chunking %s: %w", raw.RelPath, err)
		}
		docs = append(docs, chunks...)
	}

	ing.log.Info("corpus ingested",
		zap.String("root", ing.corpus.Root()),
		zap.Int("files", len(raws)),
		zap.Int("skipped", skipped),
		zap.Int("chunks", len(docs)))

	return docs, nil
}
