// Package corpus walks a documentation tree and yields raw files
// for ingestion. Acquisition of the corpus itself (checkouts,
// downloads) is out of scope: the walker only reads what is already
// on disk.
package corpus

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/docsmith-labs/docdex/internal/core/domain"
	"github.com/docsmith-labs/docdex/internal/core/ports/driven"
)

// Ensure Reader implements the interface.
var _ driven.CorpusReader = (*Reader)(nil)

// Reader walks a corpus directory, yielding files whose extension
// one of the registered normalisers claims. Hidden files and
// directories are skipped.
type Reader struct {
	root string
	exts map[string]struct{}
	log  *zap.Logger
}

// NewReader creates a corpus reader rooted at root, limited to the
// given extensions (lowercase, dot included).
func NewReader(root string, extensions []string, log *zap.Logger) *Reader {
	exts := make(map[string]struct{}, len(extensions))
	for _, ext := range extensions {
		exts[strings.ToLower(ext)] = struct{}{}
	}
	return &Reader{root: root, exts: exts, log: log}
}

// Root returns the corpus root directory.
func (r *Reader) Root() string {
	return r.root
}

// ReadAll walks the corpus and returns every readable file with a
// supported extension. filepath.WalkDir visits entries in lexical
// order, so the result is deterministic for a given tree. Files
// that disappear or turn unreadable mid-walk are logged and
// skipped; a missing or unreadable root fails the whole read.
func (r *Reader) ReadAll(ctx context.Context) ([]domain.RawDocument, error) {
	info, err := os.Stat(r.root)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrCorpusUnavailable, r.root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", domain.ErrCorpusUnavailable, r.root)
	}

	var docs []domain.RawDocument

	err = filepath.WalkDir(r.root, func(path string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		if err != nil {
			if path == r.root {
				return err
			}
			r.log.Warn("skipping unreadable entry", zap.String("path", path), zap.Error(err))
			if d != nil && d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if isHidden(d.Name()) && path != r.root {
				return filepath.SkipDir
			}
			return nil
		}
		if isHidden(d.Name()) {
			return nil
		}
		if _, ok := r.exts[strings.ToLower(filepath.Ext(path))]; !ok {
			return nil
		}

		content, readErr := os.ReadFile(path)
		if readErr != nil {
			r.log.Warn("skipping unreadable file", zap.String("path", path), zap.Error(readErr))
			return nil
		}

		rel, relErr := filepath.Rel(r.root, path)
		if relErr != nil {
			return relErr
		}

		docs = append(docs, domain.RawDocument{
			Path:    path,
			RelPath: filepath.ToSlash(rel),
			Content: content,
		})
		return nil
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		return nil, fmt.Errorf("%w: walking %s: %v", domain.ErrCorpusUnavailable, r.root, err)
	}

	return docs, nil
}

// isHidden reports whether a file or directory name is hidden.
// "." and ".." are path components, not hidden entries.
func isHidden(name string) bool {
	return strings.HasPrefix(name, ".") && name != "." && name != ".."
}
