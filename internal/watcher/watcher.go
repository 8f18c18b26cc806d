// Package watcher reindexes the corpus when its files change.
// fsnotify events are debounced so an editor save burst or a large
// copy triggers one rebuild, not dozens.
package watcher

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/docsmith-labs/docdex/internal/core/domain"
)

// DefaultDebounce is the quiet period required after the last file
// event before a rebuild starts.
const DefaultDebounce = 500 * time.Millisecond

// Watcher watches a corpus root recursively and invokes a reindex
// callback after changes settle.
type Watcher struct {
	root     string
	exts     map[string]struct{}
	debounce time.Duration
	reindex  func(context.Context) error
	log      *zap.Logger
}

// New creates a corpus watcher. extensions lists the file suffixes
// that can affect the index ([".md", ".rst"]); reindex is invoked
// once per settled change burst.
func New(root string, extensions []string, debounce time.Duration, reindex func(context.Context) error, log *zap.Logger) (*Watcher, error) {
	if root == "" {
		return nil, fmt.Errorf("%w: watch root is empty", domain.ErrInvalidInput)
	}
	if reindex == nil {
		return nil, fmt.Errorf("%w: reindex callback is nil", domain.ErrInvalidInput)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if log == nil {
		log = zap.NewNop()
	}

	exts := make(map[string]struct{}, len(extensions))
	for _, ext := range extensions {
		exts[strings.ToLower(ext)] = struct{}{}
	}

	return &Watcher{
		root:     filepath.Clean(root),
		exts:     exts,
		debounce: debounce,
		reindex:  reindex,
		log:      log,
	}, nil
}

// Watch blocks, processing file events until ctx is cancelled. New
// directories are added to the watch set as they appear; fsnotify
// does not recurse on its own.
func (w *Watcher) Watch(ctx context.Context) error {
	notify, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer notify.Close()

	if err := addRecursive(notify, w.root); err != nil {
		return fmt.Errorf("%w: watching %s: %v", domain.ErrCorpusUnavailable, w.root, err)
	}

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	w.log.Info("watching corpus",
		zap.String("root", w.root),
		zap.Duration("debounce", w.debounce))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-notify.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			w.log.Debug("corpus change",
				zap.String("path", event.Name),
				zap.String("op", event.Op.String()))
			if event.Op.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := addRecursive(notify, event.Name); err != nil {
						w.log.Warn("could not watch new directory",
							zap.String("path", event.Name), zap.Error(err))
					}
				}
			}
			timer.Reset(w.debounce)

		case <-timer.C:
			start := time.Now()
			if err := w.reindex(ctx); err != nil {
				w.log.Error("reindex after corpus change failed", zap.Error(err))
				continue
			}
			w.log.Info("reindexed after corpus change",
				zap.Duration("took", time.Since(start)))

		case err, ok := <-notify.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watcher error", zap.Error(err))
		}
	}
}

// relevant filters events down to ones that can change the index:
// create, write, remove or rename of a non-hidden path that either
// carries a watched extension or has none at all. Extensionless
// paths stay in because a removed directory reports no extension
// and skipping it would miss the rebuild.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	if isHidden(event.Name, w.root) {
		return false
	}
	ext := strings.ToLower(filepath.Ext(event.Name))
	if ext == "" {
		return true
	}
	_, ok := w.exts[ext]
	return ok
}

// isHidden reports whether any path component below the watch root
// is dot-prefixed. Components above the root do not count, so a
// corpus rooted inside a hidden directory still gets events.
func isHidden(path, root string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	for _, part := range strings.Split(rel, string(filepath.Separator)) {
		if strings.HasPrefix(part, ".") && part != "." && part != ".." {
			return true
		}
	}
	return false
}

// addRecursive watches dir and every non-hidden directory below it.
func addRecursive(notify *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && strings.HasPrefix(d.Name(), ".") {
			return filepath.SkipDir
		}
		return notify.Add(path)
	})
}
