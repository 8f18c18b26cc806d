package services

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/docsmith-labs/docdex/internal/core/domain"
	"github.com/docsmith-labs/docdex/internal/core/ports/driven"
	"github.com/docsmith-labs/docdex/internal/core/ports/driving"
	"github.com/docsmith-labs/docdex/internal/metrics"
)

// Build triggers reported in logs and metrics.
const (
	triggerInitial   = "initial"
	triggerRebuild   = "rebuild"
	triggerDimension = "dimension_mismatch"
)

// candidateFactor oversamples the nearest-neighbour scan so the score
// floor and keyword boosts have candidates to work with.
const candidateFactor = 3

// DocumentSource supplies the chunked corpus for a build. Satisfied
// by *ingest.Ingestor.
type DocumentSource interface {
	Ingest(ctx context.Context) ([]domain.Document, error)
}

// snapshot is one immutable, queryable index generation: the chunks
// in build order and an index whose positions mirror that order.
// Once published the snapshot is never mutated, only replaced.
type snapshot struct {
	documents []domain.Document
	index     driven.VectorIndex
	model     domain.ModelIdentity
}

// Engine implements driving.RetrievalEngine. It owns the index
// lifecycle (ingest, embed, index, persist) and answers queries
// against the active snapshot.
//
// Builds are serialised by buildMu; the active snapshot sits behind
// an atomic pointer, so searches never block on a build and keep
// serving the previous generation while a replacement is assembled.
type Engine struct {
	source   DocumentSource
	provider driven.EmbeddingService
	codec    driven.VectorIndexCodec
	stores   []driven.ArtifactStore
	log      *zap.Logger

	clusters     [][]string
	skipIfExists bool

	buildMu sync.Mutex
	state   atomic.Int32
	snap    atomic.Pointer[snapshot]
}

// Ensure Engine implements the interface.
var _ driving.RetrievalEngine = (*Engine)(nil)

// EngineOption configures optional Engine behaviour.
type EngineOption func(*Engine)

// WithBoostClusters replaces the default keyword boost clusters.
// An empty slice keeps the defaults.
func WithBoostClusters(clusters [][]string) EngineOption {
	return func(e *Engine) {
		if len(clusters) > 0 {
			e.clusters = clusters
		}
	}
}

// WithSkipIfExists controls whether Build reuses persisted artifacts
// when they are present and compatible with the active model.
// Default true.
func WithSkipIfExists(skip bool) EngineOption {
	return func(e *Engine) {
		e.skipIfExists = skip
	}
}

// NewEngine creates a retrieval engine. Stores are consulted in
// order: the first is the primary, the rest are fallbacks.
func NewEngine(source DocumentSource, provider driven.EmbeddingService, codec driven.VectorIndexCodec, stores []driven.ArtifactStore, log *zap.Logger, opts ...EngineOption) (*Engine, error) {
	if source == nil {
		return nil, fmt.Errorf("%w: document source is nil", domain.ErrInvalidInput)
	}
	if provider == nil {
		return nil, fmt.Errorf("%w: no embedding provider configured", domain.ErrEmbeddingUnavailable)
	}
	if codec == nil {
		return nil, fmt.Errorf("%w: no index codec configured", domain.ErrIndexUnavailable)
	}
	if len(stores) == 0 {
		return nil, fmt.Errorf("%w: no artifact stores configured", domain.ErrInvalidInput)
	}
	if log == nil {
		log = zap.NewNop()
	}

	e := &Engine{
		source:       source,
		provider:     provider,
		codec:        codec,
		stores:       stores,
		log:          log,
		clusters:     DefaultBoostClusters,
		skipIfExists: true,
	}
	e.state.Store(int32(domain.StateUninitialized))
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// State returns the engine's lifecycle state.
func (e *Engine) State() domain.EngineState {
	return domain.EngineState(e.state.Load())
}

// Stats returns the engine state together with the active snapshot's
// document count and model identity.
func (e *Engine) Stats() domain.EngineStats {
	st := domain.EngineStats{State: e.State()}
	if snap := e.snap.Load(); snap != nil {
		st.Documents = len(snap.documents)
		st.Model = snap.model
	}
	return st
}

// ==================== Build ====================

// Build brings the engine to Ready. Persisted artifacts are reused
// when they are compatible with the active model; otherwise the
// corpus is ingested, embedded and indexed from scratch. Calling
// Build on a Ready engine is a no-op.
//
// A build that succeeds in memory but fails to persist on every
// store still goes Ready and returns ErrPersistenceFailure, so the
// caller knows the artifacts are not durable.
func (e *Engine) Build(ctx context.Context) error {
	e.buildMu.Lock()
	defer e.buildMu.Unlock()
	return e.buildLocked(ctx, triggerInitial, false)
}

// Rebuild discards persisted state and rebuilds from the corpus with
// the active model. Queries keep being served from the previous
// snapshot until the replacement is ready.
func (e *Engine) Rebuild(ctx context.Context) error {
	e.buildMu.Lock()
	defer e.buildMu.Unlock()
	return e.buildLocked(ctx, triggerRebuild, true)
}

// rebuildIfStale rebuilds unless another search already fixed the
// index width while this one waited on the build lock. Keeps the
// dimension-mismatch recovery to exactly one rebuild under
// concurrent queries.
func (e *Engine) rebuildIfStale(ctx context.Context, wantDim int) error {
	e.buildMu.Lock()
	defer e.buildMu.Unlock()
	if snap := e.snap.Load(); snap != nil && snap.index.Dimensions() == wantDim {
		return nil
	}
	return e.buildLocked(ctx, triggerDimension, true)
}

// buildLocked runs one build attempt. Caller holds buildMu.
func (e *Engine) buildLocked(ctx context.Context, trigger string, force bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	prev := e.snap.Load()
	if prev != nil && !force {
		return nil
	}
	if prev == nil {
		e.state.Store(int32(domain.StateBuilding))
	} else {
		e.state.Store(int32(domain.StateRebuilding))
	}

	model := domain.ModelIdentity{
		Name:      e.provider.ModelName(),
		Dimension: e.provider.Dimensions(),
	}
	start := time.Now()

	if !force && e.skipIfExists {
		if next, ok := e.loadPersisted(ctx, model); ok {
			e.publish(next, trigger, start)
			return nil
		}
	}

	next, vectors, err := e.buildFromCorpus(ctx, model)
	if err != nil {
		metrics.IndexBuildsTotal.WithLabelValues(trigger, "error").Inc()
		if prev != nil {
			e.state.Store(int32(domain.StateReady))
			e.log.Error("rebuild failed, previous snapshot stays active",
				zap.String("trigger", trigger), zap.Error(err))
		} else {
			e.state.Store(int32(domain.StateFailed))
		}
		return err
	}

	persistErr := e.persist(ctx, next, vectors)
	e.publish(next, trigger, start)
	if persistErr != nil {
		e.log.Warn("index built but not persisted, serving from memory", zap.Error(persistErr))
		return persistErr
	}
	return nil
}

// publish swaps the snapshot in and records the build.
func (e *Engine) publish(next *snapshot, trigger string, start time.Time) {
	e.snap.Store(next)
	e.state.Store(int32(domain.StateReady))
	metrics.IndexBuildsTotal.WithLabelValues(trigger, "success").Inc()
	metrics.IndexBuildDuration.Observe(time.Since(start).Seconds())
	metrics.IndexedDocuments.Set(float64(len(next.documents)))
	e.log.Info("index ready",
		zap.String("trigger", trigger),
		zap.Int("documents", len(next.documents)),
		zap.String("model", next.model.Name),
		zap.Int("dimension", next.model.Dimension),
		zap.Duration("took", time.Since(start)))
}

// buildFromCorpus runs the full pipeline: ingest, embed, index. The
// returned vectors are handed back so the caller can persist them.
func (e *Engine) buildFromCorpus(ctx context.Context, model domain.ModelIdentity) (*snapshot, [][]float32, error) {
	docs, err := e.source.Ingest(ctx)
	if err != nil {
		return nil, nil, err
	}
	if len(docs) == 0 {
		return nil, nil, fmt.Errorf("%w: corpus produced no documents", domain.ErrCorpusUnavailable)
	}

	texts := make([]string, len(docs))
	for i, doc := range docs {
		texts[i] = doc.Text
	}
	vectors, err := e.provider.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", domain.ErrEmbeddingFailure, err)
	}
	if len(vectors) != len(docs) {
		return nil, nil, fmt.Errorf("%w: got %d vectors for %d documents",
			domain.ErrEmbeddingFailure, len(vectors), len(docs))
	}

	// Trust the width the provider actually emitted over the one it
	// advertises. A disagreement here is how a swapped-out model
	// behind an unchanged name heals itself on rebuild.
	dim := len(vectors[0])
	if dim == 0 {
		return nil, nil, fmt.Errorf("%w: provider returned empty vectors", domain.ErrEmbeddingFailure)
	}
	for i, vec := range vectors {
		if len(vec) != dim {
			return nil, nil, fmt.Errorf("%w: vector %d has width %d, expected %d",
				domain.ErrEmbeddingFailure, i, len(vec), dim)
		}
	}
	if dim != model.Dimension {
		e.log.Warn("provider emitted a different width than advertised",
			zap.String("model", model.Name),
			zap.Int("advertised", model.Dimension),
			zap.Int("observed", dim))
		model.Dimension = dim
	}

	index, err := e.codec.New(model.Dimension)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", domain.ErrIndexBuildFailure, err)
	}
	if err := index.Add(vectors); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", domain.ErrIndexBuildFailure, err)
	}

	return &snapshot{documents: docs, index: index, model: model}, vectors, nil
}

// ==================== Persistence ====================

// loadPersisted walks the store chain for a usable artifact set:
// documents plus either a deserialisable index blob or the raw
// embeddings to rebuild one without re-embedding. Any miss or
// incompatibility reports false and the caller builds from scratch.
func (e *Engine) loadPersisted(ctx context.Context, model domain.ModelIdentity) (*snapshot, bool) {
	docs, ok := loadChain(e, "documents", func(s driven.ArtifactStore) ([]domain.Document, error) {
		return s.LoadDocuments(ctx)
	})
	if !ok || len(docs) == 0 {
		return nil, false
	}

	if blob, ok := loadChain(e, "index blob", func(s driven.ArtifactStore) ([]byte, error) {
		return s.LoadIndexBlob(ctx, model.Name)
	}); ok {
		index, err := e.codec.Deserialize(blob)
		switch {
		case err != nil:
			e.log.Warn("persisted index blob unusable", zap.Error(err))
		case index.Dimensions() != model.Dimension:
			e.log.Warn("persisted index width disagrees with the active model",
				zap.Int("persisted", index.Dimensions()),
				zap.Int("model", model.Dimension))
		case index.Len() != len(docs):
			e.log.Warn("persisted index size disagrees with stored documents",
				zap.Int("vectors", index.Len()),
				zap.Int("documents", len(docs)))
		default:
			return &snapshot{documents: docs, index: index, model: model}, true
		}
	}

	// No usable blob. Raw embeddings can still save a re-embed.
	type embeddingSet struct {
		ids     []string
		vectors [][]float32
	}
	set, ok := loadChain(e, "embeddings", func(s driven.ArtifactStore) (embeddingSet, error) {
		ids, vectors, err := s.LoadEmbeddings(ctx, model.Name)
		return embeddingSet{ids: ids, vectors: vectors}, err
	})
	if !ok || len(set.ids) != len(docs) {
		return nil, false
	}
	for i, id := range set.ids {
		if docs[i].ID != id {
			e.log.Warn("stored embeddings do not line up with stored documents",
				zap.Int("position", i))
			return nil, false
		}
	}

	index, err := e.codec.New(model.Dimension)
	if err != nil {
		return nil, false
	}
	if err := index.Add(set.vectors); err != nil {
		e.log.Warn("stored embeddings unusable", zap.Error(err))
		return nil, false
	}
	e.refreshIndexBlob(ctx, model.Name, index)

	return &snapshot{documents: docs, index: index, model: model}, true
}

// loadChain tries each store in order. ErrNotFound falls through to
// the next backend silently; any other failure counts as a fallback
// and is logged before moving on.
func loadChain[T any](e *Engine, artifact string, load func(driven.ArtifactStore) (T, error)) (T, bool) {
	var zero T
	for i, store := range e.stores {
		v, err := load(store)
		if err == nil {
			return v, true
		}
		if !errors.Is(err, domain.ErrNotFound) {
			next := "none"
			if i+1 < len(e.stores) {
				next = e.stores[i+1].Name()
			}
			metrics.PersistenceFallbacksTotal.WithLabelValues(store.Name(), next).Inc()
			e.log.Warn("artifact store failed, trying next",
				zap.String("artifact", artifact),
				zap.String("store", store.Name()),
				zap.String("next", next),
				zap.Error(err))
		}
	}
	return zero, false
}

// persist writes the artifact set to every configured store, keeping
// primary and fallback in step. One successful backend is enough;
// only when every store rejects the artifacts does persist report an
// error.
func (e *Engine) persist(ctx context.Context, snap *snapshot, vectors [][]float32) error {
	blob, err := snap.index.Serialize()
	if err != nil {
		return fmt.Errorf("%w: serialising index: %v", domain.ErrPersistenceFailure, err)
	}
	ids := make([]string, len(snap.documents))
	for i, doc := range snap.documents {
		ids[i] = doc.ID
	}

	saved := 0
	var firstErr error
	for _, store := range e.stores {
		if err := saveTo(ctx, store, snap, ids, vectors, blob); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			e.log.Warn("artifact store rejected save",
				zap.String("store", store.Name()), zap.Error(err))
			continue
		}
		saved++
	}
	if saved == 0 {
		return fmt.Errorf("%w: no artifact store accepted the index: %v",
			domain.ErrPersistenceFailure, firstErr)
	}
	return nil
}

func saveTo(ctx context.Context, store driven.ArtifactStore, snap *snapshot, ids []string, vectors [][]float32, blob []byte) error {
	if err := store.SaveDocuments(ctx, snap.documents); err != nil {
		return fmt.Errorf("documents: %w", err)
	}
	if err := store.SaveEmbeddings(ctx, ids, vectors, snap.model); err != nil {
		return fmt.Errorf("embeddings: %w", err)
	}
	if err := store.SaveIndexBlob(ctx, snap.model.Name, blob); err != nil {
		return fmt.Errorf("index blob: %w", err)
	}
	return nil
}

// refreshIndexBlob re-persists an index rebuilt from raw embeddings,
// best effort, so the next start can skip the rebuild.
func (e *Engine) refreshIndexBlob(ctx context.Context, modelName string, index driven.VectorIndex) {
	blob, err := index.Serialize()
	if err != nil {
		return
	}
	for _, store := range e.stores {
		if err := store.SaveIndexBlob(ctx, modelName, blob); err != nil {
			e.log.Warn("could not refresh index blob",
				zap.String("store", store.Name()), zap.Error(err))
		}
	}
}

// ==================== Search ====================

// Search runs the retrieval pipeline: preprocess, embed, nearest
// neighbour scan, score, boost, cut. An empty result set with a
// Reason is a valid outcome, not an error.
func (e *Engine) Search(ctx context.Context, query string, opts domain.SearchOptions) (domain.SearchResponse, error) {
	start := time.Now()
	resp, err := e.search(ctx, query, opts)
	metrics.SearchDuration.Observe(time.Since(start).Seconds())
	switch {
	case err != nil:
		metrics.SearchesTotal.WithLabelValues("error").Inc()
	case len(resp.Results) == 0:
		metrics.SearchesTotal.WithLabelValues("empty").Inc()
	default:
		metrics.SearchesTotal.WithLabelValues("ok").Inc()
	}
	return resp, err
}

func (e *Engine) search(ctx context.Context, query string, opts domain.SearchOptions) (domain.SearchResponse, error) {
	snap := e.snap.Load()
	if snap == nil {
		return domain.SearchResponse{}, fmt.Errorf("%w: build the index first", domain.ErrEngineNotReady)
	}
	if strings.TrimSpace(query) == "" {
		return domain.SearchResponse{}, fmt.Errorf("%w: query is empty", domain.ErrInvalidInput)
	}
	opts = opts.Normalised()

	processed := preprocessQuery(query)
	vec, err := e.provider.Embed(ctx, processed)
	if err != nil {
		return domain.SearchResponse{}, fmt.Errorf("%w: %v", domain.ErrQueryEmbeddingFailure, err)
	}

	if len(vec) != snap.index.Dimensions() {
		snap, err = e.recoverDimension(ctx, snap, len(vec))
		if err != nil {
			return domain.SearchResponse{}, err
		}
	}

	if snap.index.Len() == 0 {
		return domain.SearchResponse{Reason: "index is empty"}, nil
	}

	neighbours, err := snap.index.Search(vec, opts.MaxResults*candidateFactor)
	if err != nil {
		return domain.SearchResponse{}, fmt.Errorf("%w: %v", domain.ErrIndexUnavailable, err)
	}
	if len(neighbours) == 0 {
		return domain.SearchResponse{Reason: "index is empty"}, nil
	}

	matched := matchedClusters(e.clusters, query)
	results := make([]domain.SearchResult, 0, len(neighbours))
	for _, n := range neighbours {
		score := 1.0 / (1.0 + n.Distance)
		if score < opts.MinScore {
			continue
		}
		doc := snap.documents[n.Position]
		results = append(results, domain.SearchResult{
			Document: doc,
			Score:    score + keywordBoost(matched, doc.Text),
		})
	}
	if len(results) == 0 {
		return domain.SearchResponse{
			Reason: fmt.Sprintf("no results scored above the %.2f floor", opts.MinScore),
		}, nil
	}

	// Boosts can reorder, so sort again. Stable keeps distance order
	// for equal scores.
	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	if len(results) > opts.MaxResults {
		results = results[:opts.MaxResults]
	}
	return domain.SearchResponse{Results: results}, nil
}

// recoverDimension handles a query vector whose width disagrees with
// the active index: the persisted artifacts belong to a model that
// has since changed size, so rebuild once with the active one and
// retry. A second disagreement is persistent and surfaces as
// ErrDimensionMismatch.
func (e *Engine) recoverDimension(ctx context.Context, stale *snapshot, queryDim int) (*snapshot, error) {
	e.log.Warn("query width disagrees with index, rebuilding once",
		zap.Int("query", queryDim),
		zap.Int("index", stale.index.Dimensions()),
		zap.String("model", e.provider.ModelName()))

	// A rebuild that only failed to persist still swapped a fresh
	// snapshot in, so the query can proceed.
	if err := e.rebuildIfStale(ctx, queryDim); err != nil && !errors.Is(err, domain.ErrPersistenceFailure) {
		return nil, fmt.Errorf("%w: rebuild after width change failed: %v",
			domain.ErrDimensionMismatch, err)
	}
	snap := e.snap.Load()
	if snap == nil {
		return nil, domain.ErrEngineNotReady
	}
	if snap.index.Dimensions() != queryDim {
		return nil, fmt.Errorf("%w: query width %d, index width %d after rebuild",
			domain.ErrDimensionMismatch, queryDim, snap.index.Dimensions())
	}
	return snap, nil
}

// ==================== Lifecycle ====================

// Close releases the engine's resources. Store and provider errors
// are joined so one failure does not hide another.
func (e *Engine) Close() error {
	var errs []error
	for _, store := range e.stores {
		if err := store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("store %s: %w", store.Name(), err))
		}
	}
	if err := e.provider.Close(); err != nil {
		errs = append(errs, fmt.Errorf("embedding provider: %w", err))
	}
	return errors.Join(errs...)
}
