package driving

import (
	"context"

	"github.com/docsmith-labs/docdex/internal/core/domain"
)

// RetrievalEngine is the application's main driving port: it owns
// the index lifecycle and answers queries against it.
type RetrievalEngine interface {
	// Build brings the engine to Ready, loading persisted
	// artifacts when they exist and ingesting the corpus when
	// they do not. Calling Build on a Ready engine is a no-op.
	Build(ctx context.Context) error

	// Rebuild discards persisted artifacts and rebuilds from the
	// corpus with the active embedding model. Queries keep being
	// served from the previous snapshot until the replacement is
	// ready.
	Rebuild(ctx context.Context) error

	// Search answers a query against the current snapshot. It
	// fails with domain.ErrEngineNotReady before the first
	// successful Build.
	Search(ctx context.Context, query string, opts domain.SearchOptions) (domain.SearchResponse, error)

	// Report runs Search and renders the outcome as a formatted
	// plain-text report for terminal display.
	Report(ctx context.Context, query string, opts domain.SearchOptions) (string, error)

	// State returns the engine's lifecycle state.
	State() domain.EngineState

	// Stats returns the engine state together with the active
	// snapshot's document count and model identity.
	Stats() domain.EngineStats

	// Close releases the engine's resources, including its stores
	// and embedding client.
	Close() error
}
