package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedFormat indicates no normaliser handles the
	// file's format.
	ErrUnsupportedFormat = errors.New("unsupported format")

	// Ingestion Errors.

	// ErrCorpusUnavailable indicates the corpus directory is
	// missing or unreadable.
	ErrCorpusUnavailable = errors.New("corpus unavailable")

	// ErrEmbeddingFailure indicates embedding the corpus failed.
	ErrEmbeddingFailure = errors.New("embedding failure")

	// ErrIndexBuildFailure indicates assembling the vector index
	// failed.
	ErrIndexBuildFailure = errors.New("index build failure")

	// ErrPersistenceFailure indicates saving or loading index
	// artifacts failed on every configured backend. A build that
	// fails only to persist still serves from memory; the error is
	// surfaced so operators know the artifacts are not durable.
	ErrPersistenceFailure = errors.New("persistence failure")

	// ErrDimensionConflict indicates a vector's width disagrees
	// with its model's declared dimension. Raised at persistence
	// and index-build time.
	ErrDimensionConflict = errors.New("embedding dimension conflict")

	// Query Errors.

	// ErrEngineNotReady indicates the engine has not finished its
	// initial build. Queries fail fast rather than block.
	ErrEngineNotReady = errors.New("engine not ready")

	// ErrQueryEmbeddingFailure indicates embedding the query text
	// failed.
	ErrQueryEmbeddingFailure = errors.New("query embedding failure")

	// ErrDimensionMismatch indicates the query vector's dimension
	// disagrees with the loaded index. Recoverable: the engine
	// rebuilds once with the active model before giving up.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// Service Availability Errors.

	// ErrEmbeddingUnavailable indicates the embedding service is
	// not configured or unreachable.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrIndexUnavailable indicates the vector index is not
	// loaded. Semantic similarity search is disabled.
	ErrIndexUnavailable = errors.New("vector index unavailable")
)
