// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the engine to function:
//
//   - CorpusReader: Walks the corpus directory and yields raw files
//   - Normaliser: Extracts plain text from a markup format
//   - NormaliserRegistry: Selects the normaliser for a file
//   - ChunkProcessor: Splits normalised text into retrieval units
//   - EmbeddingService: Generates vector embeddings
//   - VectorIndex / VectorIndexCodec: Vector storage, search, serialisation
//   - ArtifactStore: Persists documents, embeddings, and index blobs
//
// # Fallback Behaviour
//
// The engine takes a chain of ArtifactStores. It persists to the first
// store that works and falls through to the next on failure, so a
// database-backed store can degrade to flat files without losing the
// crash-safety guarantee.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or normaliser package
package driven
