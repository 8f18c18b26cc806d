// Package domain defines the core business entities for docdex.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - RawDocument: Opaque bytes read from the corpus
//   - SourceDocument: A corpus file after markup extraction
//   - Document: A chunked retrieval unit with metadata
//   - ModelIdentity: An embedding model's name and vector dimension
//   - SearchResult / SearchResponse: Ranked retrieval output
//   - EngineState: The retrieval engine's lifecycle state
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
