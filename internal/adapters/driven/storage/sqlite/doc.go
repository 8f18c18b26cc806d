// Package sqlite implements the ArtifactStore port on SQLite.
//
// It uses modernc.org/sqlite, a pure Go SQLite implementation that
// requires no CGO, so the binary cross-compiles cleanly. One database
// file holds all three index artifacts: the chunked documents, the
// per-model embeddings, and one serialised vector index per model.
// Schema changes ship as embedded migrations applied at open time.
//
// The store is the primary backend in the default configuration; the
// flat-file store in the sibling package is its fallback.
package sqlite
