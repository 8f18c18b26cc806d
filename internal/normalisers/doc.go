// Package normalisers provides implementations of the Normaliser interface
// for various documentation formats. Each normaliser knows how to extract
// plain text from a specific markup family.
//
// Normalisers are registered with the Registry at startup. The Registry
// dispatches on file extension and doubles as the corpus walker's list
// of recognised extensions.
//
// All formats share the same whitespace cleanup so chunk boundaries are
// stable regardless of source markup: runs of three or more newlines
// collapse to two, runs of spaces and tabs collapse to one, and the
// result is trimmed.
package normalisers
