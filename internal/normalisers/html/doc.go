// Package html provides a Normaliser implementation for HTML
// documentation pages. It extracts readable text, stripping tags,
// scripts and styles, decoding entities, and recording heading
// positions for section attribution.
package html
