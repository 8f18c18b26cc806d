package domain

// RawDocument represents opaque bytes read from the corpus directory.
// It is the corpus walker's output before normalisation.
type RawDocument struct {
	// Path is the absolute path of the file on disk.
	Path string

	// RelPath is the path relative to the corpus root, using
	// forward slashes. It is stable across machines and is the
	// basis for chunk identifiers.
	RelPath string

	// Content is the raw bytes.
	Content []byte
}

// SourceDocument represents a corpus file after markup extraction.
// It is the normaliser's output before chunking.
type SourceDocument struct {
	// RelPath is the corpus-relative path of the originating file.
	RelPath string

	// Title is the human-readable title. Normalisers derive it
	// from the first heading where the format has one, falling
	// back to the file name.
	Title string

	// Text is the plain text content after markup removal.
	Text string

	// Format identifies the source markup ("markdown", "html",
	// "rst", "plaintext").
	Format string

	// Sections locate the document's headings within Text, in
	// document order. Chunks are tagged with the nearest heading
	// at or before their start offset. Empty for formats without
	// headings.
	Sections []Section
}

// Section is a heading's position within a SourceDocument's Text.
type Section struct {
	// Offset is the byte offset of the heading line in Text.
	Offset int

	// Title is the heading text with markup removed.
	Title string
}

// SectionAt returns the title of the nearest heading at or before
// the given offset, or "" when none precedes it.
func (s SourceDocument) SectionAt(offset int) string {
	title := ""
	for _, sec := range s.Sections {
		if sec.Offset > offset {
			break
		}
		title = sec.Title
	}
	return title
}
