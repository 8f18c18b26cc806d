package domain

// Metadata keys attached to every Document at chunking time.
// Values are stored as-is in the metadata map; numeric values
// use int.
const (
	// MetaSourcePath is the corpus-relative path of the source file.
	MetaSourcePath = "source_path"

	// MetaFileName is the base name of the source file.
	MetaFileName = "file_name"

	// MetaChunkIndex is the zero-based position of the chunk
	// within its source file.
	MetaChunkIndex = "chunk_index"

	// MetaTotalChunks is the number of chunks the source file
	// produced.
	MetaTotalChunks = "total_chunks"

	// MetaSection is the nearest preceding heading, when the
	// source format has headings.
	MetaSection = "section"

	// MetaFormat is the source markup format.
	MetaFormat = "format"

	// MetaTitle is the source file's document title.
	MetaTitle = "title"
)

// Document represents a single retrieval unit: one chunk of a
// corpus file together with its provenance metadata. Documents are
// immutable after creation; re-ingestion replaces them wholesale.
type Document struct {
	// ID is the unique identifier, derived deterministically from
	// the source path and chunk position ("<rel_path>:<index>").
	// Re-ingesting an unchanged corpus yields identical IDs.
	ID string

	// Text is the chunk's text content.
	Text string

	// Metadata contains provenance key-value pairs. See the Meta*
	// constants for the keys every chunk carries.
	Metadata map[string]any
}

// SourcePath returns the corpus-relative path of the file this
// chunk came from, or "" when the metadata is absent.
func (d Document) SourcePath() string {
	return d.metaString(MetaSourcePath)
}

// FileName returns the base name of the source file, or "".
func (d Document) FileName() string {
	return d.metaString(MetaFileName)
}

// Section returns the nearest heading above this chunk, or "".
func (d Document) Section() string {
	return d.metaString(MetaSection)
}

// Title returns the source file's document title, or "".
func (d Document) Title() string {
	return d.metaString(MetaTitle)
}

// ChunkIndex returns the chunk's position within its source file,
// or -1 when the metadata is absent.
func (d Document) ChunkIndex() int {
	return d.metaInt(MetaChunkIndex)
}

// TotalChunks returns how many chunks the source file produced,
// or -1 when the metadata is absent.
func (d Document) TotalChunks() int {
	return d.metaInt(MetaTotalChunks)
}

func (d Document) metaString(key string) string {
	if d.Metadata == nil {
		return ""
	}
	if s, ok := d.Metadata[key].(string); ok {
		return s
	}
	return ""
}

func (d Document) metaInt(key string) int {
	if d.Metadata == nil {
		return -1
	}
	switch v := d.Metadata[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return -1
}
