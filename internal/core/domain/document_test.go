package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDocument_Fields tests Document structure fields
func TestDocument_Fields(t *testing.T) {
	doc := Document{
		ID:   "guide/install.md:2",
		Text: "Run the installer and follow the prompts.",
		Metadata: map[string]any{
			MetaSourcePath:  "guide/install.md",
			MetaFileName:    "install.md",
			MetaChunkIndex:  2,
			MetaTotalChunks: 5,
			MetaSection:     "Installation",
			MetaFormat:      "markdown",
		},
	}

	assert.Equal(t, "guide/install.md:2", doc.ID)
	assert.Equal(t, "Run the installer and follow the prompts.", doc.Text)
	assert.Equal(t, "guide/install.md", doc.Metadata[MetaSourcePath])
	assert.Equal(t, 2, doc.Metadata[MetaChunkIndex])
}

// TestDocument_MetadataHelpers tests the typed metadata accessors
func TestDocument_MetadataHelpers(t *testing.T) {
	doc := Document{
		ID:   "guide/install.md:0",
		Text: "Welcome.",
		Metadata: map[string]any{
			MetaSourcePath:  "guide/install.md",
			MetaFileName:    "install.md",
			MetaChunkIndex:  0,
			MetaTotalChunks: 3,
			MetaSection:     "Overview",
		},
	}

	assert.Equal(t, "guide/install.md", doc.SourcePath())
	assert.Equal(t, "install.md", doc.FileName())
	assert.Equal(t, "Overview", doc.Section())
	assert.Equal(t, 0, doc.ChunkIndex())
	assert.Equal(t, 3, doc.TotalChunks())
}

// TestDocument_NilMetadata tests accessors on a document with nil metadata
func TestDocument_NilMetadata(t *testing.T) {
	doc := Document{ID: "a.txt:0", Text: "text", Metadata: nil}

	assert.Empty(t, doc.SourcePath())
	assert.Empty(t, doc.FileName())
	assert.Empty(t, doc.Section())
	assert.Equal(t, -1, doc.ChunkIndex())
	assert.Equal(t, -1, doc.TotalChunks())
}

// TestDocument_MissingSection tests a chunk from a format without headings
func TestDocument_MissingSection(t *testing.T) {
	doc := Document{
		ID:   "notes.txt:0",
		Text: "Plain notes.",
		Metadata: map[string]any{
			MetaSourcePath: "notes.txt",
			MetaFileName:   "notes.txt",
			MetaChunkIndex: 0,
		},
	}

	assert.Empty(t, doc.Section())
}

// TestDocument_NumericMetadataWidths tests that chunk indices survive
// round-trips through storage layers that widen integers
func TestDocument_NumericMetadataWidths(t *testing.T) {
	tests := []struct {
		name  string
		value any
		want  int
	}{
		{"int", 4, 4},
		{"int64", int64(4), 4},
		{"float64", float64(4), 4},
		{"string is not numeric", "4", -1},
		{"nil", nil, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := Document{Metadata: map[string]any{MetaChunkIndex: tt.value}}
			assert.Equal(t, tt.want, doc.ChunkIndex())
		})
	}
}

// TestRawDocument_Fields tests RawDocument structure fields
func TestRawDocument_Fields(t *testing.T) {
	raw := RawDocument{
		Path:    "/srv/docs/guide/install.md",
		RelPath: "guide/install.md",
		Content: []byte("# Install\n"),
	}

	assert.Equal(t, "/srv/docs/guide/install.md", raw.Path)
	assert.Equal(t, "guide/install.md", raw.RelPath)
	assert.Equal(t, []byte("# Install\n"), raw.Content)
}

// TestSourceDocument_Fields tests SourceDocument structure fields
func TestSourceDocument_Fields(t *testing.T) {
	src := SourceDocument{
		RelPath: "guide/install.md",
		Title:   "Install",
		Text:    "Install\n\nRun the installer.",
		Format:  "markdown",
	}

	assert.Equal(t, "guide/install.md", src.RelPath)
	assert.Equal(t, "Install", src.Title)
	assert.Equal(t, "markdown", src.Format)
	require.NotEmpty(t, src.Text)
}

// TestSourceDocument_SectionAt tests nearest-heading lookup
func TestSourceDocument_SectionAt(t *testing.T) {
	src := SourceDocument{
		Text: "Intro\n\nbody\n\nSetup\n\nmore body\n\nUsage\n\ntail",
		Sections: []Section{
			{Offset: 0, Title: "Intro"},
			{Offset: 12, Title: "Setup"},
			{Offset: 30, Title: "Usage"},
		},
	}

	assert.Equal(t, "Intro", src.SectionAt(0))
	assert.Equal(t, "Intro", src.SectionAt(11))
	assert.Equal(t, "Setup", src.SectionAt(12))
	assert.Equal(t, "Setup", src.SectionAt(29))
	assert.Equal(t, "Usage", src.SectionAt(500))
}

// TestSourceDocument_SectionAt_NoSections tests formats without headings
func TestSourceDocument_SectionAt_NoSections(t *testing.T) {
	src := SourceDocument{Text: "plain text"}
	assert.Empty(t, src.SectionAt(0))
}
