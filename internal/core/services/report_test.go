package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docsmith-labs/docdex/internal/core/domain"
)

func reportDoc(id, path, section, text string) domain.Document {
	return domain.Document{
		ID:   id,
		Text: text,
		Metadata: map[string]any{
			domain.MetaSourcePath: path,
			domain.MetaFileName:   path[strings.LastIndexByte(path, '/')+1:],
			domain.MetaSection:    section,
		},
	}
}

func TestRenderReportGroupsBySource(t *testing.T) {
	resp := domain.SearchResponse{
		Results: []domain.SearchResult{
			{Document: reportDoc("a:0", "setup/install.md", "Requirements", "Installing a module requires a manifest."), Score: 0.83},
			{Document: reportDoc("b:0", "reference/manifest.md", "Manifest fields", "Every manifest declares a name."), Score: 0.55},
			{Document: reportDoc("a:2", "setup/install.md", "Troubleshooting", "When installation fails, check the log."), Score: 0.41},
		},
	}

	out := renderReport("how to install a module", resp, DefaultBoostClusters)

	assert.Contains(t, out, `Found 3 relevant sections for "how to install a module"`)
	assert.Contains(t, out, "## setup/install.md")
	assert.Contains(t, out, "## reference/manifest.md")
	assert.Contains(t, out, "[0.83] Requirements")
	assert.Contains(t, out, "[0.41] Troubleshooting")
	assert.Contains(t, out, "[0.55] Manifest fields")
	assert.Contains(t, out, "Installing a module requires a manifest.")

	// Both hits of the same file sit under one heading.
	assert.Equal(t, 1, strings.Count(out, "## setup/install.md"))

	// Groups appear in the order of their best hit.
	first := strings.Index(out, "## setup/install.md")
	second := strings.Index(out, "## reference/manifest.md")
	assert.Less(t, first, second)
}

func TestRenderReportSingleResultUsesSingular(t *testing.T) {
	resp := domain.SearchResponse{
		Results: []domain.SearchResult{
			{Document: reportDoc("a:0", "setup/install.md", "Requirements", "text"), Score: 0.7},
		},
	}

	out := renderReport("install", resp, DefaultBoostClusters)
	assert.Contains(t, out, "Found 1 relevant section for")
}

func TestRenderReportNoResults(t *testing.T) {
	resp := domain.SearchResponse{Reason: "no results scored above the 0.30 floor"}

	out := renderReport("quantum entanglement", resp, DefaultBoostClusters)

	assert.Contains(t, out, "No relevant information found")
	assert.Contains(t, out, "no results scored above the 0.30 floor")
	assert.NotContains(t, out, "##")
}

func TestRenderReportRelatedSearches(t *testing.T) {
	resp := domain.SearchResponse{Reason: "index is empty"}

	out := renderReport("installing taxes", resp, DefaultBoostClusters)

	require.Contains(t, out, "Related searches:")
	// Members of the matched clusters the user did not type.
	assert.Contains(t, out, "- tax\n")
	assert.NotContains(t, out, "- installing\n")
	assert.NotContains(t, out, "- taxes\n")
}

func TestRenderReportSectionFallbacks(t *testing.T) {
	doc := domain.Document{
		ID:   "x:0",
		Text: "body",
		Metadata: map[string]any{
			domain.MetaSourcePath: "notes.txt",
			domain.MetaFileName:   "notes.txt",
		},
	}
	resp := domain.SearchResponse{
		Results: []domain.SearchResult{{Document: doc, Score: 0.5}},
	}

	out := renderReport("notes", resp, nil)
	assert.Contains(t, out, "[0.50] notes.txt")
}

func TestSnippet(t *testing.T) {
	t.Run("short text passes through collapsed", func(t *testing.T) {
		assert.Equal(t, "a b c", snippet("a\n b\t c", 20))
	})

	t.Run("long text truncates with ellipsis", func(t *testing.T) {
		long := strings.Repeat("word ", 100)
		got := snippet(long, 20)
		assert.True(t, strings.HasSuffix(got, "..."))
		assert.LessOrEqual(t, len([]rune(got)), 23)
	})
}

func TestRelatedSearches(t *testing.T) {
	clusters := [][]string{
		{"install", "installing", "setup"},
		{"tax", "taxes", "vat"},
	}

	t.Run("suggests untyped members of matched clusters", func(t *testing.T) {
		got := relatedSearches(clusters, "installing taxes", 10)
		assert.Equal(t, []string{"install", "setup", "tax", "vat"}, got)
	})

	t.Run("honours the limit", func(t *testing.T) {
		got := relatedSearches(clusters, "installing taxes", 2)
		assert.Equal(t, []string{"install", "setup"}, got)
	})

	t.Run("nothing matched means nothing suggested", func(t *testing.T) {
		assert.Empty(t, relatedSearches(clusters, "warehouse layout", 10))
	})
}
