package markdown

import (
	"context"
	"regexp"
	"strings"

	"github.com/docsmith-labs/docdex/internal/core/domain"
	"github.com/docsmith-labs/docdex/internal/core/ports/driven"
	"github.com/docsmith-labs/docdex/internal/normalisers"
)

// Ensure Normaliser implements the interface.
var _ driven.Normaliser = (*Normaliser)(nil)

// Normaliser handles Markdown documents.
type Normaliser struct{}

// New creates a new Markdown normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// Format returns the format name.
func (n *Normaliser) Format() string {
	return "markdown"
}

// SupportedExtensions returns the file extensions this normaliser handles.
func (n *Normaliser) SupportedExtensions() []string {
	return []string{".md", ".markdown", ".mdx"}
}

// Normalise extracts plain text from a markdown file. Fence markers
// are stripped but code block content is kept: documentation code
// examples are exactly what users search for.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*domain.SourceDocument, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	rawContent := string(raw.Content)

	headings := extractHeadings(rawContent)

	title := firstH1(rawContent)
	if title == "" {
		title = normalisers.TitleFromPath(raw.RelPath)
	}

	text := normalisers.CleanWhitespace(stripMarkdown(rawContent))

	return &domain.SourceDocument{
		RelPath:  raw.RelPath,
		Title:    title,
		Text:     text,
		Format:   n.Format(),
		Sections: normalisers.LocateSections(text, headings),
	}, nil
}

// Pre-compiled regular expressions for markdown stripping.
var (
	fenceMarker   = regexp.MustCompile("(?m)^```[^\n]*$")
	inlineCode    = regexp.MustCompile("`([^`]*)`")
	images        = regexp.MustCompile(`!\[[^\]]*\]\([^)]+\)`)
	links         = regexp.MustCompile(`\[([^\]]+)\]\([^)]+\)`)
	headingMarker = regexp.MustCompile(`(?m)^#{1,6}\s+`)
	blockquote    = regexp.MustCompile(`(?m)^>\s*`)
	horizontal    = regexp.MustCompile(`(?m)^[-*_]{3,}\s*$`)
	listMarkers   = regexp.MustCompile(`(?m)^(\s*)[-*+]\s+`)
	numberedList  = regexp.MustCompile(`(?m)^(\s*)\d+\.\s+`)
	headingLine   = regexp.MustCompile(`(?m)^(#{1,6})\s+(.+)$`)
	h1Line        = regexp.MustCompile(`(?m)^#\s+(.+)$`)
)

// firstH1 returns the first level-1 heading, or "".
func firstH1(content string) string {
	if m := h1Line.FindStringSubmatch(content); len(m) > 1 {
		return strings.TrimSpace(stripInline(m[1]))
	}
	return ""
}

// extractHeadings returns all heading texts in document order, with
// inline markup removed.
func extractHeadings(content string) []string {
	matches := headingLine.FindAllStringSubmatch(content, -1)
	headings := make([]string, 0, len(matches))
	for _, m := range matches {
		h := strings.TrimSpace(stripInline(m[2]))
		if h != "" {
			headings = append(headings, h)
		}
	}
	return headings
}

// stripInline removes inline markup from a single line.
func stripInline(s string) string {
	s = images.ReplaceAllString(s, "")
	s = links.ReplaceAllString(s, "$1")
	s = inlineCode.ReplaceAllString(s, "$1")
	s = strings.ReplaceAll(s, "**", "")
	s = strings.ReplaceAll(s, "__", "")
	s = strings.ReplaceAll(s, "*", "")
	return s
}

// stripMarkdown removes markdown formatting, keeping the readable
// text including code block content.
func stripMarkdown(content string) string {
	content = fenceMarker.ReplaceAllString(content, "")
	content = images.ReplaceAllString(content, "")
	content = links.ReplaceAllString(content, "$1")
	content = inlineCode.ReplaceAllString(content, "$1")
	content = headingMarker.ReplaceAllString(content, "")
	content = strings.ReplaceAll(content, "**", "")
	content = strings.ReplaceAll(content, "__", "")
	content = blockquote.ReplaceAllString(content, "")
	content = horizontal.ReplaceAllString(content, "")
	content = listMarkers.ReplaceAllString(content, "$1")
	content = numberedList.ReplaceAllString(content, "$1")
	return content
}
