// Package rst provides a Normaliser implementation for
// reStructuredText documentation. It converts underline-style
// headers to plain heading lines, strips directive markers and
// inline roles, and records heading positions for section
// attribution.
package rst

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

// Normaliser handles reStructuredText documents.
type Normaliser struct{}

// New creates a new reStructuredText normaliser.
func New() *Normaliser {
	return &Normaliser{}
}

// Format returns the format name.
func (n *Normaliser) Format() string {
	return "rst"
}

// SupportedExtensions returns the file extensions this normaliser handles.
func (n *Normaliser) SupportedExtensions() []string {
	return []string{".rst", ".rest"}
}

// Normalise extracts plain text from a reStructuredText file.
// Directive marker lines and their option fields are dropped;
// directive bodies are kept and dedented, since admonition and
// code-block content is real documentation text.
func (n *Normaliser) Normalise(_ context.Context, raw *domain.RawDocument) (*domain.SourceDocument, error) {
	if raw == nil {
		return nil, domain.ErrInvalidInput
	}

	stripped, headings := stripRST(string(raw.Content))

	title := ""
	if len(headings) > 0 {
		title = headings[0]
	}
	if title == "" {
		title = normalisers.TitleFromPath(raw.RelPath)
	}

	text := normalisers.CleanWhitespace(stripped)

	return &domain.SourceDocument{
		RelPath:  raw.RelPath,
		Title:    title,
		Text:     text,
		Format:   n.Format(),
		Sections: normalisers.LocateSections(text, headings),
	}, nil
}

// Pre-compiled regular expressions for RST parsing.
var (
	// A section underline or overline: a run of one punctuation
	// character, at least two long. Go's regexp has no
	// backreferences, so each character is spelled out instead of
	// `([...])\1+`.
	adornmentLine = regexp.MustCompile(`^(?:={2,}|-{2,}|~{2,}|\^{2,}|"{2,}|'{2,}|` + "`" + `{2,}|#{2,}|\*{2,}|\+{2,}|\.{2,}|:{2,}|_{2,})\s*$`)

	// A directive marker: .. name:: optional-argument
	directiveLine = regexp.MustCompile(`^\s*\.\.\s+[\w-]+::`)

	// An option field inside a directive: :name: value
	optionLine = regexp.MustCompile(`^\s+:[\w-]+:`)

	// A comment marker: .. followed by anything that is not a
	// directive.
	commentLine = regexp.MustCompile(`^\s*\.\.(\s|$)`)

	// Inline roles: :ref:`target`, :class:`Model` and friends.
	inlineRole = regexp.MustCompile(`:[\w:+-]+:` + "`([^`]*)`")

	// Hyperlink references: `text <url>`_ and `text`_.
	hyperlinkWithTarget = regexp.MustCompile("`([^`<]*?)\\s*<[^>]*>`__?")
	hyperlinkRef        = regexp.MustCompile("`([^`]*)`__?")

	// Literals: ``code``.
	doubleBacktick = regexp.MustCompile("``([^`]*)``")
)

// stripRST walks the source line by line, converting underline-style
// headers, dropping directive and comment markers, and stripping
// inline markup. It returns the plain text and the headings found,
// in document order.
func stripRST(content string) (string, []string) {
	lines := strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")

	var (
		out       []string
		headings  []string
		inOptions bool
	)

	for i := 0; i < len(lines); i++ {
		line := lines[i]

		// Option fields immediately after a directive marker.
		if inOptions {
			if optionLine.MatchString(line) {
				continue
			}
			inOptions = false
		}

		if directiveLine.MatchString(line) {
			inOptions = true
			continue
		}
		if commentLine.MatchString(line) {
			continue
		}

		// Overline+underline header: adornment, title, matching
		// adornment.
		if adornmentLine.MatchString(line) && i+2 < len(lines) {
			title := strings.TrimSpace(lines[i+1])
			if title != "" && !adornmentLine.MatchString(lines[i+1]) && adornmentLine.MatchString(lines[i+2]) {
				h := stripInline(title)
				headings = append(headings, h)
				out = append(out, h)
				i += 2
				continue
			}
		}

		// Underline-only header: title followed by adornment at
		// least as long as the title.
		if i+1 < len(lines) && strings.TrimSpace(line) != "" && !adornmentLine.MatchString(line) {
			next := lines[i+1]
			if adornmentLine.MatchString(next) && len(strings.TrimRight(next, " \t")) >= len(strings.TrimSpace(line)) {
				h := stripInline(strings.TrimSpace(line))
				headings = append(headings, h)
				out = append(out, h)
				i++
				continue
			}
		}

		// A stray adornment line is decoration, not content.
		if adornmentLine.MatchString(line) {
			continue
		}

		out = append(out, stripInline(strings.TrimLeft(line, " \t")))
	}

	return strings.Join(out, "\n"), headings
}

// stripInline removes inline RST markup from a single line.
func stripInline(s string) string {
	s = doubleBacktick.ReplaceAllString(s, "$1")
	s = inlineRole.ReplaceAllString(s, "$1")
	s = hyperlinkWithTarget.ReplaceAllString(s, "$1")
	s = hyperlinkRef.ReplaceAllString(s, "$1")
	s = strings.ReplaceAll(s, "**", "")
	return s
}
