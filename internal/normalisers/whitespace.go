package normalisers

import (
	"path/filepath"
	"regexp"
	"strings"
)

var (
	multiSpaces   = regexp.MustCompile(`[ \t]+`)
	multiNewlines = regexp.MustCompile(`\n{3,}`)
	trailingWS    = regexp.MustCompile(`(?m)[ \t]+$`)
)

// CleanWhitespace applies the shared whitespace normalisation:
// collapse runs of spaces and tabs to one space, strip trailing
// whitespace per line, collapse three or more newlines to two, and
// trim. Every normaliser runs its output through this so chunking
// sees uniform text.
func CleanWhitespace(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = multiSpaces.ReplaceAllString(text, " ")
	text = trailingWS.ReplaceAllString(text, "")
	text = multiNewlines.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}

// TitleFromPath derives a human-readable title from a file path:
// base name without extension, underscores and hyphens as spaces.
func TitleFromPath(path string) string {
	name := filepath.Base(path)
	if ext := filepath.Ext(name); ext != "" {
		name = strings.TrimSuffix(name, ext)
	}
	name = strings.ReplaceAll(name, "_", " ")
	name = strings.ReplaceAll(name, "-", " ")
	return name
}
