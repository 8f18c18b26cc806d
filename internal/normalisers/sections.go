package normalisers

import (
	"strings"

	"github.com/docsmith-labs/docdex/internal/core/domain"
)

// LocateSections maps heading texts to their offsets in the cleaned
// document text. Headings must be passed in document order; each is
// searched for from the previous heading's position, so repeated
// headings resolve in order. Headings that cannot be found (edge
// cases of aggressive markup stripping) are skipped.
func LocateSections(text string, headings []string) []domain.Section {
	if len(headings) == 0 {
		return nil
	}

	sections := make([]domain.Section, 0, len(headings))
	pos := 0
	for _, h := range headings {
		h = CleanWhitespace(h)
		if h == "" {
			continue
		}
		idx := strings.Index(text[pos:], h)
		if idx < 0 {
			continue
		}
		offset := pos + idx
		sections = append(sections, domain.Section{Offset: offset, Title: h})
		pos = offset + len(h)
	}
	return sections
}
