package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/docsmith-labs/docdex/internal/core/domain"
)

const (
	// snippetLen is how many runes of a chunk the report shows.
	snippetLen = 160

	// maxRelated caps the related-search suggestions per report.
	maxRelated = 4
)

// Report runs Search and renders the outcome as a plain-text report
// for terminal display. A query with no matches renders a structured
// no-results report; it is not an error.
func (e *Engine) Report(ctx context.Context, query string, opts domain.SearchOptions) (string, error) {
	resp, err := e.Search(ctx, query, opts)
	if err != nil {
		return "", err
	}
	return renderReport(query, resp, e.clusters), nil
}

// renderReport formats a search response: hits grouped by source
// file in rank order, each citing its section and score.
func renderReport(query string, resp domain.SearchResponse, clusters [][]string) string {
	var b strings.Builder

	if len(resp.Results) == 0 {
		reason := resp.Reason
		if reason == "" {
			reason = "no results"
		}
		fmt.Fprintf(&b, "No relevant information found for %q (%s).\n", query, reason)
		writeRelated(&b, clusters, query)
		return b.String()
	}

	noun := "sections"
	if len(resp.Results) == 1 {
		noun = "section"
	}
	fmt.Fprintf(&b, "Found %d relevant %s for %q\n", len(resp.Results), noun, query)

	for _, group := range groupBySource(resp.Results) {
		fmt.Fprintf(&b, "\n## %s\n", group.path)
		for _, res := range group.results {
			fmt.Fprintf(&b, "  [%.2f] %s\n", res.Score, sectionLabel(res.Document))
			fmt.Fprintf(&b, "    %s\n", snippet(res.Document.Text, snippetLen))
		}
	}

	writeRelated(&b, clusters, query)
	return b.String()
}

// sourceGroup collects the hits of one source file, in rank order.
type sourceGroup struct {
	path    string
	results []domain.SearchResult
}

// groupBySource buckets results per source file. Groups appear in
// the order of their best hit, and hits keep rank order within a
// group.
func groupBySource(results []domain.SearchResult) []sourceGroup {
	index := make(map[string]int)
	var groups []sourceGroup //nolint:prealloc // group count unknown
	for _, res := range results {
		path := res.Document.SourcePath()
		if path == "" {
			path = "(unknown source)"
		}
		i, ok := index[path]
		if !ok {
			i = len(groups)
			index[path] = i
			groups = append(groups, sourceGroup{path: path})
		}
		groups[i].results = append(groups[i].results, res)
	}
	return groups
}

// sectionLabel cites where in the source file the chunk sits.
func sectionLabel(doc domain.Document) string {
	if s := doc.Section(); s != "" {
		return s
	}
	if t := doc.Title(); t != "" {
		return t
	}
	if f := doc.FileName(); f != "" {
		return f
	}
	return "untitled"
}

// snippet collapses whitespace and truncates to limit runes.
func snippet(text string, limit int) string {
	collapsed := strings.Join(strings.Fields(text), " ")
	runes := []rune(collapsed)
	if len(runes) <= limit {
		return collapsed
	}
	return string(runes[:limit]) + "..."
}

func writeRelated(b *strings.Builder, clusters [][]string, query string) {
	related := relatedSearches(clusters, query, maxRelated)
	if len(related) == 0 {
		return
	}
	b.WriteString("\nRelated searches:\n")
	for _, r := range related {
		fmt.Fprintf(b, "  - %s\n", r)
	}
}

// relatedSearches suggests alternate query terms: members of the
// matched keyword clusters the user did not already type.
func relatedSearches(clusters [][]string, rawQuery string, limit int) []string {
	queryTokens := tokenSet(rawQuery)
	var out []string //nolint:prealloc // bounded by limit
	for _, cluster := range matchedClusters(clusters, rawQuery) {
		for _, kw := range cluster {
			if _, ok := queryTokens[kw]; ok {
				continue
			}
			out = append(out, kw)
			if len(out) == limit {
				return out
			}
		}
	}
	return out
}
