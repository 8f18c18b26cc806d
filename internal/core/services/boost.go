package services

import (
	"regexp"
	"strings"
)

// DefaultBoostClusters groups the recurring topic keywords of a
// business documentation corpus. When any member of a cluster appears
// in the raw query, candidate chunks earn a score boost per
// occurrence of the cluster's members in their text. Overridable from
// configuration.
var DefaultBoostClusters = [][]string{
	{"tax", "taxes", "taxation", "vat", "fiscal"},
	{"invoice", "invoices", "invoicing", "billing"},
	{"module", "modules", "addon", "addons", "manifest"},
	{"install", "installing", "installation", "setup"},
	{"account", "accounting", "ledger", "journal"},
	{"inventory", "stock", "warehouse"},
	{"sale", "sales", "order", "quotation"},
	{"payroll", "salary", "wage"},
}

const (
	// boostPerOccurrence is the score added per counted occurrence
	// of a matched cluster's keywords in a candidate chunk.
	boostPerOccurrence = 0.05

	// boostOccurrenceCap bounds how many occurrences of one cluster
	// can contribute, so keyword-dense chunks cannot run away.
	boostOccurrenceCap = 5
)

var wordPattern = regexp.MustCompile(`[\p{L}\p{N}]+`)

// matchedClusters returns the clusters with at least one member
// present in the raw query. Matching is against the query as typed,
// before preprocessing, and compares whole tokens so "syntax" never
// matches "tax".
func matchedClusters(clusters [][]string, rawQuery string) [][]string {
	queryTokens := tokenSet(rawQuery)
	var matched [][]string //nolint:prealloc // most queries match few clusters
	for _, cluster := range clusters {
		for _, kw := range cluster {
			if _, ok := queryTokens[kw]; ok {
				matched = append(matched, cluster)
				break
			}
		}
	}
	return matched
}

// keywordBoost computes the additive boost for one chunk: per matched
// cluster, boostPerOccurrence times the capped occurrence count of
// that cluster's keywords in the text.
func keywordBoost(matched [][]string, text string) float64 {
	if len(matched) == 0 {
		return 0
	}
	counts := tokenCounts(text)
	var boost float64
	for _, cluster := range matched {
		occurrences := 0
		for _, kw := range cluster {
			occurrences += counts[kw]
		}
		if occurrences > boostOccurrenceCap {
			occurrences = boostOccurrenceCap
		}
		boost += boostPerOccurrence * float64(occurrences)
	}
	return boost
}

// tokenSet lowercases the text and returns its distinct word tokens.
func tokenSet(text string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range wordPattern.FindAllString(strings.ToLower(text), -1) {
		set[tok] = struct{}{}
	}
	return set
}

// tokenCounts lowercases the text and counts each word token.
func tokenCounts(text string) map[string]int {
	counts := make(map[string]int)
	for _, tok := range wordPattern.FindAllString(strings.ToLower(text), -1) {
		counts[tok]++
	}
	return counts
}
