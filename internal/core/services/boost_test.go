package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchedClusters(t *testing.T) {
	clusters := [][]string{
		{"tax", "taxes", "vat"},
		{"invoice", "billing"},
	}

	t.Run("matches on any member", func(t *testing.T) {
		matched := matchedClusters(clusters, "how are taxes configured")
		require.Len(t, matched, 1)
		assert.Equal(t, clusters[0], matched[0])
	})

	t.Run("matches multiple clusters", func(t *testing.T) {
		matched := matchedClusters(clusters, "invoice with VAT")
		assert.Len(t, matched, 2)
	})

	t.Run("case insensitive", func(t *testing.T) {
		matched := matchedClusters(clusters, "VAT registration")
		require.Len(t, matched, 1)
		assert.Equal(t, clusters[0], matched[0])
	})

	t.Run("whole tokens only", func(t *testing.T) {
		// "syntax" contains "tax" but is a different word.
		assert.Empty(t, matchedClusters(clusters, "syntax highlighting"))
	})

	t.Run("no match", func(t *testing.T) {
		assert.Empty(t, matchedClusters(clusters, "warehouse layout"))
	})
}

func TestKeywordBoost(t *testing.T) {
	cluster := []string{"tax", "taxes", "vat"}

	t.Run("counts occurrences across cluster members", func(t *testing.T) {
		boost := keywordBoost([][]string{cluster}, "The tax report lists tax and VAT totals.")
		assert.InDelta(t, 0.15, boost, 1e-9)
	})

	t.Run("caps occurrences per cluster", func(t *testing.T) {
		boost := keywordBoost([][]string{cluster}, "tax tax tax tax tax tax tax")
		assert.InDelta(t, 0.25, boost, 1e-9)
	})

	t.Run("clusters add up", func(t *testing.T) {
		matched := [][]string{cluster, {"invoice"}}
		boost := keywordBoost(matched, "tax on an invoice")
		assert.InDelta(t, 0.10, boost, 1e-9)
	})

	t.Run("no matched clusters means no boost", func(t *testing.T) {
		assert.Zero(t, keywordBoost(nil, "tax everywhere"))
	})

	t.Run("absent keywords mean no boost", func(t *testing.T) {
		assert.Zero(t, keywordBoost([][]string{cluster}, "recipes for dinner"))
	})
}
