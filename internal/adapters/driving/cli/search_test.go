package cli

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docsmith-labs/docdex/internal/core/domain"
)

func searchResult(id, path, section, text string, score float64) domain.SearchResult {
	return domain.SearchResult{
		Document: domain.Document{
			ID:   id,
			Text: text,
			Metadata: map[string]any{
				domain.MetaSourcePath: path,
				domain.MetaSection:    section,
			},
		},
		Score: score,
	}
}

func TestSearchCmd_Use(t *testing.T) {
	assert.Equal(t, "search [query]", searchCmd.Use)
}

func TestSearchCmd_RequiresExactlyOneArg(t *testing.T) {
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"search"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestSearchCmd_HasLimitFlag(t *testing.T) {
	flag := searchCmd.Flags().Lookup("limit")
	require.NotNil(t, flag, "limit flag should exist")
	assert.Equal(t, "n", flag.Shorthand)
}

func TestSearchCmd_TableOutput(t *testing.T) {
	fake := &fakeEngine{resp: domain.SearchResponse{Results: []domain.SearchResult{
		searchResult("setup/install.md:0", "setup/install.md", "Requirements", "Installing a module requires a manifest.", 0.83),
		searchResult("guides/tax.md:1", "guides/tax.md", "VAT", "Configure tax rates per country.", 0.61),
	}}}
	setupFakeEngine(t, fake)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"search", "how to install"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "Results:")
	assert.Contains(t, out, "[1] Requirements (0.83)")
	assert.Contains(t, out, "Source: setup/install.md")
	assert.Contains(t, out, "[2] VAT (0.61)")
	assert.Equal(t, 1, fake.buildCalls, "search should load the index first")
	assert.True(t, fake.closed)
}

func TestSearchCmd_NoResultsPrintsReason(t *testing.T) {
	fake := &fakeEngine{resp: domain.SearchResponse{Reason: "no results scored above the 0.30 floor"}}
	setupFakeEngine(t, fake)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"search", "xylophone"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "No results: no results scored above the 0.30 floor")
}

func TestSearchCmd_JSONOutput(t *testing.T) {
	fake := &fakeEngine{resp: domain.SearchResponse{Results: []domain.SearchResult{
		searchResult("a.md:0", "a.md", "Intro", "Some text.", 0.9),
	}}}
	setupFakeEngine(t, fake)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"search", "--json", "intro"})
	defer func() {
		rootCmd.SetArgs(nil)
		searchJSON = false
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, `"id": "a.md:0"`)
	assert.Contains(t, out, `"source": "a.md"`)
	assert.Contains(t, out, `"score": 0.9`)
}

func TestSearchCmd_SearchError(t *testing.T) {
	fake := &fakeEngine{err: errors.New("index corrupt")}
	setupFakeEngine(t, fake)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"search", "anything"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "search failed")
}

func TestSearchCmd_BuildError(t *testing.T) {
	fake := &fakeEngine{buildErr: domain.ErrCorpusUnavailable}
	setupFakeEngine(t, fake)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"search", "anything"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.ErrorIs(t, err, domain.ErrCorpusUnavailable)
}

func TestSearchCmd_ToleratesPersistenceFailure(t *testing.T) {
	fake := &fakeEngine{
		buildErr: domain.ErrPersistenceFailure,
		resp: domain.SearchResponse{Results: []domain.SearchResult{
			searchResult("a.md:0", "a.md", "Intro", "Some text.", 0.9),
		}},
	}
	setupFakeEngine(t, fake)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"search", "intro"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Results:")
}

func TestExcerpt(t *testing.T) {
	assert.Equal(t, "a b c", excerpt("  a\n\tb   c ", 120))
	assert.Equal(t, "abcde...", excerpt("abcdefgh", 5))
	assert.Equal(t, "", excerpt("   ", 120))
}
