package cli

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueryCmd_PrintsReport(t *testing.T) {
	fake := &fakeEngine{report: "Found 2 relevant sections for \"taxes\"\n\n## guides/tax.md\n"}
	setupFakeEngine(t, fake)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetArgs([]string{"query", "taxes"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "Found 2 relevant sections")
	assert.Contains(t, buf.String(), "## guides/tax.md")
	assert.Equal(t, 1, fake.buildCalls)
}

func TestQueryCmd_Error(t *testing.T) {
	fake := &fakeEngine{err: errors.New("provider down")}
	setupFakeEngine(t, fake)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"query", "taxes"})
	defer func() {
		rootCmd.SetArgs(nil)
	}()

	err := rootCmd.Execute()

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "query failed")
}
